// Package matching finds a qualified graduate for a farmer's request using
// a widening geographic search.
package matching

import (
	"context"
	"log/slog"

	"github.com/umurima-rw/umurima/internal/domain"
	"github.com/umurima-rw/umurima/internal/store"
)

// GraduateFinder is the slice of the store the engine needs.
type GraduateFinder interface {
	FindAvailableGraduates(ctx context.Context, q store.GraduateQuery) ([]*domain.Graduate, error)
}

// Engine matches service requests to available graduates.
type Engine struct {
	repo GraduateFinder
}

// NewEngine creates a matching engine backed by the given graduate store.
func NewEngine(repo GraduateFinder) *Engine {
	return &Engine{repo: repo}
}

// FindMatch returns the best available graduate for the farmer's location
// and service type, or (nil, nil) when none exists.
//
// The search starts at the farmer's cell and relaxes one level at a time:
// cell, then sector, then district, then province. It never widens past the
// province: cross-province assignment is a policy boundary, not a fallback.
// Availability and expertise filters apply at every level. Within a level the
// first graduate in store order wins; no rating or distance ranking exists
// yet, though the graduate record carries coordinates for one.
func (e *Engine) FindMatch(ctx context.Context, loc domain.Location, svc domain.ServiceType) (*domain.Graduate, error) {
	queries := []store.GraduateQuery{
		{ServiceType: svc, ProvinceCode: loc.ProvinceCode, DistrictCode: loc.DistrictCode, SectorCode: loc.SectorCode, CellCode: loc.CellCode},
		{ServiceType: svc, ProvinceCode: loc.ProvinceCode, DistrictCode: loc.DistrictCode, SectorCode: loc.SectorCode},
		{ServiceType: svc, ProvinceCode: loc.ProvinceCode, DistrictCode: loc.DistrictCode},
		{ServiceType: svc, ProvinceCode: loc.ProvinceCode},
	}
	levels := []string{"cell", "sector", "district", "province"}

	for i, q := range queries {
		grads, err := e.repo.FindAvailableGraduates(ctx, q)
		if err != nil {
			return nil, err
		}
		if len(grads) > 0 {
			slog.Debug("Graduate matched",
				"level", levels[i],
				"graduate_phone", grads[0].Phone,
				"service_type", svc,
				"candidates", len(grads))
			return grads[0], nil
		}
	}

	slog.Debug("No graduate available in province",
		"province_code", loc.ProvinceCode,
		"service_type", svc)
	return nil, nil
}
