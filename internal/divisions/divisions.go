// Package divisions serves Rwanda's administrative hierarchy
// (province > district > sector > cell) as ordered reference data.
//
// The data ships embedded in the binary and changes only with releases, so
// lookups are served from in-memory maps shared across all dialogs.
package divisions

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/umurima-rw/umurima/internal/domain"
)

//go:embed rwanda.json
var dataFS embed.FS

// Provider lists administrative divisions level by level. Every list is
// ordered as in the source data; menu numbering derives from that order.
type Provider interface {
	Provinces(ctx context.Context) ([]domain.Division, error)
	Districts(ctx context.Context, provinceCode string) ([]domain.Division, error)
	Sectors(ctx context.Context, districtCode string) ([]domain.Division, error)
	Cells(ctx context.Context, sectorCode string) ([]domain.Division, error)
}

type cellNode struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type sectorNode struct {
	Code  string     `json:"code"`
	Name  string     `json:"name"`
	Cells []cellNode `json:"cells"`
}

type districtNode struct {
	Code    string       `json:"code"`
	Name    string       `json:"name"`
	Sectors []sectorNode `json:"sectors"`
}

type provinceNode struct {
	Code      string         `json:"code"`
	Name      string         `json:"name"`
	Districts []districtNode `json:"districts"`
}

type hierarchy struct {
	Provinces []provinceNode `json:"provinces"`
}

// Embedded serves the hierarchy bundled with the binary. The tree is decoded
// once at construction into per-parent lists, so reads need no locking.
type Embedded struct {
	provinces []domain.Division
	districts map[string][]domain.Division
	sectors   map[string][]domain.Division
	cells     map[string][]domain.Division
}

// NewEmbedded decodes the bundled hierarchy.
func NewEmbedded() (*Embedded, error) {
	raw, err := dataFS.ReadFile("rwanda.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded divisions: %w", err)
	}

	var h hierarchy
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("decode embedded divisions: %w", err)
	}

	e := &Embedded{
		districts: make(map[string][]domain.Division),
		sectors:   make(map[string][]domain.Division),
		cells:     make(map[string][]domain.Division),
	}

	for _, p := range h.Provinces {
		e.provinces = append(e.provinces, domain.Division{Code: p.Code, Name: p.Name})
		for _, d := range p.Districts {
			e.districts[p.Code] = append(e.districts[p.Code], domain.Division{Code: d.Code, Name: d.Name})
			for _, sec := range d.Sectors {
				e.sectors[d.Code] = append(e.sectors[d.Code], domain.Division{Code: sec.Code, Name: sec.Name})
				for _, c := range sec.Cells {
					e.cells[sec.Code] = append(e.cells[sec.Code], domain.Division{Code: c.Code, Name: c.Name})
				}
			}
		}
	}

	if len(e.provinces) == 0 {
		return nil, fmt.Errorf("embedded divisions: no provinces")
	}
	return e, nil
}

// Provinces lists all provinces.
func (e *Embedded) Provinces(_ context.Context) ([]domain.Division, error) {
	return e.provinces, nil
}

// Districts lists the districts of a province.
func (e *Embedded) Districts(_ context.Context, provinceCode string) ([]domain.Division, error) {
	ds, ok := e.districts[provinceCode]
	if !ok {
		return nil, fmt.Errorf("unknown province code %q", provinceCode)
	}
	return ds, nil
}

// Sectors lists the sectors of a district.
func (e *Embedded) Sectors(_ context.Context, districtCode string) ([]domain.Division, error) {
	ss, ok := e.sectors[districtCode]
	if !ok {
		return nil, fmt.Errorf("unknown district code %q", districtCode)
	}
	return ss, nil
}

// Cells lists the cells of a sector.
func (e *Embedded) Cells(_ context.Context, sectorCode string) ([]domain.Division, error) {
	cs, ok := e.cells[sectorCode]
	if !ok {
		return nil, fmt.Errorf("unknown sector code %q", sectorCode)
	}
	return cs, nil
}

// Names extracts the display names of a division list, in order.
func Names(ds []domain.Division) []string {
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.Name
	}
	return names
}
