// Package domain contains core domain types for the Umurima platform.
package domain

import (
	"strings"
	"time"
)

// Location is a point in Rwanda's four-tier administrative hierarchy.
// Codes are the canonical identifiers; names are kept for display.
type Location struct {
	ProvinceCode string `json:"province_code"`
	ProvinceName string `json:"province_name"`
	DistrictCode string `json:"district_code"`
	DistrictName string `json:"district_name"`
	SectorCode   string `json:"sector_code"`
	SectorName   string `json:"sector_name"`
	CellCode     string `json:"cell_code"`
	CellName     string `json:"cell_name"`
}

// Complete returns true when all four tiers are set.
func (l Location) Complete() bool {
	return l.ProvinceCode != "" && l.DistrictCode != "" &&
		l.SectorCode != "" && l.CellCode != ""
}

// String renders the location as a human-readable path, most specific first.
func (l Location) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{l.CellName, l.SectorName, l.DistrictName, l.ProvinceName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Farmer is a registered smallholder, identified by phone number.
type Farmer struct {
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Location  Location  `json:"location"`
	Language  Language  `json:"language"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
