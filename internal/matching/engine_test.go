package matching

import (
	"context"
	"testing"

	"github.com/umurima-rw/umurima/internal/domain"
	"github.com/umurima-rw/umurima/internal/store"
)

// recordingFinder serves canned results and records every query it sees.
type recordingFinder struct {
	queries []store.GraduateQuery
	// results are returned in call order; missing entries mean no match.
	results map[int][]*domain.Graduate
}

func (f *recordingFinder) FindAvailableGraduates(_ context.Context, q store.GraduateQuery) ([]*domain.Graduate, error) {
	call := len(f.queries)
	f.queries = append(f.queries, q)
	return f.results[call], nil
}

var testLoc = domain.Location{
	ProvinceCode: "01",
	DistrictCode: "0101",
	SectorCode:   "010101",
	CellCode:     "01010101",
}

func TestWideningOrder(t *testing.T) {
	finder := &recordingFinder{results: map[int][]*domain.Graduate{}}
	engine := NewEngine(finder)

	grad, err := engine.FindMatch(context.Background(), testLoc, domain.ServiceAgronomy)
	if err != nil {
		t.Fatalf("FindMatch: %v", err)
	}
	if grad != nil {
		t.Fatalf("Expected no match, got %+v", grad)
	}

	if len(finder.queries) != 4 {
		t.Fatalf("Expected 4 widening passes, got %d", len(finder.queries))
	}

	// Pass 1: all four levels constrained.
	q := finder.queries[0]
	if q.CellCode != "01010101" || q.SectorCode != "010101" || q.DistrictCode != "0101" || q.ProvinceCode != "01" {
		t.Errorf("Pass 1 should constrain all levels, got %+v", q)
	}
	// Pass 2 drops the cell only.
	q = finder.queries[1]
	if q.CellCode != "" || q.SectorCode != "010101" {
		t.Errorf("Pass 2 should drop only the cell, got %+v", q)
	}
	// Pass 3 drops the sector too.
	q = finder.queries[2]
	if q.SectorCode != "" || q.DistrictCode != "0101" {
		t.Errorf("Pass 3 should drop the sector, got %+v", q)
	}
	// Pass 4 keeps only the province. The search never goes wider.
	q = finder.queries[3]
	if q.DistrictCode != "" || q.ProvinceCode != "01" {
		t.Errorf("Pass 4 should keep only the province, got %+v", q)
	}

	for i, q := range finder.queries {
		if q.ProvinceCode == "" {
			t.Errorf("Pass %d searched beyond the province", i+1)
		}
		if q.ServiceType != domain.ServiceAgronomy {
			t.Errorf("Pass %d lost the service type filter", i+1)
		}
	}
}

func TestMatchAtCellStopsSearch(t *testing.T) {
	grad := &domain.Graduate{Phone: "+250788000001", Name: "Eric", Available: true}
	finder := &recordingFinder{results: map[int][]*domain.Graduate{0: {grad}}}
	engine := NewEngine(finder)

	got, err := engine.FindMatch(context.Background(), testLoc, domain.ServiceVeterinary)
	if err != nil {
		t.Fatalf("FindMatch: %v", err)
	}
	if got != grad {
		t.Errorf("Expected cell-level match, got %+v", got)
	}
	if len(finder.queries) != 1 {
		t.Errorf("Match must stop the widening, saw %d passes", len(finder.queries))
	}
}

func TestFirstMatchWinsAtWiderLevel(t *testing.T) {
	first := &domain.Graduate{Phone: "+250788000001", Name: "Eric"}
	second := &domain.Graduate{Phone: "+250788000002", Name: "Aline"}
	finder := &recordingFinder{results: map[int][]*domain.Graduate{
		2: {first, second},
	}}
	engine := NewEngine(finder)

	got, err := engine.FindMatch(context.Background(), testLoc, domain.ServiceAgronomy)
	if err != nil {
		t.Fatalf("FindMatch: %v", err)
	}
	if got != first {
		t.Errorf("Expected first graduate in store order, got %+v", got)
	}
	if len(finder.queries) != 3 {
		t.Errorf("Expected search to stop at district level, saw %d passes", len(finder.queries))
	}
}

func TestExpertiseCovers(t *testing.T) {
	cases := []struct {
		expertise domain.Expertise
		svc       domain.ServiceType
		want      bool
	}{
		{domain.ExpertiseAgronomy, domain.ServiceAgronomy, true},
		{domain.ExpertiseAgronomy, domain.ServiceVeterinary, false},
		{domain.ExpertiseVeterinary, domain.ServiceVeterinary, true},
		{domain.ExpertiseBoth, domain.ServiceAgronomy, true},
		{domain.ExpertiseBoth, domain.ServiceVeterinary, true},
	}
	for _, c := range cases {
		if got := c.expertise.Covers(c.svc); got != c.want {
			t.Errorf("%s.Covers(%s) = %v, want %v", c.expertise, c.svc, got, c.want)
		}
	}
}
