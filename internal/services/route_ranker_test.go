package services

import (
	"errors"
	"fuel-route-service/internal/domain"
	"math"
	"reflect"
	"testing"
)

func candidate(km, minutes float64) domain.RouteCandidate {
	m, s := km*1000, minutes*60
	return domain.RouteCandidate{Legs: []domain.RouteLeg{{DistanceMeters: &m, DurationSeconds: &s}}}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func indexes(routes []domain.RankedRoute) []int {
	out := make([]int, 0, len(routes))
	for _, r := range routes {
		out = append(out, r.CandidateIndex)
	}
	return out
}

func TestRankRoutesAllEfficient(t *testing.T) {
	got, err := RankRoutes([]domain.RouteCandidate{
		candidate(50, 40),
		candidate(80, 55),
		candidate(30, 35),
	}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []int{2, 0, 1}; !reflect.DeepEqual(indexes(got.Routes), want) {
		t.Fatalf("order = %v, want %v", indexes(got.Routes), want)
	}

	wantFuel := []float64{2.4, 4, 6.4}
	for i, r := range got.Routes {
		if !r.IsEfficient {
			t.Fatalf("route %d should be efficient", i)
		}
		if !approx(r.FuelRequiredLiters, wantFuel[i]) {
			t.Fatalf("route %d fuel = %v, want %v", i, r.FuelRequiredLiters, wantFuel[i])
		}
	}
	if got.Routes[1].FuelRequiredLiters != 4 {
		t.Fatalf("50 km should need exactly 4 L, got %v", got.Routes[1].FuelRequiredLiters)
	}
}

func TestRankRoutesFeasibleFirst(t *testing.T) {
	got, err := RankRoutes([]domain.RouteCandidate{
		candidate(50, 40),
		candidate(10, 12),
	}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []int{1, 0}; !reflect.DeepEqual(indexes(got.Routes), want) {
		t.Fatalf("order = %v, want %v", indexes(got.Routes), want)
	}
	if !got.Routes[0].IsEfficient || got.Routes[1].IsEfficient {
		t.Fatalf("unexpected feasibility: %+v", got.Routes)
	}
	if !approx(got.Routes[0].FuelRequiredLiters, 0.8) {
		t.Fatalf("fuel = %v, want 0.8", got.Routes[0].FuelRequiredLiters)
	}
}

func TestRankRoutesFeasibilityBeatsFuel(t *testing.T) {
	got, err := RankRoutes([]domain.RouteCandidate{
		candidate(100, 60), // 8 L, infeasible
		candidate(60, 70),  // 4.8 L, feasible
		candidate(90, 50),  // 7.2 L, infeasible
	}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []int{1, 2, 0}; !reflect.DeepEqual(indexes(got.Routes), want) {
		t.Fatalf("order = %v, want %v", indexes(got.Routes), want)
	}
}

func TestRankRoutesInclusiveBoundary(t *testing.T) {
	got, err := RankRoutes([]domain.RouteCandidate{candidate(125, 90)}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Routes[0].IsEfficient {
		t.Fatalf("exactly-sufficient fuel must be efficient: %+v", got.Routes[0])
	}
}

func TestRankRoutesStable(t *testing.T) {
	cands := []domain.RouteCandidate{
		candidate(40, 30),
		candidate(20, 10),
		candidate(40, 20),
		candidate(20, 15),
		candidate(40, 25),
	}
	for i := range cands {
		cands[i].Geometry = string(rune('a' + i))
	}

	got, err := RankRoutes(cands, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []int{1, 3, 0, 2, 4}; !reflect.DeepEqual(indexes(got.Routes), want) {
		t.Fatalf("order = %v, want %v", indexes(got.Routes), want)
	}
	if got.Routes[0].Geometry != "b" {
		t.Fatalf("geometry must follow its candidate, got %q", got.Routes[0].Geometry)
	}
}

func TestRankRoutesOrderingProperty(t *testing.T) {
	var cands []domain.RouteCandidate
	for _, km := range []float64{12, 250, 75, 75, 3, 140, 60, 61, 199, 0} {
		cands = append(cands, candidate(km, km))
	}

	got, err := RankRoutes(cands, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Routes) > len(cands) {
		t.Fatalf("output longer than input")
	}

	for i := 1; i < len(got.Routes); i++ {
		a, b := got.Routes[i-1], got.Routes[i]
		if !a.IsEfficient && b.IsEfficient {
			t.Fatalf("infeasible route at %d before feasible route at %d", i-1, i)
		}
		if a.IsEfficient == b.IsEfficient && a.FuelRequiredLiters > b.FuelRequiredLiters {
			t.Fatalf("fuel not ascending at %d: %v > %v", i, a.FuelRequiredLiters, b.FuelRequiredLiters)
		}
		if a.IsEfficient == b.IsEfficient && a.FuelRequiredLiters == b.FuelRequiredLiters && a.CandidateIndex > b.CandidateIndex {
			t.Fatalf("tie at %d not stable", i)
		}
	}

	for _, r := range got.Routes {
		if r.FuelRequiredLiters != r.DistanceKm*domain.FuelConsumptionRate {
			t.Fatalf("fuel required must be distance x rate: %+v", r)
		}
		if r.IsEfficient != (r.FuelRequiredLiters <= 8) {
			t.Fatalf("efficiency flag inconsistent: %+v", r)
		}
	}
}

func TestRankRoutesIdempotent(t *testing.T) {
	cands := []domain.RouteCandidate{candidate(50, 40), candidate(80, 55), candidate(30, 35), candidate(50, 20)}

	first, err := RankRoutes(cands, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := RankRoutes(cands, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("ranking not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestRankRoutesUnitConversion(t *testing.T) {
	got, err := RankRoutes([]domain.RouteCandidate{candidate(12.5, 45)}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := got.Routes[0]
	if r.DistanceKm != 12.5 || r.DurationMin != 45 {
		t.Fatalf("unexpected conversion: %+v", r)
	}
}

func TestRankRoutesInvalidInput(t *testing.T) {
	if _, err := RankRoutes(nil, 10); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty input, got %v", err)
	}
	if _, err := RankRoutes([]domain.RouteCandidate{}, 10); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty input, got %v", err)
	}

	for _, fuel := range []float64{-1, math.NaN(), math.Inf(1)} {
		if _, err := RankRoutes([]domain.RouteCandidate{candidate(1, 1)}, fuel); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for fuel %v, got %v", fuel, err)
		}
	}
}

func TestRankRoutesSkipsMalformed(t *testing.T) {
	dist := 1000.0
	neg := -5.0
	dur := 60.0

	got, err := RankRoutes([]domain.RouteCandidate{
		{},
		candidate(10, 10),
		{Legs: []domain.RouteLeg{{DistanceMeters: &dist}}},
		{Legs: []domain.RouteLeg{{DurationSeconds: &dur}}},
		{Legs: []domain.RouteLeg{{DistanceMeters: &neg, DurationSeconds: &dur}}},
		candidate(5, 5),
	}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []int{5, 1}; !reflect.DeepEqual(indexes(got.Routes), want) {
		t.Fatalf("order = %v, want %v", indexes(got.Routes), want)
	}
	if len(got.Skipped) != 4 {
		t.Fatalf("expected 4 skipped, got %d", len(got.Skipped))
	}

	wantSkipped := []int{0, 2, 3, 4}
	for i, s := range got.Skipped {
		if s.Index != wantSkipped[i] {
			t.Fatalf("skipped[%d].Index = %d, want %d", i, s.Index, wantSkipped[i])
		}
		if !errors.Is(s, domain.ErrMalformedCandidate) {
			t.Fatalf("skipped entry must wrap ErrMalformedCandidate")
		}
	}
}

func TestRankRoutesAllMalformed(t *testing.T) {
	got, err := RankRoutes([]domain.RouteCandidate{{}, {}}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Routes) != 0 || len(got.Skipped) != 2 {
		t.Fatalf("unexpected ranking: %+v", got)
	}
}
