package services

import (
	"cmp"
	"fmt"
	"fuel-route-service/internal/domain"
	"math"
	"slices"
)

// Ranking is the output of RankRoutes.
// Routes[0] is the default selection. Skipped lists excluded candidates.
type Ranking struct {
	Routes  []domain.RankedRoute
	Skipped []domain.MalformedCandidateError
}

// RankRoutes evaluates candidate routes against the available fuel.
//
// Each candidate is costed from its primary leg. Feasible routes (fuel required
// at most the available fuel) sort ahead of infeasible ones, then by fuel
// required ascending. The sort is stable, so ties keep provider order.
// Malformed candidates are skipped rather than failing the batch.
//
// RankRoutes is pure and safe for concurrent use.
func RankRoutes(candidates []domain.RouteCandidate, availableFuelLiters float64) (Ranking, error) {
	if len(candidates) == 0 {
		return Ranking{}, fmt.Errorf("rank routes: %w: candidate list must not be empty", domain.ErrInvalidInput)
	}
	if !validQuantity(availableFuelLiters) {
		return Ranking{}, fmt.Errorf("rank routes: %w: available fuel %v", domain.ErrInvalidInput, availableFuelLiters)
	}

	out := Ranking{Routes: make([]domain.RankedRoute, 0, len(candidates))}

	for i, c := range candidates {
		distanceKm, durationMin, reason := primaryLeg(c)
		if reason != "" {
			out.Skipped = append(out.Skipped, domain.MalformedCandidateError{Index: i, Reason: reason})
			continue
		}

		fuelRequired := EstimateFuelNeeded(distanceKm)
		out.Routes = append(out.Routes, domain.RankedRoute{
			CandidateIndex:     i,
			DistanceKm:         distanceKm,
			DurationMin:        durationMin,
			FuelRequiredLiters: fuelRequired,
			IsEfficient:        fuelRequired <= availableFuelLiters,
			Geometry:           c.Geometry,
		})
	}

	slices.SortStableFunc(out.Routes, compareRankedRoutes)

	return out, nil
}

// Feasible routes first, then cheapest in fuel. No tertiary key.
func compareRankedRoutes(a, b domain.RankedRoute) int {
	if a.IsEfficient != b.IsEfficient {
		if a.IsEfficient {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.FuelRequiredLiters, b.FuelRequiredLiters)
}

// primaryLeg converts the first leg to km and minutes, or returns why it can't.
func primaryLeg(c domain.RouteCandidate) (float64, float64, string) {
	if len(c.Legs) == 0 {
		return 0, 0, "route has no legs"
	}

	leg := c.Legs[0]
	if leg.DistanceMeters == nil {
		return 0, 0, "primary leg is missing distance"
	}
	if leg.DurationSeconds == nil {
		return 0, 0, "primary leg is missing duration"
	}
	if !validQuantity(*leg.DistanceMeters) {
		return 0, 0, fmt.Sprintf("invalid distance %v", *leg.DistanceMeters)
	}
	if !validQuantity(*leg.DurationSeconds) {
		return 0, 0, fmt.Sprintf("invalid duration %v", *leg.DurationSeconds)
	}

	return *leg.DistanceMeters / 1000, *leg.DurationSeconds / 60, ""
}

func validQuantity(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
