package services

import (
	"fuel-route-service/internal/domain"
	"math"
)

// Readings within these tolerances of the last stored one are sensor noise.
// Fuel is measured more precisely than distance, so its tolerance is tighter.
const (
	FuelLevelEpsilon = 0.001
	DistanceEpsilon  = 0.1
)

// ShouldPersist decides whether an incoming reading is materially different
// from the last stored one.
//
// The first reading (no prior state) is always persisted. Differences exactly
// at a tolerance are not changes. A field missing from the prior state counts
// as changed.
func ShouldPersist(last domain.LastReadingState, incoming domain.FuelReading) bool {
	if last.Unset() {
		return true
	}

	return changed(last.FuelLevel, incoming.FuelLevel, FuelLevelEpsilon) ||
		changed(last.Distance, incoming.Distance, DistanceEpsilon)
}

func changed(prev *float64, next float64, epsilon float64) bool {
	if prev == nil {
		return true
	}
	return math.Abs(*prev-next) > epsilon
}
