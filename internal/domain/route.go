package domain

// Fixed per-vehicle consumption, in liters per kilometer.
const FuelConsumptionRate = 0.08

// One leg of a candidate route. Nil metrics mean the provider omitted them.
type RouteLeg struct {
	DistanceMeters  *float64
	DurationSeconds *float64
}

// Represents one possible path returned by a routing provider.
// Geometry is an opaque handle owned by the provider (typically an encoded polyline).
type RouteCandidate struct {
	Legs     []RouteLeg
	Geometry string
}

// Represents a candidate route evaluated against the available fuel.
// CandidateIndex is the position of the source candidate in the provider's list.
// It is derived planning data, recomputed per ranking call.
type RankedRoute struct {
	CandidateIndex     int
	DistanceKm         float64
	DurationMin        float64
	FuelRequiredLiters float64
	IsEfficient        bool
	Geometry           string
}

// RemainingFuel is the fuel left after driving the route; negative when infeasible.
func (r RankedRoute) RemainingFuel(availableFuelLiters float64) float64 {
	return availableFuelLiters - r.FuelRequiredLiters
}
