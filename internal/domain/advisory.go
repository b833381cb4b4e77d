package domain

// Fuel policy thresholds, in liters.
const (
	InsufficientFuelThreshold = 0.0
	LowFuelReserveLiters      = 5.0
)

type AdvisoryKind string

const (
	AdvisoryNone             AdvisoryKind = "NONE"
	AdvisoryInsufficient     AdvisoryKind = "INSUFFICIENT"
	AdvisoryLowFuelAfterTrip AdvisoryKind = "LOW_FUEL_AFTER_TRIP"
)

// A derived warning about fuel sufficiency for a specific trip distance.
type Advisory struct {
	Kind                AdvisoryKind
	DistanceKm          float64
	EstimatedFuelNeeded float64
	AvailableFuel       float64
	RemainingFuel       float64
	Shortfall           float64
	Message             string
}
