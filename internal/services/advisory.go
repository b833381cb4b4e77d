package services

import (
	"fmt"
	"fuel-route-service/internal/domain"
)

// EstimateFuelNeeded returns the liters needed to drive distanceKm.
func EstimateFuelNeeded(distanceKm float64) float64 {
	return distanceKm * domain.FuelConsumptionRate
}

// Advise classifies whether availableFuelLiters covers a trip of distanceKm.
//
// Exactly-sufficient fuel is not Insufficient. A trip leaving less than the
// reserve in the tank yields LowFuelAfterTrip.
func Advise(distanceKm, availableFuelLiters float64) (domain.Advisory, error) {
	if !validQuantity(distanceKm) {
		return domain.Advisory{}, fmt.Errorf("advise: %w: distance %v", domain.ErrInvalidInput, distanceKm)
	}
	if !validQuantity(availableFuelLiters) {
		return domain.Advisory{}, fmt.Errorf("advise: %w: available fuel %v", domain.ErrInvalidInput, availableFuelLiters)
	}

	needed := EstimateFuelNeeded(distanceKm)
	adv := domain.Advisory{
		Kind:                domain.AdvisoryNone,
		DistanceKm:          distanceKm,
		EstimatedFuelNeeded: needed,
		AvailableFuel:       availableFuelLiters,
	}

	if needed-availableFuelLiters > domain.InsufficientFuelThreshold {
		adv.Kind = domain.AdvisoryInsufficient
		adv.Shortfall = needed - availableFuelLiters
		adv.Message = fmt.Sprintf(
			"Warning: Insufficient fuel for the journey. You need %.2fL but have %.2fL. Please refuel!",
			needed, availableFuelLiters,
		)
		return adv, nil
	}

	adv.RemainingFuel = availableFuelLiters - needed
	if adv.RemainingFuel < domain.LowFuelReserveLiters {
		adv.Kind = domain.AdvisoryLowFuelAfterTrip
		adv.Message = "Low fuel after journey. Consider refueling."
	}

	return adv, nil
}
