package dto

import "time"

type FuelStatusResponse struct {
	FuelLevel   *float64   `json:"fuel_level"`
	Distance    *float64   `json:"distance"`
	Connected   bool       `json:"connected"`
	LastUpdate  *time.Time `json:"last_update"`
	NextRefresh *time.Time `json:"next_refresh"`
	Error       string     `json:"error,omitempty"`
}

type AdvisoryResponse struct {
	Kind                string  `json:"kind"`
	DistanceKm          float64 `json:"distance_km"`
	EstimatedFuelNeeded float64 `json:"estimated_fuel_needed"`
	AvailableFuel       float64 `json:"available_fuel"`
	RemainingFuel       float64 `json:"remaining_fuel"`
	Shortfall           float64 `json:"shortfall,omitempty"`
	Message             string  `json:"message,omitempty"`
}
