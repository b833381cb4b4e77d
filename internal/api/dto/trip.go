package dto

import "time"

type CoordinatesRequest struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
}

type PlanTripRequest struct {
	Origin      *CoordinatesRequest `json:"origin" validate:"required"`
	Destination *CoordinatesRequest `json:"destination" validate:"required"`
}

type SelectRouteRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}

type CoordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type RankedRouteResponse struct {
	CandidateIndex     int      `json:"candidate_index"`
	DistanceKm         float64  `json:"distance_km"`
	DurationMin        float64  `json:"duration_min"`
	FuelRequiredLiters float64  `json:"fuel_required_liters"`
	IsEfficient        bool     `json:"is_efficient"`
	RemainingFuel      *float64 `json:"remaining_fuel,omitempty"`
	Shortfall          *float64 `json:"shortfall,omitempty"`
	Geometry           string   `json:"geometry,omitempty"`
}

type SkippedCandidateResponse struct {
	CandidateIndex int    `json:"candidate_index"`
	Reason         string `json:"reason"`
}

type TripPlanResponse struct {
	ID            string                     `json:"id"`
	Origin        CoordinatesResponse        `json:"origin"`
	Destination   CoordinatesResponse        `json:"destination"`
	AvailableFuel float64                    `json:"available_fuel"`
	FuelKnown     bool                       `json:"fuel_known"`
	Selected      int                        `json:"selected"`
	Routes        []RankedRouteResponse      `json:"routes"`
	Skipped       []SkippedCandidateResponse `json:"skipped,omitempty"`
	Advisory      *AdvisoryResponse          `json:"advisory,omitempty"`
	RankedAt      time.Time                  `json:"ranked_at"`
}
