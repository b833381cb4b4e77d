package dto

import "time"

// Device payloads keep the camelCase field names the sensor firmware sends.
type CreateReadingRequest struct {
	FuelLevel *float64   `json:"fuelLevel" validate:"required,gte=0"`
	Distance  *float64   `json:"distance" validate:"required,gte=0"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type CreateReadingResponse struct {
	ID           *int64 `json:"id,omitempty"`
	Message      string `json:"message"`
	IsNewReading bool   `json:"isNewReading"`
}

type ReadingResponse struct {
	ID        int64     `json:"id"`
	FuelLevel float64   `json:"fuel_level"`
	Distance  float64   `json:"distance"`
	Timestamp time.Time `json:"timestamp"`
}
