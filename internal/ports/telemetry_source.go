package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// Contract for polling the vehicle's fuel sensor.
type TelemetrySource interface {
	// Return the device's current fuel level.
	FetchCurrentFuelLevel(ctx context.Context) (domain.TelemetrySample, error)
}
