package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// Port: append-only storage for accepted fuel readings.
type ReadingStore interface {
	// Persist a reading and return its generated id.
	Insert(ctx context.Context, reading domain.FuelReading) (int64, error)
	// Return readings ordered by timestamp, newest first.
	QueryRecent(ctx context.Context, limit, offset int) ([]domain.StoredReading, error)
}
