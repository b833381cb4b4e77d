package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// Publishes accepted readings to downstream consumers.
type StatePublisher interface {
	PublishReading(ctx context.Context, reading domain.StoredReading) error
}
