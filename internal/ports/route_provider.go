package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// Contract for retrieving candidate driving routes between two points.
type RouteProvider interface {
	// Return alternative routes from origin to destination, in provider order.
	GetRoutes(ctx context.Context, origin, destination domain.Coordinates) ([]domain.RouteCandidate, error)
}

// Optional cache for provider responses, keyed by origin/destination.
// Only raw candidates are cached; rankings are always recomputed.
type RouteCache interface {
	Get(ctx context.Context, origin, destination domain.Coordinates) ([]domain.RouteCandidate, bool, error)
	Put(ctx context.Context, origin, destination domain.Coordinates, candidates []domain.RouteCandidate) error
}
