package routing

import (
	"context"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/metrics"
	"fuel-route-service/internal/ports"
	"log"
)

// CachedRouteProvider serves raw candidates from a RouteCache and falls
// back to the wrapped provider on a miss. Cache errors are logged and
// never fail the request.
type CachedRouteProvider struct {
	next  ports.RouteProvider
	cache ports.RouteCache
}

func NewCachedRouteProvider(next ports.RouteProvider, cache ports.RouteCache) *CachedRouteProvider {
	return &CachedRouteProvider{next: next, cache: cache}
}

func (c *CachedRouteProvider) GetRoutes(
	ctx context.Context,
	origin, destination domain.Coordinates,
) ([]domain.RouteCandidate, error) {
	if c.cache != nil {
		cached, ok, err := c.cache.Get(ctx, origin, destination)
		if err != nil {
			log.Printf("route cache read failed origin=%s destination=%s err=%v", origin.Key(), destination.Key(), err)
		}
		if ok && len(cached) > 0 {
			metrics.RouteCacheHits.Add(1)
			return cached, nil
		}
	}

	candidates, err := c.next.GetRoutes(ctx, origin, destination)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, origin, destination, candidates); err != nil {
			log.Printf("route cache write failed origin=%s destination=%s err=%v", origin.Key(), destination.Key(), err)
		}
	}

	return candidates, nil
}
