package routing

import (
	"context"
	"fmt"
	"fuel-route-service/internal/domain"
)

type MockRoute struct {
	Meters  float64
	Seconds float64
}

// MockRouteProvider returns the same fixed set of alternatives for any pair.
type MockRouteProvider struct {
	routes []domain.RouteCandidate
}

func NewMockRouteProvider(routes []MockRoute) *MockRouteProvider {
	out := make([]domain.RouteCandidate, 0, len(routes))
	for i, r := range routes {
		m, s := r.Meters, r.Seconds
		out = append(out, domain.RouteCandidate{
			Legs:     []domain.RouteLeg{{DistanceMeters: &m, DurationSeconds: &s}},
			Geometry: fmt.Sprintf("mock-%d", i),
		})
	}
	return &MockRouteProvider{routes: out}
}

// DefaultMockRoutes mirrors a short urban trip with three alternatives.
func DefaultMockRoutes() []MockRoute {
	return []MockRoute{
		{Meters: 42000, Seconds: 3000},
		{Meters: 50000, Seconds: 2700},
		{Meters: 64000, Seconds: 3300},
	}
}

func (p *MockRouteProvider) GetRoutes(ctx context.Context, origin, destination domain.Coordinates) ([]domain.RouteCandidate, error) {
	if len(p.routes) == 0 {
		return nil, fmt.Errorf("mock routes %s -> %s: %w", origin.Key(), destination.Key(), domain.ErrRouting)
	}

	out := make([]domain.RouteCandidate, len(p.routes))
	copy(out, p.routes)
	return out, nil
}
