package cache

import (
	"encoding/json"
	"fmt"
	"fuel-route-service/internal/domain"
)

type cachedLeg struct {
	DistanceMeters  *float64 `json:"distance_meters,omitempty"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
}

type cachedCandidate struct {
	Legs     []cachedLeg `json:"legs"`
	Geometry string      `json:"geometry,omitempty"`
}

func encodeCandidates(candidates []domain.RouteCandidate) ([]byte, error) {
	out := make([]cachedCandidate, 0, len(candidates))
	for _, c := range candidates {
		legs := make([]cachedLeg, 0, len(c.Legs))
		for _, l := range c.Legs {
			legs = append(legs, cachedLeg{DistanceMeters: l.DistanceMeters, DurationSeconds: l.DurationSeconds})
		}
		out = append(out, cachedCandidate{Legs: legs, Geometry: c.Geometry})
	}

	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode route candidates: %w", err)
	}
	return b, nil
}

func decodeCandidates(payload []byte) ([]domain.RouteCandidate, error) {
	var in []cachedCandidate
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, fmt.Errorf("decode route candidates: %w", err)
	}

	out := make([]domain.RouteCandidate, 0, len(in))
	for _, c := range in {
		legs := make([]domain.RouteLeg, 0, len(c.Legs))
		for _, l := range c.Legs {
			legs = append(legs, domain.RouteLeg{DistanceMeters: l.DistanceMeters, DurationSeconds: l.DurationSeconds})
		}
		out = append(out, domain.RouteCandidate{Legs: legs, Geometry: c.Geometry})
	}
	return out, nil
}
