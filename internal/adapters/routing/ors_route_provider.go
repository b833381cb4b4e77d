package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"log"
	"net/http"
	"time"
)

// ORSRouteProvider fetches driving alternatives from the OpenRouteService
// directions endpoint. Safe for concurrent use.
type ORSRouteProvider struct {
	http    *client
	baseURL string
	profile string
}

func NewORSRouteProvider(apiKey string, timeout time.Duration) (*ORSRouteProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSRouteProvider{
		http:    newClient(timeout, map[string]string{"Authorization": apiKey}),
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-car",
	}, nil
}

type orsAlternatives struct {
	TargetCount  int     `json:"target_count"`
	WeightFactor float64 `json:"weight_factor"`
	ShareFactor  float64 `json:"share_factor"`
}

type orsDirectionsRequest struct {
	Coordinates       [][]float64      `json:"coordinates"`
	AlternativeRoutes *orsAlternatives `json:"alternative_routes,omitempty"`
}

type orsDirectionsResponse struct {
	Routes []struct {
		Segments []struct {
			Distance *float64 `json:"distance"`
			Duration *float64 `json:"duration"`
		} `json:"segments"`
		Geometry string `json:"geometry"`
	} `json:"routes"`
}

// GetRoutes asks for alternatives first. ORS rejects alternatives for long
// trips (error 2004, over 100 km) with a 4xx, so a client error is retried
// once as a plain request that yields a single candidate.
func (o *ORSRouteProvider) GetRoutes(
	ctx context.Context,
	origin, destination domain.Coordinates,
) (_ []domain.RouteCandidate, err error) {
	defer obs.Time(ctx, "routing.ors.GetRoutes")(&err)

	req := orsDirectionsRequest{
		Coordinates: [][]float64{origin.CoordsToList(), destination.CoordsToList()},
		AlternativeRoutes: &orsAlternatives{
			TargetCount:  3,
			WeightFactor: 1.4,
			ShareFactor:  0.6,
		},
	}

	dr, err := o.directions(ctx, req)
	if clientError(err) {
		log.Printf("ors alternatives rejected, retrying without alternatives err=%v", err)
		req.AlternativeRoutes = nil
		dr, err = o.directions(ctx, req)
	}
	if err != nil {
		return nil, classify("ors directions request", err)
	}

	if len(dr.Routes) == 0 {
		return nil, fmt.Errorf("ors directions: %w: no routes returned", domain.ErrRouting)
	}

	out := make([]domain.RouteCandidate, 0, len(dr.Routes))
	for _, r := range dr.Routes {
		legs := make([]domain.RouteLeg, 0, len(r.Segments))
		for _, s := range r.Segments {
			legs = append(legs, domain.RouteLeg{DistanceMeters: s.Distance, DurationSeconds: s.Duration})
		}
		out = append(out, domain.RouteCandidate{Legs: legs, Geometry: r.Geometry})
	}

	return out, nil
}

// directions returns the raw transport error so callers can inspect the status.
func (o *ORSRouteProvider) directions(ctx context.Context, req orsDirectionsRequest) (orsDirectionsResponse, error) {
	var dr orsDirectionsResponse

	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)

	payload, err := json.Marshal(req)
	if err != nil {
		return dr, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.http.doWithRetry(ctx, func() (*http.Request, error) {
		return o.http.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return dr, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return dr, fmt.Errorf("decode directions response: %w", err)
	}
	return dr, nil
}
