package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"net/http"
	"net/url"
	"time"
)

// GoogleRouteProvider fetches alternatives from the Google Directions API.
type GoogleRouteProvider struct {
	http    *client
	apiKey  string
	baseURL string
}

func NewGoogleRouteProvider(apiKey string, timeout time.Duration) (*GoogleRouteProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}

	return &GoogleRouteProvider{
		http:    newClient(timeout, nil),
		apiKey:  apiKey,
		baseURL: "https://maps.googleapis.com/maps/api/directions/json",
	}, nil
}

type googleValue struct {
	Value *float64 `json:"value"`
}

type googleDirectionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		Legs []struct {
			Distance *googleValue `json:"distance"`
			Duration *googleValue `json:"duration"`
		} `json:"legs"`
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
	} `json:"routes"`
}

func (g *GoogleRouteProvider) GetRoutes(
	ctx context.Context,
	origin, destination domain.Coordinates,
) (_ []domain.RouteCandidate, err error) {
	defer obs.Time(ctx, "routing.google.GetRoutes")(&err)

	q := url.Values{}
	q.Set("origin", origin.LatLng())
	q.Set("destination", destination.LatLng())
	q.Set("mode", "driving")
	q.Set("alternatives", "true")
	q.Set("key", g.apiKey)
	endpoint := g.baseURL + "?" + q.Encode()

	resp, err := g.http.doWithRetry(ctx, func() (*http.Request, error) {
		return g.http.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return nil, classify("google directions request", err)
	}
	defer resp.Body.Close()

	var dr googleDirectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("decode directions response: %w: %v", domain.ErrConnectivity, err)
	}

	switch dr.Status {
	case "OK":
	case "ZERO_RESULTS", "NOT_FOUND", "INVALID_REQUEST", "MAX_ROUTE_LENGTH_EXCEEDED":
		return nil, fmt.Errorf("google directions: %w: status %s", domain.ErrRouting, dr.Status)
	default:
		return nil, fmt.Errorf("google directions: %w: status %s %s", domain.ErrConnectivity, dr.Status, dr.ErrorMessage)
	}

	if len(dr.Routes) == 0 {
		return nil, fmt.Errorf("google directions: %w: no routes returned", domain.ErrRouting)
	}

	out := make([]domain.RouteCandidate, 0, len(dr.Routes))
	for _, r := range dr.Routes {
		legs := make([]domain.RouteLeg, 0, len(r.Legs))
		for _, l := range r.Legs {
			var leg domain.RouteLeg
			if l.Distance != nil {
				leg.DistanceMeters = l.Distance.Value
			}
			if l.Duration != nil {
				leg.DurationSeconds = l.Duration.Value
			}
			legs = append(legs, leg)
		}
		out = append(out, domain.RouteCandidate{Legs: legs, Geometry: r.OverviewPolyline.Points})
	}

	return out, nil
}
