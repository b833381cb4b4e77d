package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPSource polls the on-vehicle sensor board over its local HTTP API.
type HTTPSource struct {
	session *http.Client
	baseURL string
}

func NewHTTPSource(baseURL string, timeout time.Duration) (*HTTPSource, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("telemetry base url is empty")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &HTTPSource{
		session: &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}, nil
}

type fuelLevelResponse struct {
	FuelLevel   *float64 `json:"fuelLevel"`
	Timestamp   int64    `json:"timestamp"`
	Unit        string   `json:"unit"`
	IsSimulated bool     `json:"isSimulated"`
}

func (s *HTTPSource) FetchCurrentFuelLevel(ctx context.Context) (_ domain.TelemetrySample, err error) {
	defer obs.Time(ctx, "telemetry.FetchCurrentFuelLevel")(&err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/fuel-level", nil)
	if err != nil {
		return domain.TelemetrySample{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.session.Do(req)
	if err != nil {
		return domain.TelemetrySample{}, fmt.Errorf("fetch fuel level: %w: %v", domain.ErrConnectivity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.TelemetrySample{}, fmt.Errorf(
			"fetch fuel level: %w: status %d: %s",
			domain.ErrConnectivity, resp.StatusCode, strings.TrimSpace(string(b)),
		)
	}

	var fr fuelLevelResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return domain.TelemetrySample{}, fmt.Errorf("decode fuel level: %w: %v", domain.ErrConnectivity, err)
	}
	if fr.FuelLevel == nil {
		return domain.TelemetrySample{}, fmt.Errorf("decode fuel level: %w: missing fuelLevel", domain.ErrConnectivity)
	}

	return domain.TelemetrySample{
		FuelLevel:       *fr.FuelLevel,
		DeviceTimestamp: fr.Timestamp,
		Unit:            fr.Unit,
		IsSimulated:     fr.IsSimulated,
	}, nil
}
