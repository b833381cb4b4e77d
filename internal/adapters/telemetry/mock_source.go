package telemetry

import (
	"context"
	"fuel-route-service/internal/domain"
	"sync"
)

// MockSource replays a fixed sequence of samples, repeating the last one.
// A non-nil Err is returned instead of a sample.
type MockSource struct {
	mu      sync.Mutex
	samples []domain.TelemetrySample
	next    int
	Err     error
}

func NewMockSource(samples ...domain.TelemetrySample) *MockSource {
	return &MockSource{samples: samples}
}

func (m *MockSource) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

func (m *MockSource) FetchCurrentFuelLevel(ctx context.Context) (domain.TelemetrySample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.TelemetrySample{}, err
	}
	if m.Err != nil {
		return domain.TelemetrySample{}, m.Err
	}
	if len(m.samples) == 0 {
		return domain.TelemetrySample{Unit: "L", IsSimulated: true}, nil
	}

	s := m.samples[m.next]
	if m.next < len(m.samples)-1 {
		m.next++
	}
	return s, nil
}
