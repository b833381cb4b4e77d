package services

import (
	"context"
	"errors"
	"fuel-route-service/internal/domain"
	"slices"
	"sync"
)

type memStore struct {
	mu       sync.Mutex
	readings []domain.StoredReading
	failWith error
	inserts  int
}

func (m *memStore) Insert(ctx context.Context, r domain.FuelReading) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts++
	if m.failWith != nil {
		return 0, m.failWith
	}
	id := int64(len(m.readings) + 1)
	m.readings = append(m.readings, domain.StoredReading{ID: id, FuelReading: r})
	return id, nil
}

func (m *memStore) QueryRecent(ctx context.Context, limit, offset int) ([]domain.StoredReading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := slices.Clone(m.readings)
	slices.Reverse(out)
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.readings)
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []domain.StoredReading
	err       error
}

func (p *recordingPublisher) PublishReading(ctx context.Context, r domain.StoredReading) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, r)
	return nil
}

type stubProvider struct {
	routes []domain.RouteCandidate
	err    error
	calls  int
}

func (s *stubProvider) GetRoutes(ctx context.Context, o, d domain.Coordinates) ([]domain.RouteCandidate, error) {
	s.calls++
	return s.routes, s.err
}

type stubSource struct {
	mu     sync.Mutex
	sample domain.TelemetrySample
	err    error
	calls  int
}

func (s *stubSource) FetchCurrentFuelLevel(ctx context.Context) (domain.TelemetrySample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.sample, s.err
}

func (s *stubSource) set(sample domain.TelemetrySample, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sample, s.err = sample, err
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

var errBackend = errors.New("backend down")
