package services

import (
	"context"
	"errors"
	"fuel-route-service/internal/domain"
	"testing"
	"time"
)

func newTestPoller(src *stubSource, store *memStore, tracker *FuelTracker, interval time.Duration) *TelemetryPoller {
	ing := NewReadingIngestor(store, tracker, nil, time.Second)
	return NewTelemetryPoller(src, ing, tracker, interval, time.Second)
}

func TestRefreshNowIngestsSample(t *testing.T) {
	src := &stubSource{sample: domain.TelemetrySample{FuelLevel: 18, Unit: "L"}}
	store := &memStore{}
	tracker := NewFuelTracker(domain.LastReadingFrom(domain.FuelReading{FuelLevel: 20, Distance: 42}))
	p := newTestPoller(src, store, tracker, time.Minute)

	if err := p.RefreshNow(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := tracker.Snapshot()
	if !s.Connected || *s.FuelLevel != 18 || s.NextRefresh == nil {
		t.Fatalf("unexpected status: %+v", s)
	}
	if *s.Distance != 42 {
		t.Fatalf("distance must carry over, got %v", *s.Distance)
	}
	if store.count() != 1 {
		t.Fatalf("expected reading stored, got %d", store.count())
	}
}

func TestRefreshNowConvertsGallons(t *testing.T) {
	src := &stubSource{sample: domain.TelemetrySample{FuelLevel: 2, Unit: "gal"}}
	tracker := NewFuelTracker(domain.LastReadingState{})
	p := newTestPoller(src, &memStore{}, tracker, time.Minute)

	if err := p.RefreshNow(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fuel, _ := tracker.AvailableFuel(); !approx(fuel, 7.570823568) {
		t.Fatalf("fuel = %v, want 7.570823568", fuel)
	}
}

func TestRefreshNowFailureLeavesStateIntact(t *testing.T) {
	src := &stubSource{err: errBackend}
	store := &memStore{}
	tracker := NewFuelTracker(domain.LastReadingFrom(domain.FuelReading{FuelLevel: 20, Distance: 42}))
	p := newTestPoller(src, store, tracker, time.Minute)

	err := p.RefreshNow(context.Background())
	if !errors.Is(err, domain.ErrConnectivity) {
		t.Fatalf("expected ErrConnectivity, got %v", err)
	}

	s := tracker.Snapshot()
	if s.Connected || s.LastError == "" {
		t.Fatalf("expected disconnected status, got %+v", s)
	}
	if *s.FuelLevel != 20 || *s.Distance != 42 {
		t.Fatalf("failed poll altered reading state: %+v", s)
	}
	if store.inserts != 0 {
		t.Fatalf("failed poll must not write")
	}
}

func TestRefreshNowRejectsUnknownUnit(t *testing.T) {
	src := &stubSource{sample: domain.TelemetrySample{FuelLevel: 50, Unit: "%"}}
	tracker := NewFuelTracker(domain.LastReadingState{})
	p := newTestPoller(src, &memStore{}, tracker, time.Minute)

	if err := p.RefreshNow(context.Background()); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !tracker.Last().Unset() || tracker.Snapshot().Connected {
		t.Fatalf("unexpected tracker state after bad unit")
	}
}

func TestToLiters(t *testing.T) {
	tests := []struct {
		unit string
		want float64
		ok   bool
	}{
		{"", 10, true},
		{"L", 10, true},
		{" liters ", 10, true},
		{"Litre", 10, true},
		{"gallons", 37.85411784, true},
		{"ml", 0, false},
	}

	for _, tt := range tests {
		got, err := toLiters(10, tt.unit)
		if (err == nil) != tt.ok {
			t.Fatalf("toLiters(%q) err = %v", tt.unit, err)
		}
		if tt.ok && !approx(got, tt.want) {
			t.Fatalf("toLiters(%q) = %v, want %v", tt.unit, got, tt.want)
		}
	}
}

func TestPollerStartStop(t *testing.T) {
	src := &stubSource{sample: domain.TelemetrySample{FuelLevel: 9, Unit: "L"}}
	tracker := NewFuelTracker(domain.LastReadingState{})
	p := newTestPoller(src, &memStore{}, tracker, 10*time.Millisecond)

	p.Start(context.Background())
	p.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for src.callCount() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("poller did not tick, calls=%d", src.callCount())
		}
		time.Sleep(5 * time.Millisecond)
	}

	p.Stop()
	calls := src.callCount()
	time.Sleep(50 * time.Millisecond)
	if src.callCount() != calls {
		t.Fatalf("poller kept running after Stop")
	}
	p.Stop()

	if fuel, _ := tracker.AvailableFuel(); fuel != 9 {
		t.Fatalf("fuel = %v, want 9", fuel)
	}
}

func TestPollerSurvivesFailures(t *testing.T) {
	src := &stubSource{err: errBackend}
	tracker := NewFuelTracker(domain.LastReadingState{})
	p := newTestPoller(src, &memStore{}, tracker, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for src.callCount() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("poller stopped after a failure")
		}
		time.Sleep(5 * time.Millisecond)
	}

	src.set(domain.TelemetrySample{FuelLevel: 5, Unit: "L"}, nil)
	for !tracker.Snapshot().Connected {
		if time.Now().After(deadline) {
			t.Fatalf("poller did not recover")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	p.Stop()
}
