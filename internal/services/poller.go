package services

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/metrics"
	"fuel-route-service/internal/ports"
	"log"
	"strings"
	"sync"
	"time"
)

// TelemetryPoller periodically fetches the device fuel level and feeds it
// through the ingestor. It has an explicit Start/Stop lifecycle.
type TelemetryPoller struct {
	source   ports.TelemetrySource
	ingestor *ReadingIngestor
	tracker  *FuelTracker
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	pollMu  sync.Mutex
	running bool
}

func NewTelemetryPoller(
	source ports.TelemetrySource,
	ingestor *ReadingIngestor,
	tracker *FuelTracker,
	interval time.Duration,
	timeout time.Duration,
) *TelemetryPoller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TelemetryPoller{
		source:   source,
		ingestor: ingestor,
		tracker:  tracker,
		interval: interval,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Start polls once immediately and then on every interval until Stop or
// until ctx is cancelled. Calling Start on a running poller is a no-op.
func (p *TelemetryPoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	go p.run(ctx, p.done)
}

// Stop cancels the polling loop and waits for it to exit.
func (p *TelemetryPoller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	cancel, done := p.cancel, p.done
	p.running = false
	p.mu.Unlock()

	cancel()
	<-done
}

func (p *TelemetryPoller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)

	for {
		select {
		case <-ticker.C:
			p.poll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *TelemetryPoller) poll(ctx context.Context) {
	if err := p.RefreshNow(ctx); err != nil && ctx.Err() == nil {
		log.Printf("telemetry poll failed err=%v", err)
	}
}

// RefreshNow performs one poll outside the schedule.
//
// Connectivity failures mark the tracker disconnected and are returned to the
// caller; they never alter the reading state.
func (p *TelemetryPoller) RefreshNow(ctx context.Context) error {
	p.pollMu.Lock()
	defer p.pollMu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	sample, err := p.source.FetchCurrentFuelLevel(fetchCtx)
	cancel()

	next := p.now().Add(p.interval)
	if err != nil {
		metrics.PollFailures.Add(1)
		if !errors.Is(err, domain.ErrConnectivity) {
			err = fmt.Errorf("%w: %w", domain.ErrConnectivity, err)
		}
		p.tracker.MarkDisconnected(err, next)
		return fmt.Errorf("refresh fuel level: %w", err)
	}

	liters, err := toLiters(sample.FuelLevel, sample.Unit)
	if err != nil {
		metrics.PollFailures.Add(1)
		p.tracker.MarkDisconnected(err, next)
		return fmt.Errorf("refresh fuel level: %w", err)
	}

	metrics.PollSuccess.Add(1)
	p.tracker.MarkConnected(p.now(), next)

	// The device reports fuel only; distance carries over from the last reading.
	reading := domain.FuelReading{FuelLevel: liters, Timestamp: p.now().UTC()}
	if last := p.tracker.Last(); last.Distance != nil {
		reading.Distance = *last.Distance
	}

	if _, err := p.ingestor.Ingest(ctx, reading); err != nil {
		return fmt.Errorf("refresh fuel level: %w", err)
	}
	return nil
}

const litersPerUSGallon = 3.785411784

func toLiters(v float64, unit string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "l", "liter", "liters", "litre", "litres":
		return v, nil
	case "gal", "gallon", "gallons":
		return v * litersPerUSGallon, nil
	default:
		return 0, fmt.Errorf("%w: unsupported fuel unit %q", domain.ErrInvalidInput, unit)
	}
}
