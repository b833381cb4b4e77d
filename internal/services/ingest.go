package services

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/metrics"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"log"
	"sync"
	"time"
)

// IngestResult describes the gate decision for one reading.
type IngestResult struct {
	ID        int64
	Persisted bool
	Reading   domain.FuelReading
}

// ReadingIngestor is the single writer of the tracker's reading state.
//
// Ingestions are serialized so that compare, insert and update never
// interleave. The tracker's own lock is only taken for the in-memory read and
// the final update, never while the store insert is in flight.
type ReadingIngestor struct {
	mu           sync.Mutex
	store        ports.ReadingStore
	tracker      *FuelTracker
	publisher    ports.StatePublisher
	storeTimeout time.Duration
	now          func() time.Time
}

// NewReadingIngestor wires the gate to a store and tracker. publisher may be nil.
func NewReadingIngestor(
	store ports.ReadingStore,
	tracker *FuelTracker,
	publisher ports.StatePublisher,
	storeTimeout time.Duration,
) *ReadingIngestor {
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}
	return &ReadingIngestor{
		store:        store,
		tracker:      tracker,
		publisher:    publisher,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

// Ingest runs one reading through the change-detection gate.
//
// A zero Timestamp is stamped with the receive time. On a storage failure the
// reading is dropped and the state is left unchanged.
func (i *ReadingIngestor) Ingest(ctx context.Context, r domain.FuelReading) (_ IngestResult, err error) {
	defer obs.Time(ctx, "ingest.Reading")(&err)

	if !validQuantity(r.FuelLevel) || !validQuantity(r.Distance) {
		return IngestResult{}, fmt.Errorf(
			"ingest reading: %w: fuel_level=%v distance=%v must be non-negative",
			domain.ErrInvalidInput, r.FuelLevel, r.Distance,
		)
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = i.now().UTC()
	}

	metrics.ReadingsReceived.Add(1)

	i.mu.Lock()
	defer i.mu.Unlock()

	if !ShouldPersist(i.tracker.Last(), r) {
		metrics.ReadingsUnchanged.Add(1)
		log.Printf("reading unchanged, not stored fuel_level=%.3f distance=%.2f", r.FuelLevel, r.Distance)
		return IngestResult{Persisted: false, Reading: r}, nil
	}

	storeCtx, cancel := context.WithTimeout(ctx, i.storeTimeout)
	id, err := i.store.Insert(storeCtx, r)
	cancel()
	if err != nil {
		metrics.StorageFailures.Add(1)
		if !errors.Is(err, domain.ErrStorage) {
			err = fmt.Errorf("%w: %w", domain.ErrStorage, err)
		}
		return IngestResult{}, fmt.Errorf("ingest reading: insert: %w", err)
	}

	i.tracker.Record(r)
	metrics.ReadingsPersisted.Add(1)
	log.Printf("new reading stored id=%d fuel_level=%.3f distance=%.2f", id, r.FuelLevel, r.Distance)

	if i.publisher != nil {
		pubCtx, cancel := context.WithTimeout(ctx, i.storeTimeout)
		if err := i.publisher.PublishReading(pubCtx, domain.StoredReading{ID: id, FuelReading: r}); err != nil {
			metrics.PublishFailures.Add(1)
			log.Printf("state publish failed id=%d err=%v", id, err)
		}
		cancel()
	}

	return IngestResult{ID: id, Persisted: true, Reading: r}, nil
}

// RestoreLastReading loads the most recent stored reading for startup.
// An empty store yields an unset state.
func RestoreLastReading(ctx context.Context, store ports.ReadingStore) (domain.LastReadingState, error) {
	recent, err := store.QueryRecent(ctx, 1, 0)
	if err != nil {
		return domain.LastReadingState{}, fmt.Errorf("restore last reading: %w", err)
	}
	if len(recent) == 0 {
		return domain.LastReadingState{}, nil
	}
	return domain.LastReadingFrom(recent[0].FuelReading), nil
}
