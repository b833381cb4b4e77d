package services

import (
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/metrics"
	"sync"
	"time"
)

// FuelStatus is a point-in-time view of the tracker for display and streaming.
type FuelStatus struct {
	FuelLevel   *float64
	Distance    *float64
	Connected   bool
	LastUpdate  *time.Time
	NextRefresh *time.Time
	LastError   string
}

// FuelTracker holds the last accepted reading and telemetry connectivity.
//
// The tracker only guards in-memory state; its lock is never held across I/O.
// Reading state changes only through Record, which the ReadingIngestor calls
// after a successful insert. Connectivity changes never touch reading state.
type FuelTracker struct {
	mu          sync.RWMutex
	last        domain.LastReadingState
	connected   bool
	lastUpdate  *time.Time
	nextRefresh *time.Time
	lastErr     string

	subMu sync.Mutex
	subs  map[chan FuelStatus]struct{}
}

func NewFuelTracker(initial domain.LastReadingState) *FuelTracker {
	return &FuelTracker{
		last: initial,
		subs: make(map[chan FuelStatus]struct{}),
	}
}

// Last returns a copy of the last accepted reading state.
func (t *FuelTracker) Last() domain.LastReadingState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyState(t.last)
}

// AvailableFuel returns the current fuel level and whether one is known.
func (t *FuelTracker) AvailableFuel() (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.last.FuelLevel == nil {
		return 0, false
	}
	return *t.last.FuelLevel, true
}

// Record replaces the reading state with an accepted reading.
func (t *FuelTracker) Record(r domain.FuelReading) {
	t.mu.Lock()
	t.last = domain.LastReadingFrom(r)
	ts := r.Timestamp
	t.lastUpdate = &ts
	status := t.snapshotLocked()
	t.mu.Unlock()

	t.broadcast(status)
}

// MarkConnected records a successful telemetry poll.
func (t *FuelTracker) MarkConnected(at, next time.Time) {
	t.mu.Lock()
	t.connected = true
	t.lastErr = ""
	t.lastUpdate = &at
	t.nextRefresh = &next
	status := t.snapshotLocked()
	t.mu.Unlock()

	t.broadcast(status)
}

// MarkDisconnected records a failed poll. The reading state is left intact
// so the stale fuel level stays visible alongside the disconnected flag.
func (t *FuelTracker) MarkDisconnected(err error, next time.Time) {
	t.mu.Lock()
	t.connected = false
	if err != nil {
		t.lastErr = err.Error()
	}
	t.nextRefresh = &next
	status := t.snapshotLocked()
	t.mu.Unlock()

	t.broadcast(status)
}

func (t *FuelTracker) Snapshot() FuelStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshotLocked()
}

func (t *FuelTracker) snapshotLocked() FuelStatus {
	s := copyState(t.last)
	return FuelStatus{
		FuelLevel:   s.FuelLevel,
		Distance:    s.Distance,
		Connected:   t.connected,
		LastUpdate:  copyTime(t.lastUpdate),
		NextRefresh: copyTime(t.nextRefresh),
		LastError:   t.lastErr,
	}
}

// Subscribe returns a channel of status updates and a cancel func.
// Slow subscribers miss updates rather than blocking the tracker.
func (t *FuelTracker) Subscribe(buffer int) (<-chan FuelStatus, func()) {
	ch := make(chan FuelStatus, buffer)

	t.subMu.Lock()
	t.subs[ch] = struct{}{}
	t.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			t.subMu.Lock()
			delete(t.subs, ch)
			t.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (t *FuelTracker) broadcast(s FuelStatus) {
	t.subMu.Lock()
	defer t.subMu.Unlock()

	for ch := range t.subs {
		select {
		case ch <- s:
		default:
			metrics.SubscriberDrops.Add(1)
		}
	}
}

func copyState(s domain.LastReadingState) domain.LastReadingState {
	var out domain.LastReadingState
	if s.FuelLevel != nil {
		v := *s.FuelLevel
		out.FuelLevel = &v
	}
	if s.Distance != nil {
		v := *s.Distance
		out.Distance = &v
	}
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
