package domain

import "time"

// A single fuel/distance sample reported by the vehicle sensor.
// Readings are immutable once stored; the store keeps them as an append-only log.
type FuelReading struct {
	FuelLevel float64
	Distance  float64
	Timestamp time.Time
}

// A FuelReading as persisted by the reading store.
type StoredReading struct {
	ID int64
	FuelReading
}

// Last accepted reading, used by the change-detection gate.
// Both fields are nil until the first reading is persisted (or restored at startup).
type LastReadingState struct {
	FuelLevel *float64
	Distance  *float64
}

// LastReadingFrom returns the state that follows persisting r.
func LastReadingFrom(r FuelReading) LastReadingState {
	fuel, dist := r.FuelLevel, r.Distance
	return LastReadingState{FuelLevel: &fuel, Distance: &dist}
}

// Unset reports whether no reading has been accepted yet.
func (s LastReadingState) Unset() bool {
	return s.FuelLevel == nil && s.Distance == nil
}

// A raw sample from the telemetry device.
// DeviceTimestamp is whatever clock the device reports (often millis since boot).
type TelemetrySample struct {
	FuelLevel       float64
	DeviceTimestamp int64
	Unit            string
	IsSimulated     bool
}
