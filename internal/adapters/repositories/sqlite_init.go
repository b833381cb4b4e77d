package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"
	"os"
	"time"
)

const (
	DialectSqlite   = "sqlite"
	DialectPostgres = "postgres"
)

var sqliteSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS fuel_readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fuel_level REAL NOT NULL,
		distance REAL NOT NULL,
		timestamp INTEGER NOT NULL
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_fuel_readings_timestamp
	ON fuel_readings(timestamp DESC, id DESC);
	`,
	`
	CREATE TABLE IF NOT EXISTS route_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		payload TEXT NOT NULL,
		fetched_at INTEGER NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`,
}

var postgresSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS fuel_readings (
		id BIGSERIAL PRIMARY KEY,
		fuel_level DOUBLE PRECISION NOT NULL,
		distance DOUBLE PRECISION NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_fuel_readings_timestamp
	ON fuel_readings(timestamp DESC, id DESC);
	`,
	`
	CREATE TABLE IF NOT EXISTS route_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		payload JSONB NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`,
}

// Initialize the database schema for the given dialect.
func InitSchema(db *sql.DB, dialect string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	var statements []string
	switch dialect {
	case DialectSqlite:
		statements = sqliteSchema
	case DialectPostgres:
		statements = postgresSchema
	default:
		return fmt.Errorf("init schema: unsupported dialect %q", dialect)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type ReadingSeed struct {
	FuelLevel float64   `json:"fuel_level"`
	Distance  float64   `json:"distance"`
	Timestamp time.Time `json:"timestamp"`
}

type batchInserter interface {
	InsertBatch(ctx context.Context, readings []domain.FuelReading) (int, error)
}

// Populate the reading store with historical readings from a JSON file.
// Seeds bypass the change-detection gate; they are imported verbatim.
// Stores that support batches import all rows or none.
func SeedReadingsFromJSON(ctx context.Context, store ports.ReadingStore, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed readings: read %q: %w", jsonPath, err)
	}

	var data []ReadingSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed readings: parse json: %w", err)
	}

	rows := make([]domain.FuelReading, 0, len(data))
	for i, item := range data {
		if item.FuelLevel < 0 || item.Distance < 0 {
			return 0, fmt.Errorf("seed readings: item at index %d: values must be non-negative", i+1)
		}
		if item.Timestamp.IsZero() {
			return 0, fmt.Errorf("seed readings: item at index %d: timestamp is required", i+1)
		}
		rows = append(rows, domain.FuelReading{
			FuelLevel: item.FuelLevel,
			Distance:  item.Distance,
			Timestamp: item.Timestamp.UTC(),
		})
	}

	if b, ok := store.(batchInserter); ok {
		n, err := b.InsertBatch(ctx, rows)
		if err != nil {
			return 0, fmt.Errorf("seed readings: %w", err)
		}
		return n, nil
	}

	for i, r := range rows {
		if _, err := store.Insert(ctx, r); err != nil {
			return i, fmt.Errorf("seed readings: insert index %d: %w", i+1, err)
		}
	}

	return len(rows), nil
}

// Seed only when the store holds no readings, so restarts do not duplicate history.
func SeedIfEmpty(ctx context.Context, store ports.ReadingStore, jsonPath string) (int, error) {
	existing, err := store.QueryRecent(ctx, 1, 0)
	if err != nil {
		return 0, fmt.Errorf("seed readings: check existing: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	return SeedReadingsFromJSON(ctx, store, jsonPath)
}
