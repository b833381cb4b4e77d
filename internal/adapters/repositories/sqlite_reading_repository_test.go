package repositories

import (
	"context"
	"errors"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/db"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestRepo(t *testing.T) *SqliteReadingRepository {
	t.Helper()

	conn, err := db.OpenSqlite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := InitSchema(conn, DialectSqlite); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return NewSqliteReadingRepository(conn)
}

func TestSqliteReadingRepositoryInsertAndQuery(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	readings := []domain.FuelReading{
		{FuelLevel: 30.5, Distance: 12.0, Timestamp: base},
		{FuelLevel: 29.0, Distance: 14.5, Timestamp: base.Add(2 * time.Minute)},
		{FuelLevel: 29.5, Distance: 13.0, Timestamp: base.Add(1 * time.Minute)},
	}

	var ids []int64
	for _, r := range readings {
		id, err := repo.Insert(ctx, r)
		if err != nil {
			t.Fatalf("unexpected insert error: %v", err)
		}
		ids = append(ids, id)
	}
	if ids[0] >= ids[1] || ids[1] >= ids[2] {
		t.Fatalf("expected increasing ids, got %v", ids)
	}

	got, err := repo.QueryRecent(ctx, 10, 0)
	if err != nil {
		t.Fatalf("unexpected query error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(got))
	}

	wantFuel := []float64{29.0, 29.5, 30.5}
	for i, w := range wantFuel {
		if got[i].FuelLevel != w {
			t.Fatalf("reading %d fuel = %v, want %v (newest first)", i, got[i].FuelLevel, w)
		}
	}
	if !got[0].Timestamp.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("timestamp = %v, want %v", got[0].Timestamp, base.Add(2*time.Minute))
	}

	page, err := repo.QueryRecent(ctx, 1, 1)
	if err != nil {
		t.Fatalf("unexpected query error: %v", err)
	}
	if len(page) != 1 || page[0].FuelLevel != 29.5 {
		t.Fatalf("offset page = %+v, want single reading with fuel 29.5", page)
	}
}

func TestSqliteReadingRepositoryEmpty(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.QueryRecent(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no readings, got %d", len(got))
	}
}

func TestSqliteReadingRepositoryRejectsBadPage(t *testing.T) {
	repo := newTestRepo(t)

	cases := []struct {
		name          string
		limit, offset int
	}{
		{"zero limit", 0, 0},
		{"negative offset", 10, -1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := repo.QueryRecent(context.Background(), c.limit, c.offset)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestSqliteReadingRepositoryInsertFailureIsStorageError(t *testing.T) {
	conn, err := db.OpenSqlite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer conn.Close()

	// No schema: the insert must fail.
	repo := NewSqliteReadingRepository(conn)
	_, err = repo.Insert(context.Background(), domain.FuelReading{FuelLevel: 1, Timestamp: time.Now()})
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("err = %v, want ErrStorage", err)
	}
}

func TestSeedReadingsFromJSON(t *testing.T) {
	repo := newTestRepo(t)

	path := filepath.Join(t.TempDir(), "readings.json")
	body := `[
		{"fuel_level": 40.0, "distance": 10.0, "timestamp": "2026-01-01T08:00:00Z"},
		{"fuel_level": 38.5, "distance": 11.0, "timestamp": "2026-01-01T09:00:00Z"}
	]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	n, err := SeedReadingsFromJSON(context.Background(), repo, path)
	if err != nil {
		t.Fatalf("unexpected seed error: %v", err)
	}
	if n != 2 {
		t.Fatalf("seeded %d, want 2", n)
	}

	got, err := repo.QueryRecent(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("unexpected query error: %v", err)
	}
	if got[0].FuelLevel != 38.5 {
		t.Fatalf("latest fuel = %v, want 38.5", got[0].FuelLevel)
	}
}

func TestSeedIfEmptySkipsPopulatedStore(t *testing.T) {
	repo := newTestRepo(t)

	path := filepath.Join(t.TempDir(), "readings.json")
	body := `[
		{"fuel_level": 40.0, "distance": 10.0, "timestamp": "2026-01-01T08:00:00Z"},
		{"fuel_level": 38.5, "distance": 11.0, "timestamp": "2026-01-01T09:00:00Z"}
	]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	n, err := SeedIfEmpty(context.Background(), repo, path)
	if err != nil || n != 2 {
		t.Fatalf("first seed = (%d, %v), want (2, nil)", n, err)
	}

	// A restart must not import the same history again.
	n, err = SeedIfEmpty(context.Background(), repo, path)
	if err != nil || n != 0 {
		t.Fatalf("second seed = (%d, %v), want (0, nil)", n, err)
	}

	got, err := repo.QueryRecent(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected query error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("stored %d readings, want 2", len(got))
	}
}

func TestInsertBatchRollsBackOnFailure(t *testing.T) {
	repo := newTestRepo(t)

	// Reject the second row so the batch fails after the first insert.
	trigger := `
	CREATE TRIGGER reject_distance BEFORE INSERT ON fuel_readings
	WHEN NEW.distance = 11
	BEGIN
		SELECT RAISE(ABORT, 'rejected');
	END;
	`
	if _, err := repo.DB.Exec(trigger); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	ts := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	rows := []domain.FuelReading{
		{FuelLevel: 40, Distance: 10, Timestamp: ts},
		{FuelLevel: 39, Distance: 11, Timestamp: ts.Add(time.Hour)},
	}

	n, err := repo.InsertBatch(context.Background(), rows)
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("err = %v, want ErrStorage", err)
	}
	if n != 0 {
		t.Fatalf("inserted = %d, want 0", n)
	}

	got, err := repo.QueryRecent(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected query error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("stored %d readings after failed batch, want 0", len(got))
	}
}

func TestQueryRecentNilDBIsStorageError(t *testing.T) {
	stores := map[string]interface {
		QueryRecent(ctx context.Context, limit, offset int) ([]domain.StoredReading, error)
	}{
		"sqlite":   &SqliteReadingRepository{},
		"postgres": &SQLReadingRepository{},
	}
	for name, store := range stores {
		if _, err := store.QueryRecent(context.Background(), 1, 0); !errors.Is(err, domain.ErrStorage) {
			t.Fatalf("%s: err = %v, want ErrStorage", name, err)
		}
	}
}

func TestSeedReadingsFromJSONRejectsNegative(t *testing.T) {
	repo := newTestRepo(t)

	path := filepath.Join(t.TempDir(), "bad.json")
	body := `[{"fuel_level": -1, "distance": 0, "timestamp": "2026-01-01T08:00:00Z"}]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	if _, err := SeedReadingsFromJSON(context.Background(), repo, path); err == nil {
		t.Fatal("expected error for negative fuel level")
	}
}

func TestInitSchemaUnknownDialect(t *testing.T) {
	conn, err := db.OpenSqlite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer conn.Close()

	if err := InitSchema(conn, "mysql"); err == nil {
		t.Fatal("expected error for unsupported dialect")
	}
}
