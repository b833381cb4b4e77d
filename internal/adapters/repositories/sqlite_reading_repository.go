package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"time"
)

// SQLite-backed implementation of the ReadingStore port.
// Timestamps are stored as unix milliseconds so ordering is numeric.
type SqliteReadingRepository struct{ DB *sql.DB }

func NewSqliteReadingRepository(db *sql.DB) *SqliteReadingRepository {
	return &SqliteReadingRepository{DB: db}
}

func (s *SqliteReadingRepository) Insert(ctx context.Context, r domain.FuelReading) (_ int64, err error) {
	defer obs.Time(ctx, "sqlite.readings.Insert")(&err)

	if s.DB == nil {
		return 0, fmt.Errorf("%w: sqlite reading repository: DB is nil", domain.ErrStorage)
	}

	query := `
	INSERT INTO fuel_readings (
		fuel_level,
		distance,
		timestamp
	)
	VALUES (?, ?, ?);
	`
	res, err := s.DB.ExecContext(ctx, query, r.FuelLevel, r.Distance, r.Timestamp.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("%w: insert reading: %w", domain.ErrStorage, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: insert reading: last insert id: %w", domain.ErrStorage, err)
	}

	return id, nil
}

func (s *SqliteReadingRepository) QueryRecent(ctx context.Context, limit, offset int) (_ []domain.StoredReading, err error) {
	defer obs.Time(ctx, "sqlite.readings.QueryRecent")(&err)

	if s.DB == nil {
		return nil, fmt.Errorf("%w: sqlite reading repository: DB is nil", domain.ErrStorage)
	}
	if err := validatePage(limit, offset); err != nil {
		return nil, err
	}

	query := `
	SELECT
		id,
		fuel_level,
		distance,
		timestamp
	FROM fuel_readings
	ORDER BY timestamp DESC, id DESC
	LIMIT ? OFFSET ?;
	`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: query recent readings: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	readings := make([]domain.StoredReading, 0, limit)
	for rows.Next() {
		var r domain.StoredReading
		var ms int64
		if err := rows.Scan(&r.ID, &r.FuelLevel, &r.Distance, &ms); err != nil {
			return nil, fmt.Errorf("%w: query recent readings: scan row: %w", domain.ErrStorage, err)
		}
		r.Timestamp = time.UnixMilli(ms).UTC()
		readings = append(readings, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: query recent readings: row iteration: %w", domain.ErrStorage, err)
	}

	return readings, nil
}

// InsertBatch writes all readings in one transaction; on failure nothing is kept.
func (s *SqliteReadingRepository) InsertBatch(ctx context.Context, readings []domain.FuelReading) (_ int, err error) {
	defer obs.Time(ctx, "sqlite.readings.InsertBatch")(&err)

	if s.DB == nil {
		return 0, fmt.Errorf("%w: sqlite reading repository: DB is nil", domain.ErrStorage)
	}

	query := `
	INSERT INTO fuel_readings (fuel_level, distance, timestamp)
	VALUES (?, ?, ?);
	`
	return insertBatch(ctx, s.DB, query, readings, func(r domain.FuelReading) []any {
		return []any{r.FuelLevel, r.Distance, r.Timestamp.UnixMilli()}
	})
}

// Shared by both dialects: prepare once inside a tx, exec per row, commit.
func insertBatch(ctx context.Context, db *sql.DB, query string, readings []domain.FuelReading, args func(domain.FuelReading) []any) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: insert batch: begin tx: %w", domain.ErrStorage, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("%w: insert batch: prepare: %w", domain.ErrStorage, err)
	}
	defer stmt.Close()

	for i, r := range readings {
		if _, err := stmt.ExecContext(ctx, args(r)...); err != nil {
			return 0, fmt.Errorf("%w: insert batch: row %d: %w", domain.ErrStorage, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: insert batch: commit tx: %w", domain.ErrStorage, err)
	}

	return len(readings), nil
}

func validatePage(limit, offset int) error {
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", domain.ErrInvalidInput, limit)
	}
	if offset < 0 {
		return fmt.Errorf("%w: offset must be non-negative, got %d", domain.ErrInvalidInput, offset)
	}
	return nil
}
