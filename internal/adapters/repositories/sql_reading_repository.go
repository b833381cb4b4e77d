package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
)

// Postgres-backed implementation of the ReadingStore port (pgx stdlib driver).
type SQLReadingRepository struct{ DB *sql.DB }

func NewSQLReadingRepository(db *sql.DB) *SQLReadingRepository {
	return &SQLReadingRepository{DB: db}
}

func (s *SQLReadingRepository) Insert(ctx context.Context, r domain.FuelReading) (_ int64, err error) {
	defer obs.Time(ctx, "postgres.readings.Insert")(&err)

	if s.DB == nil {
		return 0, fmt.Errorf("%w: reading repository: DB is nil", domain.ErrStorage)
	}

	query := `
	INSERT INTO fuel_readings (fuel_level, distance, timestamp)
	VALUES ($1, $2, $3)
	RETURNING id;
	`
	var id int64
	if err := s.DB.QueryRowContext(ctx, query, r.FuelLevel, r.Distance, r.Timestamp).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: insert reading: %w", domain.ErrStorage, err)
	}

	return id, nil
}

func (s *SQLReadingRepository) QueryRecent(ctx context.Context, limit, offset int) (_ []domain.StoredReading, err error) {
	defer obs.Time(ctx, "postgres.readings.QueryRecent")(&err)

	if s.DB == nil {
		return nil, fmt.Errorf("%w: reading repository: DB is nil", domain.ErrStorage)
	}
	if err := validatePage(limit, offset); err != nil {
		return nil, err
	}

	query := `
	SELECT id, fuel_level, distance, timestamp
	FROM fuel_readings
	ORDER BY timestamp DESC, id DESC
	LIMIT $1 OFFSET $2;
	`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: query recent readings: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	readings := make([]domain.StoredReading, 0, limit)
	for rows.Next() {
		var r domain.StoredReading
		if err := rows.Scan(&r.ID, &r.FuelLevel, &r.Distance, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: query recent readings: scan row: %w", domain.ErrStorage, err)
		}
		r.Timestamp = r.Timestamp.UTC()
		readings = append(readings, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: query recent readings: row iteration: %w", domain.ErrStorage, err)
	}

	return readings, nil
}

// InsertBatch writes all readings in one transaction; on failure nothing is kept.
func (s *SQLReadingRepository) InsertBatch(ctx context.Context, readings []domain.FuelReading) (_ int, err error) {
	defer obs.Time(ctx, "postgres.readings.InsertBatch")(&err)

	if s.DB == nil {
		return 0, fmt.Errorf("%w: reading repository: DB is nil", domain.ErrStorage)
	}

	query := `
	INSERT INTO fuel_readings (fuel_level, distance, timestamp)
	VALUES ($1, $2, $3);
	`
	return insertBatch(ctx, s.DB, query, readings, func(r domain.FuelReading) []any {
		return []any{r.FuelLevel, r.Distance, r.Timestamp}
	})
}
