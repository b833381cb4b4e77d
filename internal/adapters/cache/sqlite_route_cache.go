package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"time"
)

// SQLite backed cache for origin->destination route candidates.
// Entries older than TTL are treated as misses and overwritten on Put.
type SqliteRouteCache struct {
	DB  *sql.DB
	TTL time.Duration
	now func() time.Time
}

func NewSqliteRouteCache(db *sql.DB, ttl time.Duration) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db, TTL: ttl, now: time.Now}
}

func (s *SqliteRouteCache) Get(
	ctx context.Context,
	origin, destination domain.Coordinates,
) (_ []domain.RouteCandidate, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	query := `
	SELECT payload, fetched_at
	FROM route_cache
	WHERE origin = ? AND destination = ?;
	`
	var payload string
	var fetchedAt int64
	err = s.DB.QueryRowContext(ctx, query, origin.Key(), destination.Key()).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	if s.TTL > 0 && s.now().Sub(time.UnixMilli(fetchedAt)) > s.TTL {
		return nil, false, nil
	}

	candidates, err := decodeCandidates([]byte(payload))
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: %w", err)
	}
	return candidates, true, nil
}

func (s *SqliteRouteCache) Put(
	ctx context.Context,
	origin, destination domain.Coordinates,
	candidates []domain.RouteCandidate,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	payload, err := encodeCandidates(candidates)
	if err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO route_cache (origin, destination, payload, fetched_at)
	VALUES (?, ?, ?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, query, origin.Key(), destination.Key(), string(payload), s.now().UnixMilli()); err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	return nil
}
