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

// SQLRouteCache is a Postgres-backed cache for origin->destination route candidates.
type SQLRouteCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLRouteCache(db *sql.DB, ttl time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: db, TTL: ttl}
}

func (s *SQLRouteCache) Get(
	ctx context.Context,
	origin, destination domain.Coordinates,
) (_ []domain.RouteCandidate, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	q := `
	SELECT payload
	FROM route_cache
	WHERE origin = $1
		AND destination = $2
		AND ($3::bigint = 0 OR fetched_at > NOW() - make_interval(secs => $3::bigint));
	`

	var payload []byte
	err = s.DB.QueryRowContext(ctx, q, origin.Key(), destination.Key(), int64(s.TTL.Seconds())).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	candidates, err := decodeCandidates(payload)
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: %w", err)
	}
	return candidates, true, nil
}

func (s *SQLRouteCache) Put(
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

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO route_cache (origin, destination, payload, fetched_at)
	VALUES ($1, $2, $3::jsonb, NOW())
	ON CONFLICT (origin, destination) DO UPDATE
	SET payload = EXCLUDED.payload,
		fetched_at = EXCLUDED.fetched_at;
	`, origin.Key(), destination.Key(), string(payload))
	if err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	return nil
}
