package state

import (
	"context"
	"encoding/json"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	StateKey       = "fuel:state"
	ReadingChannel = "fuel:readings"
)

// RedisStatePublisher mirrors the last accepted reading into a Redis hash
// and announces it on a pub/sub channel for downstream dashboards.
type RedisStatePublisher struct {
	client *redis.Client
}

func NewRedisStatePublisher(ctx context.Context, addr, password string, db int) (*RedisStatePublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStatePublisher{client: client}, nil
}

func NewRedisStatePublisherFromClient(client *redis.Client) *RedisStatePublisher {
	return &RedisStatePublisher{client: client}
}

func (r *RedisStatePublisher) Close() error {
	return r.client.Close()
}

func (r *RedisStatePublisher) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

type readingMessage struct {
	ID        int64   `json:"id"`
	FuelLevel float64 `json:"fuel_level"`
	Distance  float64 `json:"distance"`
	Timestamp string  `json:"timestamp"`
}

func (r *RedisStatePublisher) PublishReading(ctx context.Context, reading domain.StoredReading) (err error) {
	defer obs.Time(ctx, "state.PublishReading")(&err)

	ts := reading.Timestamp.UTC().Format(time.RFC3339Nano)
	payload, err := json.Marshal(readingMessage{
		ID:        reading.ID,
		FuelLevel: reading.FuelLevel,
		Distance:  reading.Distance,
		Timestamp: ts,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, StateKey, map[string]interface{}{
		"id":         reading.ID,
		"fuel_level": reading.FuelLevel,
		"distance":   reading.Distance,
		"timestamp":  ts,
	})
	pipe.Publish(ctx, ReadingChannel, payload)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline failed: %w", err)
	}

	return nil
}
