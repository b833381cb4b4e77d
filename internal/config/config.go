package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// HTTP
	Port string

	// Reading store
	DBDriver     string
	DBPath       string
	DatabaseURL  string
	StoreTimeout time.Duration
	SeedPath     string

	// Redis state publishing (disabled when RedisAddr is empty)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Telemetry polling (disabled when TelemetryURL is empty)
	TelemetryURL     string
	TelemetryTimeout time.Duration
	PollInterval     time.Duration

	// Routing
	RoutingProvider  string
	ORSAPIKey        string
	GoogleMapsAPIKey string
	RoutingTimeout   time.Duration
	RouteCacheTTL    time.Duration
	PlanTTL          time.Duration
}

func Load() *Config {
	return &Config{
		Port:             Get("PORT", "3001"),
		DBDriver:         Get("DB_DRIVER", "sqlite"),
		DBPath:           Get("DB_PATH", "data/fuel.db"),
		DatabaseURL:      Get("DATABASE_URL", ""),
		StoreTimeout:     getEnvDuration("STORE_TIMEOUT", 5*time.Second),
		SeedPath:         Get("SEED_PATH", ""),
		RedisAddr:        Get("REDIS_ADDR", ""),
		RedisPassword:    Get("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		TelemetryURL:     Get("TELEMETRY_URL", ""),
		TelemetryTimeout: getEnvDuration("TELEMETRY_TIMEOUT", 5*time.Second),
		PollInterval:     getEnvDuration("POLL_INTERVAL", 30*time.Second),
		RoutingProvider:  Get("ROUTING_PROVIDER", "ors"),
		ORSAPIKey:        Get("ORS_API_KEY", ""),
		GoogleMapsAPIKey: Get("GOOGLE_MAPS_API_KEY", ""),
		RoutingTimeout:   getEnvDuration("ROUTING_TIMEOUT", 10*time.Second),
		RouteCacheTTL:    getEnvDuration("ROUTE_CACHE_TTL", 10*time.Minute),
		PlanTTL:          getEnvDuration("PLAN_TTL", 30*time.Minute),
	}
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// Durations accept Go syntax ("30s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}
