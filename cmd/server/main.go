package main

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/adapters/cache"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/adapters/routing"
	"fuel-route-service/internal/adapters/state"
	"fuel-route-service/internal/adapters/telemetry"
	"fuel-route-service/internal/api"
	"fuel-route-service/internal/config"
	"fuel-route-service/internal/ports"
	"fuel-route-service/internal/services"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, dialect, err := repositories.OpenStore(cfg.DBDriver, cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := repositories.InitSchema(conn, dialect); err != nil {
		log.Fatal(err)
	}

	store := repositories.NewReadingStore(conn, dialect)
	var routeCache ports.RouteCache
	if dialect == repositories.DialectPostgres {
		routeCache = cache.NewSQLRouteCache(conn, cfg.RouteCacheTTL)
	} else {
		routeCache = cache.NewSqliteRouteCache(conn, cfg.RouteCacheTTL)
	}

	if cfg.SeedPath != "" {
		n, err := repositories.SeedIfEmpty(ctx, store, cfg.SeedPath)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("seeded readings count=%d path=%s", n, cfg.SeedPath)
	}

	// The change gate compares against the newest stored reading after a restart.
	initial, err := services.RestoreLastReading(ctx, store)
	if err != nil {
		log.Fatal(err)
	}
	if initial.Unset() {
		log.Println("No previous readings found in store")
	} else {
		log.Printf("initialized last reading fuel_level=%.3f distance=%.2f", *initial.FuelLevel, *initial.Distance)
	}

	tracker := services.NewFuelTracker(initial)

	var publisher ports.StatePublisher
	if cfg.RedisAddr != "" {
		p, err := state.NewRedisStatePublisher(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal(err)
		}
		defer p.Close()
		publisher = p
		log.Printf("publishing fuel state to redis addr=%s", cfg.RedisAddr)
	}

	ingestor := services.NewReadingIngestor(store, tracker, publisher, cfg.StoreTimeout)

	deps := api.Deps{Store: store, Ingestor: ingestor, Tracker: tracker}

	if cfg.TelemetryURL != "" {
		source, err := telemetry.NewHTTPSource(cfg.TelemetryURL, cfg.TelemetryTimeout)
		if err != nil {
			log.Fatal(err)
		}
		poller := services.NewTelemetryPoller(source, ingestor, tracker, cfg.PollInterval, cfg.TelemetryTimeout)
		poller.Start(ctx)
		defer poller.Stop()
		deps.Refresher = poller
		log.Printf("polling telemetry url=%s interval=%s", cfg.TelemetryURL, cfg.PollInterval)
	}

	provider, err := newRouteProvider(cfg)
	if err != nil {
		log.Fatal(err)
	}
	provider = routing.NewCachedRouteProvider(provider, routeCache)

	registry := services.NewPlanRegistry(cfg.PlanTTL)
	deps.Planner = services.NewTripPlanner(provider, tracker, registry, cfg.RoutingTimeout)

	router := api.NewRouter(deps)

	// WriteTimeout stays zero: /ws/fuel connections are long lived.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Println("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown failed: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server failed: %v", err)
	}
}

func newRouteProvider(cfg *config.Config) (ports.RouteProvider, error) {
	switch strings.ToLower(cfg.RoutingProvider) {
	case "ors":
		return routing.NewORSRouteProvider(cfg.ORSAPIKey, cfg.RoutingTimeout)
	case "google":
		return routing.NewGoogleRouteProvider(cfg.GoogleMapsAPIKey, cfg.RoutingTimeout)
	case "mock":
		log.Println("using mock route provider")
		return routing.NewMockRouteProvider(routing.DefaultMockRoutes()), nil
	default:
		return nil, fmt.Errorf("unsupported ROUTING_PROVIDER %q", cfg.RoutingProvider)
	}
}
