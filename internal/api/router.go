package api

import (
	"fuel-route-service/internal/api/handlers"
	"fuel-route-service/internal/metrics"
	"fuel-route-service/internal/ports"
	"fuel-route-service/internal/services"
	"net/http"
)

// Deps collects what the HTTP layer needs. Refresher may be nil.
type Deps struct {
	Store     ports.ReadingStore
	Ingestor  *services.ReadingIngestor
	Tracker   *services.FuelTracker
	Planner   *services.TripPlanner
	Refresher handlers.Refresher
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	readings := &handlers.ReadingHandler{Ingestor: d.Ingestor, Store: d.Store}
	status := &handlers.StatusHandler{Tracker: d.Tracker, Refresher: d.Refresher}
	trips := &handlers.TripHandler{Planner: d.Planner}
	advisory := &handlers.AdvisoryHandler{Tracker: d.Tracker}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/metrics", metrics.HandleMetrics)

	mux.HandleFunc("/api/fuel-readings", readings.Readings)
	mux.HandleFunc("/api/fuel-status", status.Status)
	mux.HandleFunc("/api/fuel-status/refresh", status.Refresh)
	mux.HandleFunc("/api/advisory", advisory.Advise)

	mux.HandleFunc("/api/trips", trips.Create)
	mux.HandleFunc("/api/trips/{id}", trips.Get)
	mux.HandleFunc("/api/trips/{id}/selection", trips.Select)

	// Websocket upgrades bypass the logging middleware's ResponseWriter wrapper.
	root := http.NewServeMux()
	root.HandleFunc("/ws/fuel", status.Stream)
	root.Handle("/", loggingMiddleware(mux))

	return requestIDMiddleware(root)
}
