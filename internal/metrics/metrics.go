package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	ReadingsReceived    atomic.Int64
	ReadingsPersisted   atomic.Int64
	ReadingsUnchanged   atomic.Int64
	StorageFailures     atomic.Int64
	PollSuccess         atomic.Int64
	PollFailures        atomic.Int64
	RouteRequests       atomic.Int64
	RouteFailures       atomic.Int64
	MalformedCandidates atomic.Int64
	RouteCacheHits      atomic.Int64
	PublishFailures     atomic.Int64
	SubscriberDrops     atomic.Int64
)

func HandleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "fuel_readings_received_total %d\n", ReadingsReceived.Load())
	fmt.Fprintf(w, "fuel_readings_persisted_total %d\n", ReadingsPersisted.Load())
	fmt.Fprintf(w, "fuel_readings_unchanged_total %d\n", ReadingsUnchanged.Load())
	fmt.Fprintf(w, "fuel_storage_failures_total %d\n", StorageFailures.Load())
	fmt.Fprintf(w, "telemetry_poll_success_total %d\n", PollSuccess.Load())
	fmt.Fprintf(w, "telemetry_poll_failures_total %d\n", PollFailures.Load())
	fmt.Fprintf(w, "route_requests_total %d\n", RouteRequests.Load())
	fmt.Fprintf(w, "route_failures_total %d\n", RouteFailures.Load())
	fmt.Fprintf(w, "route_malformed_candidates_total %d\n", MalformedCandidates.Load())
	fmt.Fprintf(w, "route_cache_hits_total %d\n", RouteCacheHits.Load())
	fmt.Fprintf(w, "state_publish_failures_total %d\n", PublishFailures.Load())
	fmt.Fprintf(w, "state_subscriber_drops_total %d\n", SubscriberDrops.Load())
}
