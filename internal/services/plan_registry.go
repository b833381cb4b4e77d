package services

import (
	"fuel-route-service/internal/domain"
	"sync"
	"time"
)

// PlanRegistry keeps recent trip plans so a client can re-select a route.
// Entries expire after ttl; expired entries are evicted lazily on Put.
type PlanRegistry struct {
	mu    sync.Mutex
	ttl   time.Duration
	plans map[string]registryEntry
	now   func() time.Time
}

type registryEntry struct {
	plan      TripPlan
	expiresAt time.Time
}

func NewPlanRegistry(ttl time.Duration) *PlanRegistry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &PlanRegistry{
		ttl:   ttl,
		plans: make(map[string]registryEntry),
		now:   time.Now,
	}
}

func (r *PlanRegistry) Put(p TripPlan) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, e := range r.plans {
		if now.After(e.expiresAt) {
			delete(r.plans, id)
		}
	}
	r.plans[p.ID] = registryEntry{plan: p.clone(), expiresAt: now.Add(r.ttl)}
}

func (r *PlanRegistry) Get(id string) (TripPlan, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.plans[id]
	if !ok || r.now().After(e.expiresAt) {
		return TripPlan{}, false
	}
	return e.plan.clone(), true
}

func (r *PlanRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.plans)
}

func (p TripPlan) clone() TripPlan {
	out := p
	out.Candidates = append([]domain.RouteCandidate(nil), p.Candidates...)
	out.Routes = append([]domain.RankedRoute(nil), p.Routes...)
	out.Skipped = append([]domain.MalformedCandidateError(nil), p.Skipped...)
	if p.Advisory != nil {
		a := *p.Advisory
		out.Advisory = &a
	}
	return out
}
