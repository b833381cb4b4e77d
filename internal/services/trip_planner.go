package services

import (
	"context"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/metrics"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"log"
	"time"

	"github.com/google/uuid"
)

// TripPlan is a ranked set of routes for one origin/destination request plus
// the driver's current selection.
type TripPlan struct {
	ID            string
	Origin        domain.Coordinates
	Destination   domain.Coordinates
	Candidates    []domain.RouteCandidate
	AvailableFuel float64
	FuelKnown     bool
	Routes        []domain.RankedRoute
	Skipped       []domain.MalformedCandidateError
	Selected      int
	Advisory      *domain.Advisory
	RankedAt      time.Time
}

// Active returns the currently selected route.
func (p TripPlan) Active() domain.RankedRoute {
	return p.Routes[p.Selected]
}

// TripPlanner combines provider routes with the tracker's fuel state.
type TripPlanner struct {
	provider ports.RouteProvider
	tracker  *FuelTracker
	registry *PlanRegistry
	timeout  time.Duration
	now      func() time.Time
}

func NewTripPlanner(
	provider ports.RouteProvider,
	tracker *FuelTracker,
	registry *PlanRegistry,
	timeout time.Duration,
) *TripPlanner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TripPlanner{
		provider: provider,
		tracker:  tracker,
		registry: registry,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Plan fetches candidates, ranks them against the current fuel and selects
// the top route.
func (t *TripPlanner) Plan(ctx context.Context, origin, destination domain.Coordinates) (_ TripPlan, err error) {
	defer obs.Time(ctx, "trip.Plan")(&err)
	metrics.RouteRequests.Add(1)

	routeCtx, cancel := context.WithTimeout(ctx, t.timeout)
	candidates, err := t.provider.GetRoutes(routeCtx, origin, destination)
	cancel()
	if err != nil {
		metrics.RouteFailures.Add(1)
		return TripPlan{}, fmt.Errorf("plan trip: get routes: %w", err)
	}
	if len(candidates) == 0 {
		metrics.RouteFailures.Add(1)
		return TripPlan{}, fmt.Errorf("plan trip: %w: provider returned no routes", domain.ErrRouting)
	}

	plan := TripPlan{
		ID:          uuid.NewString(),
		Origin:      origin,
		Destination: destination,
		Candidates:  candidates,
	}
	if err := t.rank(&plan, -1); err != nil {
		metrics.RouteFailures.Add(1)
		return TripPlan{}, fmt.Errorf("plan trip: %w", err)
	}

	t.registry.Put(plan)
	return plan, nil
}

// Get returns a stored plan without re-ranking.
func (t *TripPlanner) Get(id string) (TripPlan, error) {
	plan, ok := t.registry.Get(id)
	if !ok {
		return TripPlan{}, fmt.Errorf("get trip plan %q: %w", id, domain.ErrPlanNotFound)
	}
	return plan, nil
}

// Select makes routes[index] the active route.
//
// While the fuel state is unchanged this is a lookup. If fuel changed since the
// plan was ranked, the retained candidates are re-ranked and the route the
// driver picked is located again in the fresh order.
func (t *TripPlanner) Select(ctx context.Context, id string, index int) (_ TripPlan, err error) {
	defer obs.Time(ctx, "trip.Select")(&err)

	plan, ok := t.registry.Get(id)
	if !ok {
		return TripPlan{}, fmt.Errorf("select route: plan %q: %w", id, domain.ErrPlanNotFound)
	}
	if index < 0 || index >= len(plan.Routes) {
		return TripPlan{}, fmt.Errorf(
			"select route: %w: index %d out of range [0,%d)",
			domain.ErrInvalidInput, index, len(plan.Routes),
		)
	}

	fuel, known := t.tracker.AvailableFuel()
	if known == plan.FuelKnown && fuel == plan.AvailableFuel {
		plan.Selected = index
		plan.Advisory = advisoryFor(plan)
	} else {
		picked := plan.Routes[index].CandidateIndex
		log.Printf("fuel changed since ranking plan_id=%s old=%.3f new=%.3f, re-ranking", id, plan.AvailableFuel, fuel)
		if err := t.rank(&plan, picked); err != nil {
			return TripPlan{}, fmt.Errorf("select route: %w", err)
		}
	}

	t.registry.Put(plan)
	return plan, nil
}

// rank recomputes plan.Routes from plan.Candidates with the current fuel and
// selects the route built from candidate `picked`, or the top route when picked < 0.
func (t *TripPlanner) rank(plan *TripPlan, picked int) error {
	fuel, known := t.tracker.AvailableFuel()

	ranking, err := RankRoutes(plan.Candidates, fuel)
	if err != nil {
		return err
	}
	if len(ranking.Skipped) > 0 {
		metrics.MalformedCandidates.Add(int64(len(ranking.Skipped)))
		log.Printf("skipped malformed route candidates plan_id=%s count=%d", plan.ID, len(ranking.Skipped))
	}
	if len(ranking.Routes) == 0 {
		return fmt.Errorf("%w: all %d candidates were malformed", domain.ErrRouting, len(plan.Candidates))
	}

	plan.AvailableFuel = fuel
	plan.FuelKnown = known
	plan.Routes = ranking.Routes
	plan.Skipped = ranking.Skipped
	plan.RankedAt = t.now().UTC()
	plan.Selected = 0
	for i, r := range ranking.Routes {
		if r.CandidateIndex == picked {
			plan.Selected = i
			break
		}
	}
	plan.Advisory = advisoryFor(*plan)
	return nil
}

// advisoryFor is omitted when the fuel level is unknown.
func advisoryFor(plan TripPlan) *domain.Advisory {
	if !plan.FuelKnown {
		return nil
	}
	adv, err := Advise(plan.Active().DistanceKm, plan.AvailableFuel)
	if err != nil {
		return nil
	}
	return &adv
}
