package handlers

import (
	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/services"
	"net/http"
)

// TripHandler plans trips and manages the driver's route selection.
type TripHandler struct {
	Planner *services.TripPlanner
}

func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PlanTripRequest
	if !decodeBody(w, r, &req) {
		return
	}

	origin := domain.Coordinates{Lon: *req.Origin.Lon, Lat: *req.Origin.Lat}
	dest := domain.Coordinates{Lon: *req.Destination.Lon, Lat: *req.Destination.Lat}

	plan, err := h.Planner.Plan(r.Context(), origin, dest)
	if err != nil {
		writeServiceError(w, r, "plan trip", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toPlanResponse(plan))
}

func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	plan, err := h.Planner.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get trip plan", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toPlanResponse(plan))
}

func (h *TripHandler) Select(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.SelectRouteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	plan, err := h.Planner.Select(r.Context(), r.PathValue("id"), *req.Index)
	if err != nil {
		writeServiceError(w, r, "select route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toPlanResponse(plan))
}

func toPlanResponse(p services.TripPlan) dto.TripPlanResponse {
	res := dto.TripPlanResponse{
		ID:            p.ID,
		Origin:        dto.CoordinatesResponse{Lat: p.Origin.Lat, Lon: p.Origin.Lon},
		Destination:   dto.CoordinatesResponse{Lat: p.Destination.Lat, Lon: p.Destination.Lon},
		AvailableFuel: p.AvailableFuel,
		FuelKnown:     p.FuelKnown,
		Selected:      p.Selected,
		Routes:        make([]dto.RankedRouteResponse, 0, len(p.Routes)),
		RankedAt:      p.RankedAt,
	}

	for _, rt := range p.Routes {
		item := dto.RankedRouteResponse{
			CandidateIndex:     rt.CandidateIndex,
			DistanceKm:         rt.DistanceKm,
			DurationMin:        rt.DurationMin,
			FuelRequiredLiters: rt.FuelRequiredLiters,
			IsEfficient:        rt.IsEfficient,
			Geometry:           rt.Geometry,
		}
		if p.FuelKnown {
			remaining := rt.RemainingFuel(p.AvailableFuel)
			if rt.IsEfficient {
				item.RemainingFuel = &remaining
			} else {
				shortfall := -remaining
				item.Shortfall = &shortfall
			}
		}
		res.Routes = append(res.Routes, item)
	}

	for _, s := range p.Skipped {
		res.Skipped = append(res.Skipped, dto.SkippedCandidateResponse{CandidateIndex: s.Index, Reason: s.Reason})
	}

	if p.Advisory != nil {
		adv := toAdvisoryResponse(*p.Advisory)
		res.Advisory = &adv
	}

	return res
}
