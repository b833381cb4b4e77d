package handlers

import (
	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/services"
	"net/http"
	"strconv"
)

// AdvisoryHandler answers "can I drive this far on what's in the tank?".
type AdvisoryHandler struct {
	Tracker *services.FuelTracker
}

func (h *AdvisoryHandler) Advise(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	km, err := strconv.ParseFloat(r.URL.Query().Get("distance_km"), 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "distance_km must be a number")
		return
	}

	fuel, known := h.Tracker.AvailableFuel()
	if !known {
		writeError(w, r, http.StatusConflict, "fuel level not yet known")
		return
	}

	adv, err := services.Advise(km, fuel)
	if err != nil {
		writeServiceError(w, r, "advise", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toAdvisoryResponse(adv))
}

func toAdvisoryResponse(a domain.Advisory) dto.AdvisoryResponse {
	return dto.AdvisoryResponse{
		Kind:                string(a.Kind),
		DistanceKm:          a.DistanceKm,
		EstimatedFuelNeeded: a.EstimatedFuelNeeded,
		AvailableFuel:       a.AvailableFuel,
		RemainingFuel:       a.RemainingFuel,
		Shortfall:           a.Shortfall,
		Message:             a.Message,
	}
}
