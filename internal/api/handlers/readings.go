package handlers

import (
	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"
	"fuel-route-service/internal/services"
	"net/http"
	"strconv"
)

const (
	defaultReadingsLimit = 100
	maxReadingsLimit     = 1000
)

// ReadingHandler serves device ingestion and reading history.
type ReadingHandler struct {
	Ingestor *services.ReadingIngestor
	Store    ports.ReadingStore
}

// Readings dispatches on method for /api/fuel-readings.
func (h *ReadingHandler) Readings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.Create(w, r)
	case http.MethodGet:
		h.List(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *ReadingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReadingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	reading := domain.FuelReading{FuelLevel: *req.FuelLevel, Distance: *req.Distance}
	if req.Timestamp != nil {
		reading.Timestamp = req.Timestamp.UTC()
	}

	res, err := h.Ingestor.Ingest(r.Context(), reading)
	if err != nil {
		writeServiceError(w, r, "ingest reading", err)
		return
	}

	if !res.Persisted {
		writeJSON(w, r, http.StatusOK, dto.CreateReadingResponse{
			Message:      "Fuel reading unchanged, not stored",
			IsNewReading: false,
		})
		return
	}

	id := res.ID
	writeJSON(w, r, http.StatusCreated, dto.CreateReadingResponse{
		ID:           &id,
		Message:      "Fuel reading saved successfully",
		IsNewReading: true,
	})
}

func (h *ReadingHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", defaultReadingsLimit)
	if !ok {
		return
	}
	offset, ok := queryInt(w, r, "offset", 0)
	if !ok {
		return
	}
	if limit < 1 || limit > maxReadingsLimit {
		writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 1000")
		return
	}
	if offset < 0 {
		writeError(w, r, http.StatusBadRequest, "offset must be non-negative")
		return
	}

	readings, err := h.Store.QueryRecent(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, "list readings", err)
		return
	}

	res := make([]dto.ReadingResponse, 0, len(readings))
	for _, rd := range readings {
		res = append(res, dto.ReadingResponse{
			ID:        rd.ID,
			FuelLevel: rd.FuelLevel,
			Distance:  rd.Distance,
			Timestamp: rd.Timestamp,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func queryInt(w http.ResponseWriter, r *http.Request, key string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, key+" must be an integer")
		return 0, false
	}
	return v, true
}
