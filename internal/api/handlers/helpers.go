package handlers

import (
	"encoding/json"
	"errors"
	"fuel-route-service/internal/domain"
	"io"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// validator caches struct metadata and is safe for concurrent use.
var validate = validator.New()

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeBody decodes exactly one JSON object into dst and validates it.
// On failure the 400 response has already been written.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "validation failed: "+err.Error())
		return false
	}
	return true
}

// writeServiceError maps domain error kinds onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPlanNotFound):
		writeError(w, r, http.StatusNotFound, "trip plan not found")
	case errors.Is(err, domain.ErrRouting):
		writeError(w, r, http.StatusUnprocessableEntity, "cannot calculate route")
	case errors.Is(err, domain.ErrConnectivity):
		log.Printf("%s failed: %v", op, err)
		writeError(w, r, http.StatusBadGateway, "upstream unavailable")
	case errors.Is(err, domain.ErrStorage):
		log.Printf("%s failed: %v", op, err)
		writeError(w, r, http.StatusInternalServerError, "Database error")
	default:
		log.Printf("%s failed: %v", op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
