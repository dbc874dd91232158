package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"technician-dispatch-service/internal/domain"
	"technician-dispatch-service/internal/platform/obs"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().
			Str("req_id", obs.RequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Err(err).
			Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func writeErrorCode(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg, "code": code})
}

// Decode exactly one JSON object from the body into v, rejecting unknown
// fields. Writes a 400 and returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// Parse a YYYY-MM-DD day as midnight in loc.
func parseDay(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), loc)
}

func validTarget(c *domain.Coordinates) bool {
	return c == nil || c.Valid()
}

// Translate scheduling errors into HTTP responses. Unknown errors are logged
// and reported as 500 without detail.
func writeSchedulingError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var (
		invalid *domain.InvalidDurationError
		absent  *domain.TechnicianAbsentError
		full    *domain.NoAvailableSlotError
	)
	switch {
	case errors.As(err, &invalid):
		writeErrorCode(w, r, http.StatusBadRequest, "invalid_duration", invalid.Error())
	case errors.As(err, &absent):
		writeErrorCode(w, r, http.StatusUnprocessableEntity, "technician_absent", absent.Error())
	case errors.As(err, &full):
		writeErrorCode(w, r, http.StatusUnprocessableEntity, "no_available_slot", full.Error())
	case errors.Is(err, domain.ErrOutsideWorkingWindow):
		writeErrorCode(w, r, http.StatusUnprocessableEntity, "outside_working_window", err.Error())
	case errors.Is(err, domain.ErrSlotTaken):
		writeErrorCode(w, r, http.StatusConflict, "slot_taken", err.Error())
	default:
		log.Error().
			Str("req_id", obs.RequestID(r.Context())).
			Str("op", op).
			Err(err).
			Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
