package handlers

import (
	"net/http"
	"strings"

	"technician-dispatch-service/internal/api/dto"
	"technician-dispatch-service/internal/application"
)

type AppointmentHandler struct {
	Scheduler Scheduler
}

// Create books an appointment. A slot claimed since the dispatcher's search
// answers 409.
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.BookRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tech := strings.TrimSpace(req.TechnicianID)
	if tech == "" {
		writeError(w, r, http.StatusBadRequest, "technician_id is required")
		return
	}
	customer := strings.TrimSpace(req.CustomerID)
	if customer == "" {
		writeError(w, r, http.StatusBadRequest, "customer_id is required")
		return
	}
	if req.Start.IsZero() {
		writeError(w, r, http.StatusBadRequest, "start is required")
		return
	}

	coords := req.Customer.ToDomain()
	if !validTarget(coords) {
		writeError(w, r, http.StatusBadRequest, "customer coordinates out of range")
		return
	}

	appt, err := h.Scheduler.Book(r.Context(), application.BookInput{
		TechnicianID:    tech,
		CustomerID:      customer,
		Start:           req.Start,
		DurationMinutes: req.DurationMinutes,
		Customer:        coords,
	})
	if err != nil {
		writeSchedulingError(w, r, "book appointment", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.FromAppointment(appt))
}
