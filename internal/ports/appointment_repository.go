package ports

import (
	"context"
	"time"

	"technician-dispatch-service/internal/domain"
)

// Port: read access to the appointments owned by the external data service.
type AppointmentRepository interface {
	// Return the technician's appointments that touch [from, to),
	// cancelled ones included, ordered by start time.
	ListAppointments(ctx context.Context, technicianID string, from, to time.Time) ([]domain.Appointment, error)
}
