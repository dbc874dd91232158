package ports

import (
	"context"
	"time"

	"technician-dispatch-service/internal/domain"
)

// Port: read access to full-day technician absences.
type AbsenceRepository interface {
	// Return the technician's absences whose date lies in [from, to].
	ListAbsences(ctx context.Context, technicianID string, from, to time.Time) ([]domain.Absence, error)
}
