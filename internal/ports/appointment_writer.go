package ports

import (
	"context"

	"technician-dispatch-service/internal/domain"
)

// Port: the booking write path.
//
// Implementations must re-validate on write: the insert succeeds only when no
// non-cancelled appointment of the same technician overlaps the new one,
// otherwise domain.ErrSlotTaken is returned. Slot searches run on snapshots
// that can be stale by the time a dispatcher books.
type AppointmentWriter interface {
	CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
}
