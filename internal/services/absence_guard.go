package services

import (
	"time"

	"technician-dispatch-service/internal/domain"
)

// IsAbsent reports whether any absence matches the technician on the
// calendar date of day. Time of day is ignored.
func IsAbsent(technicianID string, day time.Time, absences []domain.Absence) bool {
	for _, a := range absences {
		if a.TechnicianID == technicianID && a.OnDay(day) {
			return true
		}
	}
	return false
}

// CheckPresent returns a *domain.TechnicianAbsentError when the technician
// is absent on day. Searches and bookings call it before anything else.
func CheckPresent(technicianID string, day time.Time, absences []domain.Absence) error {
	if IsAbsent(technicianID, day, absences) {
		return &domain.TechnicianAbsentError{TechnicianID: technicianID, Day: day}
	}
	return nil
}
