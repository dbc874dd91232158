package services

import "technician-dispatch-service/internal/domain"

// Overlaps reports whether two half-open intervals share a non-zero span.
// Touching endpoints do not overlap.
func Overlaps(a, b domain.TimeInterval) bool {
	return a.Start.Before(b.End()) && a.End().After(b.Start)
}

// IsFree reports whether candidate overlaps none of the existing intervals.
func IsFree(candidate domain.TimeInterval, existing []domain.TimeInterval) bool {
	for _, e := range existing {
		if Overlaps(candidate, e) {
			return false
		}
	}
	return true
}

// BusyIntervals returns the intervals of appointments that occupy technician
// time. Cancelled appointments are dropped.
func BusyIntervals(appts []domain.Appointment) []domain.TimeInterval {
	busy := make([]domain.TimeInterval, 0, len(appts))
	for _, a := range appts {
		if !a.Blocks() {
			continue
		}
		busy = append(busy, a.Interval())
	}
	return busy
}
