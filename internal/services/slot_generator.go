package services

import (
	"iter"
	"time"

	"technician-dispatch-service/internal/domain"
)

// GenerateSlots yields candidate slots of durationMinutes on the civil date
// of day, starting at the window start and stepping by the window
// granularity while the start is before the window end. Slots that would run
// past the window end are not yielded.
//
// Starts are computed as civil clock times in the window location, so a DST
// transition does not shift the grid. The sequence is lazy and restartable.
func GenerateSlots(day time.Time, window domain.WorkingWindow, durationMinutes int) iter.Seq[domain.TimeInterval] {
	return func(yield func(domain.TimeInterval) bool) {
		if window.GranularityMinutes <= 0 || durationMinutes <= 0 {
			return
		}

		loc := window.Loc()
		y, m, d := day.In(loc).Date()
		_, windowEnd := window.Bounds(day)

		for k := 0; ; k++ {
			start := time.Date(y, m, d, window.StartHour, k*window.GranularityMinutes, 0, 0, loc)
			if !start.Before(windowEnd) {
				return
			}

			slot := domain.TimeInterval{Start: start, DurationMinutes: durationMinutes}
			if slot.End().After(windowEnd) {
				return
			}
			if !yield(slot) {
				return
			}
		}
	}
}
