package services

import (
	"slices"

	"technician-dispatch-service/internal/domain"
)

// RankFreeSlots orders free slots by travel distance from the technician's
// preceding stop to the target customer, nearest first.
//
// The preceding stop of a slot is the last non-cancelled appointment that
// starts strictly before the slot. A slot with no preceding stop, or whose
// preceding stop has no coordinates, scores 0 (no preceding-leg penalty).
// Equal distances keep chronological order. Without a target the result is
// plain chronological order and no distance is computed.
func RankFreeSlots(
	free []domain.TimeInterval,
	existing []domain.Appointment,
	target *domain.Coordinates,
) []domain.CandidateSlot {
	out := make([]domain.CandidateSlot, 0, len(free))
	for _, s := range free {
		out = append(out, domain.CandidateSlot{Start: s.Start, DurationMinutes: s.DurationMinutes})
	}

	if target == nil {
		slices.SortStableFunc(out, compareStart)
		return out
	}

	ordered := chronological(existing)
	for i := range out {
		out[i].DistanceFromPreviousKm = distanceFromPreceding(ordered, out[i], *target)
	}

	slices.SortStableFunc(out, func(a, b domain.CandidateSlot) int {
		if a.DistanceFromPreviousKm < b.DistanceFromPreviousKm {
			return -1
		}
		if a.DistanceFromPreviousKm > b.DistanceFromPreviousKm {
			return 1
		}
		return compareStart(a, b)
	})

	return out
}

// distanceFromPreceding expects ordered to be chronological and free of
// cancelled appointments.
func distanceFromPreceding(ordered []domain.Appointment, slot domain.CandidateSlot, target domain.Coordinates) float64 {
	var prev *domain.Appointment
	for i := range ordered {
		if !ordered[i].ScheduledAt.Before(slot.Start) {
			break
		}
		prev = &ordered[i]
	}

	if prev == nil || prev.Customer == nil {
		return 0
	}
	return DistanceKm(*prev.Customer, target)
}

// chronological returns a sorted copy of the blocking appointments.
// Ties on start time fall back to ID so the order never depends on input order.
func chronological(appts []domain.Appointment) []domain.Appointment {
	out := make([]domain.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.Blocks() {
			out = append(out, a)
		}
	}

	slices.SortStableFunc(out, func(a, b domain.Appointment) int {
		if c := a.ScheduledAt.Compare(b.ScheduledAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})

	return out
}

func compareStart(a, b domain.CandidateSlot) int {
	return a.Start.Compare(b.Start)
}
