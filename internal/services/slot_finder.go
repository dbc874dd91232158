package services

import (
	"fmt"
	"time"

	"technician-dispatch-service/internal/domain"
)

// FindSlots runs one slot search over the snapshot in req.
//
// Checks run in a fixed order: absence, duration, then slot generation.
// An absent technician fails with *domain.TechnicianAbsentError before
// anything else about the request is looked at. Free slots are split at the window's morning cutoff and
// each half is ranked with RankFreeSlots; all morning slots precede all
// afternoon slots, so the afternoon is only reached when the morning is full.
// A day without any free slot fails with *domain.NoAvailableSlotError.
//
// req.Appointments may include other technicians and days; only the
// technician's appointments touching the searched civil day are considered.
func FindSlots(req domain.SlotSearch) (domain.SlotSearchResult, error) {
	if err := req.Window.Validate(); err != nil {
		return domain.SlotSearchResult{}, fmt.Errorf("find slots: %w", err)
	}

	loc := req.Window.Loc()
	day := req.Day.In(loc)

	if err := CheckPresent(req.TechnicianID, day, req.Absences); err != nil {
		return domain.SlotSearchResult{}, err
	}
	if err := ValidateDuration(req.DurationMinutes, req.Window); err != nil {
		return domain.SlotSearchResult{}, err
	}

	appts := AppointmentsForDay(req.Appointments, req.TechnicianID, day, loc)
	busy := BusyIntervals(appts)

	var morning, afternoon []domain.TimeInterval
	for slot := range GenerateSlots(day, req.Window, req.DurationMinutes) {
		if !req.NotBefore.IsZero() && slot.Start.Before(req.NotBefore) {
			continue
		}
		if !IsFree(slot, busy) {
			continue
		}

		if req.Window.IsMorning(slot.Start) {
			morning = append(morning, slot)
		} else {
			afternoon = append(afternoon, slot)
		}
	}

	if len(morning) == 0 && len(afternoon) == 0 {
		return domain.SlotSearchResult{}, &domain.NoAvailableSlotError{
			TechnicianID:    req.TechnicianID,
			Day:             day,
			DurationMinutes: req.DurationMinutes,
		}
	}

	candidates := RankFreeSlots(morning, appts, req.Target)
	candidates = append(candidates, RankFreeSlots(afternoon, appts, req.Target)...)

	return domain.SlotSearchResult{
		Best:                       candidates[0],
		Candidates:                 candidates,
		DistanceRankingUnavailable: req.Target == nil,
	}, nil
}

// AppointmentsForDay keeps the technician's appointments whose interval
// touches the civil date of day in loc, converted into loc.
func AppointmentsForDay(appts []domain.Appointment, technicianID string, day time.Time, loc *time.Location) []domain.Appointment {
	y, m, d := day.In(loc).Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
	dayEnd := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	whole := domain.TimeInterval{Start: dayStart, DurationMinutes: int(dayEnd.Sub(dayStart) / time.Minute)}

	out := make([]domain.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.TechnicianID != technicianID {
			continue
		}
		a.ScheduledAt = a.ScheduledAt.In(loc)
		if !Overlaps(a.Interval(), whole) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ValidateDuration rejects durations that are not positive or that exceed
// the length of the working window.
func ValidateDuration(minutes int, window domain.WorkingWindow) error {
	limit := window.LengthMinutes()
	if minutes <= 0 || minutes > limit {
		return &domain.InvalidDurationError{DurationMinutes: minutes, MaxMinutes: limit}
	}
	return nil
}
