package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSlotTaken is returned by the booking write path when another
	// appointment claimed an overlapping interval first.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrOutsideWorkingWindow rejects a booking that does not fit between
	// the window's start and end hours.
	ErrOutsideWorkingWindow = errors.New("appointment outside working window")
)

// TechnicianAbsentError means the technician is absent for the whole day;
// no slot generation takes place.
type TechnicianAbsentError struct {
	TechnicianID string
	Day          time.Time
}

func (e *TechnicianAbsentError) Error() string {
	return fmt.Sprintf("technician %s is absent on %s", e.TechnicianID, e.Day.Format(time.DateOnly))
}

// NoAvailableSlotError means the working window has no free interval of the
// requested duration, neither in the morning nor in the afternoon.
type NoAvailableSlotError struct {
	TechnicianID    string
	Day             time.Time
	DurationMinutes int
}

func (e *NoAvailableSlotError) Error() string {
	return fmt.Sprintf(
		"no available %d minute slot for technician %s on %s",
		e.DurationMinutes, e.TechnicianID, e.Day.Format(time.DateOnly),
	)
}

type InvalidDurationError struct {
	DurationMinutes int
	MaxMinutes      int
}

func (e *InvalidDurationError) Error() string {
	if e.DurationMinutes <= 0 {
		return fmt.Sprintf("invalid duration %d: must be positive", e.DurationMinutes)
	}
	return fmt.Sprintf("invalid duration %d: exceeds working window of %d minutes", e.DurationMinutes, e.MaxMinutes)
}
