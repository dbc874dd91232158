package domain

import (
	"fmt"
	"time"
)

// WorkingWindow describes the bookable part of a technician's day.
// Hours are civil clock hours in Location; a nil Location means time.Local.
type WorkingWindow struct {
	StartHour          int
	EndHour            int
	GranularityMinutes int
	MorningCutoffHour  int
	Location           *time.Location
}

// DefaultWorkingWindow mirrors the observed dispatch behaviour:
// 08:00-18:00 in 30 minute steps, mornings end at 13:00.
func DefaultWorkingWindow(loc *time.Location) WorkingWindow {
	return WorkingWindow{
		StartHour:          8,
		EndHour:            18,
		GranularityMinutes: 30,
		MorningCutoffHour:  13,
		Location:           loc,
	}
}

func (w WorkingWindow) Validate() error {
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("working window: invalid hours %02d:00-%02d:00", w.StartHour, w.EndHour)
	}
	if w.GranularityMinutes <= 0 {
		return fmt.Errorf("working window: granularity must be positive, got %d", w.GranularityMinutes)
	}
	if w.MorningCutoffHour < w.StartHour || w.MorningCutoffHour > w.EndHour {
		return fmt.Errorf("working window: morning cutoff %d outside %d-%d", w.MorningCutoffHour, w.StartHour, w.EndHour)
	}
	return nil
}

// Loc returns the window's location, falling back to time.Local.
func (w WorkingWindow) Loc() *time.Location {
	if w.Location == nil {
		return time.Local
	}
	return w.Location
}

// LengthMinutes is the bookable span of one day.
func (w WorkingWindow) LengthMinutes() int {
	return (w.EndHour - w.StartHour) * 60
}

// Bounds returns the window start and end on the civil date of day,
// interpreted in the window's location.
func (w WorkingWindow) Bounds(day time.Time) (time.Time, time.Time) {
	loc := w.Loc()
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, w.StartHour, 0, 0, 0, loc), time.Date(y, m, d, w.EndHour, 0, 0, 0, loc)
}

// IsMorning reports whether t starts before the morning cutoff.
func (w WorkingWindow) IsMorning(t time.Time) bool {
	return t.In(w.Loc()).Hour() < w.MorningCutoffHour
}
