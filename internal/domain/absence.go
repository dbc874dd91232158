package domain

import "time"

// A full-day unavailability record for a technician.
// Only the calendar date of Date (its year, month and day fields) is
// significant; the clock time and location are ignored.
type Absence struct {
	TechnicianID string
	Date         time.Time
	Reason       string
}

// OnDay reports whether the absence falls on the civil date of day.
func (a Absence) OnDay(day time.Time) bool {
	ay, am, ad := a.Date.Date()
	dy, dm, dd := day.Date()
	return ay == dy && am == dm && ad == dd
}
