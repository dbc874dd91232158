package domain

import "time"

type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
)

// Known reports whether s is one of the statuses the data service emits.
func (s AppointmentStatus) Known() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Represents a technician visit as supplied by the external data service.
// The scheduling core only reads snapshots of appointments; it never
// mutates them. Customer is nil when the customer address was never geocoded.
type Appointment struct {
	ID              string
	TechnicianID    string
	CustomerID      string
	ScheduledAt     time.Time
	DurationMinutes int
	Status          AppointmentStatus
	Customer        *Coordinates
}

// Interval returns the time span occupied by the appointment.
func (a Appointment) Interval() TimeInterval {
	return TimeInterval{Start: a.ScheduledAt, DurationMinutes: a.DurationMinutes}
}

// Blocks reports whether the appointment occupies technician time.
func (a Appointment) Blocks() bool {
	return a.Status != StatusCancelled
}
