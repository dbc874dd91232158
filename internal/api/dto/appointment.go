package dto

import "time"

type BookRequest struct {
	TechnicianID    string       `json:"technician_id"`
	CustomerID      string       `json:"customer_id"`
	Start           time.Time    `json:"start"`
	DurationMinutes int          `json:"duration_minutes"`
	Customer        *Coordinates `json:"customer,omitempty"`
}

type AppointmentResponse struct {
	ID              string       `json:"id"`
	TechnicianID    string       `json:"technician_id"`
	CustomerID      string       `json:"customer_id"`
	ScheduledAt     time.Time    `json:"scheduled_at"`
	EndsAt          time.Time    `json:"ends_at"`
	DurationMinutes int          `json:"duration_minutes"`
	Status          string       `json:"status"`
	Customer        *Coordinates `json:"customer,omitempty"`
}
