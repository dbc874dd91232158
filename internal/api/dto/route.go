package dto

import "time"

type RouteStopResponse struct {
	AppointmentID   string       `json:"appointment_id"`
	CustomerID      string       `json:"customer_id"`
	ScheduledAt     time.Time    `json:"scheduled_at"`
	DurationMinutes int          `json:"duration_minutes"`
	Customer        *Coordinates `json:"customer,omitempty"`
}

type RouteLegResponse struct {
	FromID     string  `json:"from_id"`
	ToID       string  `json:"to_id"`
	DistanceKm float64 `json:"distance_km"`
}

type RouteResponse struct {
	TechnicianID         string              `json:"technician_id"`
	Day                  string              `json:"day"`
	TotalDistanceKm      float64             `json:"total_distance_km"`
	TotalDurationMinutes int                 `json:"total_duration_minutes"`
	SkippedLegs          int                 `json:"skipped_legs"`
	Stops                []RouteStopResponse `json:"stops"`
	Legs                 []RouteLegResponse  `json:"legs"`
	Polyline             string              `json:"polyline,omitempty"`
}
