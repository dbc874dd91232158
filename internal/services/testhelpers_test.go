package services

import (
	"time"

	"technician-dispatch-service/internal/domain"
)

var berlin = mustLoad("Europe/Berlin")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// at returns the given civil time on 2026-03-02 (a Monday) in Berlin.
func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, berlin)
}

// north returns a coordinate km kilometres due north of c.
func north(c domain.Coordinates, km float64) domain.Coordinates {
	return domain.Coordinates{Lat: c.Lat + km/111.19492664455873, Lon: c.Lon}
}

func ptr(c domain.Coordinates) *domain.Coordinates { return &c }

func appt(id string, start time.Time, minutes int, c *domain.Coordinates) domain.Appointment {
	return domain.Appointment{
		ID:              id,
		TechnicianID:    "tech-1",
		ScheduledAt:     start,
		DurationMinutes: minutes,
		Status:          domain.StatusScheduled,
		Customer:        c,
	}
}
