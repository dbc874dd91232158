package dto

import "technician-dispatch-service/internal/domain"

func FromCoordinates(c *domain.Coordinates) *Coordinates {
	if c == nil {
		return nil
	}
	return &Coordinates{Lat: c.Lat, Lon: c.Lon}
}

func (c *Coordinates) ToDomain() *domain.Coordinates {
	if c == nil {
		return nil
	}
	return &domain.Coordinates{Lat: c.Lat, Lon: c.Lon}
}

// FromSlot converts a candidate slot. withDistance is false when the
// ranking ran without a target and the distance carries no meaning.
func FromSlot(s domain.CandidateSlot, withDistance bool) SlotResponse {
	out := SlotResponse{
		Start:           s.Start,
		End:             s.Interval().End(),
		DurationMinutes: s.DurationMinutes,
	}
	if withDistance {
		d := s.DistanceFromPreviousKm
		out.DistanceFromPreviousKm = &d
	}
	return out
}

func FromAppointment(a domain.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		TechnicianID:    a.TechnicianID,
		CustomerID:      a.CustomerID,
		ScheduledAt:     a.ScheduledAt,
		EndsAt:          a.Interval().End(),
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		Customer:        FromCoordinates(a.Customer),
	}
}
