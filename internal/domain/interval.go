package domain

import (
	"fmt"
	"time"
)

// TimeInterval is a half-open span [Start, Start+DurationMinutes).
type TimeInterval struct {
	Start           time.Time
	DurationMinutes int
}

// End returns the exclusive end of the interval.
func (i TimeInterval) End() time.Time {
	return i.Start.Add(time.Duration(i.DurationMinutes) * time.Minute)
}

func (i TimeInterval) Validate() error {
	if i.DurationMinutes <= 0 {
		return fmt.Errorf("time interval: duration must be positive, got %d", i.DurationMinutes)
	}
	return nil
}
