package domain

// RouteParams holds the two approximations used to turn great-circle
// distance into a driving estimate. Both are uncalibrated constants carried
// over from the dispatch tool and are candidates for a real routing service.
type RouteParams struct {
	RoadFactor      float64
	AverageSpeedKmh float64
}

func DefaultRouteParams() RouteParams {
	return RouteParams{RoadFactor: 1.3, AverageSpeedKmh: 40}
}

// Represents one travel leg between consecutive appointments.
// DistanceKm already includes the road factor.
type RouteLeg struct {
	FromID     string
	ToID       string
	From       Coordinates
	To         Coordinates
	DistanceKm float64
}

// Represents the estimated travel for one technician day.
// It is read-only reporting data. SkippedLegs counts consecutive pairs
// that contributed nothing because a coordinate was missing.
type RouteEstimate struct {
	TotalDistanceKm      float64
	TotalDurationMinutes int
	Stops                []Appointment
	Legs                 []RouteLeg
	SkippedLegs          int
}
