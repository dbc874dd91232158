package services

import (
	"math"

	"technician-dispatch-service/internal/domain"
)

// EstimateRoute approximates the travel of one technician day.
//
// Cancelled appointments are dropped and the rest visited in chronological
// order. Each consecutive pair with both coordinates contributes its
// great-circle distance times p.RoadFactor; a pair missing a coordinate
// contributes nothing and is counted in SkippedLegs. Duration derives from
// the total at p.AverageSpeedKmh, rounded to whole minutes.
// The road factor and average speed are uncalibrated approximations, not
// routing results.
func EstimateRoute(appts []domain.Appointment, p domain.RouteParams) domain.RouteEstimate {
	stops := chronological(appts)

	est := domain.RouteEstimate{
		Stops: stops,
		Legs:  []domain.RouteLeg{},
	}
	if len(stops) < 2 {
		return est
	}

	for i := 0; i+1 < len(stops); i++ {
		from, to := stops[i], stops[i+1]
		if from.Customer == nil || to.Customer == nil {
			est.SkippedLegs++
			continue
		}

		km := DistanceKm(*from.Customer, *to.Customer) * p.RoadFactor
		est.TotalDistanceKm += km
		est.Legs = append(est.Legs, domain.RouteLeg{
			FromID:     from.ID,
			ToID:       to.ID,
			From:       *from.Customer,
			To:         *to.Customer,
			DistanceKm: km,
		})
	}

	if p.AverageSpeedKmh > 0 {
		est.TotalDurationMinutes = int(math.Round(est.TotalDistanceKm / p.AverageSpeedKmh * 60))
	}

	return est
}
