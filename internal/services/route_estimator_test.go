package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"technician-dispatch-service/internal/domain"
)

func TestEstimateRoute_BoundaryCases(t *testing.T) {
	p := domain.DefaultRouteParams()
	home := domain.Coordinates{Lat: 52.52, Lon: 13.405}

	empty := EstimateRoute(nil, p)
	assert.Zero(t, empty.TotalDistanceKm)
	assert.Zero(t, empty.TotalDurationMinutes)

	single := EstimateRoute([]domain.Appointment{appt("a", at(9, 0), 60, ptr(home))}, p)
	assert.Zero(t, single.TotalDistanceKm)
	assert.Zero(t, single.TotalDurationMinutes)
	assert.Len(t, single.Stops, 1)
}

func TestEstimateRoute_SumsLegsWithRoadFactor(t *testing.T) {
	home := domain.Coordinates{Lat: 52.52, Lon: 13.405}
	appts := []domain.Appointment{
		appt("c", at(14, 0), 60, ptr(north(home, 40))),
		appt("a", at(8, 0), 60, ptr(home)),
		appt("b", at(10, 0), 60, ptr(north(home, 10))),
	}

	est := EstimateRoute(appts, domain.DefaultRouteParams())

	// (10 + 30) km * 1.3 = 52 km; 52 / 40 km/h = 78 min.
	assert.InDelta(t, 52.0, est.TotalDistanceKm, 1e-6)
	assert.Equal(t, 78, est.TotalDurationMinutes)
	require.Len(t, est.Legs, 2)
	assert.Equal(t, "a", est.Legs[0].FromID)
	assert.Equal(t, "b", est.Legs[0].ToID)
	assert.InDelta(t, 13.0, est.Legs[0].DistanceKm, 1e-6)
	assert.Equal(t, "c", est.Legs[1].ToID)
	assert.Zero(t, est.SkippedLegs)
}

func TestEstimateRoute_MissingCoordinatesContributeNothing(t *testing.T) {
	home := domain.Coordinates{Lat: 52.52, Lon: 13.405}
	appts := []domain.Appointment{
		appt("a", at(8, 0), 60, ptr(home)),
		appt("b", at(10, 0), 60, nil),
		appt("c", at(12, 0), 60, ptr(north(home, 4))),
		appt("d", at(14, 0), 60, ptr(north(home, 8))),
	}

	est := EstimateRoute(appts, domain.DefaultRouteParams())

	assert.Equal(t, 2, est.SkippedLegs)
	require.Len(t, est.Legs, 1)
	assert.InDelta(t, 4*1.3, est.TotalDistanceKm, 1e-6)
	assert.Equal(t, 8, est.TotalDurationMinutes)
}

func TestEstimateRoute_SkipsCancelled(t *testing.T) {
	home := domain.Coordinates{Lat: 52.52, Lon: 13.405}
	detour := appt("x", at(9, 0), 30, ptr(north(home, 50)))
	detour.Status = domain.StatusCancelled
	appts := []domain.Appointment{
		appt("a", at(8, 0), 30, ptr(home)),
		detour,
		appt("b", at(10, 0), 30, ptr(north(home, 2))),
	}

	est := EstimateRoute(appts, domain.DefaultRouteParams())

	assert.InDelta(t, 2.6, est.TotalDistanceKm, 1e-6)
	assert.Len(t, est.Stops, 2)
}

func TestEstimateRoute_CustomParams(t *testing.T) {
	home := domain.Coordinates{Lat: 52.52, Lon: 13.405}
	appts := []domain.Appointment{
		appt("a", at(8, 0), 30, ptr(home)),
		appt("b", at(10, 0), 30, ptr(north(home, 10))),
	}

	est := EstimateRoute(appts, domain.RouteParams{RoadFactor: 1, AverageSpeedKmh: 60})

	assert.InDelta(t, 10.0, est.TotalDistanceKm, 1e-6)
	assert.Equal(t, 10, est.TotalDurationMinutes)
}
