package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"technician-dispatch-service/internal/api/dto"
	"technician-dispatch-service/internal/application"
	"technician-dispatch-service/internal/domain"
	"technician-dispatch-service/internal/platform/metrics"
	"technician-dispatch-service/internal/services"
)

// memoryStore is an in-memory stand-in for the external data service.
type memoryStore struct {
	mu       sync.Mutex
	appts    []domain.Appointment
	absences []domain.Absence
}

func (m *memoryStore) ListAppointments(_ context.Context, technicianID string, from, to time.Time) ([]domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Appointment
	for _, a := range m.appts {
		if a.TechnicianID == technicianID && a.ScheduledAt.Before(to) && a.Interval().End().After(from) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryStore) ListAbsences(_ context.Context, technicianID string, _, _ time.Time) ([]domain.Absence, error) {
	var out []domain.Absence
	for _, a := range m.absences {
		if a.TechnicianID == technicianID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryStore) CreateAppointment(_ context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.appts {
		if a.TechnicianID == appt.TechnicianID && a.Blocks() && services.Overlaps(a.Interval(), appt.Interval()) {
			return domain.Appointment{}, domain.ErrSlotTaken
		}
	}
	m.appts = append(m.appts, appt)
	return appt, nil
}

var berlin = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		panic(err)
	}
	return loc
}()

var home = domain.Coordinates{Lat: 52.52, Lon: 13.405}

// north moves c km kilometres due north.
func north(c domain.Coordinates, km float64) domain.Coordinates {
	return domain.Coordinates{Lat: c.Lat + km/111.19492664455873, Lon: c.Lon}
}

func at(h, m int) time.Time { return time.Date(2026, 3, 2, h, m, 0, 0, berlin) }

type testServer struct {
	handler http.Handler
	store   *memoryStore
}

func newTestServer(t *testing.T, limiter *RedisRateLimiter) testServer {
	t.Helper()

	far := north(home, 20)
	store := &memoryStore{
		appts: []domain.Appointment{
			{ID: "a-1", TechnicianID: "tech-1", CustomerID: "c-1", ScheduledAt: at(9, 0), DurationMinutes: 60, Status: domain.StatusScheduled, Customer: &home},
			{ID: "a-2", TechnicianID: "tech-1", CustomerID: "c-2", ScheduledAt: at(14, 0), DurationMinutes: 120, Status: domain.StatusScheduled, Customer: &far},
		},
		absences: []domain.Absence{
			{TechnicianID: "tech-1", Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), Reason: "training"},
		},
	}

	reg := prometheus.NewRegistry()
	sched, err := application.NewScheduler(store, store, store, application.Settings{
		Window:     domain.DefaultWorkingWindow(berlin),
		Route:      domain.DefaultRouteParams(),
		Suggestion: domain.DefaultSuggestionParams(),
		Metrics:    metrics.NewSchedulingMetrics(reg),
	})
	require.NoError(t, err)

	h := NewRouter(Deps{
		Scheduler:   sched,
		Location:    berlin,
		Ready:       func(context.Context) error { return errors.New("db down") },
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		RateLimiter: limiter,
	})
	return testServer{handler: h, store: store}
}

func (s testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = srv.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = srv.do(t, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSearchSlotsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/slots/search",
		`{"technician_id": "tech-1", "day": "2026-03-02", "duration_minutes": 60}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.SlotSearchResponse](t, rec)
	assert.True(t, res.DistanceRankingUnavailable)
	assert.True(t, res.Best.Start.Equal(at(8, 0)))
	assert.True(t, res.Best.End.Equal(at(9, 0)))
	assert.Nil(t, res.Best.DistanceFromPreviousKm)
	assert.NotEmpty(t, res.Candidates)

	rec = srv.do(t, http.MethodPost, "/slots/search",
		`{"technician_id": "tech-1", "day": "2026-03-02", "duration_minutes": 60, "target": {"lat": 52.52, "lon": 13.405}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res = decode[dto.SlotSearchResponse](t, rec)
	assert.False(t, res.DistanceRankingUnavailable)
	require.NotNil(t, res.Best.DistanceFromPreviousKm)
	assert.InDelta(t, 0, *res.Best.DistanceFromPreviousKm, 1e-9)
}

func TestSearchSlotsEndpointErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"absent", `{"technician_id": "tech-1", "day": "2026-03-03", "duration_minutes": 60}`, http.StatusUnprocessableEntity, "technician_absent"},
		{"absent with zero duration", `{"technician_id": "tech-1", "day": "2026-03-03", "duration_minutes": 0}`, http.StatusUnprocessableEntity, "technician_absent"},
		{"zero duration", `{"technician_id": "tech-1", "day": "2026-03-02", "duration_minutes": 0}`, http.StatusBadRequest, "invalid_duration"},
		{"longer than window", `{"technician_id": "tech-1", "day": "2026-03-02", "duration_minutes": 601}`, http.StatusBadRequest, "invalid_duration"},
		{"no slot left", `{"technician_id": "tech-1", "day": "2026-03-02", "duration_minutes": 360}`, http.StatusUnprocessableEntity, "no_available_slot"},
		{"bad day", `{"technician_id": "tech-1", "day": "02.03.2026", "duration_minutes": 60}`, http.StatusBadRequest, ""},
		{"missing technician", `{"day": "2026-03-02", "duration_minutes": 60}`, http.StatusBadRequest, ""},
		{"unknown field", `{"technician_id": "tech-1", "day": "2026-03-02", "duration_minutes": 60, "x": 1}`, http.StatusBadRequest, ""},
		{"target out of range", `{"technician_id": "tech-1", "day": "2026-03-02", "duration_minutes": 60, "target": {"lat": 95, "lon": 0}}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/slots/search", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			body := decode[map[string]string](t, rec)
			assert.NotEmpty(t, body["error"])
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}
}

func TestSuggestEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/slots/suggest",
		`{"technician_id": "tech-1", "chosen_start": "2026-03-02T16:00:00+01:00", "duration_minutes": 60, "target": {"lat": 52.52, "lon": 13.405}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.SuggestResponse](t, rec)
	assert.True(t, res.Found)
	require.NotNil(t, res.Suggested)
	assert.True(t, res.Suggested.Start.Equal(at(8, 0)))
	require.NotNil(t, res.ChosenDistanceKm)
	assert.InDelta(t, 20, *res.ChosenDistanceKm, 1e-6)
	assert.InDelta(t, 20, res.SavedKm, 1e-6)

	rec = srv.do(t, http.MethodPost, "/slots/suggest",
		`{"technician_id": "tech-1", "chosen_start": "2026-03-02T16:00:00+01:00", "duration_minutes": 60}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[dto.SuggestResponse](t, rec)
	assert.False(t, res.Found)
	assert.True(t, res.DistanceRankingUnavailable)
	assert.Nil(t, res.ChosenDistanceKm)
}

func TestRouteEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/technicians/tech-1/route?day=2026-03-02", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.RouteResponse](t, rec)
	assert.InDelta(t, 26, res.TotalDistanceKm, 1e-6)
	assert.Equal(t, 39, res.TotalDurationMinutes)
	require.Len(t, res.Legs, 1)
	assert.Equal(t, "a-1", res.Legs[0].FromID)
	assert.Equal(t, "a-2", res.Legs[0].ToID)
	assert.Len(t, res.Stops, 2)
	assert.NotEmpty(t, res.Polyline)

	rec = srv.do(t, http.MethodGet, "/technicians/tech-1/route?day=2026-03-02&format=kml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.google-earth.kml+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<kml")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "tech-1-2026-03-02.kml")

	rec = srv.do(t, http.MethodGet, "/technicians/tech-1/route?day=2026-03-02&format=gpx", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/technicians/tech-1/route", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/technicians/tech-9/route?day=2026-03-02", "")
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decode[dto.RouteResponse](t, rec)
	assert.Zero(t, empty.TotalDistanceKm)
	assert.Empty(t, empty.Legs)
}

func TestBookEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/appointments",
		`{"technician_id": "tech-1", "customer_id": "c-9", "start": "2026-03-02T11:00:00+01:00", "duration_minutes": 60, "customer": {"lat": 52.5, "lon": 13.4}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	appt := decode[dto.AppointmentResponse](t, rec)
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, "scheduled", appt.Status)
	assert.True(t, appt.EndsAt.Equal(at(12, 0)))
	require.NotNil(t, appt.Customer)

	// The same slot is now gone for a second dispatcher.
	rec = srv.do(t, http.MethodPost, "/appointments",
		`{"technician_id": "tech-1", "customer_id": "c-10", "start": "2026-03-02T11:30:00+01:00", "duration_minutes": 30}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "slot_taken", decode[map[string]string](t, rec)["code"])

	rec = srv.do(t, http.MethodPost, "/appointments",
		`{"technician_id": "tech-1", "customer_id": "c-10", "start": "2026-03-02T17:30:00+01:00", "duration_minutes": 60}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "outside_working_window", decode[map[string]string](t, rec)["code"])

	rec = srv.do(t, http.MethodPost, "/appointments",
		`{"technician_id": "tech-1", "customer_id": "c-10", "start": "2026-03-03T10:00:00+01:00", "duration_minutes": 60}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "technician_absent", decode[map[string]string](t, rec)["code"])

	rec = srv.do(t, http.MethodPost, "/appointments",
		`{"technician_id": "tech-1", "start": "2026-03-02T15:00:00+01:00", "duration_minutes": 60}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	srv.do(t, http.MethodPost, "/slots/search",
		`{"technician_id": "tech-1", "day": "2026-03-02", "duration_minutes": 60}`)

	rec := srv.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `dispatch_slots_searches_total{outcome="ok"} 1`), rec.Body.String())
}
