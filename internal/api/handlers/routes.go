package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"technician-dispatch-service/internal/adapters/export"
	"technician-dispatch-service/internal/api/dto"
	"technician-dispatch-service/internal/platform/obs"
)

type RouteHandler struct {
	Scheduler Scheduler
	Location  *time.Location
}

// Get reports the estimated driving of one technician day, as JSON (with an
// encoded polyline) or as a KML download.
func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	tech := strings.TrimSpace(chi.URLParam(r, "technicianID"))
	if tech == "" {
		writeError(w, r, http.StatusBadRequest, "technician id is required")
		return
	}

	day, err := parseDay(r.URL.Query().Get("day"), h.Location)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "day must be formatted as YYYY-MM-DD")
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "kml" {
		writeError(w, r, http.StatusBadRequest, "format must be json or kml")
		return
	}

	est, err := h.Scheduler.EstimateRoute(r.Context(), tech, day)
	if err != nil {
		writeSchedulingError(w, r, "estimate route", err)
		return
	}

	dayStr := day.Format(time.DateOnly)
	if format == "kml" {
		w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", tech+"-"+dayStr+".kml"))
		if err := export.WriteRouteKML(w, tech+" "+dayStr, est, h.Location); err != nil {
			log.Error().Str("req_id", obs.RequestID(r.Context())).Err(err).Msg("route kml write failed")
		}
		return
	}

	out := dto.RouteResponse{
		TechnicianID:         tech,
		Day:                  dayStr,
		TotalDistanceKm:      est.TotalDistanceKm,
		TotalDurationMinutes: est.TotalDurationMinutes,
		SkippedLegs:          est.SkippedLegs,
		Stops:                make([]dto.RouteStopResponse, 0, len(est.Stops)),
		Legs:                 make([]dto.RouteLegResponse, 0, len(est.Legs)),
		Polyline:             export.EncodeRoute(est),
	}
	for _, s := range est.Stops {
		out.Stops = append(out.Stops, dto.RouteStopResponse{
			AppointmentID:   s.ID,
			CustomerID:      s.CustomerID,
			ScheduledAt:     s.ScheduledAt,
			DurationMinutes: s.DurationMinutes,
			Customer:        dto.FromCoordinates(s.Customer),
		})
	}
	for _, l := range est.Legs {
		out.Legs = append(out.Legs, dto.RouteLegResponse{FromID: l.FromID, ToID: l.ToID, DistanceKm: l.DistanceKm})
	}

	writeJSON(w, r, http.StatusOK, out)
}
