package handlers

import (
	"net/http"
	"strings"
	"time"

	"technician-dispatch-service/internal/api/dto"
	"technician-dispatch-service/internal/application"
)

type SlotHandler struct {
	Scheduler Scheduler
	Location  *time.Location
}

// Search returns the ranked free slots of one technician day.
func (h *SlotHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req dto.SlotSearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tech := strings.TrimSpace(req.TechnicianID)
	if tech == "" {
		writeError(w, r, http.StatusBadRequest, "technician_id is required")
		return
	}

	day, err := parseDay(req.Day, h.Location)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "day must be formatted as YYYY-MM-DD")
		return
	}

	target := req.Target.ToDomain()
	if !validTarget(target) {
		writeError(w, r, http.StatusBadRequest, "target coordinates out of range")
		return
	}

	res, err := h.Scheduler.SearchSlots(r.Context(), application.SearchInput{
		TechnicianID:    tech,
		Day:             day,
		DurationMinutes: req.DurationMinutes,
		Target:          target,
		ExcludePast:     req.ExcludePast,
	})
	if err != nil {
		writeSchedulingError(w, r, "search slots", err)
		return
	}

	withDistance := !res.DistanceRankingUnavailable
	out := dto.SlotSearchResponse{
		TechnicianID:               tech,
		Day:                        day.Format(time.DateOnly),
		Best:                       dto.FromSlot(res.Best, withDistance),
		Candidates:                 make([]dto.SlotResponse, 0, len(res.Candidates)),
		DistanceRankingUnavailable: res.DistanceRankingUnavailable,
	}
	for _, c := range res.Candidates {
		out.Candidates = append(out.Candidates, dto.FromSlot(c, withDistance))
	}

	writeJSON(w, r, http.StatusOK, out)
}

// Suggest tells the dispatcher whether another free slot that day saves
// travel compared to the chosen start.
func (h *SlotHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req dto.SuggestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tech := strings.TrimSpace(req.TechnicianID)
	if tech == "" {
		writeError(w, r, http.StatusBadRequest, "technician_id is required")
		return
	}
	if req.ChosenStart.IsZero() {
		writeError(w, r, http.StatusBadRequest, "chosen_start is required")
		return
	}

	target := req.Target.ToDomain()
	if !validTarget(target) {
		writeError(w, r, http.StatusBadRequest, "target coordinates out of range")
		return
	}

	res, err := h.Scheduler.SuggestBetterSlot(r.Context(), application.SuggestInput{
		TechnicianID:    tech,
		ChosenStart:     req.ChosenStart,
		DurationMinutes: req.DurationMinutes,
		Target:          target,
		ExcludePast:     req.ExcludePast,
	})
	if err != nil {
		writeSchedulingError(w, r, "suggest better slot", err)
		return
	}

	out := dto.SuggestResponse{
		Found:                      res.Found,
		SavedKm:                    res.SavedKm,
		DistanceRankingUnavailable: res.DistanceRankingUnavailable,
	}
	if !res.DistanceRankingUnavailable {
		d := res.ChosenDistanceKm
		out.ChosenDistanceKm = &d
	}
	if res.Found {
		s := dto.FromSlot(res.Slot, true)
		out.Suggested = &s
	}

	writeJSON(w, r, http.StatusOK, out)
}
