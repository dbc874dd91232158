package services

import (
	"fmt"

	"technician-dispatch-service/internal/domain"
)

// SuggestBetterSlot checks whether the chosen start is meaningfully worse,
// travel-wise, than another free slot on the same day.
//
// The chosen slot and every other free slot are scored with the same
// preceding-stop rule as RankFreeSlots. When the nearest alternative saves at
// least req.Params.MinSavingsKm the suggestion is returned with Found set;
// otherwise Found is false. Alternatives starting before req.NotBefore are
// never proposed. The result is advisory only.
func SuggestBetterSlot(req domain.BetterSlotRequest) (domain.BetterSlotSuggestion, error) {
	if err := req.Window.Validate(); err != nil {
		return domain.BetterSlotSuggestion{}, fmt.Errorf("suggest better slot: %w", err)
	}

	loc := req.Window.Loc()
	chosen := req.ChosenStart.In(loc)

	if err := CheckPresent(req.TechnicianID, chosen, req.Absences); err != nil {
		return domain.BetterSlotSuggestion{}, err
	}
	if err := ValidateDuration(req.DurationMinutes, req.Window); err != nil {
		return domain.BetterSlotSuggestion{}, err
	}

	if req.Target == nil {
		return domain.BetterSlotSuggestion{DistanceRankingUnavailable: true}, nil
	}

	appts := AppointmentsForDay(req.Appointments, req.TechnicianID, chosen, loc)
	ordered := chronological(appts)
	busy := BusyIntervals(appts)

	chosenSlot := domain.CandidateSlot{Start: chosen, DurationMinutes: req.DurationMinutes}
	chosenKm := distanceFromPreceding(ordered, chosenSlot, *req.Target)

	var free []domain.TimeInterval
	for slot := range GenerateSlots(chosen, req.Window, req.DurationMinutes) {
		if slot.Start.Equal(chosen) {
			continue
		}
		if !req.NotBefore.IsZero() && slot.Start.Before(req.NotBefore) {
			continue
		}
		if IsFree(slot, busy) {
			free = append(free, slot)
		}
	}

	ranked := RankFreeSlots(free, appts, req.Target)
	if len(ranked) == 0 {
		return domain.BetterSlotSuggestion{ChosenDistanceKm: chosenKm}, nil
	}

	best := ranked[0]
	saved := chosenKm - best.DistanceFromPreviousKm
	if saved < req.Params.MinSavingsKm {
		return domain.BetterSlotSuggestion{ChosenDistanceKm: chosenKm}, nil
	}

	return domain.BetterSlotSuggestion{
		Found:            true,
		Slot:             best,
		ChosenDistanceKm: chosenKm,
		SavedKm:          saved,
	}, nil
}
