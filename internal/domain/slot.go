package domain

import "time"

// CandidateSlot is a free slot annotated with the travel distance from the
// technician's chronologically preceding stop. It only lives for the
// duration of one search.
type CandidateSlot struct {
	Start                  time.Time
	DurationMinutes        int
	DistanceFromPreviousKm float64
}

func (c CandidateSlot) Interval() TimeInterval {
	return TimeInterval{Start: c.Start, DurationMinutes: c.DurationMinutes}
}

// SlotSearch is the full input snapshot of one slot search.
// Appointments may cover more than the technician and day of interest;
// the finder filters them. NotBefore, when non-zero, hides slots that
// start earlier (e.g. the current time).
type SlotSearch struct {
	TechnicianID    string
	Day             time.Time
	DurationMinutes int
	Target          *Coordinates
	Appointments    []Appointment
	Absences        []Absence
	Window          WorkingWindow
	NotBefore       time.Time
}

// SlotSearchResult holds the ranked free slots of one search. Best is
// Candidates[0]. DistanceRankingUnavailable is set when no target
// coordinate was supplied and the ranking fell back to chronological order.
type SlotSearchResult struct {
	Best                       CandidateSlot
	Candidates                 []CandidateSlot
	DistanceRankingUnavailable bool
}

// BetterSlotRequest asks whether an already chosen start is meaningfully
// worse, travel-wise, than another free slot the same day.
type BetterSlotRequest struct {
	TechnicianID    string
	ChosenStart     time.Time
	DurationMinutes int
	Target          *Coordinates
	Appointments    []Appointment
	Absences        []Absence
	Window          WorkingWindow
	Params          SuggestionParams
	NotBefore       time.Time
}

// SuggestionParams tunes the better-slot advisor.
type SuggestionParams struct {
	MinSavingsKm float64
}

func DefaultSuggestionParams() SuggestionParams {
	return SuggestionParams{MinSavingsKm: 1.0}
}

// BetterSlotSuggestion is advisory output; the caller keeps the final say.
type BetterSlotSuggestion struct {
	Found                      bool
	Slot                       CandidateSlot
	ChosenDistanceKm           float64
	SavedKm                    float64
	DistanceRankingUnavailable bool
}
