package dto

import "time"

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type SlotSearchRequest struct {
	TechnicianID    string       `json:"technician_id"`
	Day             string       `json:"day"`
	DurationMinutes int          `json:"duration_minutes"`
	Target          *Coordinates `json:"target,omitempty"`
	ExcludePast     bool         `json:"exclude_past"`
}

// DistanceFromPreviousKm is omitted when the target was not geocoded.
type SlotResponse struct {
	Start                  time.Time `json:"start"`
	End                    time.Time `json:"end"`
	DurationMinutes        int       `json:"duration_minutes"`
	DistanceFromPreviousKm *float64  `json:"distance_from_previous_km,omitempty"`
}

type SlotSearchResponse struct {
	TechnicianID               string         `json:"technician_id"`
	Day                        string         `json:"day"`
	Best                       SlotResponse   `json:"best"`
	Candidates                 []SlotResponse `json:"candidates"`
	DistanceRankingUnavailable bool           `json:"distance_ranking_unavailable"`
}

type SuggestRequest struct {
	TechnicianID    string       `json:"technician_id"`
	ChosenStart     time.Time    `json:"chosen_start"`
	DurationMinutes int          `json:"duration_minutes"`
	Target          *Coordinates `json:"target,omitempty"`
	ExcludePast     bool         `json:"exclude_past"`
}

type SuggestResponse struct {
	Found                      bool          `json:"found"`
	Suggested                  *SlotResponse `json:"suggested,omitempty"`
	ChosenDistanceKm           *float64      `json:"chosen_distance_km,omitempty"`
	SavedKm                    float64       `json:"saved_km"`
	DistanceRankingUnavailable bool          `json:"distance_ranking_unavailable"`
}
