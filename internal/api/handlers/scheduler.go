package handlers

import (
	"context"
	"time"

	"technician-dispatch-service/internal/application"
	"technician-dispatch-service/internal/domain"
)

// Scheduler is the application surface the HTTP handlers drive.
type Scheduler interface {
	SearchSlots(ctx context.Context, in application.SearchInput) (domain.SlotSearchResult, error)
	SuggestBetterSlot(ctx context.Context, in application.SuggestInput) (domain.BetterSlotSuggestion, error)
	EstimateRoute(ctx context.Context, technicianID string, day time.Time) (domain.RouteEstimate, error)
	Book(ctx context.Context, in application.BookInput) (domain.Appointment, error)
}
