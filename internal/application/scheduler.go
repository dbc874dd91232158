package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"technician-dispatch-service/internal/domain"
	"technician-dispatch-service/internal/platform/metrics"
	"technician-dispatch-service/internal/platform/obs"
	"technician-dispatch-service/internal/ports"
	"technician-dispatch-service/internal/services"
)

// Scheduler loads technician-day snapshots through the ports, runs the pure
// scheduling core over them and owns the booking write path.
type Scheduler struct {
	appointments ports.AppointmentRepository
	absences     ports.AbsenceRepository
	writer       ports.AppointmentWriter

	window     domain.WorkingWindow
	route      domain.RouteParams
	suggestion domain.SuggestionParams

	metrics *metrics.SchedulingMetrics
	now     func() time.Time
	newID   func() string
}

type Settings struct {
	Window     domain.WorkingWindow
	Route      domain.RouteParams
	Suggestion domain.SuggestionParams
	Metrics    *metrics.SchedulingMetrics
}

func NewScheduler(
	appointments ports.AppointmentRepository,
	absences ports.AbsenceRepository,
	writer ports.AppointmentWriter,
	s Settings,
) (*Scheduler, error) {
	if appointments == nil || absences == nil {
		return nil, errors.New("new scheduler: appointment and absence repositories are required")
	}
	if err := s.Window.Validate(); err != nil {
		return nil, fmt.Errorf("new scheduler: %w", err)
	}

	return &Scheduler{
		appointments: appointments,
		absences:     absences,
		writer:       writer,
		window:       s.Window,
		route:        s.Route,
		suggestion:   s.Suggestion,
		metrics:      s.Metrics,
		now:          time.Now,
		newID:        uuid.NewString,
	}, nil
}

// Window returns the working window searches run against.
func (s *Scheduler) Window() domain.WorkingWindow { return s.window }

type SearchInput struct {
	TechnicianID    string
	Day             time.Time
	DurationMinutes int
	Target          *domain.Coordinates
	// Skip slots that already started when the search runs.
	ExcludePast bool
}

// Search free slots for one technician day.
func (s *Scheduler) SearchSlots(ctx context.Context, in SearchInput) (_ domain.SlotSearchResult, err error) {
	ctx, done := obs.Time(ctx, "scheduler.SearchSlots")
	defer done(&err)

	start := time.Now()
	defer func() { s.metrics.ObserveSearch(err, time.Since(start).Seconds()) }()

	appts, absences, err := s.loadDay(ctx, in.TechnicianID, in.Day)
	if err != nil {
		return domain.SlotSearchResult{}, fmt.Errorf("search slots: %w", err)
	}

	req := domain.SlotSearch{
		TechnicianID:    in.TechnicianID,
		Day:             in.Day,
		DurationMinutes: in.DurationMinutes,
		Target:          in.Target,
		Appointments:    appts,
		Absences:        absences,
		Window:          s.window,
	}
	if in.ExcludePast {
		req.NotBefore = s.now()
	}

	return services.FindSlots(req)
}

type SuggestInput struct {
	TechnicianID    string
	ChosenStart     time.Time
	DurationMinutes int
	Target          *domain.Coordinates
	// Never propose an alternative that already started.
	ExcludePast bool
}

// Advise whether another free slot on the chosen day saves travel.
func (s *Scheduler) SuggestBetterSlot(ctx context.Context, in SuggestInput) (_ domain.BetterSlotSuggestion, err error) {
	ctx, done := obs.Time(ctx, "scheduler.SuggestBetterSlot")
	defer done(&err)

	var res domain.BetterSlotSuggestion
	defer func() { s.metrics.ObserveSuggestion(res.Found, err) }()

	appts, absences, err := s.loadDay(ctx, in.TechnicianID, in.ChosenStart)
	if err != nil {
		return domain.BetterSlotSuggestion{}, fmt.Errorf("suggest better slot: %w", err)
	}

	req := domain.BetterSlotRequest{
		TechnicianID:    in.TechnicianID,
		ChosenStart:     in.ChosenStart,
		DurationMinutes: in.DurationMinutes,
		Target:          in.Target,
		Appointments:    appts,
		Absences:        absences,
		Window:          s.window,
		Params:          s.suggestion,
	}
	if in.ExcludePast {
		req.NotBefore = s.now()
	}

	res, err = services.SuggestBetterSlot(req)
	return res, err
}

// Estimate the driving distance and time of one technician day.
func (s *Scheduler) EstimateRoute(ctx context.Context, technicianID string, day time.Time) (_ domain.RouteEstimate, err error) {
	ctx, done := obs.Time(ctx, "scheduler.EstimateRoute")
	defer done(&err)

	if strings.TrimSpace(technicianID) == "" {
		return domain.RouteEstimate{}, errors.New("estimate route: technician id must not be empty")
	}

	loc := s.window.Loc()
	from, to := civilDay(day, loc)
	appts, err := s.appointments.ListAppointments(ctx, technicianID, from, to)
	if err != nil {
		return domain.RouteEstimate{}, fmt.Errorf("estimate route: %w", err)
	}

	est := services.EstimateRoute(services.AppointmentsForDay(appts, technicianID, day, loc), s.route)
	s.metrics.ObserveRoute(est.TotalDistanceKm)
	return est, nil
}

type BookInput struct {
	TechnicianID    string
	CustomerID      string
	Start           time.Time
	DurationMinutes int
	Customer        *domain.Coordinates
}

// Book an appointment. The slot is re-validated at write time: absence,
// duration and window are checked here in that order, and the writer refuses
// any overlap with domain.ErrSlotTaken, so a stale search result can never
// double-book.
func (s *Scheduler) Book(ctx context.Context, in BookInput) (_ domain.Appointment, err error) {
	ctx, done := obs.Time(ctx, "scheduler.Book")
	defer done(&err)
	defer func() { s.metrics.ObserveBooking(err) }()

	if s.writer == nil {
		return domain.Appointment{}, errors.New("book appointment: writer not configured")
	}
	if strings.TrimSpace(in.TechnicianID) == "" {
		return domain.Appointment{}, errors.New("book appointment: technician id must not be empty")
	}

	loc := s.window.Loc()
	start := in.Start.In(loc)

	absences, err := s.absences.ListAbsences(ctx, in.TechnicianID, start, start)
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("book appointment: %w", err)
	}
	if err := services.CheckPresent(in.TechnicianID, start, absences); err != nil {
		return domain.Appointment{}, err
	}
	if err := services.ValidateDuration(in.DurationMinutes, s.window); err != nil {
		return domain.Appointment{}, err
	}

	open, closing := s.window.Bounds(start)
	end := start.Add(time.Duration(in.DurationMinutes) * time.Minute)
	if start.Before(open) || end.After(closing) {
		return domain.Appointment{}, domain.ErrOutsideWorkingWindow
	}

	appt := domain.Appointment{
		ID:              s.newID(),
		TechnicianID:    in.TechnicianID,
		CustomerID:      in.CustomerID,
		ScheduledAt:     start,
		DurationMinutes: in.DurationMinutes,
		Status:          domain.StatusScheduled,
		Customer:        in.Customer,
	}

	created, err := s.writer.CreateAppointment(ctx, appt)
	if err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			return domain.Appointment{}, err
		}
		return domain.Appointment{}, fmt.Errorf("book appointment: %w", err)
	}
	return created, nil
}

func (s *Scheduler) loadDay(ctx context.Context, technicianID string, day time.Time) ([]domain.Appointment, []domain.Absence, error) {
	if strings.TrimSpace(technicianID) == "" {
		return nil, nil, errors.New("technician id must not be empty")
	}

	from, to := civilDay(day, s.window.Loc())
	appts, err := s.appointments.ListAppointments(ctx, technicianID, from, to)
	if err != nil {
		return nil, nil, err
	}
	absences, err := s.absences.ListAbsences(ctx, technicianID, from, from)
	if err != nil {
		return nil, nil, err
	}
	return appts, absences, nil
}

// civilDay returns midnight to midnight of day's calendar date in loc.
func civilDay(day time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}
