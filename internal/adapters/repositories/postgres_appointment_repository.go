package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"technician-dispatch-service/internal/domain"
	"technician-dispatch-service/internal/platform/obs"
	"technician-dispatch-service/internal/ports"
)

// SQLSTATE raised by the appointments_no_overlap exclusion constraint.
const exclusionViolation = "23P01"

// Postgres-backed implementation of the AppointmentRepository and
// AppointmentWriter ports.
type PostgresAppointmentRepository struct{ DB *sql.DB }

var (
	_ ports.AppointmentRepository = (*PostgresAppointmentRepository)(nil)
	_ ports.AppointmentWriter     = (*PostgresAppointmentRepository)(nil)
)

func NewPostgresAppointmentRepository(db *sql.DB) *PostgresAppointmentRepository {
	return &PostgresAppointmentRepository{DB: db}
}

// Return the technician's appointments that overlap [from, to).
func (s *PostgresAppointmentRepository) ListAppointments(
	ctx context.Context,
	technicianID string,
	from, to time.Time,
) (_ []domain.Appointment, err error) {
	ctx, done := obs.Time(ctx, "appointments.List")
	defer done(&err)

	if s.DB == nil {
		return nil, errors.New("postgres appointment repository: DB is nil")
	}

	if strings.TrimSpace(technicianID) == "" {
		return nil, errors.New("list appointments: technician id must not be empty")
	}

	query := `
	SELECT
		appointment_id,
		technician_id,
		customer_id,
		scheduled_at,
		duration_minutes,
		status,
		customer_lat,
		customer_lon
	FROM appointments
	WHERE technician_id = $1
		AND scheduled_at < $3
		AND ends_at > $2
	ORDER BY scheduled_at, appointment_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, technicianID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list appointments: query appointments table: %w", err)
	}
	defer rows.Close()

	appts := make([]domain.Appointment, 0, 16)
	for rows.Next() {
		var a domain.Appointment
		var status string
		var lat, lon sql.NullFloat64
		if err := rows.Scan(
			&a.ID,
			&a.TechnicianID,
			&a.CustomerID,
			&a.ScheduledAt,
			&a.DurationMinutes,
			&status,
			&lat,
			&lon,
		); err != nil {
			return nil, fmt.Errorf("list appointments: scan row: %w", err)
		}
		a.Status = domain.AppointmentStatus(status)
		if lat.Valid && lon.Valid {
			a.Customer = &domain.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
		}
		appts = append(appts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list appointments: row iteration: %w", err)
	}

	return appts, nil
}

// Insert the appointment unless a non-cancelled appointment of the same
// technician overlaps it. Returns domain.ErrSlotTaken when the interval is
// already claimed, either by the NOT EXISTS guard or by the exclusion
// constraint when two inserts race.
func (s *PostgresAppointmentRepository) CreateAppointment(
	ctx context.Context,
	appt domain.Appointment,
) (_ domain.Appointment, err error) {
	ctx, done := obs.Time(ctx, "appointments.Create")
	defer done(&err)

	if s.DB == nil {
		return domain.Appointment{}, errors.New("postgres appointment repository: DB is nil")
	}

	if err := appt.Interval().Validate(); err != nil {
		return domain.Appointment{}, fmt.Errorf("create appointment: %w", err)
	}

	query := `
	INSERT INTO appointments (
		appointment_id,
		technician_id,
		customer_id,
		scheduled_at,
		ends_at,
		duration_minutes,
		status,
		customer_lat,
		customer_lon
	)
	SELECT $1::text, $2::text, $3::text, $4::timestamptz, $5::timestamptz, $6::integer, $7::text,
		$8::double precision, $9::double precision
	WHERE NOT EXISTS (
		SELECT 1
		FROM appointments
		WHERE technician_id = $2::text
			AND status <> 'cancelled'
			AND scheduled_at < $5::timestamptz
			AND ends_at > $4::timestamptz
	);
	`
	lat, lon := nullCoords(appt.Customer)
	res, err := s.DB.ExecContext(ctx, query,
		appt.ID, appt.TechnicianID, appt.CustomerID,
		appt.ScheduledAt, appt.Interval().End(), appt.DurationMinutes,
		string(appt.Status), lat, lon,
	)
	if err != nil {
		if isExclusionViolation(err) {
			return domain.Appointment{}, domain.ErrSlotTaken
		}
		return domain.Appointment{}, fmt.Errorf("create appointment: insert appointment_id=%s: %w", appt.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("create appointment: rows affected: %w", err)
	}
	if n == 0 {
		return domain.Appointment{}, domain.ErrSlotTaken
	}

	return appt, nil
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == exclusionViolation
}
