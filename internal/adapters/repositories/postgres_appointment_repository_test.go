package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"technician-dispatch-service/internal/domain"
)

var appointmentColumns = []string{
	"appointment_id", "technician_id", "customer_id", "scheduled_at",
	"duration_minutes", "status", "customer_lat", "customer_lon",
}

func TestListAppointments(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	first := from.Add(9 * time.Hour)
	second := from.Add(13 * time.Hour)

	rows := sqlmock.NewRows(appointmentColumns).
		AddRow("a-1", "tech-1", "cust-1", first, int64(60), "scheduled", 52.52, 13.40).
		AddRow("a-2", "tech-1", "cust-2", second, int64(30), "cancelled", nil, nil)

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs("tech-1", from, to).
		WillReturnRows(rows)

	repo := NewPostgresAppointmentRepository(db)
	got, err := repo.ListAppointments(context.Background(), "tech-1", from, to)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "a-1", got[0].ID)
	assert.Equal(t, first, got[0].ScheduledAt)
	assert.Equal(t, 60, got[0].DurationMinutes)
	assert.Equal(t, domain.StatusScheduled, got[0].Status)
	require.NotNil(t, got[0].Customer)
	assert.Equal(t, domain.Coordinates{Lat: 52.52, Lon: 13.40}, *got[0].Customer)

	assert.Equal(t, domain.StatusCancelled, got[1].Status)
	assert.Nil(t, got[1].Customer, "missing coordinates stay nil")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAppointmentsQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery("SELECT (.+) FROM appointments").WillReturnError(boom)

	repo := NewPostgresAppointmentRepository(db)
	_, err = repo.ListAppointments(context.Background(), "tech-1", time.Now(), time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "list appointments")
}

func TestListAppointmentsRejectsEmptyTechnician(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresAppointmentRepository(db)
	_, err = repo.ListAppointments(context.Background(), "  ", time.Now(), time.Now())
	assert.Error(t, err)
}

func TestCreateAppointment(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	appt := domain.Appointment{
		ID:              "a-9",
		TechnicianID:    "tech-1",
		CustomerID:      "cust-9",
		ScheduledAt:     start,
		DurationMinutes: 90,
		Status:          domain.StatusScheduled,
		Customer:        &domain.Coordinates{Lat: 48.1, Lon: 11.5},
	}

	t.Run("inserted", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("INSERT INTO appointments").
			WithArgs("a-9", "tech-1", "cust-9", start, start.Add(90*time.Minute), 90, "scheduled", 48.1, 11.5).
			WillReturnResult(sqlmock.NewResult(0, 1))

		got, err := NewPostgresAppointmentRepository(db).CreateAppointment(context.Background(), appt)
		require.NoError(t, err)
		assert.Equal(t, appt, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("overlap guard matched no rows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("INSERT INTO appointments").
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err = NewPostgresAppointmentRepository(db).CreateAppointment(context.Background(), appt)
		assert.ErrorIs(t, err, domain.ErrSlotTaken)
	})

	t.Run("exclusion constraint violated", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("INSERT INTO appointments").
			WillReturnError(&pgconn.PgError{Code: "23P01", ConstraintName: "appointments_no_overlap"})

		_, err = NewPostgresAppointmentRepository(db).CreateAppointment(context.Background(), appt)
		assert.ErrorIs(t, err, domain.ErrSlotTaken)
	})

	t.Run("other database error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("INSERT INTO appointments").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err = NewPostgresAppointmentRepository(db).CreateAppointment(context.Background(), appt)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrSlotTaken)
	})

	t.Run("invalid duration never reaches the database", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		bad := appt
		bad.DurationMinutes = 0
		_, err = NewPostgresAppointmentRepository(db).CreateAppointment(context.Background(), bad)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
