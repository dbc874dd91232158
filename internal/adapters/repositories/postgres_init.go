package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"technician-dispatch-service/internal/domain"
)

// Initialize the Postgres schema for appointments and absences.
//
// ends_at is stored next to duration_minutes because the exclusion constraint
// needs an immutable range expression.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createExtensionQuery := `CREATE EXTENSION IF NOT EXISTS btree_gist;`

	createAppointmentsQuery := `
	CREATE TABLE IF NOT EXISTS appointments (
		appointment_id TEXT PRIMARY KEY,
		technician_id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		scheduled_at TIMESTAMPTZ NOT NULL,
		ends_at TIMESTAMPTZ NOT NULL,
		duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
		status TEXT NOT NULL DEFAULT 'scheduled',
		customer_lat DOUBLE PRECISION,
		customer_lon DOUBLE PRECISION,
		CHECK (ends_at > scheduled_at),
		CONSTRAINT appointments_no_overlap EXCLUDE USING gist (
			technician_id WITH =,
			tstzrange(scheduled_at, ends_at, '[)') WITH &&
		) WHERE (status <> 'cancelled')
	);
	`

	createAbsencesQuery := `
	CREATE TABLE IF NOT EXISTS technician_absences (
		technician_id TEXT NOT NULL,
		absence_date DATE NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (technician_id, absence_date)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_appointments_technician_scheduled
	ON appointments(technician_id, scheduled_at);
	`

	statements := []string{
		createExtensionQuery,
		createAppointmentsQuery,
		createAbsencesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type CoordinatesSeed struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type AppointmentSeed struct {
	ID              string           `json:"id"`
	TechnicianID    string           `json:"technician_id"`
	CustomerID      string           `json:"customer_id"`
	ScheduledAt     time.Time        `json:"scheduled_at"`
	DurationMinutes int              `json:"duration_minutes"`
	Status          string           `json:"status"`
	Customer        *CoordinatesSeed `json:"customer,omitempty"`
}

type AbsenceSeed struct {
	TechnicianID string `json:"technician_id"`
	Date         string `json:"date"`
	Reason       string `json:"reason"`
}

type Seed struct {
	Appointments []domain.Appointment
	Absences     []domain.Absence
}

type seedFile struct {
	Appointments []AppointmentSeed `json:"appointments"`
	Absences     []AbsenceSeed     `json:"absences"`
}

// Read and validate a schedule seed file.
func LoadSeed(jsonPath string) (Seed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return Seed{}, fmt.Errorf("load seed: read %q: %w", jsonPath, err)
	}

	var data seedFile
	if err := json.Unmarshal(bytes, &data); err != nil {
		return Seed{}, fmt.Errorf("load seed: parse json: %w", err)
	}

	out := Seed{
		Appointments: make([]domain.Appointment, 0, len(data.Appointments)),
		Absences:     make([]domain.Absence, 0, len(data.Absences)),
	}

	for i, item := range data.Appointments {
		id := strings.TrimSpace(item.ID)
		tech := strings.TrimSpace(item.TechnicianID)
		if id == "" || tech == "" {
			return Seed{}, fmt.Errorf("load seed: appointment at index %d: id and technician_id are required", i+1)
		}
		if item.ScheduledAt.IsZero() {
			return Seed{}, fmt.Errorf("load seed: appointment %q: scheduled_at is required", id)
		}
		if item.DurationMinutes <= 0 {
			return Seed{}, fmt.Errorf("load seed: appointment %q: invalid duration %d", id, item.DurationMinutes)
		}

		status := domain.AppointmentStatus(strings.TrimSpace(item.Status))
		if status == "" {
			status = domain.StatusScheduled
		}
		if !status.Known() {
			return Seed{}, fmt.Errorf("load seed: appointment %q: unknown status %q", id, status)
		}

		appt := domain.Appointment{
			ID:              id,
			TechnicianID:    tech,
			CustomerID:      strings.TrimSpace(item.CustomerID),
			ScheduledAt:     item.ScheduledAt,
			DurationMinutes: item.DurationMinutes,
			Status:          status,
		}
		if item.Customer != nil {
			c := domain.Coordinates{Lat: item.Customer.Lat, Lon: item.Customer.Lon}
			if !c.Valid() {
				return Seed{}, fmt.Errorf("load seed: appointment %q: coordinates out of range", id)
			}
			appt.Customer = &c
		}
		out.Appointments = append(out.Appointments, appt)
	}

	for i, item := range data.Absences {
		tech := strings.TrimSpace(item.TechnicianID)
		if tech == "" {
			return Seed{}, fmt.Errorf("load seed: absence at index %d: technician_id is required", i+1)
		}
		date, err := time.Parse(time.DateOnly, strings.TrimSpace(item.Date))
		if err != nil {
			return Seed{}, fmt.Errorf("load seed: absence at index %d: %w", i+1, err)
		}
		out.Absences = append(out.Absences, domain.Absence{
			TechnicianID: tech,
			Date:         date,
			Reason:       strings.TrimSpace(item.Reason),
		})
	}

	return out, nil
}

// Populate the database with a validated seed, replacing rows with the same keys.
func ApplySeed(ctx context.Context, db *sql.DB, seed Seed) error {
	if db == nil {
		return errors.New("apply seed: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("apply seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	apptStmt, err := tx.PrepareContext(ctx, `
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
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (appointment_id) DO UPDATE
	SET technician_id = EXCLUDED.technician_id,
		customer_id = EXCLUDED.customer_id,
		scheduled_at = EXCLUDED.scheduled_at,
		ends_at = EXCLUDED.ends_at,
		duration_minutes = EXCLUDED.duration_minutes,
		status = EXCLUDED.status,
		customer_lat = EXCLUDED.customer_lat,
		customer_lon = EXCLUDED.customer_lon;
	`)
	if err != nil {
		return fmt.Errorf("apply seed: prepare appointment insert: %w", err)
	}
	defer apptStmt.Close()

	for _, a := range seed.Appointments {
		lat, lon := nullCoords(a.Customer)
		if _, err := apptStmt.ExecContext(ctx,
			a.ID, a.TechnicianID, a.CustomerID,
			a.ScheduledAt, a.Interval().End(), a.DurationMinutes,
			string(a.Status), lat, lon,
		); err != nil {
			return fmt.Errorf("apply seed: insert appointment_id=%s: %w", a.ID, err)
		}
	}

	absStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO technician_absences (technician_id, absence_date, reason)
	VALUES ($1, $2::date, $3)
	ON CONFLICT (technician_id, absence_date) DO UPDATE
	SET reason = EXCLUDED.reason;
	`)
	if err != nil {
		return fmt.Errorf("apply seed: prepare absence insert: %w", err)
	}
	defer absStmt.Close()

	for _, a := range seed.Absences {
		day := a.Date.Format(time.DateOnly)
		if _, err := absStmt.ExecContext(ctx, a.TechnicianID, day, a.Reason); err != nil {
			return fmt.Errorf("apply seed: insert absence technician_id=%s date=%s: %w", a.TechnicianID, day, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply seed: commit tx: %w", err)
	}

	return nil
}

// Populate the database with schedule data from a JSON file.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	seed, err := LoadSeed(jsonPath)
	if err != nil {
		return err
	}
	return ApplySeed(ctx, db, seed)
}

func nullCoords(c *domain.Coordinates) (lat, lon sql.NullFloat64) {
	if c == nil {
		return lat, lon
	}
	return sql.NullFloat64{Float64: c.Lat, Valid: true}, sql.NullFloat64{Float64: c.Lon, Valid: true}
}
