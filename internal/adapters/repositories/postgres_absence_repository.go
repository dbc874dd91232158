package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"technician-dispatch-service/internal/domain"
	"technician-dispatch-service/internal/platform/obs"
	"technician-dispatch-service/internal/ports"
)

// Postgres-backed implementation of the AbsenceRepository port.
type PostgresAbsenceRepository struct{ DB *sql.DB }

var _ ports.AbsenceRepository = (*PostgresAbsenceRepository)(nil)

func NewPostgresAbsenceRepository(db *sql.DB) *PostgresAbsenceRepository {
	return &PostgresAbsenceRepository{DB: db}
}

// Return the technician's absences between the civil dates of from and to,
// inclusive.
func (s *PostgresAbsenceRepository) ListAbsences(
	ctx context.Context,
	technicianID string,
	from, to time.Time,
) (_ []domain.Absence, err error) {
	ctx, done := obs.Time(ctx, "absences.List")
	defer done(&err)

	if s.DB == nil {
		return nil, errors.New("postgres absence repository: DB is nil")
	}

	if strings.TrimSpace(technicianID) == "" {
		return nil, errors.New("list absences: technician id must not be empty")
	}

	query := `
	SELECT technician_id, absence_date, reason
	FROM technician_absences
	WHERE technician_id = $1
		AND absence_date BETWEEN $2::date AND $3::date
	ORDER BY absence_date;
	`
	rows, err := s.DB.QueryContext(ctx, query,
		technicianID, from.Format(time.DateOnly), to.Format(time.DateOnly),
	)
	if err != nil {
		return nil, fmt.Errorf("list absences: query technician_absences table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Absence, 0, 4)
	for rows.Next() {
		var a domain.Absence
		if err := rows.Scan(&a.TechnicianID, &a.Date, &a.Reason); err != nil {
			return nil, fmt.Errorf("list absences: scan row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list absences: row iteration: %w", err)
	}

	return out, nil
}
