package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanWindow(row pgx.Row) (*AvailabilityWindow, error) {
	var w AvailabilityWindow

	err := row.Scan(
		&w.ID,
		&w.DoctorID,
		&w.Date,
		&w.StartHour,
		&w.EndHour,
		&w.SlotDuration,
		&w.Active,
		&w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAvailabilityNotFound
		}
		return nil, err
	}

	w.Date = NormalizeDate(w.Date)
	return &w, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.DoctorID,
		&a.PatientID,
		&a.Date,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.Date = NormalizeDate(a.Date)
	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	result := []Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

const windowColumns = `id, doctor_id, date, start_hour, end_hour, slot_duration, active, created_at`
const appointmentColumns = `id, doctor_id, patient_id, date, start_time, end_time, status, created_at, updated_at`

// Interface methods

func (r *PgRepository) GetActiveAvailability(ctx context.Context, doctorID uuid.UUID, date time.Time) (*AvailabilityWindow, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+windowColumns+`
		FROM availabilities
		WHERE doctor_id = $1 AND date = $2 AND active
	`, doctorID, date)
	return scanWindow(row)
}

func (r *PgRepository) ListAvailabilityByDoctor(ctx context.Context, doctorID uuid.UUID) ([]AvailabilityWindow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+windowColumns+`
		FROM availabilities
		WHERE doctor_id = $1
		ORDER BY date
	`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []AvailabilityWindow{}
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) CreateAvailability(ctx context.Context, windows []AvailabilityWindow) ([]AvailabilityWindow, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin availability tx: %w", err)
	}
	defer tx.Rollback(ctx)

	created := []AvailabilityWindow{}
	for _, w := range windows {
		id := w.ID
		if id == uuid.Nil {
			id = uuid.New()
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO availabilities (id, doctor_id, date, start_hour, end_hour, slot_duration, active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now())
			ON CONFLICT (doctor_id, date) DO NOTHING
			RETURNING `+windowColumns+`
		`, id, w.DoctorID, w.Date, w.StartHour, w.EndHour, w.SlotDuration, w.Active)

		inserted, err := scanWindow(row)
		if errors.Is(err, ErrAvailabilityNotFound) {
			// the day already had a window
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("insert availability: %w", err)
		}
		created = append(created, *inserted)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit availability tx: %w", err)
	}

	return created, nil
}

func (r *PgRepository) FindAppointmentAt(ctx context.Context, doctorID uuid.UUID, date time.Time, startTime string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1 AND date = $2 AND start_time = $3
	`, doctorID, date, startTime)
	return scanAppointment(row)
}

func (r *PgRepository) ListAppointmentsForDay(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1 AND date = $2
		ORDER BY start_time
	`, doctorID, date)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) ListAppointmentsByPatient(ctx context.Context, patientID uuid.UUID) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE patient_id = $1
		ORDER BY date, start_time
	`, patientID)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) CreateAppointment(ctx context.Context, a Appointment) (*Appointment, error) {
	id := a.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, doctor_id, patient_id, date, start_time, end_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING `+appointmentColumns+`
	`, id, a.DoctorID, a.PatientID, a.Date, a.StartTime, a.EndTime, string(a.Status))

	created, err := scanAppointment(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateAppointment
		}
		return nil, err
	}
	return created, nil
}

func (r *PgRepository) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, to AppointmentStatus, from ...AppointmentStatus) (*Appointment, error) {
	if len(from) == 0 {
		row := r.pool.QueryRow(ctx, `
			UPDATE appointments
			SET status = $2,
			    updated_at = now()
			WHERE id = $1
			RETURNING `+appointmentColumns+`
		`, id, string(to))
		return scanAppointment(row)
	}

	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = ANY($3)
		RETURNING `+appointmentColumns+`
	`, id, string(to), allowed)
	return scanAppointment(row)
}

func (r *PgRepository) DeleteDoctorCascade(ctx context.Context, doctorID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete doctor tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1 AND role = 'doctor'`, doctorID)
	if err != nil {
		return fmt.Errorf("delete doctor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM availabilities WHERE doctor_id = $1`, doctorID); err != nil {
		return fmt.Errorf("delete doctor availability: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM appointments WHERE doctor_id = $1`, doctorID); err != nil {
		return fmt.Errorf("delete doctor appointments: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete doctor tx: %w", err)
	}
	return nil
}
