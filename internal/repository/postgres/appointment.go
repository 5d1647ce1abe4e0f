package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicdesk/scheduling-api/internal/model"
	apperrors "github.com/clinicdesk/scheduling-api/pkg/errors"
)

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, clinic_id, patient_id, specialist_id, room_id,
			   start_time, duration_minutes, status, notes,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET status = $1, notes = $2, updated_at = $3
		WHERE id = $4
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.Status,
		appointment.Notes,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}

	return nil
}

func (r *appointmentRepository) List(ctx context.Context, clinicID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, clinic_id, patient_id, specialist_id, room_id,
			   start_time, duration_minutes, status, notes,
			   created_at, updated_at
		FROM appointments
		WHERE clinic_id = $1
	`
	args := []interface{}{clinicID}
	argCount := 2

	if filters != nil {
		if filters.SpecialistID != nil {
			query += fmt.Sprintf(" AND specialist_id = $%d", argCount)
			args = append(args, *filters.SpecialistID)
			argCount++
		}
		if filters.PatientID != nil {
			query += fmt.Sprintf(" AND patient_id = $%d", argCount)
			args = append(args, *filters.PatientID)
			argCount++
		}
		if filters.RoomID != nil {
			query += fmt.Sprintf(" AND room_id = $%d", argCount)
			args = append(args, *filters.RoomID)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if !filters.From.IsZero() {
			query += fmt.Sprintf(" AND start_time >= $%d", argCount)
			args = append(args, filters.From)
			argCount++
		}
		if !filters.To.IsZero() {
			query += fmt.Sprintf(" AND start_time < $%d", argCount)
			args = append(args, filters.To)
			argCount++
		}
	}

	query += " ORDER BY start_time ASC"

	if filters != nil && filters.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filters.PageSize)
		argCount++
		if filters.Page > 1 {
			query += fmt.Sprintf(" OFFSET $%d", argCount)
			args = append(args, (filters.Page-1)*filters.PageSize)
		}
	}

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// FindOverlapping fetches a bounded candidate window; the caller applies the
// precise half-open overlap filter. Bounding by start_time keeps the query on
// the (clinic_id, start_time) index instead of computing windows in SQL.
func (r *appointmentRepository) FindOverlapping(ctx context.Context, clinicID uuid.UUID, roomID, specialistID *uuid.UUID, windowStart, windowEnd time.Time, lookback time.Duration) ([]*model.Appointment, error) {
	query := `
		SELECT id, clinic_id, patient_id, specialist_id, room_id,
			   start_time, duration_minutes, status, notes,
			   created_at, updated_at
		FROM appointments
		WHERE clinic_id = $1
		AND status != 'canceled'
		AND start_time >= $2
		AND start_time < $3
	`
	args := []interface{}{clinicID, windowStart.Add(-lookback), windowEnd}
	argCount := 4

	if roomID != nil {
		query += fmt.Sprintf(" AND room_id = $%d", argCount)
		args = append(args, *roomID)
		argCount++
	}
	if specialistID != nil {
		query += fmt.Sprintf(" AND specialist_id = $%d", argCount)
		args = append(args, *specialistID)
		argCount++
	}

	query += " ORDER BY start_time ASC"

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) Book(ctx context.Context, appointment *model.Appointment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := acquireWindowLocks(ctx, tx, appointment.RoomID, appointment.SpecialistID); err != nil {
		return err
	}
	if err := runBookingChecks(ctx, tx, appointment, nil); err != nil {
		return err
	}

	appointment.ID = uuid.New()
	appointment.Status = model.AppointmentStatusScheduled
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt

	query := `
		INSERT INTO appointments (
			id, clinic_id, patient_id, specialist_id, room_id,
			start_time, duration_minutes, status, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.ExecContext(ctx, query,
		appointment.ID,
		appointment.ClinicID,
		appointment.PatientID,
		appointment.SpecialistID,
		appointment.RoomID,
		appointment.StartTime,
		appointment.DurationMinutes,
		appointment.Status,
		appointment.Notes,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Rebook(ctx context.Context, appointment *model.Appointment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := acquireWindowLocks(ctx, tx, appointment.RoomID, appointment.SpecialistID); err != nil {
		return err
	}
	excludeID := appointment.ID
	if err := runBookingChecks(ctx, tx, appointment, &excludeID); err != nil {
		return err
	}

	appointment.Status = model.AppointmentStatusScheduled
	appointment.UpdatedAt = time.Now()

	query := `
		UPDATE appointments
		SET start_time = $1, duration_minutes = $2, status = $3, notes = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := tx.ExecContext(ctx, query,
		appointment.StartTime,
		appointment.DurationMinutes,
		appointment.Status,
		appointment.Notes,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rebooking: %w", err)
	}
	return nil
}

// acquireWindowLocks serializes concurrent bookings touching the same room or
// specialist for the rest of the transaction. Locks are always taken room
// first, specialist second, so two bookers can never deadlock.
func acquireWindowLocks(ctx context.Context, tx *sqlx.Tx, roomID, specialistID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended('room:' || $1, 0))`,
		roomID.String(),
	); err != nil {
		return fmt.Errorf("failed to lock room: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended('specialist:' || $1, 0))`,
		specialistID.String(),
	); err != nil {
		return fmt.Errorf("failed to lock specialist: %w", err)
	}
	return nil
}

// runBookingChecks enforces the five booking invariants against the current
// transaction snapshot: clinic membership, working hours, time-off, room
// overlap, specialist overlap. excludeID skips the appointment's own row when
// rebooking.
func runBookingChecks(ctx context.Context, tx *sqlx.Tx, appointment *model.Appointment, excludeID *uuid.UUID) error {
	if err := checkMembership(ctx, tx, appointment); err != nil {
		return err
	}
	if err := checkWorkingHours(ctx, tx, appointment); err != nil {
		return err
	}
	if err := checkTimeOff(ctx, tx, appointment); err != nil {
		return err
	}
	windowEnd := appointment.EndTime()

	roomBusy, err := overlapExists(ctx, tx, "room_id", appointment.RoomID, appointment.ClinicID, appointment.StartTime, windowEnd, excludeID)
	if err != nil {
		return err
	}
	if roomBusy {
		return apperrors.RoomConflict("room is already booked for this time")
	}

	specialistBusy, err := overlapExists(ctx, tx, "specialist_id", appointment.SpecialistID, appointment.ClinicID, appointment.StartTime, windowEnd, excludeID)
	if err != nil {
		return err
	}
	if specialistBusy {
		return apperrors.SpecialistConflict("specialist is already booked for this time")
	}
	return nil
}

func checkMembership(ctx context.Context, tx *sqlx.Tx, appointment *model.Appointment) error {
	var roomOK bool
	err := tx.GetContext(ctx, &roomOK,
		`SELECT EXISTS (SELECT 1 FROM rooms WHERE id = $1 AND clinic_id = $2 AND is_active)`,
		appointment.RoomID, appointment.ClinicID,
	)
	if err != nil {
		return fmt.Errorf("failed to check room: %w", err)
	}
	if !roomOK {
		return apperrors.NotFound("room", nil)
	}

	var specialistOK bool
	err = tx.GetContext(ctx, &specialistOK,
		`SELECT EXISTS (SELECT 1 FROM specialists WHERE id = $1 AND clinic_id = $2)`,
		appointment.SpecialistID, appointment.ClinicID,
	)
	if err != nil {
		return fmt.Errorf("failed to check specialist: %w", err)
	}
	if !specialistOK {
		return apperrors.NotFound("specialist", nil)
	}

	var patientOK bool
	err = tx.GetContext(ctx, &patientOK,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1 AND clinic_id = $2)`,
		appointment.PatientID, appointment.ClinicID,
	)
	if err != nil {
		return fmt.Errorf("failed to check patient: %w", err)
	}
	if !patientOK {
		return apperrors.NotFound("patient", nil)
	}
	return nil
}

func checkWorkingHours(ctx context.Context, tx *sqlx.Tx, appointment *model.Appointment) error {
	var raw []byte
	err := tx.GetContext(ctx, &raw,
		`SELECT COALESCE(work_schedule, 'null'::jsonb) FROM clinics WHERE id = $1`,
		appointment.ClinicID,
	)
	if err == sql.ErrNoRows {
		return apperrors.NotFound("clinic", err)
	}
	if err != nil {
		return fmt.Errorf("failed to load work schedule: %w", err)
	}

	var schedule model.WorkSchedule
	if err := json.Unmarshal(raw, &schedule); err != nil {
		return fmt.Errorf("failed to decode work schedule: %w", err)
	}

	window := schedule.WindowOn(appointment.StartTime)
	if window.Closed {
		return apperrors.OutsideWorkingHours("clinic is closed on this day")
	}
	if !window.Contains(appointment.StartTime) {
		return apperrors.OutsideWorkingHours(
			fmt.Sprintf("appointment must start between %s and %s", window.Open, window.Close))
	}
	return nil
}

func checkTimeOff(ctx context.Context, tx *sqlx.Tx, appointment *model.Appointment) error {
	var blocked bool
	err := tx.GetContext(ctx, &blocked, `
		SELECT EXISTS (
			SELECT 1 FROM time_off
			WHERE specialist_id = $1
			AND start_time <= $2
			AND (end_time IS NULL OR end_time >= $2)
		)`,
		appointment.SpecialistID, appointment.StartTime,
	)
	if err != nil {
		return fmt.Errorf("failed to check time off: %w", err)
	}
	if blocked {
		return apperrors.SpecialistUnavailable("specialist is on leave at this time")
	}
	return nil
}

// overlapExists runs the half-open overlap test in SQL: an existing window
// [s, s+d) conflicts iff s < windowEnd AND s+d > windowStart. Touching
// endpoints do not conflict.
func overlapExists(ctx context.Context, tx *sqlx.Tx, column string, id, clinicID uuid.UUID, windowStart, windowEnd time.Time, excludeID *uuid.UUID) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE clinic_id = $1
			AND %s = $2
			AND status != 'canceled'
			AND start_time < $3
			AND start_time + (duration_minutes * interval '1 minute') > $4
	`, column)
	args := []interface{}{clinicID, id, windowEnd, windowStart}

	if excludeID != nil {
		query += " AND id != $5"
		args = append(args, *excludeID)
	}
	query += ")"

	var exists bool
	if err := tx.GetContext(ctx, &exists, query, args...); err != nil {
		return false, fmt.Errorf("failed to check %s overlap: %w", column, err)
	}
	return exists, nil
}
