package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-api/internal/model"
	apperrors "github.com/clinicdesk/scheduling-api/pkg/errors"
)

func (r *timeOffRepository) Create(ctx context.Context, interval *model.TimeOffInterval) error {
	query := `
		INSERT INTO time_off (id, specialist_id, start_time, end_time, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	interval.ID = uuid.New()
	interval.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		interval.ID,
		interval.SpecialistID,
		interval.StartTime,
		interval.EndTime,
		interval.Reason,
		interval.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create time off: %w", err)
	}
	return nil
}

func (r *timeOffRepository) Get(ctx context.Context, id uuid.UUID) (*model.TimeOffInterval, error) {
	query := `
		SELECT id, specialist_id, start_time, end_time, reason, created_at
		FROM time_off
		WHERE id = $1
	`
	var interval model.TimeOffInterval
	err := r.db.GetContext(ctx, &interval, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("time off", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get time off: %w", err)
	}
	return &interval, nil
}

func (r *timeOffRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM time_off WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete time off: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("time off", nil)
	}
	return nil
}

func (r *timeOffRepository) ListBySpecialist(ctx context.Context, specialistID uuid.UUID) ([]*model.TimeOffInterval, error) {
	query := `
		SELECT id, specialist_id, start_time, end_time, reason, created_at
		FROM time_off
		WHERE specialist_id = $1
		ORDER BY start_time ASC
	`
	var intervals []*model.TimeOffInterval
	if err := r.db.SelectContext(ctx, &intervals, query, specialistID); err != nil {
		return nil, fmt.Errorf("failed to list time off: %w", err)
	}
	return intervals, nil
}
