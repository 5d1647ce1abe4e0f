package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-api/internal/model"
	apperrors "github.com/clinicdesk/scheduling-api/pkg/errors"
)

func (r *clinicRepository) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	query := `
		SELECT id, name, location, status, created_at, updated_at
		FROM clinics
		WHERE id = $1
	`
	var clinic model.Clinic
	err := r.db.GetContext(ctx, &clinic, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("clinic", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return &clinic, nil
}

func (r *clinicRepository) GetWorkSchedule(ctx context.Context, clinicID uuid.UUID) (model.WorkSchedule, error) {
	var raw []byte
	err := r.db.GetContext(ctx, &raw,
		`SELECT COALESCE(work_schedule, 'null'::jsonb) FROM clinics WHERE id = $1`,
		clinicID,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("clinic", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get work schedule: %w", err)
	}

	var schedule model.WorkSchedule
	if err := json.Unmarshal(raw, &schedule); err != nil {
		return nil, fmt.Errorf("failed to decode work schedule: %w", err)
	}
	return schedule, nil
}

func (r *clinicRepository) UpdateWorkSchedule(ctx context.Context, clinicID uuid.UUID, schedule model.WorkSchedule) error {
	raw, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("failed to encode work schedule: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE clinics SET work_schedule = $1, updated_at = $2 WHERE id = $3`,
		raw, time.Now(), clinicID,
	)
	if err != nil {
		return fmt.Errorf("failed to update work schedule: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("clinic", nil)
	}
	return nil
}
