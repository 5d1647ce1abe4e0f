package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-api/internal/model"
	apperrors "github.com/clinicdesk/scheduling-api/pkg/errors"
)

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `
		SELECT id, clinic_id, name, email, phone, created_at, updated_at
		FROM patients
		WHERE id = $1
	`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *specialistRepository) Get(ctx context.Context, id uuid.UUID) (*model.Specialist, error) {
	query := `
		SELECT id, clinic_id, name, email, specialty, created_at, updated_at
		FROM specialists
		WHERE id = $1
	`
	var specialist model.Specialist
	err := r.db.GetContext(ctx, &specialist, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("specialist", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get specialist: %w", err)
	}
	return &specialist, nil
}
