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

func (r *roomRepository) Create(ctx context.Context, room *model.Room) error {
	query := `
		INSERT INTO rooms (id, clinic_id, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	room.ID = uuid.New()
	room.CreatedAt = time.Now()
	room.UpdatedAt = room.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		room.ID,
		room.ClinicID,
		room.Name,
		room.IsActive,
		room.CreatedAt,
		room.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (r *roomRepository) Get(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	query := `
		SELECT id, clinic_id, name, is_active, created_at, updated_at
		FROM rooms
		WHERE id = $1
	`
	var room model.Room
	err := r.db.GetContext(ctx, &room, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("room", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

func (r *roomRepository) Update(ctx context.Context, room *model.Room) error {
	query := `
		UPDATE rooms
		SET name = $1, is_active = $2, updated_at = $3
		WHERE id = $4
	`
	room.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query, room.Name, room.IsActive, room.UpdatedAt, room.ID)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("room", nil)
	}
	return nil
}

func (r *roomRepository) List(ctx context.Context, clinicID uuid.UUID) ([]*model.Room, error) {
	query := `
		SELECT id, clinic_id, name, is_active, created_at, updated_at
		FROM rooms
		WHERE clinic_id = $1
		ORDER BY name ASC
	`
	var rooms []*model.Room
	if err := r.db.SelectContext(ctx, &rooms, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (r *roomRepository) ListActive(ctx context.Context, clinicID uuid.UUID) ([]*model.Room, error) {
	query := `
		SELECT id, clinic_id, name, is_active, created_at, updated_at
		FROM rooms
		WHERE clinic_id = $1 AND is_active
		ORDER BY name ASC
	`
	var rooms []*model.Room
	if err := r.db.SelectContext(ctx, &rooms, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list active rooms: %w", err)
	}
	return rooms, nil
}
