package room

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/repository"
	apperrors "github.com/clinicdesk/scheduling-api/pkg/errors"
)

type Service struct {
	repo repository.RoomRepository
}

func NewService(repo repository.RoomRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, clinicID uuid.UUID, req *model.CreateRoomRequest) (*model.Room, error) {
	room := &model.Room{
		ClinicID: clinicID,
		Name:     req.Name,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return room, nil
}

// Update renames or toggles the active flag. Deactivation is the only way to
// retire a room; deletion would orphan historical appointments.
func (s *Service) Update(ctx context.Context, clinicID, id uuid.UUID, req *model.UpdateRoomRequest) (*model.Room, error) {
	room, err := s.Get(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Room, error) {
	room, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if room.ClinicID != clinicID {
		return nil, apperrors.NotFound("room", nil)
	}
	return room, nil
}

func (s *Service) List(ctx context.Context, clinicID uuid.UUID) ([]*model.Room, error) {
	return s.repo.List(ctx, clinicID)
}
