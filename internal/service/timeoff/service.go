package timeoff

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/repository"
	apperrors "github.com/clinicdesk/scheduling-api/pkg/errors"
)

// Service is the time-off index: it records blocked intervals per specialist
// and answers point-in-time blocked queries. Intervals are immutable;
// corrections are delete and recreate.
type Service struct {
	repo           repository.TimeOffRepository
	specialistRepo repository.SpecialistRepository
	logger         zerolog.Logger
}

func NewService(repo repository.TimeOffRepository, specialistRepo repository.SpecialistRepository, logger zerolog.Logger) *Service {
	return &Service{
		repo:           repo,
		specialistRepo: specialistRepo,
		logger:         logger,
	}
}

// Create validates and stores a new interval. An absent end means the
// specialist is blocked from start onward indefinitely.
func (s *Service) Create(ctx context.Context, clinicID, specialistID uuid.UUID, req *model.CreateTimeOffRequest) (*model.TimeOffInterval, error) {
	if req.EndTime != nil && req.EndTime.Before(req.StartTime) {
		return nil, apperrors.InvalidRange("time off end must not be before start")
	}

	specialist, err := s.specialistRepo.Get(ctx, specialistID)
	if err != nil {
		return nil, err
	}
	if specialist.ClinicID != clinicID {
		return nil, apperrors.NotFound("specialist", nil)
	}

	interval := &model.TimeOffInterval{
		SpecialistID: specialistID,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Reason:       req.Reason,
	}
	if err := s.repo.Create(ctx, interval); err != nil {
		return nil, fmt.Errorf("failed to create time off: %w", err)
	}

	s.logger.Info().
		Str("specialist_id", specialistID.String()).
		Time("start", interval.StartTime).
		Msg("time off created")

	return interval, nil
}

func (s *Service) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	interval, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	specialist, err := s.specialistRepo.Get(ctx, interval.SpecialistID)
	if err != nil {
		return err
	}
	if specialist.ClinicID != clinicID {
		return apperrors.NotFound("time off", nil)
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, clinicID, specialistID uuid.UUID) ([]*model.TimeOffInterval, error) {
	specialist, err := s.specialistRepo.Get(ctx, specialistID)
	if err != nil {
		return nil, err
	}
	if specialist.ClinicID != clinicID {
		return nil, apperrors.NotFound("specialist", nil)
	}
	return s.repo.ListBySpecialist(ctx, specialistID)
}

// Intervals returns the specialist's intervals without clinic scoping checks,
// for internal availability computation.
func (s *Service) Intervals(ctx context.Context, specialistID uuid.UUID) ([]*model.TimeOffInterval, error) {
	intervals, err := s.repo.ListBySpecialist(ctx, specialistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list time off: %w", err)
	}
	return intervals, nil
}

// IsBlocked reports whether instant t falls inside any of the specialist's
// time-off intervals.
func (s *Service) IsBlocked(ctx context.Context, specialistID uuid.UUID, t time.Time) (bool, error) {
	intervals, err := s.Intervals(ctx, specialistID)
	if err != nil {
		return false, err
	}
	for _, interval := range intervals {
		if interval.Blocks(t) {
			return true, nil
		}
	}
	return false, nil
}
