package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/repository"
	apperrors "github.com/clinicdesk/scheduling-api/pkg/errors"
)

const (
	cacheDuration   = 5 * time.Minute
	cleanupInterval = 15 * time.Minute
)

// Resolver answers "when is this clinic open on this date". Schedules are
// read on every availability request but change rarely, so they are cached.
type Resolver struct {
	repo   repository.ClinicRepository
	cache  *cache.Cache
	logger zerolog.Logger
}

func NewResolver(repo repository.ClinicRepository, logger zerolog.Logger) *Resolver {
	return &Resolver{
		repo:   repo,
		cache:  cache.New(cacheDuration, cleanupInterval),
		logger: logger,
	}
}

// Resolve returns the clinic's open window for date's weekday, applying
// defaults for unconfigured days.
func (r *Resolver) Resolve(ctx context.Context, clinicID uuid.UUID, date time.Time) (model.DayWindow, error) {
	schedule, err := r.workSchedule(ctx, clinicID)
	if err != nil {
		return model.DayWindow{}, err
	}
	return schedule.WindowOn(date), nil
}

// WorkSchedule returns the raw configured schedule (possibly nil).
func (r *Resolver) WorkSchedule(ctx context.Context, clinicID uuid.UUID) (model.WorkSchedule, error) {
	return r.workSchedule(ctx, clinicID)
}

// Update validates and persists a new schedule, dropping the cached copy.
func (r *Resolver) Update(ctx context.Context, clinicID uuid.UUID, schedule model.WorkSchedule) error {
	if err := schedule.Validate(); err != nil {
		return apperrors.BadRequest("invalid work schedule", err)
	}
	if err := r.repo.UpdateWorkSchedule(ctx, clinicID, schedule); err != nil {
		return err
	}
	r.cache.Delete(clinicID.String())
	return nil
}

func (r *Resolver) workSchedule(ctx context.Context, clinicID uuid.UUID) (model.WorkSchedule, error) {
	key := clinicID.String()
	if cached, ok := r.cache.Get(key); ok {
		return cached.(model.WorkSchedule), nil
	}

	schedule, err := r.repo.GetWorkSchedule(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	r.cache.Set(key, schedule, cache.DefaultExpiration)
	return schedule, nil
}
