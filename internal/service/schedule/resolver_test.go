package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/scheduling-api/internal/model"
	apperrors "github.com/clinicdesk/scheduling-api/pkg/errors"
)

type fakeClinicRepo struct {
	schedule model.WorkSchedule
	err      error
	reads    int
}

func (f *fakeClinicRepo) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClinicRepo) GetWorkSchedule(ctx context.Context, clinicID uuid.UUID) (model.WorkSchedule, error) {
	f.reads++
	return f.schedule, f.err
}

func (f *fakeClinicRepo) UpdateWorkSchedule(ctx context.Context, clinicID uuid.UUID, schedule model.WorkSchedule) error {
	f.schedule = schedule
	return nil
}

func TestResolveUsesConfiguredWindow(t *testing.T) {
	repo := &fakeClinicRepo{schedule: model.WorkSchedule{
		"mon": {Open: "09:00", Close: "13:00"},
	}}
	resolver := NewResolver(repo, zerolog.Nop())

	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	window, err := resolver.Resolve(context.Background(), uuid.New(), monday)
	require.NoError(t, err)
	assert.Equal(t, "09:00", window.Open)
	assert.Equal(t, "13:00", window.Close)
}

func TestResolveCachesPerClinic(t *testing.T) {
	repo := &fakeClinicRepo{}
	resolver := NewResolver(repo, zerolog.Nop())
	clinicID := uuid.New()

	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	_, err := resolver.Resolve(context.Background(), clinicID, monday)
	require.NoError(t, err)
	_, err = resolver.Resolve(context.Background(), clinicID, monday.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, 1, repo.reads)
}

func TestUpdateInvalidatesCache(t *testing.T) {
	repo := &fakeClinicRepo{}
	resolver := NewResolver(repo, zerolog.Nop())
	clinicID := uuid.New()

	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	window, err := resolver.Resolve(context.Background(), clinicID, monday)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultOpen, window.Open)

	err = resolver.Update(context.Background(), clinicID, model.WorkSchedule{
		"mon": {Open: "07:00", Close: "12:00"},
	})
	require.NoError(t, err)

	window, err = resolver.Resolve(context.Background(), clinicID, monday)
	require.NoError(t, err)
	assert.Equal(t, "07:00", window.Open)
}

func TestUpdateRejectsInvalidSchedule(t *testing.T) {
	resolver := NewResolver(&fakeClinicRepo{}, zerolog.Nop())

	err := resolver.Update(context.Background(), uuid.New(), model.WorkSchedule{
		"mon": {Open: "18:00", Close: "08:00"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestResolvePropagatesRepoError(t *testing.T) {
	repo := &fakeClinicRepo{err: errors.New("db down")}
	resolver := NewResolver(repo, zerolog.Nop())

	_, err := resolver.Resolve(context.Background(), uuid.New(), time.Now())
	assert.Error(t, err)
}
