package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/scheduling-api/internal/config"
	"github.com/clinicdesk/scheduling-api/internal/model"
	apperrors "github.com/clinicdesk/scheduling-api/pkg/errors"
)

// fakeAppointmentRepo mirrors the transactional booking repository: Book and
// Rebook run the conflict checks and the write atomically under one lock, the
// way advisory locks serialize the real thing.
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appointment, ok := f.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	clone := *appointment
	return &clone, nil
}

func (f *fakeAppointmentRepo) Update(ctx context.Context, appointment *model.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.appointments[appointment.ID]
	if !ok {
		return apperrors.NotFound("appointment", nil)
	}
	stored.Status = appointment.Status
	stored.Notes = appointment.Notes
	return nil
}

func (f *fakeAppointmentRepo) List(ctx context.Context, clinicID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Appointment
	for _, a := range f.appointments {
		if a.ClinicID == clinicID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) FindOverlapping(ctx context.Context, clinicID uuid.UUID, roomID, specialistID *uuid.UUID, windowStart, windowEnd time.Time, lookback time.Duration) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Appointment
	for _, a := range f.appointments {
		if a.ClinicID != clinicID || a.Status == model.AppointmentStatusCanceled {
			continue
		}
		if roomID != nil && a.RoomID != *roomID {
			continue
		}
		if specialistID != nil && a.SpecialistID != *specialistID {
			continue
		}
		if a.Overlaps(windowStart, windowEnd) {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) Book(ctx context.Context, appointment *model.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkConflicts(appointment, uuid.Nil); err != nil {
		return err
	}
	appointment.ID = uuid.New()
	appointment.Status = model.AppointmentStatusScheduled
	appointment.CreatedAt = time.Now()
	clone := *appointment
	f.appointments[appointment.ID] = &clone
	return nil
}

func (f *fakeAppointmentRepo) Rebook(ctx context.Context, appointment *model.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkConflicts(appointment, appointment.ID); err != nil {
		return err
	}
	appointment.Status = model.AppointmentStatusScheduled
	clone := *appointment
	f.appointments[appointment.ID] = &clone
	return nil
}

func (f *fakeAppointmentRepo) checkConflicts(candidate *model.Appointment, exclude uuid.UUID) error {
	start, end := candidate.StartTime, candidate.EndTime()
	for _, a := range f.appointments {
		if a.ID == exclude || a.Status == model.AppointmentStatusCanceled {
			continue
		}
		if !a.Overlaps(start, end) {
			continue
		}
		if a.RoomID == candidate.RoomID {
			return apperrors.RoomConflict("room already booked")
		}
		if a.SpecialistID == candidate.SpecialistID {
			return apperrors.SpecialistConflict("specialist already booked")
		}
	}
	return nil
}

type fakeSchedule struct {
	window model.DayWindow
	err    error
}

func (f *fakeSchedule) Resolve(ctx context.Context, clinicID uuid.UUID, date time.Time) (model.DayWindow, error) {
	return f.window, f.err
}

type fakeTimeOff struct {
	blocked bool
	err     error
}

func (f *fakeTimeOff) IsBlocked(ctx context.Context, specialistID uuid.UUID, t time.Time) (bool, error) {
	return f.blocked, f.err
}

func openSchedule() *fakeSchedule {
	return &fakeSchedule{window: model.DayWindow{Open: model.DefaultOpen, Close: model.DefaultClose}}
}

func testLimits() config.BookingConfig {
	return config.BookingConfig{SlotMinutes: 30, MinDurationMinutes: 15, MaxDurationMinutes: 240}
}

func newGuardedService(sched *fakeSchedule, off *fakeTimeOff) (*Service, *fakeAppointmentRepo) {
	repo := newFakeAppointmentRepo()
	return NewService(repo, sched, off, nil, testLimits(), zerolog.Nop()), repo
}

func newTestService() (*Service, *fakeAppointmentRepo) {
	return newGuardedService(openSchedule(), &fakeTimeOff{})
}

// startAt returns 10:00 UTC on the day daysFromNow days away, an instant that
// always lands inside the default open window.
func startAt(daysFromNow int) time.Time {
	d := time.Now().UTC().AddDate(0, 0, daysFromNow)
	return time.Date(d.Year(), d.Month(), d.Day(), 10, 0, 0, 0, time.UTC)
}

func bookingRequest(roomID, specialistID uuid.UUID, start time.Time, minutes int) *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		PatientID:       uuid.New(),
		SpecialistID:    specialistID,
		RoomID:          roomID,
		StartTime:       start,
		DurationMinutes: minutes,
	}
}

func TestBookSuccess(t *testing.T) {
	svc, _ := newTestService()
	clinicID := uuid.New()
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	appt, err := svc.Book(context.Background(), clinicID, bookingRequest(uuid.New(), uuid.New(), start, 60))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, appt.ID)
	assert.Equal(t, model.AppointmentStatusScheduled, appt.Status)
	assert.Equal(t, clinicID, appt.ClinicID)
}

func TestBookRoomConflict(t *testing.T) {
	svc, _ := newTestService()
	clinicID := uuid.New()
	roomID := uuid.New()
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	_, err := svc.Book(context.Background(), clinicID, bookingRequest(roomID, uuid.New(), start, 60))
	require.NoError(t, err)

	// Overlapping 10:30 start in the same room.
	_, err = svc.Book(context.Background(), clinicID, bookingRequest(roomID, uuid.New(), start.Add(30*time.Minute), 60))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrRoomConflict))
}

func TestBookSpecialistConflict(t *testing.T) {
	svc, _ := newTestService()
	clinicID := uuid.New()
	specialistID := uuid.New()
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	_, err := svc.Book(context.Background(), clinicID, bookingRequest(uuid.New(), specialistID, start, 60))
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), clinicID, bookingRequest(uuid.New(), specialistID, start.Add(30*time.Minute), 60))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSpecialistConflict))
}

func TestBookAdjacentWindows(t *testing.T) {
	svc, _ := newTestService()
	clinicID := uuid.New()
	roomID := uuid.New()
	specialistID := uuid.New()
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	_, err := svc.Book(context.Background(), clinicID, bookingRequest(roomID, specialistID, start, 60))
	require.NoError(t, err)

	// Back to back at 11:00 and 09:00 share endpoints only.
	_, err = svc.Book(context.Background(), clinicID, bookingRequest(roomID, specialistID, start.Add(time.Hour), 60))
	assert.NoError(t, err)
	_, err = svc.Book(context.Background(), clinicID, bookingRequest(roomID, specialistID, start.Add(-time.Hour), 60))
	assert.NoError(t, err)
}

func TestBookDurationLimits(t *testing.T) {
	svc, _ := newTestService()
	clinicID := uuid.New()
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	_, err := svc.Book(context.Background(), clinicID, bookingRequest(uuid.New(), uuid.New(), start, 10))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	_, err = svc.Book(context.Background(), clinicID, bookingRequest(uuid.New(), uuid.New(), start, 300))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestConcurrentBookingSameRoom(t *testing.T) {
	svc, _ := newTestService()
	clinicID := uuid.New()
	roomID := uuid.New()
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	const attempts = 8
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Book(context.Background(), clinicID, bookingRequest(roomID, uuid.New(), start, 60))
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case apperrors.Is(err, apperrors.ErrRoomConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}

func TestGetScopesToClinic(t *testing.T) {
	svc, _ := newTestService()
	clinicID := uuid.New()
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	appt, err := svc.Book(context.Background(), clinicID, bookingRequest(uuid.New(), uuid.New(), start, 60))
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New(), appt.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestCancelAndReopen(t *testing.T) {
	svc, _ := newTestService()
	clinicID := uuid.New()
	roomID := uuid.New()
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	appt, err := svc.Book(context.Background(), clinicID, bookingRequest(roomID, uuid.New(), start, 60))
	require.NoError(t, err)

	canceled := model.AppointmentStatusCanceled
	updated, err := svc.Update(context.Background(), clinicID, appt.ID, &model.UpdateAppointmentRequest{Status: &canceled})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCanceled, updated.Status)

	// The freed slot can be taken by someone else.
	taken, err := svc.Book(context.Background(), clinicID, bookingRequest(roomID, uuid.New(), start, 60))
	require.NoError(t, err)

	// Reopening now collides with the new booking.
	scheduled := model.AppointmentStatusScheduled
	_, err = svc.Update(context.Background(), clinicID, appt.ID, &model.UpdateAppointmentRequest{Status: &scheduled})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrRoomConflict))

	// Cancel the new booking and the reopen succeeds.
	_, err = svc.Update(context.Background(), clinicID, taken.ID, &model.UpdateAppointmentRequest{Status: &canceled})
	require.NoError(t, err)

	reopened, err := svc.Update(context.Background(), clinicID, appt.ID, &model.UpdateAppointmentRequest{Status: &scheduled})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, reopened.Status)
}

func TestCompleteRequiresStartInPast(t *testing.T) {
	svc, _ := newTestService()
	clinicID := uuid.New()
	completed := model.AppointmentStatusCompleted

	future, err := svc.Book(context.Background(), clinicID,
		bookingRequest(uuid.New(), uuid.New(), startAt(2), 60))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), clinicID, future.ID, &model.UpdateAppointmentRequest{Status: &completed})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	past, err := svc.Book(context.Background(), clinicID,
		bookingRequest(uuid.New(), uuid.New(), startAt(-1), 60))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), clinicID, past.ID, &model.UpdateAppointmentRequest{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)
}

func TestCompletedIsTerminalExceptNotes(t *testing.T) {
	svc, _ := newTestService()
	clinicID := uuid.New()

	appt, err := svc.Book(context.Background(), clinicID,
		bookingRequest(uuid.New(), uuid.New(), startAt(-1), 60))
	require.NoError(t, err)

	completed := model.AppointmentStatusCompleted
	_, err = svc.Update(context.Background(), clinicID, appt.ID, &model.UpdateAppointmentRequest{Status: &completed})
	require.NoError(t, err)

	canceled := model.AppointmentStatusCanceled
	_, err = svc.Update(context.Background(), clinicID, appt.ID, &model.UpdateAppointmentRequest{Status: &canceled})
	require.Error(t, err)

	newStart := startAt(3)
	_, err = svc.Update(context.Background(), clinicID, appt.ID, &model.UpdateAppointmentRequest{StartTime: &newStart})
	require.Error(t, err)

	notes := "follow-up in two weeks"
	updated, err := svc.Update(context.Background(), clinicID, appt.ID, &model.UpdateAppointmentRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)
	assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)
}

func TestRescheduleReRunsConflictChecks(t *testing.T) {
	svc, _ := newTestService()
	clinicID := uuid.New()
	roomID := uuid.New()
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	first, err := svc.Book(context.Background(), clinicID, bookingRequest(roomID, uuid.New(), start, 60))
	require.NoError(t, err)
	second, err := svc.Book(context.Background(), clinicID, bookingRequest(roomID, uuid.New(), start.Add(2*time.Hour), 60))
	require.NoError(t, err)

	// Moving the second onto the first must fail.
	collide := start.Add(30 * time.Minute)
	_, err = svc.Update(context.Background(), clinicID, second.ID, &model.UpdateAppointmentRequest{StartTime: &collide})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrRoomConflict))

	// An open window is fine, including one that only touches the first.
	adjacent := first.EndTime()
	moved, err := svc.Update(context.Background(), clinicID, second.ID, &model.UpdateAppointmentRequest{StartTime: &adjacent})
	require.NoError(t, err)
	assert.True(t, moved.StartTime.Equal(adjacent))
}

func TestRescheduleAndCancelInOneRequest(t *testing.T) {
	svc, _ := newTestService()
	clinicID := uuid.New()

	appt, err := svc.Book(context.Background(), clinicID,
		bookingRequest(uuid.New(), uuid.New(), startAt(2), 60))
	require.NoError(t, err)

	canceled := model.AppointmentStatusCanceled
	newStart := startAt(3)
	_, err = svc.Update(context.Background(), clinicID, appt.ID, &model.UpdateAppointmentRequest{
		StartTime: &newStart,
		Status:    &canceled,
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	svc, _ := newTestService()
	clinicID := uuid.New()

	appt, err := svc.Book(context.Background(), clinicID,
		bookingRequest(uuid.New(), uuid.New(), startAt(2), 60))
	require.NoError(t, err)

	bogus := model.AppointmentStatus("rescheduled")
	_, err = svc.Update(context.Background(), clinicID, appt.ID, &model.UpdateAppointmentRequest{Status: &bogus})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestBookRejectedWhenClinicClosed(t *testing.T) {
	svc, repo := newGuardedService(&fakeSchedule{window: model.DayWindow{Closed: true}}, &fakeTimeOff{})

	_, err := svc.Book(context.Background(), uuid.New(), bookingRequest(uuid.New(), uuid.New(), startAt(2), 60))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrOutsideWorkingHours))
	assert.Empty(t, repo.appointments)
}

func TestBookRejectedOutsideWindow(t *testing.T) {
	svc, _ := newGuardedService(&fakeSchedule{window: model.DayWindow{Open: "09:00", Close: "12:00"}}, &fakeTimeOff{})
	clinicID := uuid.New()
	day := startAt(2)

	// 13:00 is past close, and the close time itself is exclusive.
	_, err := svc.Book(context.Background(), clinicID, bookingRequest(uuid.New(), uuid.New(), day.Add(3*time.Hour), 60))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrOutsideWorkingHours))

	_, err = svc.Book(context.Background(), clinicID, bookingRequest(uuid.New(), uuid.New(), day.Add(2*time.Hour), 60))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrOutsideWorkingHours))

	// The open time is inclusive.
	_, err = svc.Book(context.Background(), clinicID, bookingRequest(uuid.New(), uuid.New(), day.Add(-time.Hour), 60))
	assert.NoError(t, err)
}

func TestBookRejectedDuringTimeOff(t *testing.T) {
	svc, repo := newGuardedService(openSchedule(), &fakeTimeOff{blocked: true})

	_, err := svc.Book(context.Background(), uuid.New(), bookingRequest(uuid.New(), uuid.New(), startAt(2), 60))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSpecialistUnavailable))
	assert.Empty(t, repo.appointments)
}

func TestReopenRejectedDuringTimeOff(t *testing.T) {
	off := &fakeTimeOff{}
	svc, _ := newGuardedService(openSchedule(), off)
	clinicID := uuid.New()

	appt, err := svc.Book(context.Background(), clinicID, bookingRequest(uuid.New(), uuid.New(), startAt(2), 60))
	require.NoError(t, err)

	canceled := model.AppointmentStatusCanceled
	_, err = svc.Update(context.Background(), clinicID, appt.ID, &model.UpdateAppointmentRequest{Status: &canceled})
	require.NoError(t, err)

	// Leave recorded while the slot was canceled blocks the reopen.
	off.blocked = true
	scheduled := model.AppointmentStatusScheduled
	_, err = svc.Update(context.Background(), clinicID, appt.ID, &model.UpdateAppointmentRequest{Status: &scheduled})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSpecialistUnavailable))

	current, err := svc.Get(context.Background(), clinicID, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCanceled, current.Status)
}

func TestRescheduleRejectedOutsideWindow(t *testing.T) {
	svc, _ := newTestService()
	clinicID := uuid.New()

	appt, err := svc.Book(context.Background(), clinicID, bookingRequest(uuid.New(), uuid.New(), startAt(2), 60))
	require.NoError(t, err)

	// 19:00 is after the default close.
	late := startAt(2).Add(9 * time.Hour)
	_, err = svc.Update(context.Background(), clinicID, appt.ID, &model.UpdateAppointmentRequest{StartTime: &late})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrOutsideWorkingHours))

	current, err := svc.Get(context.Background(), clinicID, appt.ID)
	require.NoError(t, err)
	assert.True(t, current.StartTime.Equal(appt.StartTime))
}
