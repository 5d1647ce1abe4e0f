package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/scheduling-api/internal/config"
	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/repository"
	apperrors "github.com/clinicdesk/scheduling-api/pkg/errors"
	"github.com/clinicdesk/scheduling-api/pkg/messaging"
)

// EventChannel carries appointment lifecycle events for downstream consumers
// (reminder/notification workers).
const EventChannel = "appointments"

const (
	EventBooked    = "appointment_booked"
	EventUpdated   = "appointment_updated"
	EventCanceled  = "appointment_canceled"
	EventReopened  = "appointment_reopened"
	EventCompleted = "appointment_completed"
)

// ScheduleResolver answers "when is this clinic open on this date".
type ScheduleResolver interface {
	Resolve(ctx context.Context, clinicID uuid.UUID, date time.Time) (model.DayWindow, error)
}

// TimeOffIndex answers point-in-time blocked queries for a specialist.
type TimeOffIndex interface {
	IsBlocked(ctx context.Context, specialistID uuid.UUID, t time.Time) (bool, error)
}

// Service is the booking conflict guard: every mutation of the appointment
// table goes through here, and window-affecting changes run the five booking
// invariants inside a single repository transaction. Working hours and
// time-off are also checked here, before the transaction opens, so the guard
// rejects out-of-window requests without taking the advisory locks. The
// repository re-runs the same checks against the transaction snapshot.
type Service struct {
	repo     repository.AppointmentRepository
	schedule ScheduleResolver
	timeoff  TimeOffIndex
	broker   messaging.Broker
	limits   config.BookingConfig
	logger   zerolog.Logger
}

func NewService(repo repository.AppointmentRepository, schedule ScheduleResolver, timeoff TimeOffIndex, broker messaging.Broker, limits config.BookingConfig, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		schedule: schedule,
		timeoff:  timeoff,
		broker:   broker,
		limits:   limits,
		logger:   logger,
	}
}

func (s *Service) Book(ctx context.Context, clinicID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := s.validateDuration(req.DurationMinutes); err != nil {
		observeBooking("rejected")
		return nil, err
	}

	appointment := &model.Appointment{
		ClinicID:        clinicID,
		PatientID:       req.PatientID,
		SpecialistID:    req.SpecialistID,
		RoomID:          req.RoomID,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	}

	if err := s.guardWindow(ctx, appointment); err != nil {
		observeBooking(outcomeLabel(err))
		return nil, err
	}

	if err := s.repo.Book(ctx, appointment); err != nil {
		observeBooking(outcomeLabel(err))
		return nil, err
	}
	observeBooking("booked")

	s.logger.Info().
		Str("appointment_id", appointment.ID.String()).
		Str("room_id", appointment.RoomID.String()).
		Str("specialist_id", appointment.SpecialistID.String()).
		Time("start", appointment.StartTime).
		Msg("appointment booked")

	s.publish(ctx, EventBooked, appointment)
	return appointment, nil
}

func (s *Service) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.ClinicID != clinicID {
		return nil, apperrors.NotFound("appointment", nil)
	}
	return appointment, nil
}

func (s *Service) List(ctx context.Context, clinicID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, clinicID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// Update applies a PATCH: note edits, status transitions, and window changes.
// Any change that produces a new scheduled window re-runs the booking checks
// through the same transactional path as Book.
func (s *Service) Update(ctx context.Context, clinicID, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.Get(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && !req.Status.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown status %q", *req.Status), nil)
	}

	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}

	windowChanged := false
	if req.StartTime != nil && !req.StartTime.Equal(appointment.StartTime) {
		appointment.StartTime = *req.StartTime
		windowChanged = true
	}
	if req.DurationMinutes != nil && *req.DurationMinutes != appointment.DurationMinutes {
		appointment.DurationMinutes = *req.DurationMinutes
		windowChanged = true
	}
	if windowChanged {
		if err := s.validateDuration(appointment.DurationMinutes); err != nil {
			return nil, err
		}
	}

	event := EventUpdated
	switch {
	case req.Status != nil && *req.Status != appointment.Status:
		event, err = s.applyTransition(ctx, appointment, *req.Status, windowChanged)
		if err != nil {
			return nil, err
		}
	case windowChanged:
		if appointment.Status != model.AppointmentStatusScheduled {
			return nil, apperrors.BadRequest("only scheduled appointments can be rescheduled", nil)
		}
		if err := s.guardWindow(ctx, appointment); err != nil {
			observeBooking(outcomeLabel(err))
			return nil, err
		}
		if err := s.repo.Rebook(ctx, appointment); err != nil {
			observeBooking(outcomeLabel(err))
			return nil, err
		}
		observeBooking("rebooked")
	default:
		if err := s.repo.Update(ctx, appointment); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, event, appointment)
	return appointment, nil
}

// applyTransition enforces the status machine:
// scheduled -> completed (start must have passed), scheduled -> canceled,
// canceled -> scheduled (reopen, re-runs booking checks). Completed is
// terminal apart from note edits.
func (s *Service) applyTransition(ctx context.Context, appointment *model.Appointment, target model.AppointmentStatus, windowChanged bool) (string, error) {
	from := appointment.Status

	switch {
	case from == model.AppointmentStatusScheduled && target == model.AppointmentStatusCompleted:
		if windowChanged {
			return "", apperrors.BadRequest("cannot reschedule and complete in one request", nil)
		}
		if appointment.StartTime.After(time.Now()) {
			return "", apperrors.BadRequest("cannot complete an appointment before it starts", nil)
		}
		appointment.Status = model.AppointmentStatusCompleted
		if err := s.repo.Update(ctx, appointment); err != nil {
			return "", err
		}
		return EventCompleted, nil

	case from == model.AppointmentStatusScheduled && target == model.AppointmentStatusCanceled:
		if windowChanged {
			return "", apperrors.BadRequest("cannot reschedule and cancel in one request", nil)
		}
		appointment.Status = model.AppointmentStatusCanceled
		if err := s.repo.Update(ctx, appointment); err != nil {
			return "", err
		}
		return EventCanceled, nil

	case from == model.AppointmentStatusCanceled && target == model.AppointmentStatusScheduled:
		// The slot may have been taken since cancellation, so a reopen
		// goes through the full conflict guard again.
		if err := s.guardWindow(ctx, appointment); err != nil {
			observeBooking(outcomeLabel(err))
			return "", err
		}
		if err := s.repo.Rebook(ctx, appointment); err != nil {
			observeBooking(outcomeLabel(err))
			return "", err
		}
		observeBooking("rebooked")
		return EventReopened, nil
	}

	return "", apperrors.BadRequest(fmt.Sprintf("cannot transition from %s to %s", from, target), nil)
}

// guardWindow rejects windows the clinic schedule or the specialist's time
// off rules out. The repository repeats both checks inside the booking
// transaction; this pass fails fast without taking the advisory locks.
func (s *Service) guardWindow(ctx context.Context, appointment *model.Appointment) error {
	window, err := s.schedule.Resolve(ctx, appointment.ClinicID, appointment.StartTime)
	if err != nil {
		return err
	}
	if window.Closed {
		return apperrors.OutsideWorkingHours("clinic is closed on this day")
	}
	if !window.Contains(appointment.StartTime) {
		return apperrors.OutsideWorkingHours(
			fmt.Sprintf("appointment must start between %s and %s", window.Open, window.Close))
	}

	blocked, err := s.timeoff.IsBlocked(ctx, appointment.SpecialistID, appointment.StartTime)
	if err != nil {
		return err
	}
	if blocked {
		return apperrors.SpecialistUnavailable("specialist is on leave at this time")
	}
	return nil
}

func (s *Service) validateDuration(minutes int) error {
	if minutes < s.limits.MinDurationMinutes {
		return apperrors.BadRequest(
			fmt.Sprintf("appointment must be at least %d minutes", s.limits.MinDurationMinutes), nil)
	}
	if minutes > s.limits.MaxDurationMinutes {
		return apperrors.BadRequest(
			fmt.Sprintf("appointment cannot exceed %d minutes", s.limits.MaxDurationMinutes), nil)
	}
	return nil
}

// publish emits a lifecycle event. Delivery is best-effort: the booking has
// already committed, so a broker failure is logged and swallowed.
func (s *Service) publish(ctx context.Context, eventType string, appointment *model.Appointment) {
	if s.broker == nil {
		return
	}
	msg := messaging.Message{Type: eventType, Payload: appointment}
	if err := s.broker.Publish(ctx, EventChannel, msg); err != nil {
		s.logger.Warn().Err(err).
			Str("event", eventType).
			Str("appointment_id", appointment.ID.String()).
			Msg("failed to publish appointment event")
	}
}

func outcomeLabel(err error) string {
	switch apperrors.Code(err) {
	case apperrors.ErrRoomConflict:
		return "room_conflict"
	case apperrors.ErrSpecialistConflict:
		return "specialist_conflict"
	case apperrors.ErrOutsideWorkingHours:
		return "outside_working_hours"
	case apperrors.ErrSpecialistUnavailable:
		return "specialist_unavailable"
	case apperrors.ErrNotFound:
		return "not_found"
	default:
		return "error"
	}
}
