package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-api/internal/model"
)

// All repository interfaces in one file
type (
	ClinicRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
		// GetWorkSchedule returns the stored schedule, or nil when the
		// clinic has never configured one.
		GetWorkSchedule(ctx context.Context, clinicID uuid.UUID) (model.WorkSchedule, error)
		UpdateWorkSchedule(ctx context.Context, clinicID uuid.UUID, schedule model.WorkSchedule) error
	}

	RoomRepository interface {
		Create(ctx context.Context, room *model.Room) error
		Get(ctx context.Context, id uuid.UUID) (*model.Room, error)
		Update(ctx context.Context, room *model.Room) error
		List(ctx context.Context, clinicID uuid.UUID) ([]*model.Room, error)
		ListActive(ctx context.Context, clinicID uuid.UUID) ([]*model.Room, error)
	}

	PatientRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	}

	SpecialistRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Specialist, error)
	}

	TimeOffRepository interface {
		Create(ctx context.Context, interval *model.TimeOffInterval) error
		Get(ctx context.Context, id uuid.UUID) (*model.TimeOffInterval, error)
		Delete(ctx context.Context, id uuid.UUID) error
		ListBySpecialist(ctx context.Context, specialistID uuid.UUID) ([]*model.TimeOffInterval, error)
	}

	AppointmentRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		// Update persists status/notes changes without conflict checks.
		// Window changes must go through Rebook.
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context, clinicID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		// FindOverlapping returns non-canceled appointments whose start
		// falls in [windowStart-lookback, windowEnd). Precise half-open
		// overlap filtering happens in the caller; lookback must be at
		// least the longest permitted appointment duration or overlaps
		// will be missed.
		FindOverlapping(ctx context.Context, clinicID uuid.UUID, roomID, specialistID *uuid.UUID, windowStart, windowEnd time.Time, lookback time.Duration) ([]*model.Appointment, error)
		// Book runs the five booking invariants and the insert in one
		// transaction, serialized per room and per specialist.
		Book(ctx context.Context, appointment *model.Appointment) error
		// Rebook re-runs the invariants for an existing appointment
		// (excluding its own row) and persists the new window/status.
		Rebook(ctx context.Context, appointment *model.Appointment) error
	}
)
