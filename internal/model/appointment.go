package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCanceled  AppointmentStatus = "canceled"
)

// Valid reports whether s is a known appointment status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCanceled:
		return true
	}
	return false
}

type Appointment struct {
	Base
	ClinicID        uuid.UUID         `db:"clinic_id" json:"clinic_id"`
	PatientID       uuid.UUID         `db:"patient_id" json:"patient_id"`
	SpecialistID    uuid.UUID         `db:"specialist_id" json:"specialist_id"`
	RoomID          uuid.UUID         `db:"room_id" json:"room_id"`
	StartTime       time.Time         `db:"start_time" json:"start_time"`
	DurationMinutes int               `db:"duration_minutes" json:"duration_minutes"`
	Status          AppointmentStatus `db:"status" json:"status"`
	Notes           string            `db:"notes" json:"notes,omitempty"`
}

// EndTime returns the exclusive end of the appointment window.
// Windows are half-open: [StartTime, EndTime).
func (a *Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Overlaps reports whether the appointment window intersects
// [windowStart, windowEnd). Touching endpoints do not overlap.
func (a *Appointment) Overlaps(windowStart, windowEnd time.Time) bool {
	return a.StartTime.Before(windowEnd) && a.EndTime().After(windowStart)
}

type CreateAppointmentRequest struct {
	PatientID       uuid.UUID `json:"patient_id" binding:"required"`
	SpecialistID    uuid.UUID `json:"specialist_id" binding:"required"`
	RoomID          uuid.UUID `json:"room_id" binding:"required"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,gt=0"`
	Notes           string    `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	StartTime       *time.Time         `json:"start_time"`
	DurationMinutes *int               `json:"duration_minutes" binding:"omitempty,gt=0"`
	Status          *AppointmentStatus `json:"status"`
	Notes           *string            `json:"notes" binding:"omitempty,max=1000"`
}

type AppointmentFilters struct {
	SpecialistID *uuid.UUID
	PatientID    *uuid.UUID
	RoomID       *uuid.UUID
	Status       AppointmentStatus
	From         time.Time
	To           time.Time
	Pagination
}
