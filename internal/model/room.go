package model

import "github.com/google/uuid"

// Room is a bookable treatment room. Inactive rooms are excluded from
// availability but never deleted, so historical appointments keep their
// reference.
type Room struct {
	Base
	ClinicID uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name     string    `db:"name" json:"name"`
	IsActive bool      `db:"is_active" json:"is_active"`
}

type CreateRoomRequest struct {
	Name string `json:"name" binding:"required,max=120"`
}

type UpdateRoomRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=120"`
	IsActive *bool   `json:"is_active"`
}
