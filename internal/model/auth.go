package model

import "github.com/google/uuid"

// Identity is the caller's authenticated context, supplied by the identity
// provider through JWT claims. Clinic scoping is trusted as-is and never
// re-derived here.
type Identity struct {
	UserID   uuid.UUID `json:"user_id"`
	ClinicID uuid.UUID `json:"clinic_id"`
	Role     string    `json:"role"`
}
