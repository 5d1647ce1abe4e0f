package model

import "github.com/google/uuid"

type Patient struct {
	Base
	ClinicID uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name     string    `db:"name" json:"name"`
	Email    string    `db:"email" json:"email,omitempty"`
	Phone    string    `db:"phone" json:"phone,omitempty"`
}
