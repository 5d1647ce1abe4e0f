package model

import "github.com/google/uuid"

// Specialist is a bookable member of clinic staff.
type Specialist struct {
	Base
	ClinicID  uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Specialty string    `db:"specialty" json:"specialty,omitempty"`
}

// SlotState classifies one candidate slot in a day grid.
type SlotState string

const (
	SlotFree SlotState = "free"
	SlotBusy SlotState = "busy"
	// SlotBlocked marks time-off; kept distinct from busy so clients can
	// render it differently.
	SlotBlocked SlotState = "blocked"
)

type SlotStatus struct {
	Time   string    `json:"time"`
	Status SlotState `json:"status"`
}
