package model

// Clinic is the tenant boundary. Every room, specialist, patient and
// appointment belongs to exactly one clinic.
type Clinic struct {
	Base
	Name     string `db:"name" json:"name"`
	Location string `db:"location" json:"location"`
	Status   string `db:"status" json:"status"`
}

type UpdateWorkScheduleRequest struct {
	Schedule WorkSchedule `json:"schedule" binding:"required"`
}
