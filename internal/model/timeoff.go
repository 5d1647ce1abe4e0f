package model

import (
	"time"

	"github.com/google/uuid"
)

// TimeOffInterval blocks a specialist for [StartTime, EndTime]. A nil
// EndTime means blocked from StartTime onward indefinitely. Intervals are
// immutable once created: staff delete and recreate rather than edit.
type TimeOffInterval struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	SpecialistID uuid.UUID  `db:"specialist_id" json:"specialist_id"`
	StartTime    time.Time  `db:"start_time" json:"start_time"`
	EndTime      *time.Time `db:"end_time" json:"end_time,omitempty"`
	Reason       string     `db:"reason" json:"reason,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// Blocks reports whether instant t falls inside the interval. The end is
// inclusive; an absent end blocks everything at or after StartTime.
func (i *TimeOffInterval) Blocks(t time.Time) bool {
	if t.Before(i.StartTime) {
		return false
	}
	return i.EndTime == nil || !t.After(*i.EndTime)
}

type CreateTimeOffRequest struct {
	StartTime time.Time  `json:"start_time" binding:"required"`
	EndTime   *time.Time `json:"end_time"`
	Reason    string     `json:"reason" binding:"max=500"`
}
