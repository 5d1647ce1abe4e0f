package availability

import (
	"github.com/clinicdesk/scheduling-api/internal/model"
	apperrors "github.com/clinicdesk/scheduling-api/pkg/errors"
)

// Slots generates candidate start times from open to close, stepping by
// slotMinutes. The last slot is the latest start whose full length still
// fits before close; a window shorter than one slot yields nothing.
func Slots(open, close string, slotMinutes int) ([]string, error) {
	if slotMinutes <= 0 {
		return nil, apperrors.InvalidRange("slot length must be positive")
	}
	openMin, err := model.ParseClock(open)
	if err != nil {
		return nil, apperrors.InvalidRange(err.Error())
	}
	closeMin, err := model.ParseClock(close)
	if err != nil {
		return nil, apperrors.InvalidRange(err.Error())
	}

	var slots []string
	for t := openMin; t+slotMinutes <= closeMin; t += slotMinutes {
		slots = append(slots, model.FormatClock(t))
	}
	return slots, nil
}
