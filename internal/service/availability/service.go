package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/repository"
	"github.com/clinicdesk/scheduling-api/internal/service/schedule"
	"github.com/clinicdesk/scheduling-api/internal/service/timeoff"
)

// Service computes room and specialist availability. Results are advisory
// snapshots: the booking path re-validates everything transactionally, so
// read failures here degrade to empty results instead of hard errors.
type Service struct {
	rooms        repository.RoomRepository
	appointments repository.AppointmentRepository
	schedule     *schedule.Resolver
	timeoff      *timeoff.Service
	slotMinutes  int
	lookback     time.Duration
	logger       zerolog.Logger
}

func NewService(
	rooms repository.RoomRepository,
	appointments repository.AppointmentRepository,
	scheduleResolver *schedule.Resolver,
	timeoffSvc *timeoff.Service,
	slotMinutes int,
	lookback time.Duration,
	logger zerolog.Logger,
) *Service {
	return &Service{
		rooms:        rooms,
		appointments: appointments,
		schedule:     scheduleResolver,
		timeoff:      timeoffSvc,
		slotMinutes:  slotMinutes,
		lookback:     lookback,
		logger:       logger,
	}
}

// AvailableRooms returns the clinic's active rooms with no appointment
// overlapping [start, start+duration). Closed days have no available rooms.
func (s *Service) AvailableRooms(ctx context.Context, clinicID uuid.UUID, start time.Time, duration time.Duration) ([]*model.Room, error) {
	window, err := s.schedule.Resolve(ctx, clinicID, start)
	if err != nil {
		s.logger.Warn().Err(err).Str("clinic_id", clinicID.String()).Msg("schedule lookup failed, returning no rooms")
		return []*model.Room{}, nil
	}
	if window.Closed {
		return []*model.Room{}, nil
	}

	windowEnd := start.Add(duration)
	candidates, err := s.appointments.FindOverlapping(ctx, clinicID, nil, nil, start, windowEnd, s.lookback)
	if err != nil {
		s.logger.Warn().Err(err).Str("clinic_id", clinicID.String()).Msg("overlap scan failed, returning no rooms")
		return []*model.Room{}, nil
	}

	busy := make(map[uuid.UUID]bool)
	for _, appointment := range candidates {
		if appointment.Overlaps(start, windowEnd) {
			busy[appointment.RoomID] = true
		}
	}

	rooms, err := s.rooms.ListActive(ctx, clinicID)
	if err != nil {
		s.logger.Warn().Err(err).Str("clinic_id", clinicID.String()).Msg("room listing failed, returning no rooms")
		return []*model.Room{}, nil
	}

	available := make([]*model.Room, 0, len(rooms))
	for _, room := range rooms {
		if !busy[room.ID] {
			available = append(available, room)
		}
	}
	return available, nil
}

// SlotStatus renders a specialist's day grid: one entry per candidate slot,
// marked free, busy (existing appointment overlaps the would-be window) or
// blocked (time-off). Blocked wins over busy.
func (s *Service) SlotStatus(ctx context.Context, clinicID, specialistID uuid.UUID, date time.Time, duration time.Duration) ([]model.SlotStatus, error) {
	if duration <= 0 {
		duration = time.Duration(s.slotMinutes) * time.Minute
	}

	window, err := s.schedule.Resolve(ctx, clinicID, date)
	if err != nil {
		s.logger.Warn().Err(err).Str("clinic_id", clinicID.String()).Msg("schedule lookup failed, returning empty grid")
		return []model.SlotStatus{}, nil
	}
	if window.Closed {
		return []model.SlotStatus{}, nil
	}

	slots, err := Slots(window.Open, window.Close, s.slotMinutes)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return []model.SlotStatus{}, nil
	}

	dayStart := atClock(date, window.Open)
	dayEnd := atClock(date, window.Close).Add(duration)

	appointments, err := s.appointments.FindOverlapping(ctx, clinicID, nil, &specialistID, dayStart, dayEnd, s.lookback)
	if err != nil {
		s.logger.Warn().Err(err).Str("specialist_id", specialistID.String()).Msg("overlap scan failed, returning empty grid")
		return []model.SlotStatus{}, nil
	}

	intervals, err := s.timeoff.Intervals(ctx, specialistID)
	if err != nil {
		s.logger.Warn().Err(err).Str("specialist_id", specialistID.String()).Msg("time-off lookup failed, returning empty grid")
		return []model.SlotStatus{}, nil
	}

	grid := make([]model.SlotStatus, 0, len(slots))
	for _, slot := range slots {
		slotStart := atClock(date, slot)
		slotEnd := slotStart.Add(duration)

		status := model.SlotFree
		switch {
		case anyBlock(intervals, slotStart):
			status = model.SlotBlocked
		case anyOverlap(appointments, slotStart, slotEnd):
			status = model.SlotBusy
		}

		grid = append(grid, model.SlotStatus{Time: slot, Status: status})
	}
	return grid, nil
}

func anyBlock(intervals []*model.TimeOffInterval, t time.Time) bool {
	for _, interval := range intervals {
		if interval.Blocks(t) {
			return true
		}
	}
	return false
}

func anyOverlap(appointments []*model.Appointment, windowStart, windowEnd time.Time) bool {
	for _, appointment := range appointments {
		if appointment.Overlaps(windowStart, windowEnd) {
			return true
		}
	}
	return false
}

// atClock anchors an "HH:MM" clock string on date's calendar day, in date's
// location. Clock strings are validated upstream.
func atClock(date time.Time, clock string) time.Time {
	minutes, _ := model.ParseClock(clock)
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, date.Location())
}
