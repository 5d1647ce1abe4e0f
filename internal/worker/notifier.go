package worker

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/clinicdesk/scheduling-api/internal/email"
	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/repository"
	"github.com/clinicdesk/scheduling-api/internal/service/appointment"
	"github.com/clinicdesk/scheduling-api/pkg/messaging"
)

// Notifier consumes appointment lifecycle events and emails the patient.
// Delivery is best-effort: a failed email is logged, never retried, and never
// blocks the stream.
type Notifier struct {
	broker   messaging.Broker
	email    email.Service
	patients repository.PatientRepository
	logger   zerolog.Logger
}

func NewNotifier(broker messaging.Broker, emailSvc email.Service, patients repository.PatientRepository, logger zerolog.Logger) *Notifier {
	return &Notifier{
		broker:   broker,
		email:    emailSvc,
		patients: patients,
		logger:   logger,
	}
}

// Run blocks until ctx is canceled or the subscription closes.
func (n *Notifier) Run(ctx context.Context) error {
	messages, err := n.broker.Subscribe(ctx, appointment.EventChannel)
	if err != nil {
		return err
	}

	n.logger.Info().Str("channel", appointment.EventChannel).Msg("notifier started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-messages:
			if !ok {
				return nil
			}
			n.handle(ctx, raw)
		}
	}
}

func (n *Notifier) handle(ctx context.Context, raw []byte) {
	var msg struct {
		Type    string            `json:"type"`
		Payload model.Appointment `json:"payload"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		n.logger.Warn().Err(err).Msg("dropping malformed event")
		return
	}

	patient, err := n.patients.Get(ctx, msg.Payload.PatientID)
	if err != nil {
		n.logger.Warn().Err(err).
			Str("patient_id", msg.Payload.PatientID.String()).
			Msg("patient lookup failed, skipping notification")
		return
	}
	if patient.Email == "" {
		return
	}

	switch msg.Type {
	case appointment.EventBooked, appointment.EventReopened:
		err = n.email.SendBookingConfirmation(ctx, patient.Email, msg.Payload.StartTime, msg.Payload.DurationMinutes)
	case appointment.EventCanceled:
		err = n.email.SendCancellation(ctx, patient.Email, msg.Payload.StartTime)
	default:
		return
	}

	if err != nil {
		n.logger.Warn().Err(err).
			Str("event", msg.Type).
			Str("appointment_id", msg.Payload.ID.String()).
			Msg("failed to send notification email")
	}
}
