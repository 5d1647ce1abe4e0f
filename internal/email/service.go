package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/clinicdesk/scheduling-api/internal/config"
)

// Service delivers booking notifications. Notification content and targeting
// live with the notification subsystem; this is only the delivery adapter.
type Service interface {
	SendBookingConfirmation(ctx context.Context, to string, start time.Time, durationMinutes int) error
	SendCancellation(ctx context.Context, to string, start time.Time) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, to string, start time.Time, durationMinutes int) error {
	subject := "Appointment confirmed"
	body := fmt.Sprintf("Your appointment is confirmed for %s (%d minutes).",
		start.Format("Monday, 2 January 2006 at 15:04"), durationMinutes)
	return s.send(to, subject, body)
}

func (s *smtpService) SendCancellation(ctx context.Context, to string, start time.Time) error {
	subject := "Appointment canceled"
	body := fmt.Sprintf("Your appointment on %s has been canceled.",
		start.Format("Monday, 2 January 2006 at 15:04"))
	return s.send(to, subject, body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
