package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/Narutostha/sanambar/internal/config"
	"github.com/Narutostha/sanambar/internal/model"
)

// Sender mails the booking confirmation the public form promises.
type Sender struct {
	dialer *gomail.Dialer
	from   string
	logger zerolog.Logger
}

// NewSender returns nil when SMTP is unconfigured; the booking service
// treats a nil mailer as "confirmations disabled".
func NewSender(cfg config.SMTPConfig, logger zerolog.Logger) *Sender {
	if cfg.Host == "" {
		logger.Info().Msg("smtp not configured, booking confirmations disabled")
		return nil
	}
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (s *Sender) SendBookingConfirmation(ctx context.Context, apt *model.Appointment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", apt.Email)
	m.SetHeader("Subject", "Your appointment at Sanam Barbers is booked")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nThank you for booking with us. Your appointment is on %s at %s.\n\nSee you soon,\nSanam Barbers",
		apt.Name,
		apt.Date.Format("Monday, January 2 2006"),
		apt.Time,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send confirmation: %w", err)
	}

	s.logger.Info().
		Str("appointment_id", apt.ID.String()).
		Msg("booking confirmation sent")
	return nil
}
