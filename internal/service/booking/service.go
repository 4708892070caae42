package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Narutostha/sanambar/internal/model"
	"github.com/Narutostha/sanambar/internal/repository"
	apperrors "github.com/Narutostha/sanambar/pkg/errors"
)

const dateLayout = "2006-01-02"

// Mailer sends the post-booking confirmation. Failures are logged and
// never fail the booking itself.
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, apt *model.Appointment) error
}

// Service is the booking intake: it appends appointment rows from the
// public form. There is no duplicate-submission guard and no slot
// conflict check; two identical submissions produce two rows.
type Service struct {
	repo   repository.AppointmentRepository
	mailer Mailer
	logger zerolog.Logger

	// now is swappable for tests of the past-date floor.
	now func() time.Time
}

func NewService(repo repository.AppointmentRepository, mailer Mailer, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		mailer: mailer,
		logger: logger,
		now:    time.Now,
	}
}

// Submit validates the six required fields and the past-date floor,
// then inserts exactly one appointment. Validation failures never reach
// the repository.
func (s *Service) Submit(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, apperrors.Wrap("failed to create appointment", err)
	}

	s.logger.Info().
		Str("appointment_id", apt.ID.String()).
		Str("service_id", apt.ServiceID.String()).
		Str("date", apt.Date.Format(dateLayout)).
		Str("time", apt.Time).
		Msg("booking received")

	if s.mailer != nil {
		if err := s.mailer.SendBookingConfirmation(ctx, apt); err != nil {
			s.logger.Warn().Err(err).
				Str("appointment_id", apt.ID.String()).
				Msg("confirmation email failed")
		}
	}

	return apt, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap("failed to list appointments", err)
	}
	return appointments, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) ([]*model.Appointment, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, apperrors.Wrap("failed to delete appointment", err)
	}
	return s.List(ctx)
}

func (s *Service) validate(req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	for field, value := range map[string]string{
		"service_id": req.ServiceID,
		"name":       req.Name,
		"email":      req.Email,
		"phone":      req.Phone,
		"date":       req.Date,
		"time":       req.Time,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, apperrors.Validation(field + " is required")
		}
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, apperrors.Validation("invalid service id")
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, apperrors.Validation("date must be formatted as " + dateLayout)
	}

	// Same floor the form's min-date hint enforced: today is bookable,
	// yesterday is not.
	today, _ := time.Parse(dateLayout, s.now().Format(dateLayout))
	if date.Before(today) {
		return nil, apperrors.Validation("date cannot be in the past")
	}

	return &model.Appointment{
		ServiceID: serviceID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Date:      date,
		Time:      req.Time,
	}, nil
}
