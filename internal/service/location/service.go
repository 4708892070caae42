package location

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Narutostha/sanambar/internal/model"
	"github.com/Narutostha/sanambar/internal/repository"
	apperrors "github.com/Narutostha/sanambar/pkg/errors"
)

// Service is the location settings store. The table holds exactly one
// row; anything else renders as "not configured". Updates overwrite the
// whole record, but the hours map is merged day-by-day into the stored
// seven-day map first so a single-day change never drops the other six.
type Service struct {
	repo     repository.LocationRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewService(repo repository.LocationRepository, logger zerolog.Logger) *Service {
	v := validator.New()
	// Reuse the gin binding tags so the HTTP layer and direct callers
	// enforce the same rules.
	v.SetTagName("binding")
	return &Service{
		repo:     repo,
		validate: v,
		logger:   logger,
	}
}

func (s *Service) Get(ctx context.Context) (*model.LocationSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, apperrors.Wrap("failed to get location settings", err)
	}
	return settings, nil
}

// GetPublic returns the map-embed subset used by the marketing page.
func (s *Service) GetPublic(ctx context.Context) (*model.PublicLocation, error) {
	loc, err := s.repo.GetPublic(ctx)
	if err != nil {
		return nil, apperrors.Wrap("failed to get public location", err)
	}
	return loc, nil
}

// Update overwrites the singleton and returns the stored record. The
// request's hours map may carry anywhere from one to seven days; it is
// merged over the current map, never replacing it wholesale.
func (s *Service) Update(ctx context.Context, req *model.UpdateLocationRequest) (*model.LocationSettings, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, apperrors.Wrap("failed to load location settings", err)
	}

	current.Address = req.Address
	current.City = req.City
	current.State = req.State
	current.Zip = req.Zip
	current.Phone = req.Phone
	current.Email = req.Email
	current.MapURL = req.MapURL
	current.Hours = mergeHours(current.Hours, req.Hours)

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, apperrors.Wrap("failed to update location settings", err)
	}

	s.logger.Info().Str("settings_id", current.ID.String()).Msg("location settings updated")

	return s.Get(ctx)
}

func (s *Service) validateRequest(req *model.UpdateLocationRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return apperrors.Validation(err.Error())
	}
	if len(req.Hours) == 0 {
		return apperrors.Validation("hours must contain at least one weekday")
	}
	for day := range req.Hours {
		if !isWeekday(day) {
			return apperrors.Validation("unknown weekday: " + day)
		}
	}
	return nil
}

// mergeHours copies the stored map and overlays the changed days, so
// untouched days come back bit-identical.
func mergeHours(current, changes model.BusinessHours) model.BusinessHours {
	merged := make(model.BusinessHours, len(model.Weekdays))
	for day, hours := range current {
		merged[day] = hours
	}
	for day, hours := range changes {
		merged[day] = hours
	}
	return merged
}

func isWeekday(day string) bool {
	for _, d := range model.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}
