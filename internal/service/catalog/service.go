package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Narutostha/sanambar/internal/model"
	"github.com/Narutostha/sanambar/internal/repository"
	apperrors "github.com/Narutostha/sanambar/pkg/errors"
)

// Service is the catalog store: the ordered list of bookable services
// and the admin mutations over it. Every mutation returns the fresh,
// re-sorted list so callers never need a second read to stay current.
type Service struct {
	repo   repository.ServiceRepository
	logger zerolog.Logger
}

func NewService(repo repository.ServiceRepository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]*model.Service, error) {
	services, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap("failed to list services", err)
	}
	return services, nil
}

// Create inserts a new service. The favorite flag is forced off no
// matter what the caller sent; featuring happens through ToggleFavorite.
func (s *Service) Create(ctx context.Context, req *model.CreateServiceRequest) (*model.Service, []*model.Service, error) {
	svc := &model.Service{
		Title:       req.Title,
		Price:       req.Price,
		Duration:    req.Duration,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsFavorite:  false,
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, nil, apperrors.Wrap("failed to create service", err)
	}

	s.logger.Info().Str("service_id", svc.ID.String()).Str("title", svc.Title).Msg("service created")

	list, err := s.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return svc, list, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, []*model.Service, error) {
	svc := &model.Service{
		Title:       req.Title,
		Price:       req.Price,
		Duration:    req.Duration,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsFavorite:  req.IsFavorite,
	}
	svc.ID = id

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, nil, apperrors.Wrap("failed to update service", err)
	}

	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, apperrors.Wrap("failed to reload service", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return updated, list, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) ([]*model.Service, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, apperrors.Wrap("failed to delete service", err)
	}

	s.logger.Info().Str("service_id", id.String()).Msg("service deleted")

	return s.List(ctx)
}

// ToggleFavorite sets only the favorite flag. Setting an already-set
// flag to the same value is a no-op on the record.
func (s *Service) ToggleFavorite(ctx context.Context, id uuid.UUID, favorite bool) ([]*model.Service, error) {
	if err := s.repo.UpdateFavorite(ctx, id, favorite); err != nil {
		return nil, apperrors.Wrap("failed to toggle favorite", err)
	}
	return s.List(ctx)
}
