package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Narutostha/sanambar/internal/model"
)

type ServiceRepository interface {
	Create(ctx context.Context, svc *model.Service) error
	Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
	// List returns favorites first, then creation order ascending.
	List(ctx context.Context) ([]*model.Service, error)
	Update(ctx context.Context, svc *model.Service) error
	UpdateFavorite(ctx context.Context, id uuid.UUID, favorite bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, apt *model.Appointment) error
	// List returns appointments ordered by date ascending.
	List(ctx context.Context) ([]*model.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type LocationRepository interface {
	// Get returns the singleton settings row. Zero rows or more than one
	// row both count as not found.
	Get(ctx context.Context) (*model.LocationSettings, error)
	GetPublic(ctx context.Context) (*model.PublicLocation, error)
	Update(ctx context.Context, settings *model.LocationSettings) error
}

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id uuid.UUID) (*model.Session, error)
	UpdateRefreshHash(ctx context.Context, id uuid.UUID, hash string) error
	Revoke(ctx context.Context, id uuid.UUID) error
}
