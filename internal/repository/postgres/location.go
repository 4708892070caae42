package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Narutostha/sanambar/internal/model"
	apperrors "github.com/Narutostha/sanambar/pkg/errors"
)

// Get loads the singleton settings row. Both an empty table and an
// ambiguous (multi-row) one surface as not found, so the caller renders
// the same "not configured" state for either.
func (r *locationRepository) Get(ctx context.Context) (*model.LocationSettings, error) {
	query := `
		SELECT id, address, city, state, zip, phone, email,
			   hours, map_url, updated_at
		FROM location_settings
	`
	settings := []*model.LocationSettings{}
	err := r.db.SelectContext(ctx, &settings, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get location settings: %w", err)
	}
	if len(settings) != 1 {
		return nil, apperrors.NotFound("location settings", nil)
	}
	return settings[0], nil
}

func (r *locationRepository) GetPublic(ctx context.Context) (*model.PublicLocation, error) {
	query := `
		SELECT id, map_url
		FROM location_settings
	`
	var loc model.PublicLocation
	err := r.db.GetContext(ctx, &loc, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("location settings", err)
		}
		return nil, fmt.Errorf("failed to get public location: %w", err)
	}
	return &loc, nil
}

func (r *locationRepository) Update(ctx context.Context, settings *model.LocationSettings) error {
	query := `
		UPDATE location_settings
		SET address = $1, city = $2, state = $3, zip = $4,
			phone = $5, email = $6, hours = $7, map_url = $8,
			updated_at = $9
		WHERE id = $10
	`
	settings.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		settings.Address,
		settings.City,
		settings.State,
		settings.Zip,
		settings.Phone,
		settings.Email,
		settings.Hours,
		settings.MapURL,
		settings.UpdatedAt,
		settings.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update location settings: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("location settings", nil)
	}

	return nil
}
