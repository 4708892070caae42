package model

import (
	"time"
)

// Service is one bookable catalog entry. Created-at doubles as the
// secondary sort key for the public listing.
type Service struct {
	Base
	Title       string    `db:"title" json:"title"`
	Price       float64   `db:"price" json:"price"`
	Duration    string    `db:"duration" json:"duration"` // free-text label, e.g. "30 min"
	Description string    `db:"description" json:"description"`
	IsFavorite  bool      `db:"is_favorite" json:"is_favorite"`
	ImageURL    *string   `db:"image_url" json:"image_url,omitempty"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CreateServiceRequest leaves Price without a required tag: zero is a
// legitimate price and validator would read it as absent.
type CreateServiceRequest struct {
	Title       string  `json:"title" binding:"required"`
	Price       float64 `json:"price" binding:"gte=0"`
	Duration    string  `json:"duration" binding:"required"`
	Description string  `json:"description" binding:"required"`
	ImageURL    *string `json:"image_url"`
}

type UpdateServiceRequest struct {
	Title       string  `json:"title" binding:"required"`
	Price       float64 `json:"price" binding:"gte=0"`
	Duration    string  `json:"duration" binding:"required"`
	Description string  `json:"description" binding:"required"`
	ImageURL    *string `json:"image_url"`
	IsFavorite  bool    `json:"is_favorite"`
}

type ToggleFavoriteRequest struct {
	IsFavorite *bool `json:"is_favorite" binding:"required"`
}
