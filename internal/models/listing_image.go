package models

import (
	"time"

	"github.com/google/uuid"
)

// ListingImage is one photo of a listing, displayed by ascending ImageOrder
type ListingImage struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ListingID  uuid.UUID `json:"listing_id" db:"pg_listing_id"`
	ImageURL   string    `json:"image_url" db:"image_url"`
	ObjectKey  string    `json:"-" db:"object_key"`
	ImageOrder int       `json:"image_order" db:"image_order"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
