package repositories

import (
	"context"

	"pgpathfinder/internal/models"

	"github.com/google/uuid"
)

type ContactRepository interface {
	// GetContactInfo calls get_listing_contact_info. The database decides
	// whether the viewer may see the row; an empty result is not an error.
	GetContactInfo(ctx context.Context, listingID, viewerID uuid.UUID) (*models.ContactInfo, error)
}

type contactRepo struct {
	db DB
}

func NewContactRepo(db DB) ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) GetContactInfo(ctx context.Context, listingID, viewerID uuid.UUID) (*models.ContactInfo, error) {
	rows, err := r.db.Query(ctx, `
		SELECT owner_name, owner_phone, owner_email, owner_address
		FROM get_listing_contact_info($1, $2)
	`, listingID, viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	info := &models.ContactInfo{}
	if rows.Next() {
		if err := rows.Scan(&info.OwnerName, &info.OwnerPhone, &info.OwnerEmail, &info.OwnerAddress); err != nil {
			return nil, err
		}
		info.Available = true
	}
	return info, rows.Err()
}
