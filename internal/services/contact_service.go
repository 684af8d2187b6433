package services

import (
	"context"
	"fmt"

	"pgpathfinder/internal/models"
	"pgpathfinder/internal/repositories"
	"pgpathfinder/pkg/metrics"

	"github.com/google/uuid"
)

type ContactService interface {
	// GetContactInfo requires a viewer. Whether the viewer may see the
	// owner's details is decided by get_listing_contact_info; a refusal
	// is an empty result, not an error.
	GetContactInfo(ctx context.Context, viewer *uuid.UUID, listingID uuid.UUID) (*models.ContactInfo, error)
}

type contactService struct {
	contactRepo repositories.ContactRepository
}

func NewContactService(contactRepo repositories.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo}
}

func (s *contactService) GetContactInfo(ctx context.Context, viewer *uuid.UUID, listingID uuid.UUID) (*models.ContactInfo, error) {
	if viewer == nil || *viewer == uuid.Nil {
		metrics.ContactDisclosures.WithLabelValues("unauthenticated").Inc()
		return nil, fmt.Errorf("sign in to view contact details: %w", ErrUnauthenticated)
	}

	info, err := s.contactRepo.GetContactInfo(ctx, listingID, *viewer)
	if err != nil {
		return nil, fmt.Errorf("failed to load contact details: %w", err)
	}

	if info.Available {
		metrics.ContactDisclosures.WithLabelValues("disclosed").Inc()
	} else {
		metrics.ContactDisclosures.WithLabelValues("withheld").Inc()
	}
	return info, nil
}
