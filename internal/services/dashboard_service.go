package services

import (
	"context"
	"fmt"

	"pgpathfinder/internal/models"
	"pgpathfinder/internal/repositories"
)

type DashboardService interface {
	Summary(ctx context.Context, actor models.Actor) (*models.DashboardSummary, error)
}

type dashboardService struct {
	listings    ListingService
	listingRepo repositories.ListingRepository
	profileRepo repositories.ProfileRepository
}

func NewDashboardService(listings ListingService, listingRepo repositories.ListingRepository, profileRepo repositories.ProfileRepository) DashboardService {
	return &dashboardService{listings: listings, listingRepo: listingRepo, profileRepo: profileRepo}
}

func (s *dashboardService) Summary(ctx context.Context, actor models.Actor) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{Role: actor.Role}

	switch actor.Role {
	case models.RoleUser:
		browse, err := s.listings.Browse(ctx, &models.ListingSearchFilter{})
		if err != nil {
			return nil, err
		}
		summary.AvailableListings = browse.Total
		summary.Cities = len(browse.Cities)

	case models.RolePGOwner:
		stats, err := s.listingRepo.Stats(ctx, &actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load listing stats: %w", err)
		}
		summary.Listings = stats

	case models.RoleAdmin:
		stats, err := s.listingRepo.Stats(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load listing stats: %w", err)
		}
		users, err := s.profileRepo.CountByRole(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load user stats: %w", err)
		}
		summary.Listings = stats
		summary.Users = users

	default:
		return nil, fmt.Errorf("unknown role %q: %w", actor.Role, ErrForbidden)
	}

	return summary, nil
}
