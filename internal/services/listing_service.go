package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"pgpathfinder/internal/caching"
	"pgpathfinder/internal/common"
	"pgpathfinder/internal/models"
	"pgpathfinder/internal/repositories"
	"pgpathfinder/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ListingService interface {
	Create(ctx context.Context, actor models.Actor, input *models.ListingInput) (*models.Listing, error)
	// Update edits descriptive fields only; the approval status is kept
	Update(ctx context.Context, actor models.Actor, id uuid.UUID, input *models.ListingInput) (*models.Listing, error)
	Approve(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Listing, error)
	Reject(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Listing, error)
	SetActive(ctx context.Context, actor models.Actor, id uuid.UUID, active bool) (*models.Listing, error)
	Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error

	// Get returns visible listings to anyone. Owners and admins also see
	// listings that are pending, rejected or inactive.
	Get(ctx context.Context, viewer *models.Actor, id uuid.UUID) (*models.Listing, error)
	ListByOwner(ctx context.Context, actor models.Actor) ([]*models.Listing, error)
	ListAll(ctx context.Context, actor models.Actor, status *string) ([]*models.Listing, error)
	Browse(ctx context.Context, filter *models.ListingSearchFilter) (*models.BrowseResult, error)

	// WarmCache reloads the visible listing set into the cache
	WarmCache(ctx context.Context) error
}

type listingService struct {
	listingRepo repositories.ListingRepository
	imageRepo   repositories.ListingImageRepository
	storage     StorageService
	cache       caching.CacheService
	cacheTTL    time.Duration
	cacheStale  atomic.Bool
	log         *zap.Logger
	now         func() time.Time
}

func NewListingService(listingRepo repositories.ListingRepository, imageRepo repositories.ListingImageRepository, storage StorageService, cache caching.CacheService, cacheTTL time.Duration, log *zap.Logger) ListingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &listingService{
		listingRepo: listingRepo,
		imageRepo:   imageRepo,
		storage:     storage,
		cache:       cache,
		cacheTTL:    cacheTTL,
		log:         log,
		now:         time.Now,
	}
}

func validateListingInput(in *models.ListingInput) error {
	if in == nil {
		return invalid("body", "listing details are required")
	}
	required := []struct{ field, value string }{
		{"title", in.Title},
		{"address", in.Address},
		{"city", in.City},
		{"state", in.State},
		{"pincode", in.Pincode},
	}
	for _, r := range required {
		if err := common.ValidateRequiredString(r.value, r.field); err != nil {
			return invalid(r.field, "is required")
		}
	}
	optional := []struct {
		field     string
		value     *string
		maxLength int
	}{
		{"description", in.Description, 2000},
		{"owner_name", in.OwnerName, 100},
		{"owner_phone", in.OwnerPhone, 20},
		{"owner_email", in.OwnerEmail, 254},
		{"owner_address", in.OwnerAddress, 500},
	}
	for _, o := range optional {
		if err := common.ValidateOptionalString(o.value, o.field, o.maxLength); err != nil {
			return invalid(o.field, fmt.Sprintf("cannot exceed %d characters", o.maxLength))
		}
	}
	if in.RentPerMonth <= 0 {
		return invalid("rent_per_month", "must be greater than zero")
	}
	if in.NumBeds < 1 {
		return invalid("num_beds", "must be at least 1")
	}
	if in.SecurityDeposit != nil && *in.SecurityDeposit < 0 {
		return invalid("security_deposit", "cannot be negative")
	}
	if !models.ValidFoodType(in.FoodType) {
		return invalid("food_type", "must be one of veg, non_veg, both")
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		return invalid("latitude", "must be between -90 and 90")
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		return invalid("longitude", "must be between -180 and 180")
	}
	if email := common.SafeString(in.OwnerEmail); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return invalid("owner_email", "is not a valid email address")
		}
	}
	return nil
}

func (s *listingService) Create(ctx context.Context, actor models.Actor, input *models.ListingInput) (*models.Listing, error) {
	if err := validateListingInput(input); err != nil {
		return nil, err
	}

	listing := &models.Listing{
		ID:       uuid.New(),
		OwnerID:  actor.ID,
		IsActive: true,
		Images:   []models.ListingImage{},
	}
	input.Apply(listing)

	if err := s.listingRepo.Create(ctx, actor.ID, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	s.log.Info("listing submitted for approval",
		zap.String("listing_id", listing.ID.String()),
		zap.String("owner_id", actor.ID.String()))
	s.invalidate(ctx)
	return listing, nil
}

// loadOwned fetches a listing the actor owns. Admins pass when allowAdmin.
func (s *listingService) loadOwned(ctx context.Context, actor models.Actor, id uuid.UUID, allowAdmin bool) (*models.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "listing")
	}
	if listing.OwnerID != actor.ID && !(allowAdmin && actor.IsAdmin()) {
		return nil, fmt.Errorf("listing belongs to another owner: %w", ErrForbidden)
	}
	return listing, nil
}

func (s *listingService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, input *models.ListingInput) (*models.Listing, error) {
	if err := validateListingInput(input); err != nil {
		return nil, err
	}

	listing, err := s.loadOwned(ctx, actor, id, false)
	if err != nil {
		return nil, err
	}
	input.Apply(listing)

	if err := s.listingRepo.Update(ctx, actor.ID, listing); err != nil {
		return nil, repoError(err, "listing")
	}
	if err := s.attachImages(ctx, listing); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return listing, nil
}

func (s *listingService) Approve(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Listing, error) {
	return s.transition(ctx, actor, id, models.StatusApproved)
}

func (s *listingService) Reject(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Listing, error) {
	return s.transition(ctx, actor, id, models.StatusRejected)
}

// transition moves a pending listing to target. A listing already in the
// target state is returned unchanged without a write. Any other non-pending
// state is ErrInvalidTransition.
func (s *listingService) transition(ctx context.Context, actor models.Actor, id uuid.UUID, target string) (*models.Listing, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("only admins can review listings: %w", ErrForbidden)
	}

	current, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "listing")
	}
	if resolved, err := resolveTransition(current, target); err != nil {
		return nil, err
	} else if resolved {
		return current, s.attachImages(ctx, current)
	}

	var (
		approvedAt *time.Time
		approvedBy *uuid.UUID
	)
	if target == models.StatusApproved {
		now := s.now().UTC()
		by := actor.ID
		approvedAt, approvedBy = &now, &by
	}

	updated, err := s.listingRepo.Transition(ctx, actor.ID, id, target, approvedAt, approvedBy)
	if errors.Is(err, repositories.ErrNotFound) {
		// lost a race with another reviewer or a delete
		current, err = s.listingRepo.GetByID(ctx, id)
		if err != nil {
			return nil, repoError(err, "listing")
		}
		if _, err := resolveTransition(current, target); err != nil {
			return nil, err
		}
		return current, s.attachImages(ctx, current)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set listing status to %s: %w", target, err)
	}

	metrics.ListingTransitions.WithLabelValues(target).Inc()
	s.log.Info("listing reviewed",
		zap.String("listing_id", id.String()),
		zap.String("status", target),
		zap.String("admin_id", actor.ID.String()))

	if err := s.attachImages(ctx, updated); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// resolveTransition reports whether no write is needed because the listing
// is already in target, or returns ErrInvalidTransition for a terminal
// listing in the other state.
func resolveTransition(l *models.Listing, target string) (bool, error) {
	switch l.Status {
	case target:
		return true, nil
	case models.StatusPending:
		return false, nil
	}
	return false, fmt.Errorf("cannot move a %s listing to %s: %w", l.Status, target, ErrInvalidTransition)
}

func (s *listingService) SetActive(ctx context.Context, actor models.Actor, id uuid.UUID, active bool) (*models.Listing, error) {
	if _, err := s.loadOwned(ctx, actor, id, false); err != nil {
		return nil, err
	}

	updated, err := s.listingRepo.SetActive(ctx, actor.ID, id, active)
	if err != nil {
		return nil, repoError(err, "listing")
	}
	if err := s.attachImages(ctx, updated); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return updated, nil
}

func (s *listingService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actor, id, true); err != nil {
		return err
	}

	images, err := s.imageRepo.GetByListingID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load listing images: %w", err)
	}

	if err := s.listingRepo.Delete(ctx, actor.ID, id); err != nil {
		return repoError(err, "listing")
	}

	for _, img := range images {
		if err := s.storage.Remove(ctx, img.ObjectKey); err != nil {
			s.log.Warn("failed to remove listing image object",
				zap.String("listing_id", id.String()),
				zap.String("object_key", img.ObjectKey),
				zap.Error(err))
		}
	}

	s.log.Info("listing deleted", zap.String("listing_id", id.String()), zap.String("actor_id", actor.ID.String()))
	s.invalidate(ctx)
	return nil
}

func (s *listingService) Get(ctx context.Context, viewer *models.Actor, id uuid.UUID) (*models.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "listing")
	}

	if !listing.IsPubliclyVisible() {
		privileged := viewer != nil && (viewer.ID == listing.OwnerID || viewer.IsAdmin())
		if !privileged {
			return nil, fmt.Errorf("listing: %w", ErrNotFound)
		}
	}

	if err := s.attachImages(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *listingService) ListByOwner(ctx context.Context, actor models.Actor) ([]*models.Listing, error) {
	listings, err := s.listingRepo.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return listings, s.attachImagesAll(ctx, listings)
}

func (s *listingService) ListAll(ctx context.Context, actor models.Actor, status *string) ([]*models.Listing, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("only admins can list all listings: %w", ErrForbidden)
	}
	if status != nil && !models.ValidStatus(*status) {
		return nil, invalid("status", "must be one of pending, approved, rejected")
	}

	listings, err := s.listingRepo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	return listings, s.attachImagesAll(ctx, listings)
}

func (s *listingService) Browse(ctx context.Context, filter *models.ListingSearchFilter) (*models.BrowseResult, error) {
	if filter == nil {
		filter = &models.ListingSearchFilter{}
	}
	if !models.ValidFoodType(filter.FoodType) {
		return nil, invalid("food_type", "must be one of veg, non_veg, both")
	}
	if filter.MinBeds < 0 || filter.MinRent < 0 || filter.MaxRent < 0 {
		return nil, invalid("filter", "numeric bounds cannot be negative")
	}

	visible, err := s.visibleListings(ctx)
	if err != nil {
		return nil, err
	}

	citySet := make(map[string]struct{})
	matched := make([]*models.Listing, 0, len(visible))
	for _, l := range visible {
		if !l.IsPubliclyVisible() {
			continue
		}
		citySet[strings.TrimSpace(l.City)] = struct{}{}
		if filter.Matches(l) {
			matched = append(matched, l)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	cities := make([]string, 0, len(citySet))
	for c := range citySet {
		if c != "" {
			cities = append(cities, c)
		}
	}
	sort.Strings(cities)

	result := &models.BrowseResult{
		Listings: make([]models.PublicListing, len(matched)),
		Total:    len(matched),
		Cities:   cities,
	}
	for i, l := range matched {
		result.Listings[i] = l.Public()
	}
	return result, nil
}

func (s *listingService) WarmCache(ctx context.Context) error {
	if s.cacheStale.Load() && !s.invalidate(ctx) {
		return errors.New("listing cache invalidation is failing")
	}

	generation, err := s.cache.ListingsGeneration(ctx)
	if err != nil {
		return err
	}
	listings, err := s.loadVisible(ctx)
	if err != nil {
		return err
	}
	stored, err := s.cache.SetVisibleListings(ctx, listings, generation, s.cacheTTL)
	if err != nil {
		return err
	}
	if !stored {
		s.log.Debug("listing cache warm-up superseded by a newer change")
	}
	return nil
}

// visibleListings serves the visible set from cache, falling back to the
// database. Cache failures never fail the request. A set loaded before a
// concurrent change is not written back, and the cache is bypassed while
// invalidations are failing.
func (s *listingService) visibleListings(ctx context.Context) ([]*models.Listing, error) {
	if s.cacheStale.Load() && !s.invalidate(ctx) {
		return s.loadVisible(ctx)
	}

	cached, generation, err := s.cache.GetVisibleListings(ctx)
	if err != nil {
		s.log.Warn("listing cache read failed", zap.Error(err))
		return s.loadVisible(ctx)
	}
	if cached != nil {
		return cached, nil
	}

	listings, err := s.loadVisible(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.cache.SetVisibleListings(ctx, listings, generation, s.cacheTTL); err != nil {
		s.log.Warn("listing cache write failed", zap.Error(err))
	}
	return listings, nil
}

func (s *listingService) loadVisible(ctx context.Context) ([]*models.Listing, error) {
	listings, err := s.listingRepo.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load visible listings: %w", err)
	}
	return listings, s.attachImagesAll(ctx, listings)
}

func (s *listingService) attachImages(ctx context.Context, l *models.Listing) error {
	images, err := s.imageRepo.GetByListingID(ctx, l.ID)
	if err != nil {
		return fmt.Errorf("failed to load listing images: %w", err)
	}
	l.Images = images
	return nil
}

func (s *listingService) attachImagesAll(ctx context.Context, listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}

	grouped, err := s.imageRepo.GetByListingIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load listing images: %w", err)
	}
	for _, l := range listings {
		l.Images = grouped[l.ID]
		if l.Images == nil {
			l.Images = []models.ListingImage{}
		}
	}
	return nil
}

// invalidate reports whether the cached set was dropped. On failure the
// service stops using the cache until an invalidation succeeds.
func (s *listingService) invalidate(ctx context.Context) bool {
	if err := s.cache.InvalidateListings(ctx); err != nil {
		s.cacheStale.Store(true)
		s.log.Warn("failed to invalidate listing cache", zap.Error(err))
		return false
	}
	s.cacheStale.Store(false)
	return true
}
