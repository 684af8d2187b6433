package services

import (
	"context"
	"io"
	"time"

	"pgpathfinder/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, actor uuid.UUID, listing *models.Listing) error {
	args := m.Called(ctx, actor, listing)
	return args.Error(0)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingRepository) Update(ctx context.Context, actor uuid.UUID, listing *models.Listing) error {
	args := m.Called(ctx, actor, listing)
	return args.Error(0)
}

func (m *MockListingRepository) Transition(ctx context.Context, actor, id uuid.UUID, status string, approvedAt *time.Time, approvedBy *uuid.UUID) (*models.Listing, error) {
	args := m.Called(ctx, actor, id, status, approvedAt, approvedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingRepository) SetActive(ctx context.Context, actor, id uuid.UUID, active bool) (*models.Listing, error) {
	args := m.Called(ctx, actor, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingRepository) Delete(ctx context.Context, actor, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockListingRepository) ListVisible(ctx context.Context) ([]*models.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Listing), args.Error(1)
}

func (m *MockListingRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Listing, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Listing), args.Error(1)
}

func (m *MockListingRepository) List(ctx context.Context, status *string) ([]*models.Listing, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Listing), args.Error(1)
}

func (m *MockListingRepository) Stats(ctx context.Context, ownerID *uuid.UUID) (*models.ListingStats, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ListingStats), args.Error(1)
}

type MockListingImageRepository struct {
	mock.Mock
}

func (m *MockListingImageRepository) CreateBatch(ctx context.Context, actor uuid.UUID, images []models.ListingImage) error {
	args := m.Called(ctx, actor, images)
	return args.Error(0)
}

func (m *MockListingImageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ListingImage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ListingImage), args.Error(1)
}

func (m *MockListingImageRepository) GetByListingID(ctx context.Context, listingID uuid.UUID) ([]models.ListingImage, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ListingImage), args.Error(1)
}

func (m *MockListingImageRepository) GetByListingIDs(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID][]models.ListingImage, error) {
	args := m.Called(ctx, listingIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]models.ListingImage), args.Error(1)
}

func (m *MockListingImageRepository) CountByListingID(ctx context.Context, listingID uuid.UUID) (int, error) {
	args := m.Called(ctx, listingID)
	return args.Int(0), args.Error(1)
}

func (m *MockListingImageRepository) Delete(ctx context.Context, actor, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockListingImageRepository) ObjectKeys(ctx context.Context) (map[string]bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetRole(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, actor, id uuid.UUID, patch models.ProfilePatch) (*models.Profile, error) {
	args := m.Called(ctx, actor, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) SetRole(ctx context.Context, actor, id uuid.UUID, role string) (*models.Profile, error) {
	args := m.Called(ctx, actor, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) List(ctx context.Context, role *string, limit, offset int) ([]*models.Profile, error) {
	args := m.Called(ctx, role, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) CountByRole(ctx context.Context) (*models.UserStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) CreateAccount(ctx context.Context, profile *models.Profile, passwordHash string) error {
	args := m.Called(ctx, profile, passwordHash)
	return args.Error(0)
}

func (m *MockCredentialRepository) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}

func (m *MockCredentialRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) GetContactInfo(ctx context.Context, listingID, viewerID uuid.UUID) (*models.ContactInfo, error) {
	args := m.Called(ctx, listingID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactInfo), args.Error(1)
}

type MockAuditLogsRepository struct {
	mock.Mock
}

func (m *MockAuditLogsRepository) List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetVisibleListings(ctx context.Context) ([]*models.Listing, int64, error) {
	args := m.Called(ctx)
	var listings []*models.Listing
	if v := args.Get(0); v != nil {
		listings = v.([]*models.Listing)
	}
	return listings, args.Get(1).(int64), args.Error(2)
}

func (m *MockCacheService) SetVisibleListings(ctx context.Context, listings []*models.Listing, generation int64, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, listings, generation, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) ListingsGeneration(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheService) InvalidateListings(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) SetRefreshToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	args := m.Called(ctx, token, userID, ttl)
	return args.Error(0)
}

func (m *MockCacheService) ConsumeRefreshToken(ctx context.Context, token string) (uuid.UUID, bool, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *MockCacheService) DeleteRefreshToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockCacheService) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	args := m.Called(ctx, jti, ttl)
	return args.Error(0)
}

func (m *MockCacheService) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) SetResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	args := m.Called(ctx, token, userID, ttl)
	return args.Error(0)
}

func (m *MockCacheService) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, bool, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorageService) List(ctx context.Context, prefix string) ([]StoredObject, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]StoredObject), args.Error(1)
}

func (m *MockStorageService) PublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockStorageService) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStorageService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendPasswordReset(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}
