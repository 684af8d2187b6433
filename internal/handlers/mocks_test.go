package handlers

import (
	"context"
	"time"

	"pgpathfinder/internal/models"
	"pgpathfinder/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) listing(args mock.Arguments) (*models.Listing, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) listings(args mock.Arguments) ([]*models.Listing, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Listing), args.Error(1)
}

func (m *MockListingService) Create(ctx context.Context, actor models.Actor, input *models.ListingInput) (*models.Listing, error) {
	return m.listing(m.Called(ctx, actor, input))
}

func (m *MockListingService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, input *models.ListingInput) (*models.Listing, error) {
	return m.listing(m.Called(ctx, actor, id, input))
}

func (m *MockListingService) Approve(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Listing, error) {
	return m.listing(m.Called(ctx, actor, id))
}

func (m *MockListingService) Reject(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Listing, error) {
	return m.listing(m.Called(ctx, actor, id))
}

func (m *MockListingService) SetActive(ctx context.Context, actor models.Actor, id uuid.UUID, active bool) (*models.Listing, error) {
	return m.listing(m.Called(ctx, actor, id, active))
}

func (m *MockListingService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockListingService) Get(ctx context.Context, viewer *models.Actor, id uuid.UUID) (*models.Listing, error) {
	return m.listing(m.Called(ctx, viewer, id))
}

func (m *MockListingService) ListByOwner(ctx context.Context, actor models.Actor) ([]*models.Listing, error) {
	return m.listings(m.Called(ctx, actor))
}

func (m *MockListingService) ListAll(ctx context.Context, actor models.Actor, status *string) ([]*models.Listing, error) {
	return m.listings(m.Called(ctx, actor, status))
}

func (m *MockListingService) Browse(ctx context.Context, filter *models.ListingSearchFilter) (*models.BrowseResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BrowseResult), args.Error(1)
}

func (m *MockListingService) WarmCache(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) Upload(ctx context.Context, actor models.Actor, listingID uuid.UUID, files []services.ImageFile) ([]models.ListingImage, error) {
	args := m.Called(ctx, actor, listingID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ListingImage), args.Error(1)
}

func (m *MockImageService) Delete(ctx context.Context, actor models.Actor, imageID uuid.UUID) error {
	return m.Called(ctx, actor, imageID).Error(0)
}

func (m *MockImageService) SweepOrphans(ctx context.Context, grace time.Duration) (int, error) {
	args := m.Called(ctx, grace)
	return args.Int(0), args.Error(1)
}

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) GetContactInfo(ctx context.Context, viewer *uuid.UUID, listingID uuid.UUID) (*models.ContactInfo, error) {
	args := m.Called(ctx, viewer, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactInfo), args.Error(1)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) profile(args mock.Arguments) (*models.Profile, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID))
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch map[string]interface{}) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID, patch))
}

func (m *MockProfileService) ListUsers(ctx context.Context, actor models.Actor, role *string, limit, offset int) ([]*models.Profile, error) {
	args := m.Called(ctx, actor, role, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Profile), args.Error(1)
}

func (m *MockProfileService) SetRole(ctx context.Context, actor models.Actor, userID uuid.UUID, role string) (*models.Profile, error) {
	return m.profile(m.Called(ctx, actor, userID, role))
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) session(args mock.Arguments) (*models.Session, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockAuthService) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.Profile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, req *models.SignInRequest, clientIP string) (*models.Session, error) {
	return m.session(m.Called(ctx, req, clientIP))
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	return m.session(m.Called(ctx, refreshToken))
}

func (m *MockAuthService) SignOut(ctx context.Context, claims *services.TokenClaims, refreshToken string) error {
	return m.Called(ctx, claims, refreshToken).Error(0)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email, clientIP string) error {
	return m.Called(ctx, email, clientIP).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, req *models.PasswordResetConfirm) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*services.TokenClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenClaims), args.Error(1)
}

func (m *MockAuthService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

type MockAuditLogsService struct {
	mock.Mock
}

func (m *MockAuditLogsService) List(ctx context.Context, actor models.Actor, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	args := m.Called(ctx, actor, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Summary(ctx context.Context, actor models.Actor) (*models.DashboardSummary, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardSummary), args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
