package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pgpathfinder/internal/models"
	"pgpathfinder/pkg/imagecheck"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ImageServiceTestSuite struct {
	suite.Suite
	listingRepo *MockListingRepository
	imageRepo   *MockListingImageRepository
	storage     *MockStorageService
	cache       *MockCacheService
	service     *imageService
	ctx         context.Context
	now         time.Time
	owner       models.Actor
	listing     *models.Listing
}

func (suite *ImageServiceTestSuite) SetupTest() {
	suite.listingRepo = &MockListingRepository{}
	suite.imageRepo = &MockListingImageRepository{}
	suite.storage = &MockStorageService{}
	suite.cache = &MockCacheService{}
	suite.service = NewImageService(suite.listingRepo, suite.imageRepo, suite.storage, suite.cache, nil).(*imageService)
	suite.now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	suite.service.now = func() time.Time { return suite.now }
	suite.ctx = context.Background()
	suite.owner = models.Actor{ID: uuid.New(), Role: models.RolePGOwner}
	suite.listing = &models.Listing{ID: uuid.New(), OwnerID: suite.owner.ID, Status: models.StatusApproved, IsActive: true}
}

func (suite *ImageServiceTestSuite) TearDownTest() {
	suite.listingRepo.AssertExpectations(suite.T())
	suite.imageRepo.AssertExpectations(suite.T())
	suite.storage.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func imageFile(name string, size int64) ImageFile {
	return ImageFile{Name: name, Size: size, ContentType: "image/jpeg", Reader: strings.NewReader("jpeg")}
}

func keyPrefix(listingID uuid.UUID) string {
	return ListingObjectPrefix + listingID.String() + "/"
}

func (suite *ImageServiceTestSuite) TestUpload_Success() {
	files := []ImageFile{imageFile("front.jpg", 1024), imageFile("room.JPEG", 2048)}
	prefix := keyPrefix(suite.listing.ID)

	suite.listingRepo.On("GetByID", suite.ctx, suite.listing.ID).Return(suite.listing, nil)
	suite.imageRepo.On("CountByListingID", suite.ctx, suite.listing.ID).Return(2, nil)
	suite.storage.On("Upload", suite.ctx, mock.MatchedBy(func(key string) bool { return strings.HasPrefix(key, prefix) }), mock.Anything, mock.Anything, "image/jpeg").
		Return("http://cdn.local/pg-images/key", nil).Twice()
	suite.imageRepo.On("CreateBatch", suite.ctx, suite.owner.ID, mock.AnythingOfType("[]models.ListingImage")).Return(nil)
	suite.cache.On("InvalidateListings", suite.ctx).Return(nil)

	images, err := suite.service.Upload(suite.ctx, suite.owner, suite.listing.ID, files)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), images, 2)
	assert.Equal(suite.T(), 3, images[0].ImageOrder)
	assert.Equal(suite.T(), 4, images[1].ImageOrder)
	assert.True(suite.T(), strings.HasSuffix(images[0].ObjectKey, ".jpg"))
	assert.True(suite.T(), strings.HasSuffix(images[1].ObjectKey, ".jpeg"))
	assert.NotEqual(suite.T(), images[0].ObjectKey, images[1].ObjectKey)
	assert.Equal(suite.T(), suite.now, images[0].CreatedAt)
}

func (suite *ImageServiceTestSuite) TestUpload_OversizedFileRejectedBeforeAnyWork() {
	files := []ImageFile{imageFile("ok.jpg", 1024), imageFile("huge.jpg", 11*1024*1024)}

	_, err := suite.service.Upload(suite.ctx, suite.owner, suite.listing.ID, files)

	assert.ErrorIs(suite.T(), err, ErrValidation)
	assert.Contains(suite.T(), err.Error(), "huge.jpg")
	suite.listingRepo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything)
	suite.storage.AssertNotCalled(suite.T(), "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ImageServiceTestSuite) TestUpload_NonImageRejected() {
	files := []ImageFile{{Name: "lease.pdf", Size: 100, ContentType: "application/pdf", Reader: strings.NewReader("pdf")}}

	_, err := suite.service.Upload(suite.ctx, suite.owner, suite.listing.ID, files)

	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *ImageServiceTestSuite) TestUpload_TooManyImages() {
	suite.listingRepo.On("GetByID", suite.ctx, suite.listing.ID).Return(suite.listing, nil)
	suite.imageRepo.On("CountByListingID", suite.ctx, suite.listing.ID).Return(imagecheck.MaxPerListing, nil)

	_, err := suite.service.Upload(suite.ctx, suite.owner, suite.listing.ID, []ImageFile{imageFile("one.jpg", 10)})

	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *ImageServiceTestSuite) TestUpload_OtherOwnerForbidden() {
	suite.listingRepo.On("GetByID", suite.ctx, suite.listing.ID).Return(suite.listing, nil)

	other := models.Actor{ID: uuid.New(), Role: models.RolePGOwner}
	_, err := suite.service.Upload(suite.ctx, other, suite.listing.ID, []ImageFile{imageFile("one.jpg", 10)})

	assert.ErrorIs(suite.T(), err, ErrForbidden)
}

func (suite *ImageServiceTestSuite) TestUpload_MidBatchFailureRemovesStoredObjects() {
	files := []ImageFile{imageFile("a.jpg", 10), imageFile("b.jpg", 10), imageFile("c.jpg", 10)}
	var stored []string

	suite.listingRepo.On("GetByID", suite.ctx, suite.listing.ID).Return(suite.listing, nil)
	suite.imageRepo.On("CountByListingID", suite.ctx, suite.listing.ID).Return(0, nil)
	suite.storage.On("Upload", suite.ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = append(stored, args.String(1)) }).
		Return("http://cdn.local/x", nil).Twice()
	suite.storage.On("Upload", suite.ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("connection reset")).Once()
	suite.storage.On("Remove", suite.ctx, mock.Anything).Return(nil).Twice()

	_, err := suite.service.Upload(suite.ctx, suite.owner, suite.listing.ID, files)

	require.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "c.jpg")
	require.Len(suite.T(), stored, 2)
	suite.storage.AssertCalled(suite.T(), "Remove", suite.ctx, stored[0])
	suite.storage.AssertCalled(suite.T(), "Remove", suite.ctx, stored[1])
	suite.imageRepo.AssertNotCalled(suite.T(), "CreateBatch", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ImageServiceTestSuite) TestUpload_RowInsertFailureRemovesObjects() {
	suite.listingRepo.On("GetByID", suite.ctx, suite.listing.ID).Return(suite.listing, nil)
	suite.imageRepo.On("CountByListingID", suite.ctx, suite.listing.ID).Return(0, nil)
	suite.storage.On("Upload", suite.ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("http://cdn.local/x", nil)
	suite.imageRepo.On("CreateBatch", suite.ctx, suite.owner.ID, mock.Anything).Return(errors.New("insert failed"))
	suite.storage.On("Remove", suite.ctx, mock.Anything).Return(nil).Once()

	_, err := suite.service.Upload(suite.ctx, suite.owner, suite.listing.ID, []ImageFile{imageFile("a.jpg", 10)})

	assert.Error(suite.T(), err)
}

func (suite *ImageServiceTestSuite) TestUpload_ConcurrentBatchFillsListing() {
	// the pre-check passes, but another batch took the remaining slots
	suite.listingRepo.On("GetByID", suite.ctx, suite.listing.ID).Return(suite.listing, nil)
	suite.imageRepo.On("CountByListingID", suite.ctx, suite.listing.ID).Return(8, nil)
	suite.storage.On("Upload", suite.ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("http://cdn.local/x", nil).Twice()
	suite.imageRepo.On("CreateBatch", suite.ctx, suite.owner.ID, mock.Anything).Return(imagecheck.ErrTooManyFiles)
	suite.storage.On("Remove", suite.ctx, mock.Anything).Return(nil).Twice()

	_, err := suite.service.Upload(suite.ctx, suite.owner, suite.listing.ID,
		[]ImageFile{imageFile("a.jpg", 10), imageFile("b.jpg", 10)})

	assert.ErrorIs(suite.T(), err, ErrValidation)
	suite.cache.AssertNotCalled(suite.T(), "InvalidateListings", mock.Anything)
}

func (suite *ImageServiceTestSuite) TestDelete_AdminCanRemove() {
	img := &models.ListingImage{ID: uuid.New(), ListingID: suite.listing.ID, ObjectKey: "listings/x.jpg"}
	admin := models.Actor{ID: uuid.New(), Role: models.RoleAdmin}

	suite.imageRepo.On("GetByID", suite.ctx, img.ID).Return(img, nil)
	suite.listingRepo.On("GetByID", suite.ctx, suite.listing.ID).Return(suite.listing, nil)
	suite.imageRepo.On("Delete", suite.ctx, admin.ID, img.ID).Return(nil)
	suite.storage.On("Remove", suite.ctx, "listings/x.jpg").Return(nil)
	suite.cache.On("InvalidateListings", suite.ctx).Return(nil)

	assert.NoError(suite.T(), suite.service.Delete(suite.ctx, admin, img.ID))
}

func (suite *ImageServiceTestSuite) TestDelete_TenantForbidden() {
	img := &models.ListingImage{ID: uuid.New(), ListingID: suite.listing.ID}
	suite.imageRepo.On("GetByID", suite.ctx, img.ID).Return(img, nil)
	suite.listingRepo.On("GetByID", suite.ctx, suite.listing.ID).Return(suite.listing, nil)

	err := suite.service.Delete(suite.ctx, models.Actor{ID: uuid.New(), Role: models.RoleUser}, img.ID)

	assert.ErrorIs(suite.T(), err, ErrForbidden)
}

func (suite *ImageServiceTestSuite) TestSweepOrphans() {
	old := suite.now.Add(-2 * time.Hour)
	recent := suite.now.Add(-time.Minute)

	suite.imageRepo.On("ObjectKeys", suite.ctx).Return(map[string]bool{"listings/a/kept.jpg": true}, nil)
	suite.storage.On("List", suite.ctx, ListingObjectPrefix).Return([]StoredObject{
		{Key: "listings/a/kept.jpg", LastModified: old},
		{Key: "listings/a/orphan.jpg", LastModified: old},
		{Key: "listings/a/uploading.jpg", LastModified: recent},
		{Key: "listings/b/stuck.jpg", LastModified: old},
	}, nil)
	suite.storage.On("Remove", suite.ctx, "listings/a/orphan.jpg").Return(nil)
	suite.storage.On("Remove", suite.ctx, "listings/b/stuck.jpg").Return(errors.New("denied"))

	removed, err := suite.service.SweepOrphans(suite.ctx, time.Hour)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, removed)
	suite.storage.AssertNotCalled(suite.T(), "Remove", suite.ctx, "listings/a/kept.jpg")
	suite.storage.AssertNotCalled(suite.T(), "Remove", suite.ctx, "listings/a/uploading.jpg")
}

func TestImageServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ImageServiceTestSuite))
}
