package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"pgpathfinder/internal/caching"
	"pgpathfinder/internal/models"
	"pgpathfinder/internal/repositories"
	"pgpathfinder/pkg/imagecheck"
	"pgpathfinder/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListingObjectPrefix is the bucket prefix every listing image lives under
const ListingObjectPrefix = "listings/"

// ImageFile is one file of an upload batch
type ImageFile struct {
	Name        string
	Size        int64
	ContentType string
	Reader      io.Reader
}

type ImageService interface {
	// Upload validates the whole batch before touching storage. If any
	// upload fails the objects stored so far are removed and no rows are
	// written.
	Upload(ctx context.Context, actor models.Actor, listingID uuid.UUID, files []ImageFile) ([]models.ListingImage, error)
	Delete(ctx context.Context, actor models.Actor, imageID uuid.UUID) error
	// SweepOrphans removes stored objects no image row references, once
	// they are older than grace.
	SweepOrphans(ctx context.Context, grace time.Duration) (int, error)
}

type imageService struct {
	listingRepo repositories.ListingRepository
	imageRepo   repositories.ListingImageRepository
	storage     StorageService
	cache       caching.CacheService
	log         *zap.Logger
	now         func() time.Time
}

func NewImageService(listingRepo repositories.ListingRepository, imageRepo repositories.ListingImageRepository, storage StorageService, cache caching.CacheService, log *zap.Logger) ImageService {
	if log == nil {
		log = zap.NewNop()
	}
	return &imageService{
		listingRepo: listingRepo,
		imageRepo:   imageRepo,
		storage:     storage,
		cache:       cache,
		log:         log,
		now:         time.Now,
	}
}

func objectKey(listingID uuid.UUID, name, contentType string) string {
	return fmt.Sprintf("%s%s/%s%s", ListingObjectPrefix, listingID, uuid.New(), imagecheck.Extension(name, contentType))
}

func (s *imageService) Upload(ctx context.Context, actor models.Actor, listingID uuid.UUID, files []ImageFile) ([]models.ListingImage, error) {
	if len(files) == 0 {
		return nil, invalid("images", "at least one image is required")
	}
	for _, f := range files {
		if err := imagecheck.Validate(f.Name, f.Size, f.ContentType); err != nil {
			metrics.ImageUploads.WithLabelValues("rejected").Inc()
			return nil, invalid("images", err.Error())
		}
	}
	if err := imagecheck.CheckCount(0, len(files)); err != nil {
		return nil, invalid("images", err.Error())
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, repoError(err, "listing")
	}
	if listing.OwnerID != actor.ID {
		return nil, fmt.Errorf("listing belongs to another owner: %w", ErrForbidden)
	}

	existing, err := s.imageRepo.CountByListingID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to count listing images: %w", err)
	}
	if err := imagecheck.CheckCount(existing, len(files)); err != nil {
		return nil, invalid("images", err.Error())
	}

	images := make([]models.ListingImage, 0, len(files))
	for i, f := range files {
		key := objectKey(listingID, f.Name, f.ContentType)
		url, err := s.storage.Upload(ctx, key, f.Reader, f.Size, f.ContentType)
		if err != nil {
			metrics.ImageUploads.WithLabelValues("failed").Inc()
			s.removeObjects(ctx, images)
			return nil, fmt.Errorf("failed to upload %s: %w", f.Name, err)
		}
		images = append(images, models.ListingImage{
			ID:         uuid.New(),
			ListingID:  listingID,
			ImageURL:   url,
			ObjectKey:  key,
			ImageOrder: existing + i + 1,
			CreatedAt:  s.now().UTC(),
		})
	}

	// the repository re-checks the limit under a row lock and assigns the
	// final image order
	if err := s.imageRepo.CreateBatch(ctx, actor.ID, images); err != nil {
		s.removeObjects(ctx, images)
		if errors.Is(err, imagecheck.ErrTooManyFiles) {
			metrics.ImageUploads.WithLabelValues("rejected").Inc()
			return nil, invalid("images", err.Error())
		}
		metrics.ImageUploads.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to save listing images: %w", repoError(err, "listing"))
	}

	metrics.ImageUploads.WithLabelValues("stored").Add(float64(len(images)))
	s.log.Info("listing images uploaded",
		zap.String("listing_id", listingID.String()),
		zap.Int("count", len(images)))
	s.invalidate(ctx)
	return images, nil
}

func (s *imageService) removeObjects(ctx context.Context, images []models.ListingImage) {
	for _, img := range images {
		if err := s.storage.Remove(ctx, img.ObjectKey); err != nil {
			s.log.Warn("failed to remove uploaded object", zap.String("object_key", img.ObjectKey), zap.Error(err))
		}
	}
}

func (s *imageService) Delete(ctx context.Context, actor models.Actor, imageID uuid.UUID) error {
	img, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return repoError(err, "image")
	}

	listing, err := s.listingRepo.GetByID(ctx, img.ListingID)
	if err != nil {
		return repoError(err, "listing")
	}
	if listing.OwnerID != actor.ID && !actor.IsAdmin() {
		return fmt.Errorf("image belongs to another owner: %w", ErrForbidden)
	}

	if err := s.imageRepo.Delete(ctx, actor.ID, imageID); err != nil {
		return repoError(err, "image")
	}
	s.removeObjects(ctx, []models.ListingImage{*img})
	s.invalidate(ctx)
	return nil
}

func (s *imageService) SweepOrphans(ctx context.Context, grace time.Duration) (int, error) {
	referenced, err := s.imageRepo.ObjectKeys(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load image keys: %w", err)
	}

	objects, err := s.storage.List(ctx, ListingObjectPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list stored objects: %w", err)
	}

	cutoff := s.now().Add(-grace)
	removed := 0
	for _, obj := range objects {
		if referenced[obj.Key] || !strings.HasPrefix(obj.Key, ListingObjectPrefix) || obj.LastModified.After(cutoff) {
			continue
		}
		if err := s.storage.Remove(ctx, obj.Key); err != nil {
			s.log.Warn("failed to remove orphaned object", zap.String("object_key", obj.Key), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

func (s *imageService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateListings(ctx); err != nil {
		s.log.Warn("failed to invalidate listing cache", zap.Error(err))
	}
}
