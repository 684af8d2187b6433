package repositories

import (
	"context"
	"fmt"

	"pgpathfinder/internal/models"
	"pgpathfinder/pkg/imagecheck"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
)

type ListingImageRepository interface {
	// CreateBatch inserts the images of one listing in a single statement.
	// It assigns image_order after the existing images and fails with
	// imagecheck.ErrTooManyFiles when the listing would exceed its limit.
	CreateBatch(ctx context.Context, actor uuid.UUID, images []models.ListingImage) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ListingImage, error)
	GetByListingID(ctx context.Context, listingID uuid.UUID) ([]models.ListingImage, error)
	// GetByListingIDs groups the images of several listings by listing id
	GetByListingIDs(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID][]models.ListingImage, error)
	CountByListingID(ctx context.Context, listingID uuid.UUID) (int, error)
	Delete(ctx context.Context, actor, id uuid.UUID) error
	// ObjectKeys lists every stored object key
	ObjectKeys(ctx context.Context) (map[string]bool, error)
}

type listingImageRepo struct {
	db DB
}

func NewListingImageRepo(db DB) ListingImageRepository {
	return &listingImageRepo{db: db}
}

const imageColumns = `id, pg_listing_id, image_url, object_key, image_order, created_at`

func scanImage(row pgx.Row) (models.ListingImage, error) {
	var img models.ListingImage
	err := row.Scan(&img.ID, &img.ListingID, &img.ImageURL, &img.ObjectKey, &img.ImageOrder, &img.CreatedAt)
	return img, mapError(err)
}

func (r *listingImageRepo) CreateBatch(ctx context.Context, actor uuid.UUID, images []models.ListingImage) error {
	if len(images) == 0 {
		return nil
	}

	listingID := images[0].ListingID
	for i := range images {
		if images[i].ListingID != listingID {
			return fmt.Errorf("image batch spans listings %s and %s", listingID, images[i].ListingID)
		}
		if images[i].ID == uuid.Nil {
			images[i].ID = uuid.New()
		}
	}

	query := `
		INSERT INTO pg_images (id, pg_listing_id, image_url, object_key, image_order)
		SELECT * FROM unnest($1::uuid[], $2::uuid[], $3::text[], $4::text[], $5::int[])
	`

	return withActor(ctx, r.db, actor, func(tx pgx.Tx) error {
		// concurrent batches for the same listing queue on the row lock
		var locked int
		err := tx.QueryRow(ctx, `SELECT 1 FROM pg_listings WHERE id = $1 FOR UPDATE`, listingID).Scan(&locked)
		if err != nil {
			return mapError(err)
		}

		var count, maxOrder int
		err = tx.QueryRow(ctx, `SELECT COUNT(*), COALESCE(MAX(image_order), 0) FROM pg_images WHERE pg_listing_id = $1`,
			listingID).Scan(&count, &maxOrder)
		if err != nil {
			return err
		}
		if err := imagecheck.CheckCount(count, len(images)); err != nil {
			return err
		}

		ids := make([]uuid.UUID, len(images))
		listingIDs := make([]uuid.UUID, len(images))
		urls := make([]string, len(images))
		keys := make([]string, len(images))
		orders := make([]int32, len(images))
		for i := range images {
			images[i].ImageOrder = maxOrder + i + 1
			ids[i] = images[i].ID
			listingIDs[i] = listingID
			urls[i] = images[i].ImageURL
			keys[i] = images[i].ObjectKey
			orders[i] = int32(images[i].ImageOrder)
		}

		_, err = tx.Exec(ctx, query, ids, listingIDs, urls, keys, orders)
		return err
	})
}

func (r *listingImageRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ListingImage, error) {
	img, err := scanImage(r.db.QueryRow(ctx, `SELECT `+imageColumns+` FROM pg_images WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *listingImageRepo) GetByListingID(ctx context.Context, listingID uuid.UUID) ([]models.ListingImage, error) {
	rows, err := r.db.Query(ctx, `SELECT `+imageColumns+` FROM pg_images
		WHERE pg_listing_id = $1
		ORDER BY image_order ASC, created_at ASC`, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []models.ListingImage{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *listingImageRepo) GetByListingIDs(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID][]models.ListingImage, error) {
	grouped := make(map[uuid.UUID][]models.ListingImage, len(listingIDs))
	if len(listingIDs) == 0 {
		return grouped, nil
	}

	rows, err := r.db.Query(ctx, `SELECT `+imageColumns+` FROM pg_images
		WHERE pg_listing_id = ANY($1)
		ORDER BY pg_listing_id, image_order ASC, created_at ASC`, listingIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		grouped[img.ListingID] = append(grouped[img.ListingID], img)
	}
	return grouped, rows.Err()
}

func (r *listingImageRepo) CountByListingID(ctx context.Context, listingID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pg_images WHERE pg_listing_id = $1`, listingID).Scan(&n)
	return n, err
}

func (r *listingImageRepo) Delete(ctx context.Context, actor, id uuid.UUID) error {
	return withActor(ctx, r.db, actor, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM pg_images WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *listingImageRepo) ObjectKeys(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.Query(ctx, `SELECT object_key FROM pg_images`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys[key] = true
	}
	return keys, rows.Err()
}
