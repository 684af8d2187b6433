package repositories

import (
	"context"
	"time"

	"pgpathfinder/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
)

type ListingRepository interface {
	Create(ctx context.Context, actor uuid.UUID, listing *models.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	// Update rewrites the owner-editable columns. Status and approval
	// columns are left alone.
	Update(ctx context.Context, actor uuid.UUID, listing *models.Listing) error
	// Transition moves a pending listing to approved or rejected. It returns
	// ErrNotFound when the listing is gone or no longer pending.
	Transition(ctx context.Context, actor, id uuid.UUID, status string, approvedAt *time.Time, approvedBy *uuid.UUID) (*models.Listing, error)
	SetActive(ctx context.Context, actor, id uuid.UUID, active bool) (*models.Listing, error)
	Delete(ctx context.Context, actor, id uuid.UUID) error

	ListVisible(ctx context.Context) ([]*models.Listing, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Listing, error)
	List(ctx context.Context, status *string) ([]*models.Listing, error)
	Stats(ctx context.Context, ownerID *uuid.UUID) (*models.ListingStats, error)
}

type listingRepo struct {
	db DB
}

func NewListingRepo(db DB) ListingRepository {
	return &listingRepo{db: db}
}

const listingColumns = `id, owner_id, title, description, address, city, state, pincode,
	latitude, longitude, num_beds, has_ac, has_wifi, has_washing_machine,
	food_type::text, rent_per_month::float8, security_deposit::float8, status::text, is_active,
	owner_name, owner_phone, owner_email, owner_address,
	approved_at, approved_by, created_at, updated_at`

func scanListing(row pgx.Row) (*models.Listing, error) {
	l := &models.Listing{}
	err := row.Scan(
		&l.ID,
		&l.OwnerID,
		&l.Title,
		&l.Description,
		&l.Address,
		&l.City,
		&l.State,
		&l.Pincode,
		&l.Latitude,
		&l.Longitude,
		&l.NumBeds,
		&l.HasAC,
		&l.HasWifi,
		&l.HasWashingMachine,
		&l.FoodType,
		&l.RentPerMonth,
		&l.SecurityDeposit,
		&l.Status,
		&l.IsActive,
		&l.OwnerName,
		&l.OwnerPhone,
		&l.OwnerEmail,
		&l.OwnerAddress,
		&l.ApprovedAt,
		&l.ApprovedBy,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return l, nil
}

func (r *listingRepo) collect(ctx context.Context, query string, args ...interface{}) ([]*models.Listing, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []*models.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// Create always inserts a pending listing with no approval data
func (r *listingRepo) Create(ctx context.Context, actor uuid.UUID, l *models.Listing) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.Status = models.StatusPending
	l.ApprovedAt = nil
	l.ApprovedBy = nil

	query := `
		INSERT INTO pg_listings (
			id, owner_id, title, description, address, city, state, pincode,
			latitude, longitude, num_beds, has_ac, has_wifi, has_washing_machine,
			food_type, rent_per_month, security_deposit, status, is_active,
			owner_name, owner_phone, owner_email, owner_address
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14,
			$15::food_type, $16, $17, 'pending', $18,
			$19, $20, $21, $22
		)
		RETURNING created_at, updated_at
	`

	return withActor(ctx, r.db, actor, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			l.ID, l.OwnerID, l.Title, l.Description, l.Address, l.City, l.State, l.Pincode,
			l.Latitude, l.Longitude, l.NumBeds, l.HasAC, l.HasWifi, l.HasWashingMachine,
			l.FoodType, l.RentPerMonth, l.SecurityDeposit, l.IsActive,
			l.OwnerName, l.OwnerPhone, l.OwnerEmail, l.OwnerAddress,
		).Scan(&l.CreatedAt, &l.UpdatedAt)
	})
}

func (r *listingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM pg_listings WHERE id = $1`
	return scanListing(r.db.QueryRow(ctx, query, id))
}

func (r *listingRepo) Update(ctx context.Context, actor uuid.UUID, l *models.Listing) error {
	query := `
		UPDATE pg_listings SET
			title = $1, description = $2, address = $3, city = $4, state = $5, pincode = $6,
			latitude = $7, longitude = $8, num_beds = $9, has_ac = $10, has_wifi = $11,
			has_washing_machine = $12, food_type = $13::food_type, rent_per_month = $14,
			security_deposit = $15, is_active = $16, owner_name = $17, owner_phone = $18,
			owner_email = $19, owner_address = $20
		WHERE id = $21 AND owner_id = $22
		RETURNING updated_at
	`

	return withActor(ctx, r.db, actor, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, query,
			l.Title, l.Description, l.Address, l.City, l.State, l.Pincode,
			l.Latitude, l.Longitude, l.NumBeds, l.HasAC, l.HasWifi,
			l.HasWashingMachine, l.FoodType, l.RentPerMonth,
			l.SecurityDeposit, l.IsActive, l.OwnerName, l.OwnerPhone,
			l.OwnerEmail, l.OwnerAddress,
			l.ID, l.OwnerID,
		).Scan(&l.UpdatedAt)
		return mapError(err)
	})
}

func (r *listingRepo) Transition(ctx context.Context, actor, id uuid.UUID, status string, approvedAt *time.Time, approvedBy *uuid.UUID) (*models.Listing, error) {
	query := `
		UPDATE pg_listings
		SET status = $1::listing_status, approved_at = $2, approved_by = $3
		WHERE id = $4 AND status = 'pending'
		RETURNING ` + listingColumns

	var updated *models.Listing
	err := withActor(ctx, r.db, actor, func(tx pgx.Tx) error {
		l, err := scanListing(tx.QueryRow(ctx, query, status, approvedAt, approvedBy, id))
		updated = l
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *listingRepo) SetActive(ctx context.Context, actor, id uuid.UUID, active bool) (*models.Listing, error) {
	query := `UPDATE pg_listings SET is_active = $1 WHERE id = $2 RETURNING ` + listingColumns

	var updated *models.Listing
	err := withActor(ctx, r.db, actor, func(tx pgx.Tx) error {
		l, err := scanListing(tx.QueryRow(ctx, query, active, id))
		updated = l
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete hard-deletes the listing. Images go with it through the foreign key.
func (r *listingRepo) Delete(ctx context.Context, actor, id uuid.UUID) error {
	return withActor(ctx, r.db, actor, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM pg_listings WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *listingRepo) ListVisible(ctx context.Context) ([]*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM pg_listings
		WHERE status = 'approved' AND is_active = true
		ORDER BY created_at DESC`
	return r.collect(ctx, query)
}

func (r *listingRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM pg_listings
		WHERE owner_id = $1
		ORDER BY created_at DESC`
	return r.collect(ctx, query, ownerID)
}

func (r *listingRepo) List(ctx context.Context, status *string) ([]*models.Listing, error) {
	if status == nil {
		return r.collect(ctx, `SELECT `+listingColumns+` FROM pg_listings ORDER BY created_at DESC`)
	}
	query := `SELECT ` + listingColumns + ` FROM pg_listings
		WHERE status = $1::listing_status
		ORDER BY created_at DESC`
	return r.collect(ctx, query, *status)
}

func (r *listingRepo) Stats(ctx context.Context, ownerID *uuid.UUID) (*models.ListingStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'approved'),
		       COUNT(*) FILTER (WHERE status = 'rejected'),
		       COUNT(*) FILTER (WHERE is_active)
		FROM pg_listings
		WHERE ($1::uuid IS NULL OR owner_id = $1)
	`
	s := &models.ListingStats{}
	err := r.db.QueryRow(ctx, query, ownerID).Scan(&s.Total, &s.Pending, &s.Approved, &s.Rejected, &s.Active)
	if err != nil {
		return nil, err
	}
	return s, nil
}
