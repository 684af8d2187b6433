// Package testhelpers sets up a real Postgres for integration tests.
// Tests using it are skipped in -short mode and when no database is
// configured.
package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"pgpathfinder/internal/models"
	"pgpathfinder/internal/repositories"
	"pgpathfinder/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to TEST_DATABASE_URL, applies the schema and returns
// a pool whose Cleanup empties every table.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, connString, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if _, err := pool.Exec(ctx, database.Schema()); err != nil {
		pool.Close()
		t.Fatalf("Failed to apply schema: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			defer pool.Close()
			_, err := pool.Exec(context.Background(),
				`TRUNCATE audit_logs, pg_images, pg_listings, credentials, profiles CASCADE`)
			return err
		},
	}
}

// SetupTestProfile creates an account with the given role
func SetupTestProfile(t *testing.T, db *TestDB, role string) *models.Profile {
	t.Helper()

	name := "Test " + role
	profile := &models.Profile{
		ID:       uuid.New(),
		Email:    role + "-" + uuid.NewString()[:8] + "@example.com",
		FullName: &name,
		Role:     role,
	}
	if err := repositories.NewCredentialRepo(db.Pool).CreateAccount(context.Background(), profile, "not-a-real-hash"); err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}
	return profile
}

// SetupTestListing creates a listing for owner and moves it to status
func SetupTestListing(t *testing.T, db *TestDB, owner *models.Profile, status string) *models.Listing {
	t.Helper()

	ctx := context.Background()
	repo := repositories.NewListingRepo(db.Pool)

	phone := "+91 90000 00000"
	food := models.FoodVeg
	listing := &models.Listing{
		OwnerID:      owner.ID,
		Title:        "Test PG",
		Address:      "12 MG Road",
		City:         "Pune",
		State:        "Maharashtra",
		Pincode:      "411001",
		NumBeds:      3,
		HasWifi:      true,
		FoodType:     &food,
		RentPerMonth: 8500,
		IsActive:     true,
		OwnerName:    owner.FullName,
		OwnerPhone:   &phone,
		OwnerEmail:   &owner.Email,
	}
	if err := repo.Create(ctx, owner.ID, listing); err != nil {
		t.Fatalf("Failed to create test listing: %v", err)
	}

	if status != models.StatusPending {
		var approvedAt *time.Time
		var approvedBy *uuid.UUID
		if status == models.StatusApproved {
			now := time.Now()
			approvedAt, approvedBy = &now, &owner.ID
		}
		updated, err := repo.Transition(ctx, owner.ID, listing.ID, status, approvedAt, approvedBy)
		if err != nil {
			t.Fatalf("Failed to move test listing to %s: %v", status, err)
		}
		listing = updated
	}
	return listing
}
