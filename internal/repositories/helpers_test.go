package repositories

import (
	"regexp"
	"time"

	"pgpathfinder/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func sqlRe(query string) string {
	return regexp.QuoteMeta(query)
}

func expectActor(mock pgxmock.PgxPoolIface, actor uuid.UUID) {
	mock.ExpectBegin()
	mock.ExpectExec(sqlRe(setActorSQL)).
		WithArgs(actor.String()).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
}

var listingColumnNames = []string{
	"id", "owner_id", "title", "description", "address", "city", "state", "pincode",
	"latitude", "longitude", "num_beds", "has_ac", "has_wifi", "has_washing_machine",
	"food_type", "rent_per_month", "security_deposit", "status", "is_active",
	"owner_name", "owner_phone", "owner_email", "owner_address",
	"approved_at", "approved_by", "created_at", "updated_at",
}

func listingRow(l *models.Listing) []any {
	return []any{
		l.ID, l.OwnerID, l.Title, l.Description, l.Address, l.City, l.State, l.Pincode,
		l.Latitude, l.Longitude, l.NumBeds, l.HasAC, l.HasWifi, l.HasWashingMachine,
		l.FoodType, l.RentPerMonth, l.SecurityDeposit, l.Status, l.IsActive,
		l.OwnerName, l.OwnerPhone, l.OwnerEmail, l.OwnerAddress,
		l.ApprovedAt, l.ApprovedBy, l.CreatedAt, l.UpdatedAt,
	}
}

func sampleListing(owner uuid.UUID, status string) *models.Listing {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Listing{
		ID:           uuid.New(),
		OwnerID:      owner,
		Title:        "Green Valley PG",
		Description:  (*string)(nil),
		Address:      "4 FC Road",
		City:         "Pune",
		State:        "Maharashtra",
		Pincode:      "411004",
		Latitude:     (*float64)(nil),
		Longitude:    (*float64)(nil),
		NumBeds:      3,
		HasAC:        true,
		FoodType:     stringPtr(models.FoodVeg),
		RentPerMonth: 8000,
		Status:       status,
		IsActive:     true,
		OwnerName:    stringPtr("Asha"),
		OwnerPhone:   stringPtr("9876543210"),
		OwnerEmail:   stringPtr("asha@example.com"),
		OwnerAddress: (*string)(nil),
		ApprovedAt:   (*time.Time)(nil),
		ApprovedBy:   (*uuid.UUID)(nil),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

var profileColumnNames = []string{
	"id", "email", "full_name", "phone", "role", "organization_name", "property_count", "created_at", "updated_at",
}

func profileRow(p *models.Profile) []any {
	return []any{p.ID, p.Email, p.FullName, p.Phone, p.Role, p.OrganizationName, p.PropertyCount, p.CreatedAt, p.UpdatedAt}
}
