package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Listing status values
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Food type values. An empty food type means not specified.
const (
	FoodVeg    = "veg"
	FoodNonVeg = "non_veg"
	FoodBoth   = "both"
)

// ValidFoodType accepts the three food types and the empty value
func ValidFoodType(f string) bool {
	switch f {
	case "", FoodVeg, FoodNonVeg, FoodBoth:
		return true
	}
	return false
}

// ValidStatus reports whether s is a listing status
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Listing is a PG property submitted by an owner
type Listing struct {
	ID                uuid.UUID      `json:"id" db:"id"`
	OwnerID           uuid.UUID      `json:"owner_id" db:"owner_id"`
	Title             string         `json:"title" db:"title"`
	Description       *string        `json:"description,omitempty" db:"description"`
	Address           string         `json:"address" db:"address"`
	City              string         `json:"city" db:"city"`
	State             string         `json:"state" db:"state"`
	Pincode           string         `json:"pincode" db:"pincode"`
	Latitude          *float64       `json:"latitude,omitempty" db:"latitude"`
	Longitude         *float64       `json:"longitude,omitempty" db:"longitude"`
	NumBeds           int            `json:"num_beds" db:"num_beds"`
	HasAC             bool           `json:"has_ac" db:"has_ac"`
	HasWifi           bool           `json:"has_wifi" db:"has_wifi"`
	HasWashingMachine bool           `json:"has_washing_machine" db:"has_washing_machine"`
	FoodType          *string        `json:"food_type,omitempty" db:"food_type"`
	RentPerMonth      float64        `json:"rent_per_month" db:"rent_per_month"`
	SecurityDeposit   *float64       `json:"security_deposit,omitempty" db:"security_deposit"`
	Status            string         `json:"status" db:"status"`
	IsActive          bool           `json:"is_active" db:"is_active"`
	OwnerName         *string        `json:"owner_name,omitempty" db:"owner_name"`
	OwnerPhone        *string        `json:"owner_phone,omitempty" db:"owner_phone"`
	OwnerEmail        *string        `json:"owner_email,omitempty" db:"owner_email"`
	OwnerAddress      *string        `json:"owner_address,omitempty" db:"owner_address"`
	ApprovedAt        *time.Time     `json:"approved_at,omitempty" db:"approved_at"`
	ApprovedBy        *uuid.UUID     `json:"approved_by,omitempty" db:"approved_by"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
	Images            []ListingImage `json:"images"`
}

// IsPubliclyVisible is the single visibility rule: approved and active
func (l *Listing) IsPubliclyVisible() bool {
	return l.Status == StatusApproved && l.IsActive
}

// Public strips the owner contact snapshot
func (l *Listing) Public() PublicListing {
	images := l.Images
	if images == nil {
		images = []ListingImage{}
	}
	return PublicListing{
		ID:                l.ID,
		OwnerID:           l.OwnerID,
		Title:             l.Title,
		Description:       l.Description,
		Address:           l.Address,
		City:              l.City,
		State:             l.State,
		Pincode:           l.Pincode,
		Latitude:          l.Latitude,
		Longitude:         l.Longitude,
		NumBeds:           l.NumBeds,
		HasAC:             l.HasAC,
		HasWifi:           l.HasWifi,
		HasWashingMachine: l.HasWashingMachine,
		FoodType:          l.FoodType,
		RentPerMonth:      l.RentPerMonth,
		SecurityDeposit:   l.SecurityDeposit,
		Status:            l.Status,
		IsActive:          l.IsActive,
		CreatedAt:         l.CreatedAt,
		Images:            images,
	}
}

// PublicListing is what tenants and anonymous visitors receive. It never
// carries owner contact details.
type PublicListing struct {
	ID                uuid.UUID      `json:"id"`
	OwnerID           uuid.UUID      `json:"owner_id"`
	Title             string         `json:"title"`
	Description       *string        `json:"description,omitempty"`
	Address           string         `json:"address"`
	City              string         `json:"city"`
	State             string         `json:"state"`
	Pincode           string         `json:"pincode"`
	Latitude          *float64       `json:"latitude,omitempty"`
	Longitude         *float64       `json:"longitude,omitempty"`
	NumBeds           int            `json:"num_beds"`
	HasAC             bool           `json:"has_ac"`
	HasWifi           bool           `json:"has_wifi"`
	HasWashingMachine bool           `json:"has_washing_machine"`
	FoodType          *string        `json:"food_type,omitempty"`
	RentPerMonth      float64        `json:"rent_per_month"`
	SecurityDeposit   *float64       `json:"security_deposit,omitempty"`
	Status            string         `json:"status"`
	IsActive          bool           `json:"is_active"`
	CreatedAt         time.Time      `json:"created_at"`
	Images            []ListingImage `json:"images"`
}

// ListingInput is the owner-editable part of a listing
type ListingInput struct {
	Title             string   `json:"title"`
	Description       *string  `json:"description"`
	Address           string   `json:"address"`
	City              string   `json:"city"`
	State             string   `json:"state"`
	Pincode           string   `json:"pincode"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	NumBeds           int      `json:"num_beds"`
	HasAC             bool     `json:"has_ac"`
	HasWifi           bool     `json:"has_wifi"`
	HasWashingMachine bool     `json:"has_washing_machine"`
	FoodType          string   `json:"food_type"`
	RentPerMonth      float64  `json:"rent_per_month"`
	SecurityDeposit   *float64 `json:"security_deposit"`
	IsActive          *bool    `json:"is_active"`
	OwnerName         *string  `json:"owner_name"`
	OwnerPhone        *string  `json:"owner_phone"`
	OwnerEmail        *string  `json:"owner_email"`
	OwnerAddress      *string  `json:"owner_address"`
}

// Apply copies the input onto l. Status, ownership and approval fields are
// never touched here.
func (in *ListingInput) Apply(l *Listing) {
	l.Title = strings.TrimSpace(in.Title)
	l.Description = in.Description
	l.Address = strings.TrimSpace(in.Address)
	l.City = strings.TrimSpace(in.City)
	l.State = strings.TrimSpace(in.State)
	l.Pincode = strings.TrimSpace(in.Pincode)
	l.Latitude = in.Latitude
	l.Longitude = in.Longitude
	l.NumBeds = in.NumBeds
	l.HasAC = in.HasAC
	l.HasWifi = in.HasWifi
	l.HasWashingMachine = in.HasWashingMachine
	l.FoodType = nil
	if in.FoodType != "" {
		ft := in.FoodType
		l.FoodType = &ft
	}
	l.RentPerMonth = in.RentPerMonth
	l.SecurityDeposit = in.SecurityDeposit
	if in.IsActive != nil {
		l.IsActive = *in.IsActive
	}
	l.OwnerName = in.OwnerName
	l.OwnerPhone = in.OwnerPhone
	l.OwnerEmail = in.OwnerEmail
	l.OwnerAddress = in.OwnerAddress
}

// ListingSearchFilter holds browse criteria. Zero values and nil pointers
// impose no constraint. An amenity flag only narrows the results when true;
// false means "don't care", not "must lack".
type ListingSearchFilter struct {
	City              string  `json:"city,omitempty"`
	MinBeds           int     `json:"min_beds,omitempty"`
	MinRent           float64 `json:"min_rent,omitempty"`
	MaxRent           float64 `json:"max_rent,omitempty"`
	HasAC             *bool   `json:"has_ac,omitempty"`
	HasWifi           *bool   `json:"has_wifi,omitempty"`
	HasWashingMachine *bool   `json:"has_washing_machine,omitempty"`
	FoodType          string  `json:"food_type,omitempty"`
	Search            string  `json:"q,omitempty"`
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Matches applies every supplied criterion conjunctively. Listings that are
// not publicly visible never match.
func (f *ListingSearchFilter) Matches(l *Listing) bool {
	if !l.IsPubliclyVisible() {
		return false
	}
	if city := strings.TrimSpace(f.City); city != "" && !containsFold(l.City, city) {
		return false
	}
	if f.MinBeds > 0 && l.NumBeds < f.MinBeds {
		return false
	}
	if f.MinRent > 0 && l.RentPerMonth < f.MinRent {
		return false
	}
	if f.MaxRent > 0 && l.RentPerMonth > f.MaxRent {
		return false
	}
	if f.HasAC != nil && *f.HasAC && !l.HasAC {
		return false
	}
	if f.HasWifi != nil && *f.HasWifi && !l.HasWifi {
		return false
	}
	if f.HasWashingMachine != nil && *f.HasWashingMachine && !l.HasWashingMachine {
		return false
	}
	if f.FoodType != "" && (l.FoodType == nil || *l.FoodType != f.FoodType) {
		return false
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		if !containsFold(l.Title, q) && !containsFold(l.Address, q) && !containsFold(l.City, q) {
			return false
		}
	}
	return true
}

// BrowseResult is the browse page payload
type BrowseResult struct {
	Listings []PublicListing `json:"listings"`
	Total    int             `json:"total"`
	Cities   []string        `json:"cities"`
}
