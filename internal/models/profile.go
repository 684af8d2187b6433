package models

import (
	"time"

	"github.com/google/uuid"
)

// Role values as stored in profiles.role
const (
	RoleUser    = "user"
	RolePGOwner = "pg_owner"
	RoleAdmin   = "admin"
)

// ValidRole reports whether r is one of the three platform roles
func ValidRole(r string) bool {
	switch r {
	case RoleUser, RolePGOwner, RoleAdmin:
		return true
	}
	return false
}

// Profile is the identity record of a signed-up user
type Profile struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Email            string    `json:"email" db:"email"`
	FullName         *string   `json:"full_name,omitempty" db:"full_name"`
	Phone            *string   `json:"phone,omitempty" db:"phone"`
	Role             string    `json:"role" db:"role"`
	OrganizationName *string   `json:"organization_name,omitempty" db:"organization_name"`
	PropertyCount    *int      `json:"property_count,omitempty" db:"property_count"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// Profile columns a self-service patch may touch
const (
	ProfileFullName         = "full_name"
	ProfilePhone            = "phone"
	ProfileOrganizationName = "organization_name"
	ProfilePropertyCount    = "property_count"
)

// ProfilePatch carries the self-service editable fields. A nil field is
// left untouched; columns named in Clear are set to NULL.
type ProfilePatch struct {
	FullName         *string
	Phone            *string
	OrganizationName *string
	PropertyCount    *int
	Clear            []string
}

// Empty reports whether the patch changes nothing
func (p ProfilePatch) Empty() bool {
	return p.FullName == nil && p.Phone == nil && p.OrganizationName == nil && p.PropertyCount == nil &&
		len(p.Clear) == 0
}

// Actor is the authenticated caller of a service operation. Role comes
// from the database, not from the token.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Credential is the login secret for a profile
type Credential struct {
	UserID       uuid.UUID `db:"user_id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
