package repositories

import (
	"context"
	"strings"

	"pgpathfinder/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
)

type CredentialRepository interface {
	// CreateAccount inserts the profile and its credential atomically
	CreateAccount(ctx context.Context, profile *models.Profile, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (*models.Credential, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

type credentialRepo struct {
	db DB
}

func NewCredentialRepo(db DB) CredentialRepository {
	return &credentialRepo{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *credentialRepo) CreateAccount(ctx context.Context, profile *models.Profile, passwordHash string) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	profile.Email = normalizeEmail(profile.Email)

	return mapError(withActor(ctx, r.db, profile.ID, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO profiles (id, email, full_name, phone, role, organization_name, property_count)
			VALUES ($1, $2, $3, $4, $5::user_role, $6, $7)
			RETURNING created_at, updated_at
		`, profile.ID, profile.Email, profile.FullName, profile.Phone, profile.Role,
			profile.OrganizationName, profile.PropertyCount,
		).Scan(&profile.CreatedAt, &profile.UpdatedAt)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO credentials (user_id, email, password_hash)
			VALUES ($1, $2, $3)
		`, profile.ID, profile.Email, passwordHash)
		return err
	}))
}

func (r *credentialRepo) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	c := &models.Credential{}
	err := r.db.QueryRow(ctx, `
		SELECT user_id, email, password_hash, created_at
		FROM credentials
		WHERE email = $1
	`, normalizeEmail(email)).Scan(&c.UserID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *credentialRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE credentials SET password_hash = $1, updated_at = NOW()
		WHERE user_id = $2
	`, passwordHash, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
