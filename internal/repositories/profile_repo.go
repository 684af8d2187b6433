package repositories

import (
	"context"
	"fmt"
	"strings"

	"pgpathfinder/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	// GetRole resolves the role through get_user_role, the same lookup the
	// database functions rely on.
	GetRole(ctx context.Context, id uuid.UUID) (string, error)
	Update(ctx context.Context, actor, id uuid.UUID, patch models.ProfilePatch) (*models.Profile, error)
	SetRole(ctx context.Context, actor, id uuid.UUID, role string) (*models.Profile, error)
	List(ctx context.Context, role *string, limit, offset int) ([]*models.Profile, error)
	CountByRole(ctx context.Context) (*models.UserStats, error)
}

type profileRepo struct {
	db DB
}

func NewProfileRepo(db DB) ProfileRepository {
	return &profileRepo{db: db}
}

const profileColumns = `id, email, full_name, phone, role::text, organization_name, property_count, created_at, updated_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.FullName,
		&p.Phone,
		&p.Role,
		&p.OrganizationName,
		&p.PropertyCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *profileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.db.QueryRow(ctx, query, id))
}

func (r *profileRepo) GetRole(ctx context.Context, id uuid.UUID) (string, error) {
	var role *string
	if err := r.db.QueryRow(ctx, `SELECT get_user_role($1)::text`, id).Scan(&role); err != nil {
		return "", mapError(err)
	}
	if role == nil {
		return "", ErrNotFound
	}
	return *role, nil
}

// Update writes only the allow-listed columns present in the patch
func (r *profileRepo) Update(ctx context.Context, actor, id uuid.UUID, patch models.ProfilePatch) (*models.Profile, error) {
	var (
		sets []string
		args []interface{}
	)
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.FullName != nil {
		add("full_name", *patch.FullName)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.OrganizationName != nil {
		add("organization_name", *patch.OrganizationName)
	}
	if patch.PropertyCount != nil {
		add("property_count", *patch.PropertyCount)
	}
	for _, column := range patch.Clear {
		switch column {
		case models.ProfileFullName, models.ProfilePhone, models.ProfileOrganizationName, models.ProfilePropertyCount:
			sets = append(sets, column+" = NULL")
		default:
			return nil, fmt.Errorf("profile column %q cannot be cleared", column)
		}
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE id = $%d RETURNING `+profileColumns,
		strings.Join(sets, ", "), len(args))

	var updated *models.Profile
	err := withActor(ctx, r.db, actor, func(tx pgx.Tx) error {
		p, err := scanProfile(tx.QueryRow(ctx, query, args...))
		updated = p
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *profileRepo) SetRole(ctx context.Context, actor, id uuid.UUID, role string) (*models.Profile, error) {
	query := `UPDATE profiles SET role = $1::user_role WHERE id = $2 RETURNING ` + profileColumns

	var updated *models.Profile
	err := withActor(ctx, r.db, actor, func(tx pgx.Tx) error {
		p, err := scanProfile(tx.QueryRow(ctx, query, role, id))
		updated = p
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *profileRepo) List(ctx context.Context, role *string, limit, offset int) ([]*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles`
	args := []interface{}{}
	if role != nil {
		args = append(args, *role)
		query += ` WHERE role = $1::user_role`
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *profileRepo) CountByRole(ctx context.Context) (*models.UserStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE role = 'pg_owner'),
		       COUNT(*) FILTER (WHERE role = 'admin')
		FROM profiles
	`
	stats := &models.UserStats{}
	if err := r.db.QueryRow(ctx, query).Scan(&stats.Total, &stats.Owners, &stats.Admins); err != nil {
		return nil, err
	}
	return stats, nil
}
