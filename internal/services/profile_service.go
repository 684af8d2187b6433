package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"pgpathfinder/internal/common"
	"pgpathfinder/internal/models"
	"pgpathfinder/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	// UpdateProfile applies the self-service allow-list. Other keys,
	// including role, are ignored.
	UpdateProfile(ctx context.Context, userID uuid.UUID, patch map[string]interface{}) (*models.Profile, error)
	ListUsers(ctx context.Context, actor models.Actor, role *string, limit, offset int) ([]*models.Profile, error)
	SetRole(ctx context.Context, actor models.Actor, userID uuid.UUID, role string) (*models.Profile, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
	log         *zap.Logger
}

func NewProfileService(profileRepo repositories.ProfileRepository, log *zap.Logger) ProfileService {
	if log == nil {
		log = zap.NewNop()
	}
	return &profileService{profileRepo: profileRepo, log: log}
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, repoError(err, "profile")
	}
	return profile, nil
}

// Length limits for the free-text profile fields
const (
	maxFullNameLength     = 100
	maxPhoneLength        = 20
	maxOrganizationLength = 200
)

// BuildProfilePatch keeps only the allow-listed keys of a raw JSON patch. An
// allow-listed key sent as null clears the field.
func BuildProfilePatch(raw map[string]interface{}) (models.ProfilePatch, error) {
	var patch models.ProfilePatch

	str := func(key string, maxLength int) (*string, error) {
		v, ok := raw[key]
		if !ok {
			return nil, nil
		}
		if v == nil {
			patch.Clear = append(patch.Clear, key)
			return nil, nil
		}
		s, ok := v.(string)
		if !ok {
			return nil, invalid(key, "must be a string")
		}
		if err := common.ValidateOptionalString(&s, key, maxLength); err != nil {
			return nil, invalid(key, fmt.Sprintf("cannot exceed %d characters", maxLength))
		}
		return &s, nil
	}

	var err error
	if patch.FullName, err = str(models.ProfileFullName, maxFullNameLength); err != nil {
		return patch, err
	}
	if patch.Phone, err = str(models.ProfilePhone, maxPhoneLength); err != nil {
		return patch, err
	}
	if patch.OrganizationName, err = str(models.ProfileOrganizationName, maxOrganizationLength); err != nil {
		return patch, err
	}

	if v, ok := raw[models.ProfilePropertyCount]; ok && v == nil {
		patch.Clear = append(patch.Clear, models.ProfilePropertyCount)
	} else if ok {
		var n float64
		switch t := v.(type) {
		case float64:
			n = t
		case int:
			n = float64(t)
		case json.Number:
			if n, err = t.Float64(); err != nil {
				return patch, invalid("property_count", "must be a whole number")
			}
		default:
			return patch, invalid("property_count", "must be a whole number")
		}
		if n < 0 || n != math.Trunc(n) {
			return patch, invalid("property_count", "must be a non-negative whole number")
		}
		count := int(n)
		patch.PropertyCount = &count
	}

	if patch.Empty() {
		return patch, ErrNoValidFields
	}
	return patch, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, raw map[string]interface{}) (*models.Profile, error) {
	patch, err := BuildProfilePatch(raw)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.Update(ctx, userID, userID, patch)
	if err != nil {
		return nil, repoError(err, "profile")
	}
	return profile, nil
}

func (s *profileService) ListUsers(ctx context.Context, actor models.Actor, role *string, limit, offset int) ([]*models.Profile, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("only admins can list users: %w", ErrForbidden)
	}
	if role != nil && !models.ValidRole(*role) {
		return nil, invalid("role", "must be one of user, pg_owner, admin")
	}

	profiles, err := s.profileRepo.List(ctx, role, limit, offset)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []*models.Profile{}
	}
	return profiles, nil
}

func (s *profileService) SetRole(ctx context.Context, actor models.Actor, userID uuid.UUID, role string) (*models.Profile, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("only admins can change roles: %w", ErrForbidden)
	}
	if !models.ValidRole(role) {
		return nil, invalid("role", "must be one of user, pg_owner, admin")
	}
	if userID == actor.ID {
		return nil, fmt.Errorf("admins cannot change their own role: %w", ErrForbidden)
	}

	profile, err := s.profileRepo.SetRole(ctx, actor.ID, userID, role)
	if err != nil {
		return nil, repoError(err, "profile")
	}

	s.log.Info("role changed",
		zap.String("user_id", userID.String()),
		zap.String("role", role),
		zap.String("admin_id", actor.ID.String()))
	return profile, nil
}
