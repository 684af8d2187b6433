package services

import (
	"context"
	"fmt"
	"strings"

	"pgpathfinder/internal/common"
	"pgpathfinder/internal/models"
	"pgpathfinder/internal/repositories"
)

const (
	DefaultAuditLimit = 100
	MaxAuditLimit     = 1000
)

type AuditLogsService interface {
	List(ctx context.Context, actor models.Actor, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
}

type auditLogsService struct {
	auditLogsRepo repositories.AuditLogsRepository
}

func NewAuditLogsService(auditLogsRepo repositories.AuditLogsRepository) AuditLogsService {
	return &auditLogsService{
		auditLogsRepo: auditLogsRepo,
	}
}

// NormalizeAuditFilters applies defaults and bounds and validates the
// enumerated filters
func NormalizeAuditFilters(filters *models.AuditLogFilters) (*models.AuditLogFilters, error) {
	if filters == nil {
		filters = &models.AuditLogFilters{}
	}
	if filters.Limit <= 0 {
		filters.Limit = DefaultAuditLimit
	}
	if filters.Limit > MaxAuditLimit {
		filters.Limit = MaxAuditLimit
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	if filters.Action != nil {
		action := strings.ToUpper(strings.TrimSpace(*filters.Action))
		switch action {
		case "":
			filters.Action = nil
		case models.ActionInsert, models.ActionUpdate, models.ActionDelete:
			filters.Action = &action
		default:
			return nil, invalid("action", "must be one of INSERT, UPDATE, DELETE")
		}
	}

	if filters.UserRole != nil {
		if *filters.UserRole == "" {
			filters.UserRole = nil
		} else if !models.ValidRole(*filters.UserRole) {
			return nil, invalid("user_role", "must be one of user, pg_owner, admin")
		}
	}

	if filters.TableName != nil && strings.TrimSpace(*filters.TableName) == "" {
		filters.TableName = nil
	}

	if filters.Search != nil {
		search := common.SanitizeSearchQuery(*filters.Search)
		if search == "" {
			filters.Search = nil
		} else {
			filters.Search = &search
		}
	}

	return filters, nil
}

func (s *auditLogsService) List(ctx context.Context, actor models.Actor, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("only admins can view audit logs: %w", ErrForbidden)
	}

	filters, err := NormalizeAuditFilters(filters)
	if err != nil {
		return nil, err
	}
	return s.auditLogsRepo.List(ctx, filters)
}
