package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"pgpathfinder/internal/models"
)

// AuditLogsRepository is read-only. Rows are produced by the database
// trigger on profiles, pg_listings and pg_images.
type AuditLogsRepository interface {
	List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
}

type auditLogsRepo struct {
	db DB
}

func NewAuditLogsRepo(db DB) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

func (r *auditLogsRepo) List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	if filters == nil {
		filters = &models.AuditLogFilters{}
	}

	query := `
		SELECT id, user_id, user_email, user_role, action, table_name, record_id, old_values, new_values, created_at
		FROM audit_logs
		WHERE 1=1
	`
	args := []interface{}{}
	argIndex := 1

	if filters.Action != nil {
		query += fmt.Sprintf(" AND action = $%d", argIndex)
		args = append(args, *filters.Action)
		argIndex++
	}

	if filters.TableName != nil {
		query += fmt.Sprintf(" AND table_name = $%d", argIndex)
		args = append(args, *filters.TableName)
		argIndex++
	}

	if filters.UserRole != nil {
		query += fmt.Sprintf(" AND user_role = $%d", argIndex)
		args = append(args, *filters.UserRole)
		argIndex++
	}

	if filters.Search != nil && *filters.Search != "" {
		query += fmt.Sprintf(" AND (user_email ILIKE $%d OR action ILIKE $%d OR table_name ILIKE $%d)", argIndex, argIndex, argIndex)
		args = append(args, "%"+*filters.Search+"%")
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*models.AuditLog{}
	for rows.Next() {
		entry := &models.AuditLog{}
		var oldValuesBytes, newValuesBytes []byte

		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.UserEmail,
			&entry.UserRole,
			&entry.Action,
			&entry.TableName,
			&entry.RecordID,
			&oldValuesBytes,
			&newValuesBytes,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}

		if len(oldValuesBytes) > 0 {
			if err := json.Unmarshal(oldValuesBytes, &entry.OldValues); err != nil {
				return nil, fmt.Errorf("failed to unmarshal old_values: %w", err)
			}
		}
		if len(newValuesBytes) > 0 {
			if err := json.Unmarshal(newValuesBytes, &entry.NewValues); err != nil {
				return nil, fmt.Errorf("failed to unmarshal new_values: %w", err)
			}
		}

		logs = append(logs, entry)
	}

	return logs, rows.Err()
}
