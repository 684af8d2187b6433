package models

import (
	"time"

	"github.com/google/uuid"
)

// JSONB is a decoded jsonb column
type JSONB map[string]interface{}

// AuditLog is a change-capture row written by the database trigger
type AuditLog struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    *uuid.UUID `json:"user_id" db:"user_id"`
	UserEmail *string    `json:"user_email" db:"user_email"`
	UserRole  *string    `json:"user_role" db:"user_role"`
	Action    string     `json:"action" db:"action"`
	TableName string     `json:"table_name" db:"table_name"`
	RecordID  *string    `json:"record_id" db:"record_id"`
	OldValues JSONB      `json:"old_values" db:"old_values"`
	NewValues JSONB      `json:"new_values" db:"new_values"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Action constants for audit logs
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// AuditLogFilters represents filters for querying audit logs
type AuditLogFilters struct {
	Action    *string `json:"action"`
	TableName *string `json:"table_name"`
	UserRole  *string `json:"user_role"`
	Search    *string `json:"search"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
}
