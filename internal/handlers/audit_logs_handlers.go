package handlers

import (
	"net/http"

	"pgpathfinder/internal/common"
	"pgpathfinder/internal/models"
	"pgpathfinder/internal/services"

	"github.com/labstack/echo/v4"
)

// AuditLogsHandlers handles audit logs related HTTP requests
type AuditLogsHandlers struct {
	auditLogsService services.AuditLogsService
}

// NewAuditLogsHandlers creates a new audit logs handlers instance
func NewAuditLogsHandlers(auditLogsService services.AuditLogsService) *AuditLogsHandlers {
	return &AuditLogsHandlers{
		auditLogsService: auditLogsService,
	}
}

func optionalQuery(c echo.Context, name string) *string {
	if v := c.QueryParam(name); v != "" {
		return &v
	}
	return nil
}

// ListAuditLogs godoc
// @Summary Audit trail, newest first
// @Tags admin
// @Security BearerAuth
// @Param action query string false "INSERT, UPDATE or DELETE"
// @Param table_name query string false "Table name"
// @Param user_role query string false "Role of the acting user"
// @Param search query string false "Matches email, table or record id"
// @Param limit query int false "Page size, default 100, max 1000"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.AuditLog
// @Router /v1/admin/audit-logs [get]
func (h *AuditLogsHandlers) ListAuditLogs(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	filters := &models.AuditLogFilters{
		Action:    optionalQuery(c, "action"),
		TableName: optionalQuery(c, "table_name"),
		UserRole:  optionalQuery(c, "user_role"),
		Search:    optionalQuery(c, "search"),
	}
	if filters.Limit, err = common.QueryInt(c, "limit", services.DefaultAuditLimit); err != nil {
		return invalidParam(c, "limit", err)
	}
	if filters.Offset, err = common.QueryInt(c, "offset", 0); err != nil {
		return invalidParam(c, "offset", err)
	}

	logs, err := h.auditLogsService.List(c.Request().Context(), actor, filters)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   logs,
		"total":  len(logs),
		"limit":  filters.Limit,
		"offset": filters.Offset,
	})
}
