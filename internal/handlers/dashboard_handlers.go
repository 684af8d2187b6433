package handlers

import (
	"net/http"

	"pgpathfinder/internal/services"

	"github.com/labstack/echo/v4"
)

type DashboardHandlers struct {
	dashboardService services.DashboardService
}

func NewDashboardHandlers(dashboardService services.DashboardService) *DashboardHandlers {
	return &DashboardHandlers{dashboardService: dashboardService}
}

// Summary godoc
// @Summary Role-specific dashboard counts
// @Tags dashboard
// @Security BearerAuth
// @Success 200 {object} models.DashboardSummary
// @Router /v1/dashboard [get]
func (h *DashboardHandlers) Summary(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	summary, err := h.dashboardService.Summary(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
