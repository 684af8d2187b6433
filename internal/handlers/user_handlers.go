package handlers

import (
	"net/http"
	"strings"

	"pgpathfinder/internal/common"
	"pgpathfinder/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers serves the caller's own profile and the admin user list
type UserHandlers struct {
	profileService services.ProfileService
}

func NewUserHandlers(profileService services.ProfileService) *UserHandlers {
	return &UserHandlers{profileService: profileService}
}

// Me godoc
// @Summary Current user's profile
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Profile
// @Router /v1/me [get]
func (h *UserHandlers) Me(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	profile, err := h.profileService.GetProfile(c.Request().Context(), actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateMe godoc
// @Summary Update the caller's profile
// @Description Only full_name, phone, organization_name and property_count are applied
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} models.Profile
// @Failure 400 {object} common.ErrorResponse
// @Router /v1/me [patch]
func (h *UserHandlers) UpdateMe(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	var patch map[string]interface{}
	if err := c.Bind(&patch); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	profile, err := h.profileService.UpdateProfile(c.Request().Context(), actor.ID, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// ListUsers godoc
// @Summary List profiles
// @Tags admin
// @Security BearerAuth
// @Param role query string false "user, pg_owner or admin"
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {array} models.Profile
// @Router /v1/admin/users [get]
func (h *UserHandlers) ListUsers(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	limit, err := common.QueryInt(c, "limit", 50)
	if err != nil {
		return invalidParam(c, "limit", err)
	}
	offset, err := common.QueryInt(c, "offset", 0)
	if err != nil {
		return invalidParam(c, "offset", err)
	}
	limit, offset, err = common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return invalidParam(c, "offset", err)
	}

	var role *string
	if r := strings.TrimSpace(c.QueryParam("role")); r != "" {
		role = &r
	}

	profiles, err := h.profileService.ListUsers(c.Request().Context(), actor, role, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   profiles,
		"total":  len(profiles),
		"limit":  limit,
		"offset": offset,
	})
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// SetRole godoc
// @Summary Change a user's role
// @Tags admin
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.Profile
// @Failure 403 {object} common.ErrorResponse
// @Router /v1/admin/users/{id}/role [patch]
func (h *UserHandlers) SetRole(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	userID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return invalidParam(c, "id", err)
	}

	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	profile, err := h.profileService.SetRole(c.Request().Context(), actor, userID, strings.TrimSpace(req.Role))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}
