package handlers

import (
	"net/http"

	"pgpathfinder/internal/common"
	"pgpathfinder/internal/middleware"
	"pgpathfinder/internal/models"
	"pgpathfinder/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles signup, signin and session endpoints
type AuthHandlers struct {
	authService services.AuthService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// SignUp godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.SignUpRequest true "Signup form"
// @Success 201 {object} models.Profile
// @Failure 400 {object} common.ErrorResponse
// @Failure 409 {object} common.ErrorResponse
// @Router /v1/auth/signup [post]
func (h *AuthHandlers) SignUp(c echo.Context) error {
	var req models.SignUpRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	profile, err := h.authService.SignUp(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, profile)
}

// SignIn godoc
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.SignInRequest true "Credentials"
// @Success 200 {object} models.Session
// @Failure 401 {object} common.ErrorResponse
// @Failure 429 {object} common.ErrorResponse
// @Router /v1/auth/signin [post]
func (h *AuthHandlers) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	session, err := h.authService.SignIn(c.Request().Context(), &req, c.RealIP())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// Refresh godoc
// @Summary Rotate the refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} models.Session
// @Failure 401 {object} common.ErrorResponse
// @Router /v1/auth/refresh [post]
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req models.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	session, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// SignOut godoc
// @Summary Revoke the current session
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Router /v1/auth/signout [post]
func (h *AuthHandlers) SignOut(c echo.Context) error {
	var req models.RefreshTokenRequest
	// the refresh token is optional
	_ = c.Bind(&req)

	claims, _ := middleware.ClaimsFromContext(c)
	if err := h.authService.SignOut(c.Request().Context(), claims, req.RefreshToken); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Description Always succeeds so account existence is not revealed
// @Tags auth
// @Accept json
// @Param body body models.PasswordResetRequest true "Account email"
// @Success 202
// @Router /v1/auth/password/forgot [post]
func (h *AuthHandlers) ForgotPassword(c echo.Context) error {
	var req models.PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	if err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email, c.RealIP()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "If an account exists for this email, a reset link has been sent",
	})
}

// ResetPassword godoc
// @Summary Set a new password with a reset token
// @Tags auth
// @Accept json
// @Param body body models.PasswordResetConfirm true "Reset token and new password"
// @Success 204
// @Failure 400 {object} common.ErrorResponse
// @Router /v1/auth/password/reset [post]
func (h *AuthHandlers) ResetPassword(c echo.Context) error {
	var req models.PasswordResetConfirm
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	if err := h.authService.ResetPassword(c.Request().Context(), &req); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
