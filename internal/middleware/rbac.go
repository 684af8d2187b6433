package middleware

import (
	"context"
	"errors"
	"net/http"

	"pgpathfinder/internal/common"
	"pgpathfinder/internal/models"
	"pgpathfinder/internal/repositories"
	"pgpathfinder/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ActorKey is the echo context key holding the resolved models.Actor
const ActorKey = "actor"

// RoleResolver looks up the authoritative role of a user
type RoleResolver interface {
	GetRole(ctx context.Context, id uuid.UUID) (string, error)
}

type RBACMiddleware struct {
	roles RoleResolver
}

func NewRBACMiddleware(roles RoleResolver) *RBACMiddleware {
	return &RBACMiddleware{
		roles: roles,
	}
}

// RequireRole resolves the caller's role from the database and admits only
// the listed roles. With no roles any signed-up user passes.
func (m *RBACMiddleware) RequireRole(allowed ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			userID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			role, err := m.roles.GetRole(ctx, userID)
			if errors.Is(err, repositories.ErrNotFound) {
				return echo.NewHTTPError(http.StatusForbidden, "Profile not found")
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Error checking role")
			}

			if len(allowed) > 0 && !contains(allowed, role) {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}

			setActor(c, userID, role)
			return next(c)
		}
	}
}

// ResolveActor is RequireRole for optional-auth routes: anonymous requests
// and callers without a profile pass through with no actor set.
func (m *RBACMiddleware) ResolveActor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			userID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return next(c)
			}

			role, err := m.roles.GetRole(ctx, userID)
			if errors.Is(err, repositories.ErrNotFound) {
				return next(c)
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Error checking role")
			}

			setActor(c, userID, role)
			return next(c)
		}
	}
}

// setActor records the database role on the echo and request contexts,
// replacing the role claim stored by the JWT middleware.
func setActor(c echo.Context, userID uuid.UUID, role string) {
	ctx := c.Request().Context()
	if claimed, ok := common.GetRoleFromContext(ctx); ok && claimed != role {
		logger.FromEcho(c).Debug("token role claim differs from profile role",
			zap.String("user_id", userID.String()),
			zap.String("claimed_role", claimed),
			zap.String("role", role))
	}
	c.Set(ActorKey, models.Actor{ID: userID, Role: role})
	c.SetRequest(c.Request().WithContext(common.WithUser(ctx, userID, role)))
}

// ActorFromContext returns the actor resolved by RequireRole
func ActorFromContext(c echo.Context) (models.Actor, bool) {
	actor, ok := c.Get(ActorKey).(models.Actor)
	return actor, ok
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
