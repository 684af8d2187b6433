package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pgpathfinder/internal/common"
	"pgpathfinder/internal/models"
	"pgpathfinder/internal/repositories"
	"pgpathfinder/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

type fakeChecker struct {
	revoked map[string]bool
	err     error
}

func (f *fakeChecker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return f.revoked[tokenID], f.err
}

type fakeRoles map[uuid.UUID]string

func (f fakeRoles) GetRole(_ context.Context, id uuid.UUID) (string, error) {
	role, ok := f[id]
	if !ok {
		return "", repositories.ErrNotFound
	}
	return role, nil
}

func signToken(t *testing.T, secret string, userID uuid.UUID, jti string, ttl time.Duration) string {
	t.Helper()
	claims := services.TokenClaims{
		Role: models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func serve(mw echo.MiddlewareFunc, authHeader string, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET("/", handler, mw)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddleware(t *testing.T) {
	userID := uuid.New()
	checker := &fakeChecker{revoked: map[string]bool{"revoked-jti": true}}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer " + signToken(t, testSecret, userID, "jti-1", time.Minute), http.StatusOK},
		{"missing token", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", userID, "jti-2", time.Minute), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, testSecret, userID, "jti-3", -time.Minute), http.StatusUnauthorized},
		{"revoked", "Bearer " + signToken(t, testSecret, userID, "revoked-jti", time.Minute), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(JWTMiddleware(checker, testSecret, nil), tt.header, func(c echo.Context) error {
				id, ok := common.GetUserIDFromContext(c.Request().Context())
				require.True(t, ok)
				assert.Equal(t, userID, id)
				claims, ok := ClaimsFromContext(c)
				require.True(t, ok)
				assert.Equal(t, "jti-1", claims.ID)
				return c.NoContent(http.StatusOK)
			})
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestJWTMiddleware_DenylistUnavailable(t *testing.T) {
	checker := &fakeChecker{err: errors.New("redis down")}
	header := "Bearer " + signToken(t, testSecret, uuid.New(), "jti", time.Minute)

	rec := serve(JWTMiddleware(checker, testSecret, nil), header, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestOptionalJWTMiddleware(t *testing.T) {
	checker := &fakeChecker{}
	userID := uuid.New()

	rec := serve(OptionalJWTMiddleware(checker, testSecret, nil), "", func(c echo.Context) error {
		_, ok := common.GetUserIDFromContext(c.Request().Context())
		assert.False(t, ok)
		return c.NoContent(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(OptionalJWTMiddleware(checker, testSecret, nil), "Bearer "+signToken(t, testSecret, userID, "j", time.Minute), func(c echo.Context) error {
		id, ok := common.GetUserIDFromContext(c.Request().Context())
		assert.True(t, ok)
		assert.Equal(t, userID, id)
		return c.NoContent(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(OptionalJWTMiddleware(checker, testSecret, nil), "Bearer garbage", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	owner := uuid.New()
	tenant := uuid.New()
	rbac := NewRBACMiddleware(fakeRoles{owner: models.RolePGOwner, tenant: models.RoleUser})

	tests := []struct {
		name    string
		userID  *uuid.UUID
		allowed []string
		status  int
	}{
		{"owner allowed", &owner, []string{models.RolePGOwner}, http.StatusOK},
		{"tenant refused", &tenant, []string{models.RolePGOwner, models.RoleAdmin}, http.StatusForbidden},
		{"any role", &tenant, nil, http.StatusOK},
		{"unknown profile", func() *uuid.UUID { id := uuid.New(); return &id }(), nil, http.StatusForbidden},
		{"unauthenticated", nil, nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != nil {
				// token role is deliberately wrong; the database role wins
				req = req.WithContext(common.WithUser(req.Context(), *tt.userID, models.RoleAdmin))
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := rbac.RequireRole(tt.allowed...)(func(c echo.Context) error {
				actor, ok := ActorFromContext(c)
				require.True(t, ok)
				assert.NotEqual(t, models.RoleAdmin, actor.Role)
				role, ok := common.GetRoleFromContext(c.Request().Context())
				require.True(t, ok)
				assert.Equal(t, actor.Role, role)
				return c.NoContent(http.StatusOK)
			})

			err := handler(c)
			if tt.status == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}
			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, tt.status, he.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	rec := serve(RequestID(), "", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 27)
}

func TestVersionMiddleware(t *testing.T) {
	assert.Equal(t, "v1", extractVersionFromPath("/v1/listings"))
	assert.Equal(t, "v12", extractVersionFromPath("/v12"))
	assert.Equal(t, "", extractVersionFromPath("/health"))
	assert.Equal(t, "", extractVersionFromPath("/vx/listings"))

	vm := NewVersionMiddleware()
	e := echo.New()
	e.Use(vm.APIVersionResolver())
	vm.VersionRoute(e, "v1").GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v2/ping", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
