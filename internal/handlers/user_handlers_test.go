package handlers

import (
	"net/http"
	"strings"
	"testing"

	"pgpathfinder/internal/models"
	"pgpathfinder/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateMe_ForwardsRawPatch(t *testing.T) {
	svc := &MockProfileService{}
	h := NewUserHandlers(svc)
	actor := models.Actor{ID: uuid.New(), Role: models.RoleUser}
	name := "Asha Rao"

	// the role key is passed through and dropped by the service allow-list
	svc.On("UpdateProfile", mock.Anything, actor.ID, mock.MatchedBy(func(p map[string]interface{}) bool {
		return p["full_name"] == name && p["role"] == "admin"
	})).Return(&models.Profile{ID: actor.ID, FullName: &name, Role: models.RoleUser}, nil)

	c, rec := newContext(http.MethodPatch, "/", strings.NewReader(`{"full_name":"Asha Rao","role":"admin"}`), echo.MIMEApplicationJSON, &actor)
	require.NoError(t, h.UpdateMe(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"user"`)
	svc.AssertExpectations(t)
}

func TestUpdateMe_NoValidFields(t *testing.T) {
	svc := &MockProfileService{}
	h := NewUserHandlers(svc)
	actor := models.Actor{ID: uuid.New(), Role: models.RoleUser}
	svc.On("UpdateProfile", mock.Anything, actor.ID, mock.Anything).Return(nil, services.ErrNoValidFields)

	c, rec := newContext(http.MethodPatch, "/", strings.NewReader(`{"role":"admin"}`), echo.MIMEApplicationJSON, &actor)
	require.NoError(t, h.UpdateMe(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListUsers_Pagination(t *testing.T) {
	admin := models.Actor{ID: uuid.New(), Role: models.RoleAdmin}

	t.Run("role and paging are forwarded", func(t *testing.T) {
		svc := &MockProfileService{}
		h := NewUserHandlers(svc)
		svc.On("ListUsers", mock.Anything, admin, mock.MatchedBy(func(r *string) bool {
			return r != nil && *r == models.RolePGOwner
		}), 20, 40).Return([]*models.Profile{{ID: uuid.New(), Role: models.RolePGOwner}}, nil)

		c, rec := newContext(http.MethodGet, "/?role=pg_owner&limit=20&offset=40", nil, "", &admin)
		require.NoError(t, h.ListUsers(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total":1`)
	})

	t.Run("non-numeric limit", func(t *testing.T) {
		h := NewUserHandlers(&MockProfileService{})

		c, rec := newContext(http.MethodGet, "/?limit=all", nil, "", &admin)
		require.NoError(t, h.ListUsers(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSetRole(t *testing.T) {
	admin := models.Actor{ID: uuid.New(), Role: models.RoleAdmin}
	target := uuid.New()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"promoted", nil, http.StatusOK},
		{"own role", services.ErrForbidden, http.StatusForbidden},
		{"unknown user", services.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockProfileService{}
			h := NewUserHandlers(svc)
			if tt.err == nil {
				svc.On("SetRole", mock.Anything, admin, target, models.RolePGOwner).
					Return(&models.Profile{ID: target, Role: models.RolePGOwner}, nil)
			} else {
				svc.On("SetRole", mock.Anything, admin, target, models.RolePGOwner).Return(nil, tt.err)
			}

			c, rec := newContext(http.MethodPatch, "/", strings.NewReader(`{"role":" pg_owner "}`), echo.MIMEApplicationJSON, &admin)
			c.SetParamNames("id")
			c.SetParamValues(target.String())
			require.NoError(t, h.SetRole(c))

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestListAuditLogs(t *testing.T) {
	admin := models.Actor{ID: uuid.New(), Role: models.RoleAdmin}

	t.Run("filters from the query string", func(t *testing.T) {
		svc := &MockAuditLogsService{}
		h := NewAuditLogsHandlers(svc)
		svc.On("List", mock.Anything, admin, mock.MatchedBy(func(f *models.AuditLogFilters) bool {
			return f.Action != nil && *f.Action == "update" &&
				f.TableName != nil && *f.TableName == "pg_listings" &&
				f.UserRole == nil && f.Limit == services.DefaultAuditLimit && f.Offset == 0
		})).Return([]*models.AuditLog{{ID: uuid.New(), Action: models.ActionUpdate, TableName: "pg_listings"}}, nil)

		c, rec := newContext(http.MethodGet, "/?action=update&table_name=pg_listings", nil, "", &admin)
		require.NoError(t, h.ListAuditLogs(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"limit":100`)
		svc.AssertExpectations(t)
	})

	t.Run("non-admin", func(t *testing.T) {
		svc := &MockAuditLogsService{}
		h := NewAuditLogsHandlers(svc)
		owner := models.Actor{ID: uuid.New(), Role: models.RolePGOwner}
		svc.On("List", mock.Anything, owner, mock.Anything).Return(nil, services.ErrForbidden)

		c, rec := newContext(http.MethodGet, "/", nil, "", &owner)
		require.NoError(t, h.ListAuditLogs(c))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestDashboardSummary(t *testing.T) {
	svc := &MockDashboardService{}
	h := NewDashboardHandlers(svc)
	tenant := models.Actor{ID: uuid.New(), Role: models.RoleUser}
	svc.On("Summary", mock.Anything, tenant).
		Return(&models.DashboardSummary{Role: models.RoleUser, AvailableListings: 3, Cities: 2}, nil)

	c, rec := newContext(http.MethodGet, "/", nil, "", &tenant)
	require.NoError(t, h.Summary(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"available_listings":3`)
}
