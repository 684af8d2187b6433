package handlers

import (
	"pgpathfinder/internal/middleware"
	"pgpathfinder/internal/models"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// uploadBodyLimit admits a full batch of maximum-size images plus form overhead
const uploadBodyLimit = "110M"

// Handlers groups every HTTP handler registered on the API
type Handlers struct {
	Auth      *AuthHandlers
	Users     *UserHandlers
	Listings  *ListingHandlers
	AuditLogs *AuditLogsHandlers
	Dashboard *DashboardHandlers
	Health    *HealthHandlers
}

// RouteMiddleware carries the authentication chain shared by the groups
type RouteMiddleware struct {
	JWT         echo.MiddlewareFunc
	OptionalJWT echo.MiddlewareFunc
	RBAC        *middleware.RBACMiddleware
	Version     *middleware.VersionMiddleware
}

// RegisterRoutes mounts the v1 API and the health probes on e
func RegisterRoutes(e *echo.Echo, h *Handlers, mw *RouteMiddleware) {
	// Health endpoints (no auth required)
	e.GET("/health", h.Health.HealthCheck)
	e.GET("/health/ready", h.Health.ReadinessCheck)
	e.GET("/health/live", h.Health.LivenessCheck)

	v1 := mw.Version.VersionRoute(e, "v1")

	auth := v1.Group("/auth")
	auth.POST("/signup", h.Auth.SignUp)
	auth.POST("/signin", h.Auth.SignIn)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/signout", h.Auth.SignOut, mw.JWT)
	auth.POST("/password/forgot", h.Auth.ForgotPassword)
	auth.POST("/password/reset", h.Auth.ResetPassword)

	// Public browse; optional identity lets owners and admins see hidden listings
	public := v1.Group("/listings")
	public.GET("", h.Listings.Browse)
	public.GET("/:id", h.Listings.GetListing, mw.OptionalJWT, mw.RBAC.ResolveActor())
	public.GET("/:id/contact", h.Listings.GetContact, mw.OptionalJWT, mw.RBAC.ResolveActor())

	// Any signed-up user
	signedIn := v1.Group("", mw.JWT, mw.RBAC.RequireRole())
	signedIn.GET("/me", h.Users.Me)
	signedIn.PATCH("/me", h.Users.UpdateMe)
	signedIn.GET("/dashboard", h.Dashboard.Summary)

	owner := v1.Group("/owner", mw.JWT, mw.RBAC.RequireRole(models.RolePGOwner))
	owner.GET("/listings", h.Listings.MyListings)
	owner.POST("/listings", h.Listings.CreateListing)
	owner.PUT("/listings/:id", h.Listings.UpdateListing)
	owner.DELETE("/listings/:id", h.Listings.DeleteListing)
	owner.PATCH("/listings/:id/active", h.Listings.SetActive)
	owner.POST("/listings/:id/images", h.Listings.UploadImages, echoMiddleware.BodyLimit(uploadBodyLimit))
	owner.DELETE("/images/:id", h.Listings.DeleteImage)

	admin := v1.Group("/admin", mw.JWT, mw.RBAC.RequireRole(models.RoleAdmin))
	admin.GET("/listings", h.Listings.AdminListings)
	admin.GET("/listings/pending", h.Listings.PendingListings)
	admin.POST("/listings/:id/approve", h.Listings.ApproveListing)
	admin.POST("/listings/:id/reject", h.Listings.RejectListing)
	admin.DELETE("/listings/:id", h.Listings.DeleteListing)
	admin.GET("/users", h.Users.ListUsers)
	admin.PATCH("/users/:id/role", h.Users.SetRole)
	admin.GET("/audit-logs", h.AuditLogs.ListAuditLogs)
}
