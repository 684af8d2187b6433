package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"pgpathfinder/internal/caching"
	"pgpathfinder/internal/config"
	_ "pgpathfinder/internal/docs"
	"pgpathfinder/internal/handlers"
	"pgpathfinder/internal/jobs/background"
	"pgpathfinder/internal/middleware"
	"pgpathfinder/internal/repositories"
	"pgpathfinder/internal/services"
	"pgpathfinder/pkg/database"
	"pgpathfinder/pkg/logger"
	"pgpathfinder/pkg/metrics"
)

const version = "1.0.0"

// @title PG Pathfinder API
// @version 1.0
// @description Paying-guest listing marketplace: browse, owner listings, admin moderation.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.Init(logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	if cfg.JWT.Generated {
		zlog.Warn("JWT_SECRET not set, using a generated development secret; sessions will not survive a restart")
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Server.Env,
			Release:          cfg.ServiceName + "@" + version,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
		}); err != nil {
			zlog.Error("Sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DB.URL, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if cfg.DB.Migrate {
		if err := database.Migrate(ctx, pool, zlog); err != nil {
			zlog.Fatal("Failed to apply schema", zap.Error(err))
		}
	}

	storage, err := services.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey,
		cfg.Minio.UseSSL, cfg.Minio.Bucket, cfg.Minio.PublicURL)
	if err != nil {
		zlog.Fatal("Failed to initialize MinIO client", zap.Error(err))
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		// uploads fail until storage is reachable; browse keeps working
		zlog.Warn("Image bucket not ready", zap.String("bucket", cfg.Minio.Bucket), zap.Error(err))
	}

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, zlog)

	// Create repositories
	listingRepo := repositories.NewListingRepo(pool)
	imageRepo := repositories.NewListingImageRepo(pool)
	profileRepo := repositories.NewProfileRepo(pool)
	credentialRepo := repositories.NewCredentialRepo(pool)
	contactRepo := repositories.NewContactRepo(pool)
	auditLogsRepo := repositories.NewAuditLogsRepo(pool)

	// Create services
	listingSvc := services.NewListingService(listingRepo, imageRepo, storage, cacheSvc, cfg.ListingCacheTTL, zlog)
	imageSvc := services.NewImageService(listingRepo, imageRepo, storage, cacheSvc, zlog)
	contactSvc := services.NewContactService(contactRepo)
	profileSvc := services.NewProfileService(profileRepo, zlog)
	authSvc := services.NewAuthService(credentialRepo, profileRepo, cacheSvc, services.NewLogNotifier(zlog),
		cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, zlog)
	auditLogsSvc := services.NewAuditLogsService(auditLogsRepo)
	dashboardSvc := services.NewDashboardService(listingSvc, listingRepo, profileRepo)

	var jwks *keyfunc.JWKS
	if cfg.JWT.JWKSURL != "" {
		jwks, err = keyfunc.Get(cfg.JWT.JWKSURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				zlog.Warn("JWKS refresh failed", zap.Error(err))
			},
		})
		if err != nil {
			zlog.Fatal("Failed to load JWKS", zap.String("url", cfg.JWT.JWKSURL), zap.Error(err))
		}
		defer jwks.EndBackground()
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	httpMetrics := metrics.NewHTTPMetrics(cfg.ServiceName)
	versionMiddleware := middleware.NewVersionMiddleware()

	// Global middleware
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(middleware.RequestID())
	e.Use(httpMetrics.Middleware())
	e.Use(logger.Middleware())
	e.Use(echoMiddleware.Recover())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(versionMiddleware.APIVersionResolver())

	handlers.RegisterRoutes(e, &handlers.Handlers{
		Auth:      handlers.NewAuthHandlers(authSvc),
		Users:     handlers.NewUserHandlers(profileSvc),
		Listings:  handlers.NewListingHandlers(listingSvc, imageSvc, contactSvc),
		AuditLogs: handlers.NewAuditLogsHandlers(auditLogsSvc),
		Dashboard: handlers.NewDashboardHandlers(dashboardSvc),
		Health:    handlers.NewHealthHandlers(pool, cacheSvc, storage, version),
	}, &handlers.RouteMiddleware{
		JWT:         middleware.JWTMiddleware(authSvc, cfg.JWT.Secret, jwks),
		OptionalJWT: middleware.OptionalJWTMiddleware(authSvc, cfg.JWT.Secret, jwks),
		RBAC:        middleware.NewRBACMiddleware(profileRepo),
		Version:     versionMiddleware,
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	var scheduler *background.JobScheduler
	if cfg.JobsEnabled {
		scheduler, err = background.NewJobScheduler(listingSvc, imageSvc, background.DefaultOptions(), zlog)
		if err != nil {
			zlog.Fatal("Failed to create job scheduler", zap.Error(err))
		}
		scheduler.Start()
	}

	zlog.Info("PG Pathfinder server starting", append(cfg.LogFields(), zap.String("version", version))...)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server shutdown error", zap.Error(err))
	}
	if scheduler != nil {
		if err := scheduler.Stop(); err != nil {
			zlog.Error("Job scheduler shutdown error", zap.Error(err))
		}
	}
}
