package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"pgpathfinder/internal/caching"
	"pgpathfinder/internal/models"
	"pgpathfinder/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6

	tokenIssuer   = "pgpathfinder-auth"
	tokenAudience = "pgpathfinder-api"

	resetTokenTTL   = time.Hour
	rateLimitWindow = time.Minute
	rateLimitMax    = 10
)

// AuthService handles accounts, sessions and JWT management
type AuthService interface {
	SignUp(ctx context.Context, req *models.SignUpRequest) (*models.Profile, error)
	SignIn(ctx context.Context, req *models.SignInRequest, clientIP string) (*models.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*models.Session, error)
	// SignOut denylists the access token until it expires and drops the
	// refresh token when one is given.
	SignOut(ctx context.Context, claims *TokenClaims, refreshToken string) error

	// RequestPasswordReset always succeeds for unknown emails so account
	// existence is not revealed.
	RequestPasswordReset(ctx context.Context, email, clientIP string) error
	ResetPassword(ctx context.Context, req *models.PasswordResetConfirm) error

	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type authService struct {
	credentialRepo repositories.CredentialRepository
	profileRepo    repositories.ProfileRepository
	cacheSvc       caching.CacheService
	notifier       Notifier
	jwtSecret      []byte
	accessTTL      time.Duration
	refreshTTL     time.Duration
	bcryptCost     int
	log            *zap.Logger
	now            func() time.Time
}

// TokenClaims represents JWT claims. Subject is the user id and ID the
// token id used by the denylist.
type TokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim
func (c *TokenClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// NewAuthService creates a new authentication service
func NewAuthService(credentialRepo repositories.CredentialRepository, profileRepo repositories.ProfileRepository, cacheSvc caching.CacheService, notifier Notifier, jwtSecret string, accessTTL, refreshTTL time.Duration, log *zap.Logger) AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &authService{
		credentialRepo: credentialRepo,
		profileRepo:    profileRepo,
		cacheSvc:       cacheSvc,
		notifier:       notifier,
		jwtSecret:      []byte(jwtSecret),
		accessTTL:      accessTTL,
		refreshTTL:     refreshTTL,
		bcryptCost:     bcrypt.DefaultCost,
		log:            log,
		now:            time.Now,
	}
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email", "is not a valid email address")
	}
	return nil
}

func validatePasswordPair(password, confirm string) error {
	if len(password) < MinPasswordLength {
		return invalid("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if password != confirm {
		return invalid("confirm_password", "passwords do not match")
	}
	return nil
}

func (s *authService) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.Profile, error) {
	if req == nil {
		return nil, invalid("body", "signup details are required")
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := validatePasswordPair(req.Password, req.ConfirmPassword); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, invalid("full_name", "is required")
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RolePGOwner {
		return nil, invalid("role", "must be user or pg_owner")
	}
	if req.PropertyCount != nil && *req.PropertyCount < 0 {
		return nil, invalid("property_count", "cannot be negative")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	fullName := strings.TrimSpace(req.FullName)
	profile := &models.Profile{
		ID:               uuid.New(),
		Email:            req.Email,
		FullName:         &fullName,
		Phone:            req.Phone,
		Role:             role,
		OrganizationName: req.OrganizationName,
		PropertyCount:    req.PropertyCount,
	}

	if err := s.credentialRepo.CreateAccount(ctx, profile, string(hash)); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("an account with this email already exists: %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.log.Info("account created", zap.String("user_id", profile.ID.String()), zap.String("role", role))
	return profile, nil
}

func (s *authService) checkRateLimit(ctx context.Context, scope, clientIP string) error {
	if clientIP == "" {
		return nil
	}
	limited, err := s.cacheSvc.IsRateLimited(ctx, scope+":"+clientIP, rateLimitMax, rateLimitWindow)
	if err != nil {
		s.log.Warn("rate limit check failed", zap.String("scope", scope), zap.Error(err))
		return nil
	}
	if limited {
		return ErrRateLimited
	}
	return nil
}

func (s *authService) SignIn(ctx context.Context, req *models.SignInRequest, clientIP string) (*models.Session, error) {
	if req == nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, invalid("credentials", "email and password are required")
	}
	if err := s.checkRateLimit(ctx, "signin", clientIP); err != nil {
		return nil, err
	}

	cred, err := s.credentialRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.profileRepo.GetByID(ctx, cred.UserID)
	if err != nil {
		return nil, repoError(err, "profile")
	}
	return s.issueSession(ctx, profile)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	if refreshToken == "" {
		return nil, invalid("refresh_token", "is required")
	}

	// rotate: the presented token is single use
	userID, ok, err := s.cacheSvc.ConsumeRefreshToken(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh token: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("invalid refresh token: %w", ErrUnauthenticated)
	}

	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, repoError(err, "profile")
	}
	return s.issueSession(ctx, profile)
}

func (s *authService) issueSession(ctx context.Context, profile *models.Profile) (*models.Session, error) {
	now := s.now()
	tokenID := uuid.NewString()

	claims := TokenClaims{
		Role: profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   profile.ID.String(),
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	refreshToken, err := generateSecureToken()
	if err != nil {
		return nil, err
	}
	if err := s.cacheSvc.SetRefreshToken(ctx, hashToken(refreshToken), profile.ID, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.Session{
		Token: models.TokenResponse{
			AccessToken:  accessToken,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.accessTTL.Seconds()),
			RefreshToken: refreshToken,
			UserID:       profile.ID.String(),
			Role:         profile.Role,
			TokenID:      tokenID,
			IssuedAt:     now,
		},
		Profile: profile,
	}, nil
}

func (s *authService) SignOut(ctx context.Context, claims *TokenClaims, refreshToken string) error {
	if claims == nil || claims.ID == "" {
		return fmt.Errorf("no active session: %w", ErrUnauthenticated)
	}

	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if err := s.cacheSvc.RevokeToken(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	if refreshToken != "" {
		if err := s.cacheSvc.DeleteRefreshToken(ctx, hashToken(refreshToken)); err != nil {
			s.log.Warn("failed to delete refresh token on sign out", zap.Error(err))
		}
	}
	return nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email, clientIP string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := s.checkRateLimit(ctx, "reset", clientIP); err != nil {
		return err
	}

	cred, err := s.credentialRepo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}

	token, err := generateSecureToken()
	if err != nil {
		return err
	}
	if err := s.cacheSvc.SetResetToken(ctx, hashToken(token), cred.UserID, resetTokenTTL); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return s.notifier.SendPasswordReset(ctx, cred.Email, token)
}

func (s *authService) ResetPassword(ctx context.Context, req *models.PasswordResetConfirm) error {
	if req == nil || req.Token == "" {
		return invalid("token", "is required")
	}
	if err := validatePasswordPair(req.Password, req.ConfirmPassword); err != nil {
		return err
	}

	userID, ok, err := s.cacheSvc.ConsumeResetToken(ctx, hashToken(req.Token))
	if err != nil {
		return fmt.Errorf("failed to read reset token: %w", err)
	}
	if !ok {
		return invalid("token", "is invalid or has expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.credentialRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return repoError(err, "account")
	}

	s.log.Info("password reset", zap.String("user_id", userID.String()))
	return nil
}

// ValidateToken validates JWT access token
func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("token validation failed: %w", ErrUnauthenticated)
	}

	revoked, err := s.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("token has been revoked: %w", ErrUnauthenticated)
	}
	return claims, nil
}

func (s *authService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return s.cacheSvc.IsTokenRevoked(ctx, tokenID)
}

// generateSecureToken generates a cryptographically secure random token
func generateSecureToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// hashToken creates a SHA-256 hash of the token for storage
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
