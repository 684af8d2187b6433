package middleware

import (
	"context"
	"errors"
	"net/http"

	"pgpathfinder/internal/common"
	"pgpathfinder/internal/services"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// ClaimsKey is the echo context key holding the parsed *services.TokenClaims
const ClaimsKey = "claims"

// TokenRevocationChecker reports whether a token id is on the denylist
type TokenRevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// JWTMiddleware requires a valid bearer token. Tokens are HS256 signed with
// jwtSecret unless jwks is set, in which case keys come from the remote set.
func JWTMiddleware(checker TokenRevocationChecker, jwtSecret string, jwks *keyfunc.JWKS) echo.MiddlewareFunc {
	return jwtMiddleware(checker, jwtSecret, jwks, false)
}

// OptionalJWTMiddleware authenticates the request when a bearer token is
// present and lets anonymous requests through. A malformed or revoked
// token is still rejected.
func OptionalJWTMiddleware(checker TokenRevocationChecker, jwtSecret string, jwks *keyfunc.JWKS) echo.MiddlewareFunc {
	return jwtMiddleware(checker, jwtSecret, jwks, true)
}

func jwtMiddleware(checker TokenRevocationChecker, jwtSecret string, jwks *keyfunc.JWKS, optional bool) echo.MiddlewareFunc {
	config := echojwt.Config{
		SigningKey: []byte(jwtSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(services.TokenClaims)
		},
		ContinueOnIgnoredError: optional,
		ErrorHandler: func(c echo.Context, err error) error {
			if optional && errors.Is(err, echojwt.ErrJWTMissing) {
				return nil
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or missing token")
		},
	}
	if jwks != nil {
		config.KeyFunc = jwks.Keyfunc
	}
	parse := echojwt.WithConfig(config)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return parse(func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				// anonymous request on an optional route
				return next(c)
			}
			claims, ok := token.Claims.(*services.TokenClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user_id format")
			}

			ctx := c.Request().Context()
			revoked, err := checker.IsRevoked(ctx, claims.ID)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Unable to verify session")
			}
			if revoked {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token has been revoked")
			}

			c.Set(ClaimsKey, claims)
			c.SetRequest(c.Request().WithContext(common.WithUser(ctx, userID, claims.Role)))
			return next(c)
		})
	}
}

// ClaimsFromContext returns the claims stored by the JWT middleware
func ClaimsFromContext(c echo.Context) (*services.TokenClaims, bool) {
	claims, ok := c.Get(ClaimsKey).(*services.TokenClaims)
	return claims, ok
}
