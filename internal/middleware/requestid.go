package middleware

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/segmentio/ksuid"
)

// RequestID tags every request with a KSUID, reusing an incoming
// X-Request-ID when the caller supplies one.
func RequestID() echo.MiddlewareFunc {
	return echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
		Generator: func() string {
			return ksuid.New().String()
		},
	})
}
