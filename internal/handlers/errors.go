package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pgpathfinder/internal/common"
	"pgpathfinder/internal/middleware"
	"pgpathfinder/internal/models"
	"pgpathfinder/internal/services"
	"pgpathfinder/pkg/logger"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// respondError maps service errors onto the shared error envelope
func respondError(c echo.Context, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return common.SendValidationError(c, verr.Field, verr.Message)
	case errors.Is(err, services.ErrUnauthenticated):
		return common.SendUnauthorizedError(c, publicMessage(err, services.ErrUnauthenticated))
	case errors.Is(err, services.ErrForbidden):
		return common.SendForbiddenError(c, publicMessage(err, services.ErrForbidden))
	case errors.Is(err, services.ErrNotFound):
		resource := publicMessage(err, services.ErrNotFound)
		if resource == "" {
			resource = "resource"
		}
		return common.SendNotFoundError(c, resource)
	case errors.Is(err, services.ErrInvalidTransition):
		return common.SendConflictError(c, publicMessage(err, services.ErrInvalidTransition))
	case errors.Is(err, services.ErrConflict):
		return common.SendConflictError(c, publicMessage(err, services.ErrConflict))
	case errors.Is(err, services.ErrRateLimited):
		return common.SendTooManyRequestsError(c)
	}

	logger.FromEcho(c).Error("request failed", zap.Error(err))
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return common.SendServerError(c, "Internal server error")
}

// publicMessage drops the trailing sentinel text from a wrapped error. A
// bare sentinel yields "" so the helper's default message is used.
func publicMessage(err, sentinel error) string {
	if err == sentinel {
		return ""
	}
	return strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
}

func invalidParam(c echo.Context, field string, err error) error {
	return common.SendValidationError(c, field, err.Error())
}

// currentActor returns the actor resolved by the role middleware
func currentActor(c echo.Context) (models.Actor, error) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return models.Actor{}, services.ErrUnauthenticated
	}
	return actor, nil
}

// optionalActor returns the actor on optional-auth routes, or nil
func optionalActor(c echo.Context) *models.Actor {
	if actor, ok := middleware.ActorFromContext(c); ok {
		return &actor
	}
	return nil
}

var httpErrorCodes = map[int]string{
	http.StatusBadRequest:            "CLIENT_ERROR",
	http.StatusUnauthorized:          "UNAUTHORIZED",
	http.StatusForbidden:             "FORBIDDEN",
	http.StatusNotFound:              "NOT_FOUND",
	http.StatusMethodNotAllowed:      "METHOD_NOT_ALLOWED",
	http.StatusRequestEntityTooLarge: "PAYLOAD_TOO_LARGE",
	http.StatusTooManyRequests:       "RATE_LIMITED",
	http.StatusServiceUnavailable:    "UNAVAILABLE",
}

// HTTPErrorHandler renders errors raised by echo and the middleware chain
// in the shared error envelope. Handlers write their own responses through
// respondError.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if he.Internal != nil && code >= http.StatusInternalServerError {
			err = he.Internal
		}
		if code < http.StatusInternalServerError {
			message = fmt.Sprint(he.Message)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.FromEcho(c).Error("unhandled error", zap.Error(err), zap.Int("status", code))
		if hub := sentryecho.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		if he != nil && code != http.StatusInternalServerError {
			message = fmt.Sprint(he.Message)
		}
	}

	errCode, ok := httpErrorCodes[code]
	if !ok {
		errCode = "SERVER_ERROR"
		if code < http.StatusInternalServerError {
			errCode = "CLIENT_ERROR"
		}
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, common.CreateErrorResponse(errCode, message, nil))
	}
	if writeErr != nil {
		logger.FromEcho(c).Warn("failed to write error response", zap.Error(writeErr))
	}
}
