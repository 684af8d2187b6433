package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevelFromString(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for input, want := range tests {
		assert.Equal(t, want, levelFromString(input), input)
	}
}

func TestInit_Development(t *testing.T) {
	l, err := Init(LogConfig{Level: "debug", Environment: "development", ServiceName: "pgpathfinder"})
	require.NoError(t, err)
	assert.Same(t, l, L())
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	assert.Same(t, L(), FromContext(context.Background()))

	scoped := zap.NewNop().With(zap.String("k", "v"))
	ctx := WithContext(context.Background(), scoped)
	assert.Same(t, scoped, FromContext(ctx))
}

func TestMiddleware_SetsScopedLogger(t *testing.T) {
	e := echo.New()
	var seen *zap.Logger
	h := Middleware()(func(c echo.Context) error {
		seen = FromEcho(c)
		assert.Same(t, seen, FromContext(c.Request().Context()))
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))

	assert.NotNil(t, seen)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMiddleware_ResolvesHandlerError(t *testing.T) {
	e := echo.New()
	h := Middleware()(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusForbidden, "nope")
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
