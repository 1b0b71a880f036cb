package logger

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/labelworks/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestRequestLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, requestLevel("/health", http.StatusInternalServerError, ""))
	assert.Equal(t, zapcore.ErrorLevel, requestLevel("/api/orders", http.StatusInternalServerError, "internal_error"))
	assert.Equal(t, zapcore.WarnLevel, requestLevel("/api/orders/:id", http.StatusNotFound, "not_found"))
	assert.Equal(t, zapcore.InfoLevel, requestLevel("/api/orders", http.StatusBadRequest, "validation_error"))
	assert.Equal(t, zapcore.InfoLevel, requestLevel("/api/orders", http.StatusOK, ""))
}

func TestGinMiddlewareBindsRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{}))

	var actor, requestID string
	r.GET("/ping", func(c *gin.Context) {
		actor = obscontext.ActorFromContext(c.Request.Context())
		requestID = obscontext.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(ActorHeader, " suzuki ")
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "suzuki", actor)
	assert.Equal(t, "req-42", requestID)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))
}

func TestGinMiddlewareReplacesOversizedRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", strings.Repeat("x", maxRequestIDLength+1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	got := rec.Header().Get("X-Request-Id")
	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), maxRequestIDLength)
}
