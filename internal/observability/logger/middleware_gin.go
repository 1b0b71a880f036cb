package logger

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/smallbiznis/labelworks/internal/observability/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ActorHeader carries the username of the staff member making the request.
const ActorHeader = "X-Actor"

// MiddlewareConfig controls request logging behavior.
type MiddlewareConfig struct {
	Debug           bool
	ErrorClassifier func(err error) (string, string)
}

// maxRequestIDLength bounds client supplied request ids.
const maxRequestIDLength = 128

// GinMiddleware binds the request id, client and actor to the request
// context and writes one log line when the handler chain finishes.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(requestContext(c, ensureRequestID(c)))

		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		fields := requestFields(c, route, start)

		var errorType string
		if lastErr := c.Errors.Last(); lastErr != nil {
			var errorCode string
			if cfg.ErrorClassifier != nil {
				errorType, errorCode = cfg.ErrorClassifier(lastErr.Err)
			}
			fields = append(fields,
				zap.String("error_type", errorType),
				zap.String("error_code", errorCode),
			)
			if cfg.Debug {
				fields = append(fields, zap.Stack("stack"))
			}
		}

		logRequest(FromContext(c.Request.Context()), route, c.Writer.Status(), errorType, fields)
	}
}

func requestContext(c *gin.Context, requestID string) context.Context {
	ctx := obscontext.WithRequestID(c.Request.Context(), requestID)
	ctx = obscontext.WithClient(ctx, c.ClientIP(), c.Request.UserAgent())
	if actor := strings.TrimSpace(c.GetHeader(ActorHeader)); actor != "" {
		ctx = obscontext.WithActor(ctx, actor)
	}
	return ctx
}

func requestFields(c *gin.Context, route string, start time.Time) []zap.Field {
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("route", route),
		zap.Int("status", c.Writer.Status()),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		zap.Int64("bytes_in", nonNegative(c.Request.ContentLength)),
		zap.Int64("bytes_out", nonNegative(int64(c.Writer.Size()))),
	}
	if orderNumber := strings.TrimSpace(c.GetString("order_number")); orderNumber != "" {
		fields = append(fields, zap.String("order_number", orderNumber))
	}
	if contentType := c.Writer.Header().Get("Content-Type"); contentType != "" && !strings.HasPrefix(contentType, "application/json") {
		fields = append(fields, zap.String("content_type", contentType))
	}
	return fields
}

// ensureRequestID reuses the caller's X-Request-Id when it is usable and
// echoes the id back on the response.
func ensureRequestID(c *gin.Context) string {
	requestID := strings.TrimSpace(c.GetHeader("X-Request-Id"))
	if requestID == "" {
		requestID = strings.TrimSpace(c.GetString("request_id"))
	}
	if requestID == "" || len(requestID) > maxRequestIDLength {
		requestID = uuid.NewString()
	}

	c.Set("request_id", requestID)
	c.Header("X-Request-Id", requestID)
	return requestID
}

func logRequest(log *zap.Logger, route string, status int, errorType string, fields []zap.Field) {
	if log == nil {
		return
	}
	if ce := log.Check(requestLevel(route, status, errorType), "http_request"); ce != nil {
		ce.Write(fields...)
	}
}

// requestLevel keeps probes quiet and logs rejected input below other
// client errors.
func requestLevel(route string, status int, errorType string) zapcore.Level {
	switch {
	case isProbe(route):
		return zapcore.DebugLevel
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest && errorType != "validation_error":
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

func isProbe(route string) bool {
	switch strings.ToLower(strings.TrimSpace(route)) {
	case "/metrics", "/health":
		return true
	default:
		return false
	}
}

func nonNegative(value int64) int64 {
	if value < 0 {
		return 0
	}
	return value
}
