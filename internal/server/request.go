package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/labelworks/internal/observability/context"
	obslogger "github.com/smallbiznis/labelworks/internal/observability/logger"
	"github.com/smallbiznis/labelworks/internal/schema"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func readBody(c *gin.Context) ([]byte, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		return nil, newValidationError("body", schema.CodeInvalidFormat, "request body could not be read")
	}
	return raw, nil
}

// bindBody decodes a full JSON entity.
func bindBody(c *gin.Context, dst any) bool {
	raw, err := readBody(c)
	if err == nil {
		err = schema.Decode(raw, dst)
	}
	if err != nil {
		AbortWithError(c, err)
		return false
	}
	return true
}

// bindPatch decodes a partial JSON entity and returns the fields it named.
func bindPatch(c *gin.Context, dst any) ([]string, bool) {
	raw, err := readBody(c)
	var fields []string
	if err == nil {
		fields, err = schema.DecodePatch(raw, dst)
	}
	if err != nil {
		AbortWithError(c, err)
		return nil, false
	}
	return fields, true
}

func pathID(c *gin.Context) string {
	return strings.TrimSpace(c.Param("id"))
}

// record writes an audit entry and counts the mutation. Audit failures are
// logged and never fail the request.
func (s *Server) record(c *gin.Context, action, targetType, targetID string, metadata map[string]any) {
	ctx := c.Request.Context()
	s.obsMetrics.RecordMutation(ctx, targetType, action)
	if s.auditSvc == nil {
		return
	}
	if err := s.auditSvc.Record(ctx, action, targetType, targetID, metadata); err != nil {
		obslogger.FromContext(ctx).Warn("audit record failed",
			zap.String("action", action),
			zap.String("target_type", targetType),
			zap.Error(err),
		)
	}
}

func actorOf(c *gin.Context) string {
	return obscontext.ActorFromContext(c.Request.Context())
}
