package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/labelworks/pkg/db/pagination"
)

// ListAuditLogRequest filters the trail. StartAt and EndAt are inclusive.
type ListAuditLogRequest struct {
	pagination.Pagination
	Action     string
	TargetType string
	TargetID   string
	StartAt    *time.Time
	EndAt      *time.Time
}

type ListAuditLogResponse struct {
	pagination.PageInfo
	AuditLogs []AuditLog `json:"auditLogs"`
}

// Recorder appends one entry for a mutation. The actor, request id and
// client address are taken from ctx.
type Recorder interface {
	Record(ctx context.Context, action, targetType, targetID string, metadata map[string]any) error
}

type Service interface {
	Recorder
	List(ctx context.Context, req ListAuditLogRequest) (ListAuditLogResponse, error)
}

var (
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
	ErrInvalidAction    = errors.New("invalid_action")
)
