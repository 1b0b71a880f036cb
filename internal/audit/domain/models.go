package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Recorded actions.
const (
	ActionCreate     = "create"
	ActionUpdate     = "update"
	ActionDelete     = "delete"
	ActionDuplicate  = "duplicate"
	ActionTransition = "transition"
	ActionApproval   = "approval"
)

// ActorSystem is recorded when a request carries no actor.
const ActorSystem = "system"

type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Actor      string            `gorm:"size:100;not null" json:"actor"`
	Action     string            `gorm:"size:32;not null;index" json:"action"`
	TargetType string            `gorm:"size:64;not null;index:idx_audit_target" json:"targetType"`
	TargetID   *string           `gorm:"size:64;index:idx_audit_target" json:"targetId"`
	Metadata   datatypes.JSONMap `json:"metadata"`
	RequestID  string            `gorm:"size:64" json:"requestId"`
	IPAddress  *string           `gorm:"size:64" json:"ipAddress"`
	UserAgent  *string           `gorm:"size:512" json:"userAgent"`
	CreatedAt  time.Time         `gorm:"not null;autoCreateTime:false;index" json:"createdAt"`
}

type AuditCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

type ListFilter struct {
	Action     string
	TargetType string
	TargetID   string
	StartAt    *time.Time
	EndAt      *time.Time
	Cursor     *AuditCursor
	Limit      int
}
