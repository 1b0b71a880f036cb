package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/labelworks/internal/schema"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

var Roles = schema.NewEnum("user_role", RoleAdmin, RoleManager, RoleStaff)

type User struct {
	ID           snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Username     string       `gorm:"size:100;not null;uniqueIndex" json:"username"`
	PasswordHash string       `gorm:"size:255;not null" json:"-"`
	Email        string       `gorm:"size:200" json:"email"`
	Role         string       `gorm:"size:16;not null" json:"role"`
	Position     string       `gorm:"size:100" json:"position"`
	Phone        string       `gorm:"size:50" json:"phone"`
	IsActive     bool         `gorm:"not null;index" json:"isActive"`
	CreatedAt    time.Time    `gorm:"not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt    time.Time    `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`
}

// CreateUserRequest carries the plain password; only its hash is stored.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role" validate:"omitempty,enum=user_role"`
	Position string `json:"position" validate:"max=100"`
	Phone    string `json:"phone" validate:"max=50"`
}

// UserSummary is the subset of a user joined onto other records.
type UserSummary struct {
	ID       snowflake.ID `json:"id"`
	Username string       `json:"username"`
	Role     string       `json:"role"`
	Position string       `json:"position"`
}
