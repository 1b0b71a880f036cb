package domain

import (
	"context"
	"errors"
)

type ListFilter struct {
	Role            string
	IncludeInactive bool
}

type Service interface {
	List(context.Context, ListFilter) ([]User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	Create(context.Context, CreateUserRequest) (User, error)
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("not_found")
	ErrDuplicateUsername = errors.New("duplicate_username")
)
