package domain

import (
	"context"
	"errors"
)

// ListFilter narrows the label library. Empty fields do not restrict; a
// multi-value field matches rows containing any of its values.
type ListFilter struct {
	Search          string
	LabelTypes      []string
	PrintMethods    []string
	Tags            []string
	IncludeInactive bool
}

type UpdateRequest struct {
	ID     string
	Patch  LabelSpec
	Fields []string
}

type DuplicateRequest struct {
	ID      string
	NewName string `json:"newName"`
}

type Service interface {
	List(context.Context, ListFilter) ([]LabelSpec, error)
	GetByID(ctx context.Context, id string) (LabelSpec, error)
	Create(context.Context, LabelSpec) (LabelSpec, error)
	Update(context.Context, UpdateRequest) (LabelSpec, error)
	Delete(ctx context.Context, id string) error
	Duplicate(context.Context, DuplicateRequest) (LabelSpec, error)
}

var (
	ErrInvalidID = errors.New("invalid_id")
	ErrNotFound  = errors.New("not_found")
)
