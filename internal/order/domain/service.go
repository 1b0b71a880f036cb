package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type ListFilter struct {
	Status      string
	CustomerID  *snowflake.ID
	AssignedTo  *snowflake.ID
	LabelSpecID *snowflake.ID
	// DateFrom is inclusive and DateTo exclusive; both apply to created_at.
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
}

type UpdateRequest struct {
	ID     string
	Patch  Order
	Fields []string
}

type TransitionRequest struct {
	ID     string
	Status string `json:"status"`
}

type Service interface {
	List(context.Context, ListFilter) ([]OrderView, error)
	GetByID(ctx context.Context, id string) (OrderView, error)
	Create(context.Context, Order) (OrderView, error)
	Update(context.Context, UpdateRequest) (OrderView, error)
	Transition(context.Context, TransitionRequest) (OrderView, error)
	Delete(ctx context.Context, id string) error
	NextNumber(context.Context) (string, error)
	Stats(context.Context) (Stats, error)
}

var (
	ErrInvalidID              = errors.New("invalid_id")
	ErrNotFound               = errors.New("not_found")
	ErrInvalidTransition      = errors.New("invalid_status_transition")
	ErrDuplicateOrderNumber   = errors.New("duplicate_order_number")
	ErrOrderNumberUnavailable = errors.New("order_number_unavailable")
)
