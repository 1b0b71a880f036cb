package domain

import (
	"context"
	"errors"
)

type ListCustomerFilter struct {
	Search string
}

type UpdateCustomerRequest struct {
	ID     string
	Patch  Customer
	Fields []string
}

type Service interface {
	Create(context.Context, Customer) (Customer, error)
	List(context.Context, ListCustomerFilter) ([]Customer, error)
	GetByID(ctx context.Context, id string) (Customer, error)
	Update(context.Context, UpdateCustomerRequest) (Customer, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID = errors.New("invalid_id")
	ErrNotFound  = errors.New("not_found")
)
