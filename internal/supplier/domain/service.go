package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type ListFilter struct {
	Search             string
	SupplierType       string
	SupplierGrade      string
	ApprovalStatus     string
	MaterialCategories []string
}

type UpdateRequest struct {
	ID     string
	Patch  Supplier
	Fields []string
}

type ApprovalRequest struct {
	ID         string
	Status     string        `json:"status"`
	ApprovedBy *snowflake.ID `json:"approvedBy"`
}

type UpdateContactRequest struct {
	ID     string
	Patch  SupplierContact
	Fields []string
}

type Service interface {
	List(context.Context, ListFilter) ([]SupplierView, error)
	GetByID(ctx context.Context, id string) (SupplierView, error)
	Create(context.Context, Supplier) (Supplier, error)
	Update(context.Context, UpdateRequest) (Supplier, error)
	Delete(ctx context.Context, id string) error
	SetApproval(context.Context, ApprovalRequest) (Supplier, error)

	ListContacts(ctx context.Context, supplierID string) ([]SupplierContact, error)
	CreateContact(ctx context.Context, supplierID string, contact SupplierContact) (SupplierContact, error)
	UpdateContact(context.Context, UpdateContactRequest) (SupplierContact, error)
	DeleteContact(ctx context.Context, id string) error
}

var (
	ErrInvalidID             = errors.New("invalid_id")
	ErrNotFound              = errors.New("not_found")
	ErrContactNotFound       = errors.New("contact_not_found")
	ErrInvalidTransition     = errors.New("invalid_approval_transition")
	ErrDuplicateRegistration = errors.New("duplicate_business_registration_number")
)
