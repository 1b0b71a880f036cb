package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type ListFilter struct {
	Search     string
	Category   string
	Type       string
	SupplierID *snowflake.ID
	Status     string
	Tags       []string
}

// SpecificationQuery finds active materials suited to a label. Every set
// field must match.
type SpecificationQuery struct {
	LabelType          string   `json:"labelType"`
	PrintingMethod     string   `json:"printingMethod"`
	Application        string   `json:"application"`
	ChemicalResistance []string `json:"chemicalResistance"`
}

type UpdateRequest struct {
	ID     string
	Patch  Material
	Fields []string
}

type Service interface {
	List(context.Context, ListFilter) ([]MaterialView, error)
	GetByID(ctx context.Context, id string) (MaterialView, error)
	Create(context.Context, Material) (MaterialView, error)
	Update(context.Context, UpdateRequest) (MaterialView, error)
	Delete(ctx context.Context, id string) error
	SearchBySpecification(context.Context, SpecificationQuery) ([]Material, error)
}

var (
	ErrInvalidID = errors.New("invalid_id")
	ErrNotFound  = errors.New("not_found")
)
