package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, material *Material) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Material, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Material, error)
	SearchBySpecification(ctx context.Context, db *gorm.DB, spec SpecificationQuery) ([]*Material, error)
	Update(ctx context.Context, db *gorm.DB, material *Material, fields []string) (int64, error)
	SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool, now time.Time) (int64, error)
	FindSuppliers(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]SupplierSummary, error)
}
