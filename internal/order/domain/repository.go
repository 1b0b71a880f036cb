package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Order, error)
	Update(ctx context.Context, db *gorm.DB, order *Order, fields []string) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)

	// NumbersWithPrefix returns every order number starting with prefix.
	NumbersWithPrefix(ctx context.Context, db *gorm.DB, prefix string) ([]string, error)
	StatusTotals(ctx context.Context, db *gorm.DB) ([]StatusTotal, error)

	FindCustomers(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]CustomerSummary, error)
	FindUsers(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]UserSummary, error)
	FindLabelSpecs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]LabelSpecSummary, error)
}
