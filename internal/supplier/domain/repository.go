package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, supplier *Supplier) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Supplier, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Supplier, error)
	Update(ctx context.Context, db *gorm.DB, supplier *Supplier, fields []string) (int64, error)
	SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool, now time.Time) (int64, error)
	ClearPrimaryContact(ctx context.Context, db *gorm.DB, supplierID, keepID snowflake.ID) error
}
