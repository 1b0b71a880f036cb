package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, spec *LabelSpec) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*LabelSpec, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*LabelSpec, error)
	Update(ctx context.Context, db *gorm.DB, spec *LabelSpec, fields []string) (int64, error)
	SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool, now time.Time) (int64, error)
	FindMaterialTraits(ctx context.Context, db *gorm.DB, id snowflake.ID) (*MaterialTraits, error)
}
