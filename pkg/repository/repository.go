package repository

import (
	"context"

	"github.com/smallbiznis/labelworks/pkg/db/option"
	"gorm.io/gorm"
)

// Repository is a generic gorm-backed store for tables that need no custom
// queries.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	FindByID(ctx context.Context, id any) (*T, error)
	Create(ctx context.Context, resource *T) error
	Update(ctx context.Context, id any, fields []string, resource *T) (int64, error)
	Delete(ctx context.Context, id any) (int64, error)
	Count(ctx context.Context, query *T, opts ...option.QueryOption) (int64, error)
}
