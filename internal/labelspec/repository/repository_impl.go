package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/labelworks/internal/labelspec/domain"
	"github.com/smallbiznis/labelworks/pkg/db/option"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, spec *domain.LabelSpec) error {
	return db.WithContext(ctx).Create(spec).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.LabelSpec, error) {
	var spec domain.LabelSpec
	err := db.WithContext(ctx).Where("id = ?", id).Take(&spec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &spec, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.LabelSpec, error) {
	stmt := db.WithContext(ctx).Model(&domain.LabelSpec{})
	if !filter.IncludeInactive {
		stmt = stmt.Where("is_active = ?", true)
	}
	stmt = option.WithSearch(filter.Search, "label_name", "customer_code", "library_code").Apply(stmt)
	stmt = withAnyOf(stmt, "label_types", filter.LabelTypes)
	stmt = withAnyOf(stmt, "print_methods", filter.PrintMethods)
	stmt = withAnyOf(stmt, "tags", filter.Tags)

	var specs []*domain.LabelSpec
	err := option.WithNewestFirst().Apply(stmt).Find(&specs).Error
	if err != nil {
		return nil, err
	}
	return specs, nil
}

// withAnyOf keeps rows whose JSON array column holds at least one of values.
func withAnyOf(stmt *gorm.DB, column string, values []string) *gorm.DB {
	exprs := make([]clause.Expression, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v == "" {
			continue
		}
		exprs = append(exprs, datatypes.JSONArrayQuery(column).Contains(v))
	}
	if len(exprs) == 0 {
		return stmt
	}
	return stmt.Where(clause.Or(exprs...))
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, spec *domain.LabelSpec, fields []string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.LabelSpec{}).
		Where("id = ?", spec.ID).
		Select(fields).
		Updates(spec)
	return res.RowsAffected, res.Error
}

func (r *repo) SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.LabelSpec{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":  active,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *repo) FindMaterialTraits(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.MaterialTraits, error) {
	var traits domain.MaterialTraits
	err := db.WithContext(ctx).Raw(
		`SELECT id, thickness, color, adhesive_type FROM materials WHERE id = ?`,
		id,
	).Scan(&traits).Error
	if err != nil {
		return nil, err
	}
	if traits.ID == 0 {
		return nil, nil
	}
	return &traits, nil
}
