package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/labelworks/internal/material/domain"
	"github.com/smallbiznis/labelworks/pkg/db/option"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, material *domain.Material) error {
	return db.WithContext(ctx).Create(material).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Material, error) {
	var material domain.Material
	err := db.WithContext(ctx).Where("id = ?", id).Take(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &material, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Material, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Material{}).
		Where("is_active = ?", true)
	stmt = option.WithSearch(filter.Search, "name", "material_code", "type").Apply(stmt)
	if filter.Category != "" {
		stmt = stmt.Where("category = ?", filter.Category)
	}
	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.SupplierID != nil {
		stmt = stmt.Where("primary_supplier_id = ?", *filter.SupplierID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if tags := nonEmpty(filter.Tags); len(tags) > 0 {
		exprs := make([]clause.Expression, 0, len(tags))
		for _, tag := range tags {
			exprs = append(exprs, datatypes.JSONArrayQuery("tags").Contains(tag))
		}
		stmt = stmt.Where(clause.Or(exprs...))
	}

	var materials []*domain.Material
	if err := option.WithNewestFirst().Apply(stmt).Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *repo) SearchBySpecification(ctx context.Context, db *gorm.DB, spec domain.SpecificationQuery) ([]*domain.Material, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Material{}).
		Where("is_active = ?", true)
	if v := strings.TrimSpace(spec.LabelType); v != "" {
		stmt = stmt.Where(datatypes.JSONArrayQuery("compatible_label_types").Contains(v))
	}
	if v := strings.TrimSpace(spec.PrintingMethod); v != "" {
		stmt = stmt.Where(datatypes.JSONArrayQuery("printing_methods").Contains(v))
	}
	if v := strings.TrimSpace(spec.Application); v != "" {
		stmt = stmt.Where(datatypes.JSONArrayQuery("recommended_applications").Contains(v))
	}

	var materials []*domain.Material
	if err := option.WithNewestFirst().Apply(stmt).Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, material *domain.Material, fields []string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Material{}).
		Where("id = ?", material.ID).
		Select(fields).
		Updates(material)
	return res.RowsAffected, res.Error
}

func (r *repo) SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Material{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":  active,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *repo) FindSuppliers(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.SupplierSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var suppliers []domain.SupplierSummary
	err := db.WithContext(ctx).Raw(
		`SELECT id, business_name, supplier_grade, approval_status FROM suppliers WHERE id IN ?`,
		ids,
	).Scan(&suppliers).Error
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
