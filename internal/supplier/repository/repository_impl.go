package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/labelworks/internal/supplier/domain"
	"github.com/smallbiznis/labelworks/pkg/db/option"
	pkgrepo "github.com/smallbiznis/labelworks/pkg/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// ProvideContacts returns the generic store backing supplier contacts.
func ProvideContacts(db *gorm.DB) pkgrepo.Repository[domain.SupplierContact] {
	return pkgrepo.ProvideStore[domain.SupplierContact](db)
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, supplier *domain.Supplier) error {
	return db.WithContext(ctx).Create(supplier).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Supplier, error) {
	var supplier domain.Supplier
	err := db.WithContext(ctx).Where("id = ?", id).Take(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &supplier, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Supplier, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Supplier{}).
		Where("is_active = ?", true)
	stmt = option.WithSearch(filter.Search, "business_name", "business_registration_number", "representative_name").Apply(stmt)
	if filter.SupplierType != "" {
		stmt = stmt.Where("supplier_type = ?", filter.SupplierType)
	}
	if filter.SupplierGrade != "" {
		stmt = stmt.Where("supplier_grade = ?", filter.SupplierGrade)
	}
	if filter.ApprovalStatus != "" {
		stmt = stmt.Where("approval_status = ?", filter.ApprovalStatus)
	}
	if len(filter.MaterialCategories) > 0 {
		exprs := make([]clause.Expression, 0, len(filter.MaterialCategories))
		for _, category := range filter.MaterialCategories {
			exprs = append(exprs, datatypes.JSONArrayQuery("material_categories").Contains(category))
		}
		stmt = stmt.Where(clause.Or(exprs...))
	}

	var suppliers []*domain.Supplier
	if err := option.WithNewestFirst().Apply(stmt).Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, supplier *domain.Supplier, fields []string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Supplier{}).
		Where("id = ?", supplier.ID).
		Select(fields).
		Updates(supplier)
	return res.RowsAffected, res.Error
}

func (r *repo) SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Supplier{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":  active,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *repo) ClearPrimaryContact(ctx context.Context, db *gorm.DB, supplierID, keepID snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.SupplierContact{}).
		Where("supplier_id = ? AND id <> ? AND is_primary = ?", supplierID, keepID, true).
		Update("is_primary", false).Error
}
