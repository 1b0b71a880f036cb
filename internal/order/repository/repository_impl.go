package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/labelworks/internal/order/domain"
	"github.com/smallbiznis/labelworks/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).Where("id = ?", id).Take(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Order, error) {
	stmt := db.WithContext(ctx).Model(&domain.Order{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		stmt = stmt.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.AssignedTo != nil {
		stmt = stmt.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.LabelSpecID != nil {
		stmt = stmt.Where("label_spec_id = ?", *filter.LabelSpecID)
	}
	if filter.DateFrom != nil {
		stmt = stmt.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		stmt = stmt.Where("created_at < ?", *filter.DateTo)
	}
	stmt = option.WithSearch(filter.Search, "order_number", "project_number", "product_name", "order_company").Apply(stmt)

	var orders []*domain.Order
	if err := option.WithNewestFirst().Apply(stmt).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, order *domain.Order, fields []string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", order.ID).
		Select(fields).
		Updates(order)
	return res.RowsAffected, res.Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Order{})
	return res.RowsAffected, res.Error
}

func (r *repo) NumbersWithPrefix(ctx context.Context, db *gorm.DB, prefix string) ([]string, error) {
	var numbers []string
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Pluck("order_number", &numbers).Error
	if err != nil {
		return nil, err
	}
	return numbers, nil
}

func (r *repo) StatusTotals(ctx context.Context, db *gorm.DB) ([]domain.StatusTotal, error) {
	var totals []domain.StatusTotal
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS amount").
		Group("status").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *repo) FindCustomers(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.CustomerSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var customers []domain.CustomerSummary
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, contact_person, phone FROM customers WHERE id IN ?`,
		ids,
	).Scan(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) FindUsers(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.UserSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []domain.UserSummary
	err := db.WithContext(ctx).Raw(
		`SELECT id, username, role, position FROM users WHERE id IN ?`,
		ids,
	).Scan(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repo) FindLabelSpecs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.LabelSpecSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var specs []domain.LabelSpecSummary
	err := db.WithContext(ctx).Raw(
		`SELECT id, label_name, library_code FROM label_specs WHERE id IN ?`,
		ids,
	).Scan(&specs).Error
	if err != nil {
		return nil, err
	}
	return specs, nil
}
