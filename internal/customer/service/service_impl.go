package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/labelworks/internal/clock"
	"github.com/smallbiznis/labelworks/internal/customer/domain"
	"github.com/smallbiznis/labelworks/internal/schema"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	trim(&customer)
	if err := schema.Validate(&customer); err != nil {
		return domain.Customer{}, err
	}

	now := s.clock.Now()
	customer.ID = s.genID.Generate()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}

	return customer, nil
}

func (s *Service) List(ctx context.Context, filter domain.ListCustomerFilter) ([]domain.Customer, error) {
	items, err := s.repo.List(ctx, s.db, domain.ListCustomerFilter{
		Search: strings.TrimSpace(filter.Search),
	})
	if err != nil {
		return nil, err
	}

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}
	return customers, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	customerID, err := s.parseID(id)
	if err != nil {
		return domain.Customer{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	customerID, err := s.parseID(req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	fields := schema.Without(req.Fields, "ID", "CreatedAt", "UpdatedAt")
	trim(&req.Patch)
	if err := schema.ValidatePartial(&req.Patch, fields); err != nil {
		return domain.Customer{}, err
	}

	current, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if current == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	if len(fields) == 0 {
		return *current, nil
	}

	merged := *current
	schema.Merge(&merged, &req.Patch, fields)
	merged.UpdatedAt = s.clock.Now()

	rows, err := s.repo.Update(ctx, s.db, &merged, append(fields, "UpdatedAt"))
	if err != nil {
		return domain.Customer{}, err
	}
	if rows == 0 {
		return domain.Customer{}, domain.ErrNotFound
	}

	return merged, nil
}

// Delete removes the customer and detaches its orders in one transaction.
func (s *Service) Delete(ctx context.Context, id string) error {
	customerID, err := s.parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DetachOrders(ctx, tx, customerID); err != nil {
			return err
		}
		rows, err := s.repo.Delete(ctx, tx, customerID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrNotFound
		}
		s.log.Info("customer deleted", zap.String("customer_id", customerID.String()))
		return nil
	})
}

func trim(c *domain.Customer) {
	c.Name = strings.TrimSpace(c.Name)
	c.ContactPerson = strings.TrimSpace(c.ContactPerson)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	c.BusinessRegistrationNumber = strings.TrimSpace(c.BusinessRegistrationNumber)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
