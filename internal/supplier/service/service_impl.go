package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/labelworks/internal/clock"
	"github.com/smallbiznis/labelworks/internal/derive"
	"github.com/smallbiznis/labelworks/internal/schema"
	"github.com/smallbiznis/labelworks/internal/supplier/domain"
	"github.com/smallbiznis/labelworks/pkg/db"
	"github.com/smallbiznis/labelworks/pkg/db/option"
	pkgrepo "github.com/smallbiznis/labelworks/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Contacts pkgrepo.Repository[domain.SupplierContact]
	Clock    clock.Clock
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	contacts pkgrepo.Repository[domain.SupplierContact]
	clock    clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("supplier.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		contacts: p.Contacts,
		clock:    p.Clock,
	}
}

// Approval fields only change through SetApproval.
var immutable = []string{"ID", "IsActive", "CreatedAt", "UpdatedAt", "ApprovalStatus", "ApprovalDate", "ApprovedBy"}

var contactImmutable = []string{"ID", "SupplierID", "IsActive", "CreatedAt", "UpdatedAt"}

var contactOrder = option.WithOrder(
	clause.OrderByColumn{Column: clause.Column{Name: "is_primary"}, Desc: true},
	clause.OrderByColumn{Column: clause.Column{Name: "name"}},
)

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.SupplierView, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.SupplierType = strings.TrimSpace(filter.SupplierType)
	filter.SupplierGrade = strings.TrimSpace(filter.SupplierGrade)
	filter.ApprovalStatus = strings.TrimSpace(filter.ApprovalStatus)
	filter.MaterialCategories = trimAll(filter.MaterialCategories)

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	return s.withContacts(ctx, items)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.SupplierView, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return domain.SupplierView{}, err
	}
	views, err := s.withContacts(ctx, []*domain.Supplier{item})
	if err != nil {
		return domain.SupplierView{}, err
	}
	return views[0], nil
}

func (s *Service) Create(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	if supplier.SupplierGrade == "" {
		supplier.SupplierGrade = "B"
	}
	supplier.ApprovalStatus = domain.ApprovalPending
	supplier.ApprovalDate = nil
	supplier.ApprovedBy = nil
	prepare(&supplier)
	if err := schema.Validate(&supplier); err != nil {
		return domain.Supplier{}, err
	}

	now := s.clock.Now()
	supplier.ID = s.genID.Generate()
	supplier.IsActive = true
	supplier.CreatedAt = now
	supplier.UpdatedAt = now

	if err := s.repo.Insert(ctx, s.db, &supplier); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Supplier{}, domain.ErrDuplicateRegistration
		}
		return domain.Supplier{}, err
	}
	return supplier, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.Supplier, error) {
	fields := schema.Without(req.Fields, immutable...)
	if err := schema.ValidatePartial(&req.Patch, fields); err != nil {
		return domain.Supplier{}, err
	}

	current, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Supplier{}, err
	}
	if len(fields) == 0 {
		return *current, nil
	}

	merged := *current
	schema.Merge(&merged, &req.Patch, fields)
	prepare(&merged)
	if err := schema.Validate(&merged); err != nil {
		return domain.Supplier{}, err
	}
	merged.UpdatedAt = s.clock.Now()

	columns := append(fields, "SupplierTypeOther", "UpdatedAt")
	rows, err := s.repo.Update(ctx, s.db, &merged, columns)
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Supplier{}, domain.ErrDuplicateRegistration
		}
		return domain.Supplier{}, err
	}
	if rows == 0 {
		return domain.Supplier{}, domain.ErrNotFound
	}
	return merged, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	supplierID, err := parseID(id)
	if err != nil {
		return err
	}
	rows, err := s.repo.SetActive(ctx, s.db, supplierID, false, s.clock.Now())
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetApproval moves a supplier through the approval workflow. Requesting the
// current state is a no-op.
func (s *Service) SetApproval(ctx context.Context, req domain.ApprovalRequest) (domain.Supplier, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" {
		return domain.Supplier{}, schema.Invalid("status", schema.CodeRequired, "is required")
	}
	if !domain.ApprovalStatuses.Has(status) {
		return domain.Supplier{}, schema.Invalid("status", schema.CodeEnumMismatch, "must be one of "+strings.Join(domain.ApprovalStatuses.Values(), ", "))
	}

	current, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Supplier{}, err
	}
	if current.ApprovalStatus == status {
		return *current, nil
	}
	if !domain.CanTransition(current.ApprovalStatus, status) {
		return domain.Supplier{}, domain.ErrInvalidTransition
	}

	now := s.clock.Now()
	updated := *current
	updated.ApprovalStatus = status
	updated.UpdatedAt = now
	if status == domain.ApprovalApproved {
		updated.ApprovalDate = &now
		updated.ApprovedBy = req.ApprovedBy
	}

	rows, err := s.repo.Update(ctx, s.db, &updated, []string{"ApprovalStatus", "ApprovalDate", "ApprovedBy", "UpdatedAt"})
	if err != nil {
		return domain.Supplier{}, err
	}
	if rows == 0 {
		return domain.Supplier{}, domain.ErrNotFound
	}

	s.log.Info("supplier approval changed",
		zap.String("supplier_id", updated.ID.String()),
		zap.String("from", current.ApprovalStatus),
		zap.String("to", status),
	)
	return updated, nil
}

func (s *Service) ListContacts(ctx context.Context, supplierID string) ([]domain.SupplierContact, error) {
	supplier, err := s.find(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	items, err := s.contacts.Find(ctx, &domain.SupplierContact{SupplierID: supplier.ID, IsActive: true}, contactOrder)
	if err != nil {
		return nil, err
	}
	return deref(items), nil
}

func (s *Service) CreateContact(ctx context.Context, supplierID string, contact domain.SupplierContact) (domain.SupplierContact, error) {
	supplier, err := s.find(ctx, supplierID)
	if err != nil {
		return domain.SupplierContact{}, err
	}
	prepareContact(&contact)
	if err := schema.Validate(&contact); err != nil {
		return domain.SupplierContact{}, err
	}

	now := s.clock.Now()
	contact.ID = s.genID.Generate()
	contact.SupplierID = supplier.ID
	contact.IsActive = true
	contact.CreatedAt = now
	contact.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.contacts.WithTrx(tx).Create(ctx, &contact); err != nil {
			return err
		}
		if contact.IsPrimary {
			return s.repo.ClearPrimaryContact(ctx, tx, contact.SupplierID, contact.ID)
		}
		return nil
	})
	if err != nil {
		return domain.SupplierContact{}, err
	}
	return contact, nil
}

func (s *Service) UpdateContact(ctx context.Context, req domain.UpdateContactRequest) (domain.SupplierContact, error) {
	fields := schema.Without(req.Fields, contactImmutable...)
	if err := schema.ValidatePartial(&req.Patch, fields); err != nil {
		return domain.SupplierContact{}, err
	}

	contactID, err := parseID(req.ID)
	if err != nil {
		return domain.SupplierContact{}, err
	}
	current, err := s.contacts.FindByID(ctx, contactID)
	if err != nil {
		return domain.SupplierContact{}, err
	}
	if current == nil || !current.IsActive {
		return domain.SupplierContact{}, domain.ErrContactNotFound
	}
	if len(fields) == 0 {
		return *current, nil
	}

	merged := *current
	schema.Merge(&merged, &req.Patch, fields)
	prepareContact(&merged)
	if err := schema.Validate(&merged); err != nil {
		return domain.SupplierContact{}, err
	}
	merged.UpdatedAt = s.clock.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.contacts.WithTrx(tx).Update(ctx, merged.ID, append(fields, "UpdatedAt"), &merged)
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrContactNotFound
		}
		if merged.IsPrimary {
			return s.repo.ClearPrimaryContact(ctx, tx, merged.SupplierID, merged.ID)
		}
		return nil
	})
	if err != nil {
		return domain.SupplierContact{}, err
	}
	return merged, nil
}

func (s *Service) DeleteContact(ctx context.Context, id string) error {
	contactID, err := parseID(id)
	if err != nil {
		return err
	}
	contact := domain.SupplierContact{IsActive: false, UpdatedAt: s.clock.Now()}
	rows, err := s.contacts.Update(ctx, contactID, []string{"IsActive", "UpdatedAt"}, &contact)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Supplier, error) {
	supplierID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, s.db, supplierID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) withContacts(ctx context.Context, items []*domain.Supplier) ([]domain.SupplierView, error) {
	ids := make([]snowflake.ID, 0, len(items))
	for _, item := range items {
		if item != nil {
			ids = append(ids, item.ID)
		}
	}

	bySupplier := make(map[snowflake.ID][]domain.SupplierContact, len(ids))
	if len(ids) > 0 {
		contacts, err := s.contacts.Find(ctx, nil,
			option.WithWhere("supplier_id IN ? AND is_active = ?", ids, true),
			contactOrder,
		)
		if err != nil {
			return nil, err
		}
		for _, c := range contacts {
			bySupplier[c.SupplierID] = append(bySupplier[c.SupplierID], *c)
		}
	}

	views := make([]domain.SupplierView, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		contacts := bySupplier[item.ID]
		if contacts == nil {
			contacts = []domain.SupplierContact{}
		}
		views = append(views, domain.SupplierView{Supplier: *item, Contacts: contacts})
	}
	return views, nil
}

func prepare(s *domain.Supplier) {
	s.BusinessRegistrationNumber = strings.TrimSpace(s.BusinessRegistrationNumber)
	s.BusinessName = strings.TrimSpace(s.BusinessName)
	s.RepresentativeName = strings.TrimSpace(s.RepresentativeName)
	s.BusinessAddress = strings.TrimSpace(s.BusinessAddress)
	s.MainEmail = strings.TrimSpace(s.MainEmail)
	s.SupplierTypeOther = derive.KeepOther(s.SupplierType, s.SupplierTypeOther)
	s.MaterialCategories = datatypes.JSONSlice[string](trimAll(s.MaterialCategories))
	s.QualityCertifications = datatypes.JSONSlice[string](trimAll(s.QualityCertifications))
}

func prepareContact(c *domain.SupplierContact) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Responsibilities = datatypes.JSONSlice[string](trimAll(c.Responsibilities))
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func deref(items []*domain.SupplierContact) []domain.SupplierContact {
	out := make([]domain.SupplierContact, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
