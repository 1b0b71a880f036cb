package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/labelworks/internal/clock"
	"github.com/smallbiznis/labelworks/internal/derive"
	"github.com/smallbiznis/labelworks/internal/material/domain"
	"github.com/smallbiznis/labelworks/internal/schema"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
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
		log:   p.Log.Named("material.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: p.Clock,
	}
}

var immutable = []string{"ID", "IsActive", "CreatedAt", "UpdatedAt", "MinimumOrderQuantity"}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.MaterialView, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Type = strings.TrimSpace(filter.Type)
	filter.Status = strings.TrimSpace(filter.Status)
	filter.Tags = schema.NormalizeTags(filter.Tags)

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	return s.withSuppliers(ctx, items)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.MaterialView, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return domain.MaterialView{}, err
	}
	views, err := s.withSuppliers(ctx, []*domain.Material{item})
	if err != nil {
		return domain.MaterialView{}, err
	}
	return views[0], nil
}

func (s *Service) Create(ctx context.Context, material domain.Material) (domain.MaterialView, error) {
	if material.Status == "" {
		material.Status = domain.StatusActive
	}
	if err := s.prepare(ctx, &material); err != nil {
		return domain.MaterialView{}, err
	}
	if err := schema.Validate(&material); err != nil {
		return domain.MaterialView{}, err
	}

	now := s.clock.Now()
	material.ID = s.genID.Generate()
	material.IsActive = true
	material.CreatedAt = now
	material.UpdatedAt = now

	if err := s.repo.Insert(ctx, s.db, &material); err != nil {
		return domain.MaterialView{}, err
	}
	return s.GetByID(ctx, material.ID.String())
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.MaterialView, error) {
	fields := schema.Without(req.Fields, immutable...)
	if err := schema.ValidatePartial(&req.Patch, fields); err != nil {
		return domain.MaterialView{}, err
	}

	current, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.MaterialView{}, err
	}
	if len(fields) == 0 {
		return s.GetByID(ctx, req.ID)
	}

	merged := *current
	schema.Merge(&merged, &req.Patch, fields)
	if err := s.prepare(ctx, &merged); err != nil {
		return domain.MaterialView{}, err
	}
	if err := schema.Validate(&merged); err != nil {
		return domain.MaterialView{}, err
	}
	merged.UpdatedAt = s.clock.Now()

	columns := append(fields, "CategoryOther", "MinimumOrderQuantity", "Tags", "UpdatedAt")
	rows, err := s.repo.Update(ctx, s.db, &merged, columns)
	if err != nil {
		return domain.MaterialView{}, err
	}
	if rows == 0 {
		return domain.MaterialView{}, domain.ErrNotFound
	}
	return s.GetByID(ctx, req.ID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	materialID, err := parseID(id)
	if err != nil {
		return err
	}
	rows, err := s.repo.SetActive(ctx, s.db, materialID, false, s.clock.Now())
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SearchBySpecification narrows by the JSON array columns in SQL; chemical
// resistance lives in a JSON object and is matched here.
func (s *Service) SearchBySpecification(ctx context.Context, spec domain.SpecificationQuery) ([]domain.Material, error) {
	items, err := s.repo.SearchBySpecification(ctx, s.db, spec)
	if err != nil {
		return nil, err
	}

	materials := make([]domain.Material, 0, len(items))
	for _, item := range items {
		if item == nil || !resistsAll(item.ChemicalResistance.Data(), spec.ChemicalResistance) {
			continue
		}
		materials = append(materials, *item)
	}
	return materials, nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Material, error) {
	materialID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, s.db, materialID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) prepare(ctx context.Context, m *domain.Material) error {
	m.Name = strings.TrimSpace(m.Name)
	m.MaterialCode = strings.TrimSpace(m.MaterialCode)
	m.Unit = strings.TrimSpace(m.Unit)
	m.CategoryOther = derive.KeepOther(m.Category, m.CategoryOther)
	m.MinimumOrderQuantity = derive.MOQPrice(m.Width, m.Length, m.UnitPrice)
	m.Tags = datatypes.JSONSlice[string](schema.NormalizeTags(m.Tags))
	m.PrintingMethods = nonNil(m.PrintingMethods)
	m.CompatibleLabelTypes = nonNil(m.CompatibleLabelTypes)
	m.RecommendedApplications = nonNil(m.RecommendedApplications)
	if m.AlternativeSuppliers == nil {
		m.AlternativeSuppliers = datatypes.JSONSlice[domain.AlternativeSupplier]{}
	}

	if m.TemperatureResistanceMin != nil && m.TemperatureResistanceMax != nil &&
		*m.TemperatureResistanceMax < *m.TemperatureResistanceMin {
		return schema.Invalid("temperatureResistanceMax", schema.CodeOutOfRange, "must not be below temperatureResistanceMin")
	}

	if m.PrimarySupplierID != nil && *m.PrimarySupplierID != 0 {
		found, err := s.repo.FindSuppliers(ctx, s.db, []snowflake.ID{*m.PrimarySupplierID})
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return schema.Invalid("primarySupplierId", schema.CodeInvalidFormat, "references an unknown supplier")
		}
	}
	return nil
}

func (s *Service) withSuppliers(ctx context.Context, items []*domain.Material) ([]domain.MaterialView, error) {
	ids := make([]snowflake.ID, 0, len(items))
	for _, item := range items {
		if item != nil && item.PrimarySupplierID != nil {
			ids = append(ids, *item.PrimarySupplierID)
		}
	}

	suppliers, err := s.repo.FindSuppliers(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]domain.SupplierSummary, len(suppliers))
	for _, sup := range suppliers {
		byID[sup.ID] = sup
	}

	views := make([]domain.MaterialView, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		view := domain.MaterialView{Material: *item}
		if item.PrimarySupplierID != nil {
			if sup, ok := byID[*item.PrimarySupplierID]; ok {
				view.PrimarySupplier = &sup
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func resistsAll(resistance domain.ChemicalResistance, agents []string) bool {
	for _, agent := range agents {
		agent = strings.ToLower(strings.TrimSpace(agent))
		if agent == "" {
			continue
		}
		if !resistance.Resists(agent) {
			return false
		}
	}
	return true
}

func nonNil(values datatypes.JSONSlice[string]) datatypes.JSONSlice[string] {
	if values == nil {
		return datatypes.JSONSlice[string]{}
	}
	return values
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
