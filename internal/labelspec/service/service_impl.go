package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/labelworks/internal/clock"
	"github.com/smallbiznis/labelworks/internal/config"
	"github.com/smallbiznis/labelworks/internal/derive"
	"github.com/smallbiznis/labelworks/internal/labelspec/domain"
	"github.com/smallbiznis/labelworks/internal/observability/metrics"
	obscontext "github.com/smallbiznis/labelworks/internal/observability/context"
	"github.com/smallbiznis/labelworks/internal/schema"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Clock   clock.Clock
	Quality *config.QualityConfigHolder
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	clock   clock.Clock
	quality *config.QualityConfigHolder
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("labelspec.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		clock:   p.Clock,
		quality: p.Quality,
		metrics: p.Metrics,
	}
}

// immutable fields are never taken from a patch.
var immutable = []string{"ID", "IsActive", "CreatedBy", "CreatedAt", "UpdatedAt"}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.LabelSpec, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Tags = schema.NormalizeTags(filter.Tags)

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	specs := make([]domain.LabelSpec, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		specs = append(specs, *item)
	}
	return specs, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.LabelSpec, error) {
	specID, err := parseID(id)
	if err != nil {
		return domain.LabelSpec{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, specID)
	if err != nil {
		return domain.LabelSpec{}, err
	}
	if item == nil {
		return domain.LabelSpec{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Create(ctx context.Context, spec domain.LabelSpec) (domain.LabelSpec, error) {
	spec.LabelName = strings.TrimSpace(spec.LabelName)
	if err := s.prepare(ctx, &spec); err != nil {
		return domain.LabelSpec{}, err
	}
	if err := schema.Validate(&spec); err != nil {
		return domain.LabelSpec{}, err
	}

	now := s.clock.Now()
	spec.ID = s.genID.Generate()
	spec.IsActive = true
	if strings.TrimSpace(spec.CreatedBy) == "" {
		spec.CreatedBy = obscontext.ActorFromContext(ctx)
	}
	spec.CreatedAt = now
	spec.UpdatedAt = now

	if err := s.repo.Insert(ctx, s.db, &spec); err != nil {
		return domain.LabelSpec{}, err
	}

	s.log.Debug("label spec created", zap.String("label_spec_id", spec.ID.String()))
	return spec, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.LabelSpec, error) {
	specID, err := parseID(req.ID)
	if err != nil {
		return domain.LabelSpec{}, err
	}

	fields := schema.Without(req.Fields, immutable...)
	if err := schema.ValidatePartial(&req.Patch, fields); err != nil {
		return domain.LabelSpec{}, err
	}

	current, err := s.repo.FindByID(ctx, s.db, specID)
	if err != nil {
		return domain.LabelSpec{}, err
	}
	if current == nil {
		return domain.LabelSpec{}, domain.ErrNotFound
	}

	merged := *current
	schema.Merge(&merged, &req.Patch, fields)
	merged.LabelName = strings.TrimSpace(merged.LabelName)
	// A new grade snaps the tolerance to its default unless the caller
	// also sent a tolerance. Grades without a default keep the old value.
	if schema.Contains(fields, "QualityGrade") && !schema.Contains(fields, "ColorDifferenceValue") {
		if tolerance, ok := derive.DefaultTolerance(s.quality.Get(), merged.QualityGrade); ok {
			merged.ColorDifferenceValue = &tolerance
		}
	}
	if err := s.prepare(ctx, &merged); err != nil {
		return domain.LabelSpec{}, err
	}
	if err := schema.Validate(&merged); err != nil {
		return domain.LabelSpec{}, err
	}
	merged.UpdatedAt = s.clock.Now()

	rows, err := s.repo.Update(ctx, s.db, &merged, updateColumns(fields))
	if err != nil {
		return domain.LabelSpec{}, err
	}
	if rows == 0 {
		return domain.LabelSpec{}, domain.ErrNotFound
	}

	return s.GetByID(ctx, req.ID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	specID, err := parseID(id)
	if err != nil {
		return err
	}

	rows, err := s.repo.SetActive(ctx, s.db, specID, false, s.clock.Now())
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Duplicate copies a label spec under a new name. Inactive sources are
// allowed and produce an active copy.
func (s *Service) Duplicate(ctx context.Context, req domain.DuplicateRequest) (domain.LabelSpec, error) {
	newName := strings.TrimSpace(req.NewName)
	if newName == "" {
		return domain.LabelSpec{}, schema.Invalid("newName", schema.CodeRequired, "is required")
	}

	source, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.LabelSpec{}, err
	}

	now := s.clock.Now()
	clone := source
	clone.ID = s.genID.Generate()
	clone.LabelName = newName
	clone.IsActive = true
	clone.CreatedAt = now
	clone.UpdatedAt = now
	if err := schema.Validate(&clone); err != nil {
		return domain.LabelSpec{}, err
	}

	if err := s.repo.Insert(ctx, s.db, &clone); err != nil {
		return domain.LabelSpec{}, err
	}

	s.metrics.RecordLabelDuplicated(ctx)
	s.log.Debug("label spec duplicated",
		zap.String("source_id", source.ID.String()),
		zap.String("label_spec_id", clone.ID.String()),
	)
	return clone, nil
}

// prepare applies the derived-field rules before validation and storage.
func (s *Service) prepare(ctx context.Context, spec *domain.LabelSpec) error {
	spec.LabelTypes = nonNil(spec.LabelTypes)
	spec.UseEnvironments = nonNil(spec.UseEnvironments)
	spec.Adhesives = nonNil(spec.Adhesives)
	spec.Liners = nonNil(spec.Liners)
	spec.PrintMethods = nonNil(spec.PrintMethods)
	spec.InspectionItems = nonNil(spec.InspectionItems)
	spec.Tags = datatypes.JSONSlice[string](schema.NormalizeTags(spec.Tags))
	if spec.SurfaceLayers == nil {
		spec.SurfaceLayers = datatypes.JSONSlice[domain.SurfaceLayer]{}
	}

	spec.ShapeOther = derive.KeepOther(spec.Shape, spec.ShapeOther)
	spec.ReleaseDirectionOther = derive.KeepOther(spec.ReleaseDirection, spec.ReleaseDirectionOther)
	spec.AdhesionSurfaceOther = derive.KeepOther(spec.AdhesionSurface, spec.AdhesionSurfaceOther)
	spec.UVCoatingOther = derive.KeepOther(spec.UVCoating, spec.UVCoatingOther)
	spec.LaminatingOther = derive.KeepOther(spec.Laminating, spec.LaminatingOther)
	spec.DieCuttingOther = derive.KeepOther(spec.DieCutting, spec.DieCuttingOther)
	spec.PackagingMethodOther = derive.KeepOther(spec.PackagingMethod, spec.PackagingMethodOther)
	spec.SpecialPrint.HotFoilOther = derive.KeepOther(spec.SpecialPrint.HotFoil, spec.SpecialPrint.HotFoilOther)
	spec.SpecialPrint.ColdFoilOther = derive.KeepOther(spec.SpecialPrint.ColdFoil, spec.SpecialPrint.ColdFoilOther)
	spec.LabelTypesOther = derive.KeepOtherList(spec.LabelTypes, spec.LabelTypesOther)
	spec.UseEnvironmentsOther = derive.KeepOtherList(spec.UseEnvironments, spec.UseEnvironmentsOther)
	spec.PrintMethodsOther = derive.KeepOtherList(spec.PrintMethods, spec.PrintMethodsOther)
	spec.InspectionItemsOther = derive.KeepOtherList(spec.InspectionItems, spec.InspectionItemsOther)

	quality := s.quality.Get()
	if quality.MaxSpotColors > 0 && spec.SpotColorCount > quality.MaxSpotColors {
		return schema.Invalid("spotColorCount", schema.CodeOutOfRange, "exceeds the configured maximum")
	}
	if spec.SpotColorCount >= 0 {
		spec.PantoneColors = datatypes.JSONSlice[string](derive.ResizeSpotColors(spec.PantoneColors, spec.SpotColorCount))
	}

	if spec.HasInspection(domain.InspectionColorManagement) {
		if spec.ColorDifferenceValue == nil {
			if tolerance, ok := derive.DefaultTolerance(quality, spec.QualityGrade); ok {
				spec.ColorDifferenceValue = &tolerance
			}
		}
	} else {
		spec.ColorDifferenceMethod = ""
		spec.ColorDifferenceValue = nil
	}

	return s.fillFromMaterial(ctx, spec)
}

// fillFromMaterial copies thickness, colour and adhesive from the first
// referenced material into fields the caller left empty.
func (s *Service) fillFromMaterial(ctx context.Context, spec *domain.LabelSpec) error {
	if spec.Thickness != "" && spec.Color != "" && len(spec.Adhesives) > 0 {
		return nil
	}

	var materialID snowflake.ID
	for _, layer := range spec.SurfaceLayers {
		if layer.MaterialID != nil && *layer.MaterialID != 0 {
			materialID = *layer.MaterialID
			break
		}
	}
	if materialID == 0 {
		return nil
	}

	traits, err := s.repo.FindMaterialTraits(ctx, s.db, materialID)
	if err != nil {
		return err
	}
	if traits == nil {
		return schema.Invalid("surfaceLayers", schema.CodeInvalidFormat, "references an unknown material")
	}

	if spec.Thickness == "" && traits.Thickness.Valid {
		spec.Thickness = traits.Thickness.Decimal.String()
	}
	if spec.Color == "" {
		spec.Color = traits.Color
	}
	if len(spec.Adhesives) == 0 && strings.TrimSpace(traits.AdhesiveType) != "" {
		spec.Adhesives = datatypes.JSONSlice[string]{strings.TrimSpace(traits.AdhesiveType)}
	}
	return nil
}

// updateColumns expands a patch's field list into the columns to write.
// Derived columns are always rewritten with the group they depend on.
func updateColumns(fields []string) []string {
	cols := make([]string, 0, len(fields)+16)
	for _, f := range fields {
		if f == "SpecialPrint" {
			cols = append(cols, domain.SpecialPrintColumns...)
			continue
		}
		cols = append(cols, f)
	}
	return append(cols,
		"ShapeOther", "ReleaseDirectionOther", "AdhesionSurfaceOther",
		"UVCoatingOther", "LaminatingOther", "DieCuttingOther", "PackagingMethodOther",
		"LabelTypesOther", "UseEnvironmentsOther", "PrintMethodsOther", "InspectionItemsOther",
		"PantoneColors", "ColorDifferenceMethod", "ColorDifferenceValue",
		"Thickness", "Color", "Adhesives", "Tags",
		"UpdatedAt",
	)
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
