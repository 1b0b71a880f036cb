package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/labelworks/internal/clock"
	"github.com/smallbiznis/labelworks/internal/config"
	"github.com/smallbiznis/labelworks/internal/labelspec/domain"
	"github.com/smallbiznis/labelworks/internal/labelspec/repository"
	obscontext "github.com/smallbiznis/labelworks/internal/observability/context"
	"github.com/smallbiznis/labelworks/internal/schema"
	"github.com/smallbiznis/labelworks/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var start = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	conn := dbtest.New(t, &domain.LabelSpec{})
	require.NoError(t, conn.Exec(
		`CREATE TABLE materials (id INTEGER PRIMARY KEY, thickness NUMERIC, color TEXT, adhesive_type TEXT)`,
	).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(start)
	svc := New(Params{
		DB:      conn,
		Log:     zap.NewNop(),
		GenID:   node,
		Repo:    repository.Provide(),
		Clock:   clk,
		Quality: config.NewStaticQualityConfigHolder(config.DefaultQualityConfig()),
	})
	return svc, conn, clk
}

func sampleSpec(name string) domain.LabelSpec {
	return domain.LabelSpec{
		LabelName:       name,
		SizeWidth:       decimal.NewFromInt(50),
		SizeHeight:      decimal.NewFromInt(30),
		Shape:           "rectangle",
		LabelTypes:      datatypes.JSONSlice[string]{"transparent"},
		PrintMethods:    datatypes.JSONSlice[string]{"flexo"},
		SpotColorCount:  2,
		PantoneColors:   datatypes.JSONSlice[string]{"PANTONE 185 C"},
		InspectionItems: datatypes.JSONSlice[string]{"visual", domain.InspectionColorManagement},
		QualityGrade:    "best",
		Tags:            datatypes.JSONSlice[string]{"Food Grade", "food grade", "export"},
	}
}

func asErrors(t *testing.T, err error) *schema.Errors {
	t.Helper()
	var verrs *schema.Errors
	require.ErrorAs(t, err, &verrs)
	return verrs
}

func TestCreateAppliesDerivedFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := obscontext.WithActor(context.Background(), "kim")

	created, err := svc.Create(ctx, sampleSpec("Product Label A"))
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.True(t, created.IsActive)
	assert.Equal(t, "kim", created.CreatedBy)
	assert.True(t, created.CreatedAt.Equal(start))
	assert.Equal(t, []string{"PANTONE 185 C", ""}, []string(created.PantoneColors))
	assert.Equal(t, []string{"food-grade", "export"}, []string(created.Tags))
	require.NotNil(t, created.ColorDifferenceValue)
	assert.True(t, created.ColorDifferenceValue.Equal(decimal.RequireFromString("1.5")))

	stored, err := svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Product Label A", stored.LabelName)
	assert.True(t, stored.SizeWidth.Equal(decimal.NewFromInt(50)))
}

func TestCreateClearsToleranceWithoutColorManagement(t *testing.T) {
	svc, _, _ := newTestService(t)

	spec := sampleSpec("No colour check")
	spec.InspectionItems = datatypes.JSONSlice[string]{"visual"}
	value := decimal.NewFromInt(3)
	spec.ColorDifferenceValue = &value
	spec.ColorDifferenceMethod = "delta_e_00"

	created, err := svc.Create(context.Background(), spec)
	require.NoError(t, err)
	assert.Nil(t, created.ColorDifferenceValue)
	assert.Empty(t, created.ColorDifferenceMethod)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, _, _ := newTestService(t)

	spec := sampleSpec("")
	spec.Shape = "star"
	spec.PrintMethods = datatypes.JSONSlice[string]{"inkjet"}
	spec.SizeWidth = decimal.NewFromInt(-5)

	_, err := svc.Create(context.Background(), spec)
	verrs := asErrors(t, err)
	assert.True(t, verrs.HasField("labelName", schema.CodeRequired))
	assert.True(t, verrs.HasField("shape", schema.CodeEnumMismatch))
	assert.True(t, verrs.HasField("printMethods[0]", schema.CodeEnumMismatch))
	assert.True(t, verrs.HasField("sizeWidth", schema.CodeOutOfRange))

	spec = sampleSpec("Too many colours")
	spec.SpotColorCount = 40
	_, err = svc.Create(context.Background(), spec)
	assert.True(t, asErrors(t, err).HasField("spotColorCount", schema.CodeOutOfRange))
}

func TestOtherSentinelKeepsTextInSiblingColumn(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	spec := sampleSpec("Custom shape")
	spec.Shape = schema.Other
	_, err := svc.Create(ctx, spec)
	assert.True(t, asErrors(t, err).HasField("shapeOther", schema.CodeRequired))

	spec.ShapeOther = "heart"
	spec.PrintMethods = datatypes.JSONSlice[string]{"flexo", schema.Other}
	spec.PrintMethodsOther = "pad printing"
	created, err := svc.Create(ctx, spec)
	require.NoError(t, err)
	assert.Equal(t, schema.Other, created.Shape)
	assert.Equal(t, "heart", created.ShapeOther)

	updated, err := svc.Update(ctx, domain.UpdateRequest{
		ID:     created.ID.String(),
		Patch:  domain.LabelSpec{Shape: "circle", PrintMethods: datatypes.JSONSlice[string]{"offset"}},
		Fields: []string{"Shape", "PrintMethods"},
	})
	require.NoError(t, err)
	assert.Equal(t, "circle", updated.Shape)
	assert.Empty(t, updated.ShapeOther)
	assert.Empty(t, updated.PrintMethodsOther)
}

func TestUpdateChangesOnlySubmittedFields(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleSpec("Original"))
	require.NoError(t, err)

	clk.Advance(time.Hour)
	updated, err := svc.Update(ctx, domain.UpdateRequest{
		ID:     created.ID.String(),
		Patch:  domain.LabelSpec{Description: "new copy", LabelName: "ignored"},
		Fields: []string{"Description"},
	})
	require.NoError(t, err)

	assert.Equal(t, "new copy", updated.Description)
	assert.Equal(t, "Original", updated.LabelName)
	assert.True(t, updated.SizeHeight.Equal(decimal.NewFromInt(30)))
	assert.True(t, updated.UpdatedAt.Equal(start.Add(time.Hour)))
	assert.True(t, updated.CreatedAt.Equal(start))

	_, err = svc.Update(ctx, domain.UpdateRequest{
		ID:     created.ID.String(),
		Patch:  domain.LabelSpec{Shape: "hexagon"},
		Fields: []string{"Shape"},
	})
	assert.True(t, asErrors(t, err).HasField("shape", schema.CodeEnumMismatch))

	_, err = svc.Update(ctx, domain.UpdateRequest{ID: "12345", Fields: []string{"Description"}})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdateGradeResetsTolerance(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleSpec("Graded"))
	require.NoError(t, err)
	require.NotNil(t, created.ColorDifferenceValue)
	assert.True(t, created.ColorDifferenceValue.Equal(decimal.NewFromFloat(1.5)))

	updated, err := svc.Update(ctx, domain.UpdateRequest{
		ID:     created.ID.String(),
		Patch:  domain.LabelSpec{QualityGrade: "high"},
		Fields: []string{"QualityGrade"},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ColorDifferenceValue)
	assert.True(t, updated.ColorDifferenceValue.Equal(decimal.NewFromFloat(2)))

	updated, err = svc.Update(ctx, domain.UpdateRequest{
		ID:     created.ID.String(),
		Patch:  domain.LabelSpec{QualityGrade: "normal"},
		Fields: []string{"QualityGrade"},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ColorDifferenceValue)
	assert.True(t, updated.ColorDifferenceValue.Equal(decimal.NewFromFloat(2)))

	explicit := decimal.NewFromFloat(0.8)
	updated, err = svc.Update(ctx, domain.UpdateRequest{
		ID:     created.ID.String(),
		Patch:  domain.LabelSpec{QualityGrade: "best", ColorDifferenceValue: &explicit},
		Fields: []string{"QualityGrade", "ColorDifferenceValue"},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ColorDifferenceValue)
	assert.True(t, updated.ColorDifferenceValue.Equal(explicit))
}

func TestEmptyUpdateRefreshesUpdatedAt(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleSpec("Untouched"))
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	updated, err := svc.Update(ctx, domain.UpdateRequest{ID: created.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, "Untouched", updated.LabelName)
	assert.True(t, updated.UpdatedAt.Equal(start.Add(2*time.Hour)))
}

func TestDeleteIsSoft(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	kept, err := svc.Create(ctx, sampleSpec("Kept"))
	require.NoError(t, err)
	removed, err := svc.Create(ctx, sampleSpec("Removed"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, removed.ID.String()))

	items, err := svc.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, kept.ID, items[0].ID)

	got, err := svc.GetByID(ctx, removed.ID.String())
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	assert.ErrorIs(t, svc.Delete(ctx, "999"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "abc"), domain.ErrInvalidID)
}

func TestDuplicateCopiesEverythingButIdentity(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()

	source, err := svc.Create(ctx, sampleSpec("Product Label A"))
	require.NoError(t, err)
	source, err = svc.GetByID(ctx, source.ID.String())
	require.NoError(t, err)

	clk.Advance(time.Minute)
	dup, err := svc.Duplicate(ctx, domain.DuplicateRequest{ID: source.ID.String(), NewName: "Product Label A (copy)"})
	require.NoError(t, err)
	copied, err := svc.GetByID(ctx, dup.ID.String())
	require.NoError(t, err)

	assert.NotEqual(t, source.ID, copied.ID)
	assert.Equal(t, "Product Label A (copy)", copied.LabelName)
	assert.True(t, copied.CreatedAt.After(source.CreatedAt))

	copied.ID = source.ID
	copied.LabelName = source.LabelName
	copied.CreatedAt = source.CreatedAt
	copied.UpdatedAt = source.UpdatedAt
	assert.Equal(t, source, copied)

	_, err = svc.Duplicate(ctx, domain.DuplicateRequest{ID: source.ID.String(), NewName: "  "})
	assert.True(t, asErrors(t, err).HasField("newName", schema.CodeRequired))

	_, err = svc.Duplicate(ctx, domain.DuplicateRequest{ID: "42", NewName: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDuplicateOfInactiveSpecIsActive(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	source, err := svc.Create(ctx, sampleSpec("Retired"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, source.ID.String()))

	dup, err := svc.Duplicate(ctx, domain.DuplicateRequest{ID: source.ID.String(), NewName: "Revived"})
	require.NoError(t, err)
	assert.True(t, dup.IsActive)
}

func TestListFiltersAreCombined(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()

	a := sampleSpec("Shampoo front")
	a.CustomerCode = "ABC-01"
	_, err := svc.Create(ctx, a)
	require.NoError(t, err)

	clk.Advance(time.Second)
	b := sampleSpec("Shampoo back")
	b.LabelTypes = datatypes.JSONSlice[string]{"metallic"}
	b.Tags = datatypes.JSONSlice[string]{"cosmetics"}
	_, err = svc.Create(ctx, b)
	require.NoError(t, err)

	clk.Advance(time.Second)
	c := sampleSpec("Wine neck")
	c.PrintMethods = datatypes.JSONSlice[string]{"offset"}
	_, err = svc.Create(ctx, c)
	require.NoError(t, err)

	all, err := svc.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Wine neck", all[0].LabelName)

	items, err := svc.List(ctx, domain.ListFilter{Search: "SHAMPOO"})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = svc.List(ctx, domain.ListFilter{Search: "abc-01"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Shampoo front", items[0].LabelName)

	items, err = svc.List(ctx, domain.ListFilter{Search: "shampoo", LabelTypes: []string{"metallic", "hologram"}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Shampoo back", items[0].LabelName)

	items, err = svc.List(ctx, domain.ListFilter{PrintMethods: []string{"offset"}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Wine neck", items[0].LabelName)

	items, err = svc.List(ctx, domain.ListFilter{Tags: []string{"Food Grade"}})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCreateFillsMaterialTraits(t *testing.T) {
	svc, conn, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, conn.Exec(
		`INSERT INTO materials (id, thickness, color, adhesive_type) VALUES (?, ?, ?, ?)`,
		77, 50, "white", "acrylic",
	).Error)

	materialID := snowflake.ID(77)
	spec := sampleSpec("With material")
	spec.SurfaceLayerCount = 1
	spec.SurfaceLayers = datatypes.JSONSlice[domain.SurfaceLayer]{{Layer: 1, MaterialID: &materialID, Material: "PP white"}}
	spec.Color = "clear"

	created, err := svc.Create(ctx, spec)
	require.NoError(t, err)
	assert.Equal(t, "50", created.Thickness)
	assert.Equal(t, "clear", created.Color)
	assert.Equal(t, []string{"acrylic"}, []string(created.Adhesives))

	missing := snowflake.ID(78)
	spec.SurfaceLayers = datatypes.JSONSlice[domain.SurfaceLayer]{{Layer: 1, MaterialID: &missing}}
	spec.Color = ""
	_, err = svc.Create(ctx, spec)
	assert.True(t, asErrors(t, err).HasField("surfaceLayers", schema.CodeInvalidFormat))
}
