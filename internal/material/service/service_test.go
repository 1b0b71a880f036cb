package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/labelworks/internal/clock"
	"github.com/smallbiznis/labelworks/internal/material/domain"
	"github.com/smallbiznis/labelworks/internal/material/repository"
	"github.com/smallbiznis/labelworks/internal/schema"
	"github.com/smallbiznis/labelworks/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	conn := dbtest.New(t, &domain.Material{})
	require.NoError(t, conn.Exec(
		`CREATE TABLE suppliers (id INTEGER PRIMARY KEY, business_name TEXT, supplier_grade TEXT, approval_status TEXT)`,
	).Error)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	return New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Clock: clk,
	}), conn, clk
}

func film(name string) domain.Material {
	return domain.Material{
		Name:                    name,
		MaterialCode:            "PP-" + name,
		Category:                "film",
		Type:                    "PP",
		Unit:                    "roll",
		Width:                   decimal.NewFromInt(500),
		Length:                  decimal.NewFromInt(1000),
		UnitPrice:               decimal.NewFromInt(850),
		CurrentStock:            decimal.NewFromInt(10),
		CompatibleLabelTypes:    datatypes.JSONSlice[string]{"transparent"},
		PrintingMethods:         datatypes.JSONSlice[string]{"flexo"},
		RecommendedApplications: datatypes.JSONSlice[string]{"cosmetics"},
		ChemicalResistance:      datatypes.NewJSONType(domain.ChemicalResistance{Water: true, Oil: true}),
	}
}

func TestCreateDerivesMOQPrice(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	input := film("Clear PP")
	input.MinimumOrderQuantity = decimal.NewFromInt(1)

	created, err := svc.Create(ctx, input)
	require.NoError(t, err)
	assert.True(t, created.MinimumOrderQuantity.Equal(decimal.NewFromInt(425000)), created.MinimumOrderQuantity.String())
	assert.Equal(t, domain.StatusActive, created.Status)
	assert.True(t, created.IsActive)
	assert.Nil(t, created.PrimarySupplier)
	assert.True(t, created.ChemicalResistance.Data().Oil)
}

func TestUpdateRecomputesMOQPrice(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, film("Clear PP"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, domain.UpdateRequest{
		ID:     created.ID.String(),
		Patch:  domain.Material{Width: decimal.NewFromInt(250)},
		Fields: []string{"Width"},
	})
	require.NoError(t, err)
	assert.True(t, updated.MinimumOrderQuantity.Equal(decimal.NewFromInt(212500)), updated.MinimumOrderQuantity.String())
	assert.Equal(t, "Clear PP", updated.Name)
}

func TestCreateMaterialValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Material{Category: "plastic", Status: "gone"})
	var verrs *schema.Errors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.HasField("name", schema.CodeRequired))
	assert.True(t, verrs.HasField("unit", schema.CodeRequired))
	assert.True(t, verrs.HasField("category", schema.CodeEnumMismatch))
	assert.True(t, verrs.HasField("status", schema.CodeEnumMismatch))

	unknown := snowflake.ID(999)
	input := film("Orphan")
	input.PrimarySupplierID = &unknown
	_, err = svc.Create(ctx, input)
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.HasField("primarySupplierId", schema.CodeInvalidFormat))

	low, high := 80, -20
	input = film("Backwards")
	input.TemperatureResistanceMin = &low
	input.TemperatureResistanceMax = &high
	_, err = svc.Create(ctx, input)
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.HasField("temperatureResistanceMax", schema.CodeOutOfRange))
}

func TestMaterialsJoinPrimarySupplier(t *testing.T) {
	svc, conn, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, conn.Exec(
		`INSERT INTO suppliers (id, business_name, supplier_grade, approval_status) VALUES (5, 'Film Co', 'A', 'approved')`,
	).Error)

	supplierID := snowflake.ID(5)
	input := film("Supplied")
	input.PrimarySupplierID = &supplierID
	created, err := svc.Create(ctx, input)
	require.NoError(t, err)
	require.NotNil(t, created.PrimarySupplier)
	assert.Equal(t, "Film Co", created.PrimarySupplier.BusinessName)

	items, err := svc.List(ctx, domain.ListFilter{SupplierID: &supplierID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].PrimarySupplier.SupplierGrade)
}

func TestListAndSoftDelete(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, film("Clear PP"))
	require.NoError(t, err)

	clk.Advance(time.Second)
	paper := film("Art paper")
	paper.Category = "paper"
	paper.Type = "Art"
	paper.Tags = datatypes.JSONSlice[string]{"Eco"}
	_, err = svc.Create(ctx, paper)
	require.NoError(t, err)

	items, err := svc.List(ctx, domain.ListFilter{Category: "paper"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Art paper", items[0].Name)

	items, err = svc.List(ctx, domain.ListFilter{Search: "pp-clear"})
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, err = svc.List(ctx, domain.ListFilter{Tags: []string{"eco"}})
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, svc.Delete(ctx, a.ID.String()))
	items, err = svc.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	got, err := svc.GetByID(ctx, a.ID.String())
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestSearchBySpecification(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, film("Clear PP"))
	require.NoError(t, err)

	clk.Advance(time.Second)
	metal := film("Metallic PET")
	metal.CompatibleLabelTypes = datatypes.JSONSlice[string]{"metallic"}
	metal.PrintingMethods = datatypes.JSONSlice[string]{"offset", "flexo"}
	metal.ChemicalResistance = datatypes.NewJSONType(domain.ChemicalResistance{Water: true, Solvent: true})
	_, err = svc.Create(ctx, metal)
	require.NoError(t, err)

	found, err := svc.SearchBySpecification(ctx, domain.SpecificationQuery{PrintingMethod: "flexo"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = svc.SearchBySpecification(ctx, domain.SpecificationQuery{LabelType: "metallic", PrintingMethod: "flexo"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Metallic PET", found[0].Name)

	found, err = svc.SearchBySpecification(ctx, domain.SpecificationQuery{ChemicalResistance: []string{"water", "oil"}})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Clear PP", found[0].Name)

	found, err = svc.SearchBySpecification(ctx, domain.SpecificationQuery{Application: "food"})
	require.NoError(t, err)
	assert.Empty(t, found)
}
