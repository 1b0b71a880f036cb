package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/labelworks/internal/clock"
	"github.com/smallbiznis/labelworks/internal/schema"
	"github.com/smallbiznis/labelworks/internal/supplier/domain"
	"github.com/smallbiznis/labelworks/internal/supplier/repository"
	"github.com/smallbiznis/labelworks/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	conn := dbtest.New(t, &domain.Supplier{}, &domain.SupplierContact{})
	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	return New(Params{
		DB:       conn,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     repository.Provide(),
		Contacts: repository.ProvideContacts(conn),
		Clock:    clk,
	}), conn, clk
}

func sampleSupplier(brn string) domain.Supplier {
	return domain.Supplier{
		BusinessRegistrationNumber: brn,
		BusinessName:               "Hanil Film " + brn,
		RepresentativeName:         "Kim",
		BusinessAddress:            "Ansan industrial complex",
		SupplierType:               "manufacturer",
		MaterialCategories:         datatypes.JSONSlice[string]{"film"},
	}
}

func TestCreateSupplierDefaults(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	input := sampleSupplier("123-45-67890")
	input.ApprovalStatus = domain.ApprovalApproved

	created, err := svc.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "B", created.SupplierGrade)
	assert.Equal(t, domain.ApprovalPending, created.ApprovalStatus)
	assert.Nil(t, created.ApprovalDate)
	assert.True(t, created.IsActive)
	assert.NotNil(t, created.QualityCertifications)
}

func TestCreateSupplierValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	input := sampleSupplier("")
	input.SupplierType = "broker"
	input.MaterialCategories = datatypes.JSONSlice[string]{"film", "plastic"}

	_, err := svc.Create(context.Background(), input)
	var verrs *schema.Errors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	assert.True(t, verrs.HasField("businessRegistrationNumber", schema.CodeRequired))
	assert.True(t, verrs.HasField("supplierType", schema.CodeEnumMismatch))
	assert.True(t, verrs.HasField("materialCategories[1]", schema.CodeEnumMismatch))
}

func TestCreateSupplierOtherTypeNeedsText(t *testing.T) {
	svc, _, _ := newTestService(t)

	input := sampleSupplier("222-22-22222")
	input.SupplierType = schema.Other

	_, err := svc.Create(context.Background(), input)
	var verrs *schema.Errors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.HasField("supplierTypeOther", schema.CodeRequired))

	input.SupplierTypeOther = "converter"
	created, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "converter", created.SupplierTypeOther)
}

func TestDuplicateRegistrationNumber(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, sampleSupplier("111-11-11111"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, sampleSupplier("111-11-11111"))
	assert.ErrorIs(t, err, domain.ErrDuplicateRegistration)
}

func TestApprovalWorkflow(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleSupplier("333-33-33333"))
	require.NoError(t, err)
	id := created.ID.String()

	_, err = svc.SetApproval(ctx, domain.ApprovalRequest{ID: id, Status: domain.ApprovalSuspended})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	reviewed, err := svc.SetApproval(ctx, domain.ApprovalRequest{ID: id, Status: domain.ApprovalReview})
	require.NoError(t, err)
	assert.Nil(t, reviewed.ApprovalDate)

	clk.Advance(24 * time.Hour)
	approver := snowflake.ID(42)
	approved, err := svc.SetApproval(ctx, domain.ApprovalRequest{ID: id, Status: domain.ApprovalApproved, ApprovedBy: &approver})
	require.NoError(t, err)
	require.NotNil(t, approved.ApprovalDate)
	assert.True(t, approved.ApprovalDate.Equal(clk.Now()))
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, approver, *approved.ApprovedBy)

	again, err := svc.SetApproval(ctx, domain.ApprovalRequest{ID: id, Status: domain.ApprovalApproved})
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, again.ApprovalStatus)

	suspended, err := svc.SetApproval(ctx, domain.ApprovalRequest{ID: id, Status: domain.ApprovalSuspended})
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalSuspended, suspended.ApprovalStatus)

	_, err = svc.SetApproval(ctx, domain.ApprovalRequest{ID: id, Status: "archived"})
	var verrs *schema.Errors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.HasField("status", schema.CodeEnumMismatch))

	stored, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalSuspended, stored.ApprovalStatus)
}

func TestUpdateIgnoresApprovalFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleSupplier("444-44-44444"))
	require.NoError(t, err)

	patch := domain.Supplier{SupplierGrade: "A", ApprovalStatus: domain.ApprovalApproved}
	updated, err := svc.Update(ctx, domain.UpdateRequest{
		ID:     created.ID.String(),
		Patch:  patch,
		Fields: []string{"SupplierGrade", "ApprovalStatus"},
	})
	require.NoError(t, err)
	assert.Equal(t, "A", updated.SupplierGrade)
	assert.Equal(t, domain.ApprovalPending, updated.ApprovalStatus)

	_, err = svc.Update(ctx, domain.UpdateRequest{
		ID:     created.ID.String(),
		Patch:  domain.Supplier{SupplierGrade: "Z"},
		Fields: []string{"SupplierGrade"},
	})
	var verrs *schema.Errors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.HasField("supplierGrade", schema.CodeEnumMismatch))
}

func TestListFilters(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()

	film := sampleSupplier("500-00-00001")
	_, err := svc.Create(ctx, film)
	require.NoError(t, err)

	clk.Advance(time.Minute)
	paper := sampleSupplier("500-00-00002")
	paper.BusinessName = "Daehan Paper"
	paper.SupplierType = "distributor"
	paper.MaterialCategories = datatypes.JSONSlice[string]{"paper", "liner"}
	_, err = svc.Create(ctx, paper)
	require.NoError(t, err)

	all, err := svc.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Daehan Paper", all[0].BusinessName)

	byCategory, err := svc.List(ctx, domain.ListFilter{MaterialCategories: []string{"liner", "ink"}})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Daehan Paper", byCategory[0].BusinessName)

	byType, err := svc.List(ctx, domain.ListFilter{SupplierType: "manufacturer"})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "500-00-00001", byType[0].BusinessRegistrationNumber)

	bySearch, err := svc.List(ctx, domain.ListFilter{Search: "daehan"})
	require.NoError(t, err)
	assert.Len(t, bySearch, 1)

	require.NoError(t, svc.Delete(ctx, bySearch[0].ID.String()))
	remaining, err := svc.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestContactsOrderingAndPrimary(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	supplier, err := svc.Create(ctx, sampleSupplier("600-00-00001"))
	require.NoError(t, err)
	sid := supplier.ID.String()

	first, err := svc.CreateContact(ctx, sid, domain.SupplierContact{Name: "Park", IsPrimary: true})
	require.NoError(t, err)
	_, err = svc.CreateContact(ctx, sid, domain.SupplierContact{Name: "Ahn"})
	require.NoError(t, err)

	contacts, err := svc.ListContacts(ctx, sid)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Park", contacts[0].Name)
	assert.Equal(t, "Ahn", contacts[1].Name)

	lee, err := svc.CreateContact(ctx, sid, domain.SupplierContact{
		Name:                   "Lee",
		IsPrimary:              true,
		PreferredContactMethod: "email",
		Email:                  "lee@example.com",
	})
	require.NoError(t, err)

	contacts, err = svc.ListContacts(ctx, sid)
	require.NoError(t, err)
	require.Len(t, contacts, 3)
	assert.Equal(t, lee.ID, contacts[0].ID)
	for _, c := range contacts[1:] {
		assert.False(t, c.IsPrimary, c.Name)
	}

	view, err := svc.GetByID(ctx, sid)
	require.NoError(t, err)
	assert.Len(t, view.Contacts, 3)

	renamed, err := svc.UpdateContact(ctx, domain.UpdateContactRequest{
		ID:     first.ID.String(),
		Patch:  domain.SupplierContact{Position: "Sales manager"},
		Fields: []string{"Position"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Park", renamed.Name)
	assert.Equal(t, "Sales manager", renamed.Position)

	require.NoError(t, svc.DeleteContact(ctx, first.ID.String()))
	contacts, err = svc.ListContacts(ctx, sid)
	require.NoError(t, err)
	assert.Len(t, contacts, 2)

	_, err = svc.UpdateContact(ctx, domain.UpdateContactRequest{
		ID:     first.ID.String(),
		Patch:  domain.SupplierContact{Position: "x"},
		Fields: []string{"Position"},
	})
	assert.ErrorIs(t, err, domain.ErrContactNotFound)
}

func TestContactValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	supplier, err := svc.Create(ctx, sampleSupplier("700-00-00001"))
	require.NoError(t, err)

	_, err = svc.CreateContact(ctx, supplier.ID.String(), domain.SupplierContact{PreferredContactMethod: "fax"})
	var verrs *schema.Errors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.HasField("name", schema.CodeRequired))
	assert.True(t, verrs.HasField("preferredContactMethod", schema.CodeEnumMismatch))

	_, err = svc.CreateContact(ctx, "999", domain.SupplierContact{Name: "Nobody"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvalidSupplierID(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.GetByID(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
