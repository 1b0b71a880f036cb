package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/labelworks/internal/clock"
	"github.com/smallbiznis/labelworks/internal/schema"
	"github.com/smallbiznis/labelworks/internal/user/domain"
	"github.com/smallbiznis/labelworks/internal/user/password"
	"github.com/smallbiznis/labelworks/internal/user/repository"
	"github.com/smallbiznis/labelworks/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	conn := dbtest.New(t, &domain.User{})
	node, err := snowflake.NewNode(4)
	require.NoError(t, err)

	return New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Clock: clock.NewFakeClock(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)),
	})
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateUserRequest{
		Username: " Minji ",
		Password: "s3cret-pass",
		Email:    "minji@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "minji", created.Username)
	assert.Equal(t, domain.RoleStaff, created.Role)
	assert.True(t, password.Verify("s3cret-pass", created.PasswordHash))

	raw, err := json.Marshal(created)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "passwordHash")
	assert.NotContains(t, string(raw), created.PasswordHash)

	byName, err := svc.GetByUsername(ctx, "MINJI")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
}

func TestCreateUserValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateUserRequest{
		Username: "ab",
		Password: "short",
		Role:     "owner",
	})
	var verrs *schema.Errors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	assert.True(t, verrs.HasField("username", schema.CodeOutOfRange))
	assert.True(t, verrs.HasField("password", schema.CodeOutOfRange))
	assert.True(t, verrs.HasField("role", schema.CodeEnumMismatch))
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	req := domain.CreateUserRequest{Username: "admin", Password: "password1", Role: domain.RoleAdmin}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
}

func TestListUsersByRole(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, req := range []domain.CreateUserRequest{
		{Username: "zed", Password: "password1", Role: domain.RoleManager},
		{Username: "amy", Password: "password1", Role: domain.RoleStaff},
		{Username: "bob", Password: "password1", Role: domain.RoleStaff},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "amy", all[0].Username)

	staff, err := svc.List(ctx, domain.ListFilter{Role: domain.RoleStaff})
	require.NoError(t, err)
	assert.Len(t, staff, 2)
}

func TestGetUserErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.GetByID(ctx, "12345")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
