package seed

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/labelworks/internal/clock"
	"github.com/smallbiznis/labelworks/internal/config"
	userdomain "github.com/smallbiznis/labelworks/internal/user/domain"
	"github.com/smallbiznis/labelworks/internal/user/password"
	userrepo "github.com/smallbiznis/labelworks/internal/user/repository"
	userservice "github.com/smallbiznis/labelworks/internal/user/service"
	"github.com/smallbiznis/labelworks/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserService(t *testing.T) userdomain.Service {
	t.Helper()

	conn := dbtest.New(t, &userdomain.User{})
	node, err := snowflake.NewNode(9)
	require.NoError(t, err)

	return userservice.New(userservice.Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  userrepo.Provide(),
		Clock: clock.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
}

func TestEnsureAdminCreatesOnce(t *testing.T) {
	users := newUserService(t)
	ctx := context.Background()
	cfg := config.BootstrapConfig{
		EnsureAdminUser: true,
		AdminUsername:   "Admin",
		AdminPassword:   "bootstrap-pass",
		AdminEmail:      "admin@labelworks.local",
	}

	require.NoError(t, EnsureAdmin(ctx, users, cfg, zap.NewNop()))
	require.NoError(t, EnsureAdmin(ctx, users, cfg, zap.NewNop()))

	admin, err := users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, userdomain.RoleAdmin, admin.Role)
	assert.True(t, password.Verify("bootstrap-pass", admin.PasswordHash))

	all, err := users.List(ctx, userdomain.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEnsureAdminDisabled(t *testing.T) {
	users := newUserService(t)
	ctx := context.Background()

	require.NoError(t, EnsureAdmin(ctx, users, config.BootstrapConfig{}, zap.NewNop()))

	_, err := users.GetByUsername(ctx, "admin")
	assert.ErrorIs(t, err, userdomain.ErrNotFound)
}

func TestEnsureAdminRequiresPassword(t *testing.T) {
	users := newUserService(t)

	err := EnsureAdmin(context.Background(), users, config.BootstrapConfig{EnsureAdminUser: true}, zap.NewNop())
	assert.ErrorIs(t, err, ErrAdminPasswordRequired)
}
