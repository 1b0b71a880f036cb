package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/labelworks/internal/config"
	userdomain "github.com/smallbiznis/labelworks/internal/user/domain"
	"go.uber.org/zap"
)

var ErrAdminPasswordRequired = errors.New("bootstrap admin password is required")

// EnsureAdmin creates the bootstrap admin account unless a user with the
// same username already exists. It is a no-op when bootstrap is disabled.
func EnsureAdmin(ctx context.Context, users userdomain.Service, cfg config.BootstrapConfig, log *zap.Logger) error {
	if !cfg.EnsureAdminUser {
		return nil
	}
	if users == nil {
		return errors.New("seed user service is required")
	}

	username := strings.ToLower(strings.TrimSpace(cfg.AdminUsername))
	if username == "" {
		username = "admin"
	}

	existing, err := users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		log.Debug("bootstrap admin present", zap.String("username", existing.Username))
		return nil
	case !errors.Is(err, userdomain.ErrNotFound):
		return err
	}

	if strings.TrimSpace(cfg.AdminPassword) == "" {
		return ErrAdminPasswordRequired
	}

	created, err := users.Create(ctx, userdomain.CreateUserRequest{
		Username: username,
		Password: cfg.AdminPassword,
		Email:    strings.TrimSpace(cfg.AdminEmail),
		Role:     userdomain.RoleAdmin,
		Position: "Administrator",
	})
	if errors.Is(err, userdomain.ErrDuplicateUsername) {
		return nil
	}
	if err != nil {
		return err
	}

	log.Info("bootstrap admin created", zap.String("username", created.Username))
	return nil
}
