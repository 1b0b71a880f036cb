package migration

import (
	"context"
	"strings"

	"github.com/smallbiznis/labelworks/internal/config"
	"github.com/smallbiznis/labelworks/internal/seed"
	userdomain "github.com/smallbiznis/labelworks/internal/user/domain"
	"github.com/smallbiznis/labelworks/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, users userdomain.Service, log *zap.Logger) error {
		log = log.Named("migration")

		if strings.EqualFold(cfg.DBType, db.TypePostgres) {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else if err := AutoMigrate(conn); err != nil {
			return err
		}
		log.Info("schema ready", zap.String("type", cfg.DBType))

		return seed.EnsureAdmin(context.Background(), users, cfg.Bootstrap, log)
	}),
)
