package database

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/elskow/portfolio-cms/internal/config"
)

// ModelsGroup is the fx value group every domain module adds its gorm models to.
const ModelsGroup = `group:"models"`

// ProvideModel registers a gorm model for auto-migration.
func ProvideModel(model any) fx.Option {
	return fx.Provide(
		fx.Annotate(
			func() any { return model },
			fx.ResultTags(ModelsGroup),
		),
	)
}

func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			func(config *config.AppConfig, logger *zap.Logger) (*Manager, error) {
				return NewManager(&config.Database, logger)
			},
			func(m *Manager) *gorm.DB {
				return m.DB()
			},
		),
		fx.Invoke(
			fx.Annotate(
				registerHooks,
				fx.ParamTags(``, ``, ``, ``, ModelsGroup),
			),
		),
	)
}

func registerHooks(
	lifecycle fx.Lifecycle,
	manager *Manager,
	cfg *config.AppConfig,
	logger *zap.Logger,
	models []any,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := manager.Ping(ctx); err != nil {
				return err
			}
			if cfg.Database.AutoMigrate || cfg.Database.Driver == "sqlite" {
				return manager.AutoMigrate(models...)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing database connections")
			return manager.Close()
		},
	})
}
