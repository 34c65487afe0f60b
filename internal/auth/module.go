package auth

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/elskow/portfolio-cms/internal/api"
	"github.com/elskow/portfolio-cms/internal/config"
	"github.com/elskow/portfolio-cms/internal/database"
)

// NewModule returns the auth module options
func NewModule() fx.Option {
	return fx.Options(
		database.ProvideModel(&Account{}),
		fx.Provide(
			// Provide repository
			func(db *gorm.DB) Repository {
				return NewRepository(db)
			},
			// Provide service
			func(config *config.AppConfig, log *zap.Logger, repo Repository) *Service {
				return NewService(&config.Auth, log, repo)
			},
			NewMiddleware,
			api.AsRegistrar(NewHandler),
		),
		fx.Invoke(registerHooks),
	)
}

// registerHooks must be invoked after the database module so the accounts
// table exists when the bootstrap admin is created.
func registerHooks(lifecycle fx.Lifecycle, svc *Service) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return svc.EnsureBootstrapAdmin(ctx)
		},
	})
}
