package app

import (
	"context"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/auth"
	"github.com/elskow/portfolio-cms/internal/blog"
	"github.com/elskow/portfolio-cms/internal/cache"
	"github.com/elskow/portfolio-cms/internal/contact"
	"github.com/elskow/portfolio-cms/internal/dashboard"
	"github.com/elskow/portfolio-cms/internal/database"
	"github.com/elskow/portfolio-cms/internal/middleware"
	"github.com/elskow/portfolio-cms/internal/migration"
	"github.com/elskow/portfolio-cms/internal/profile"
	"github.com/elskow/portfolio-cms/internal/project"
	"github.com/elskow/portfolio-cms/internal/server"
	"github.com/elskow/portfolio-cms/internal/skill"
	"github.com/elskow/portfolio-cms/internal/upload"
)

const shutdownTimeout = 10 * time.Second

// Module combines all application modules. Hook order follows the order
// below: schema migrations, then auto-migration, then the bootstrap admin.
func Module() fx.Option {
	return fx.Options(
		fx.Provide(newLogger),
		fx.Provide(server.LoadConfig),

		migration.Module(),
		database.Module(),
		cache.Module(),
		middleware.Module(),
		upload.NewModule(),

		auth.NewModule(),
		blog.NewModule(),
		project.NewModule(),
		skill.NewModule(),
		contact.NewModule(),
		profile.NewModule(),
		dashboard.NewModule(),

		fx.Provide(server.NewServer),
		fx.Invoke(registerHooks),
	)
}

func newLogger() (*zap.Logger, error) {
	return server.NewLogger(os.Getenv("APP_ENV"))
}

func registerHooks(
	lifecycle fx.Lifecycle,
	srv *server.Server,
	log *zap.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					log.Error("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return srv.Stop(ctx)
		},
	})
}
