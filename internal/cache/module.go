package cache

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/config"
)

func Module() fx.Option {
	return fx.Options(
		fx.Provide(func(cfg *config.AppConfig, log *zap.Logger) Cache {
			return New(&cfg.Redis, log)
		}),
		fx.Invoke(registerHooks),
	)
}

func registerHooks(lifecycle fx.Lifecycle, c Cache, log *zap.Logger) {
	r, ok := c.(*Redis)
	if !ok {
		return
	}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := r.Ping(ctx); err != nil {
				// The API keeps working without the cache; reads fall through to the database.
				log.Warn("redis unreachable at startup", zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("closing redis connection")
			return r.Close()
		},
	})
}
