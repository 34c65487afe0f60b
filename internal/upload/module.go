package upload

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/config"
)

func NewModule() fx.Option {
	return fx.Provide(func(cfg *config.AppConfig, log *zap.Logger) (*Store, error) {
		return NewStore(&cfg.Server, log.Named("upload"))
	})
}
