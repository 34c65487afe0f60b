package dashboard

import (
	"go.uber.org/fx"

	"github.com/elskow/portfolio-cms/internal/api"
)

func NewModule() fx.Option {
	return fx.Provide(
		NewRepository,
		NewService,
		api.AsRegistrar(NewHandler),
	)
}
