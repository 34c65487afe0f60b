package skill

import (
	"go.uber.org/fx"

	"github.com/elskow/portfolio-cms/internal/api"
	"github.com/elskow/portfolio-cms/internal/database"
)

func NewModule() fx.Option {
	return fx.Options(
		database.ProvideModel(&Skill{}),
		fx.Provide(
			NewRepository,
			NewService,
			api.AsRegistrar(NewHandler),
		),
	)
}
