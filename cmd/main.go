package main

import (
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/app"
)

func main() {
	if _, ok := os.LookupEnv("APP_ENV"); !ok {
		os.Setenv("APP_ENV", "development")
	}

	fx.New(
		app.Module(),
		fx.StartTimeout(30*time.Second),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
	).Run()
}
