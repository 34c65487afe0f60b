package middleware

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/elskow/portfolio-cms/internal/config"
)

func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			func(cfg *config.AppConfig) *APILimiter {
				return &APILimiter{NewIPRateLimiter(
					cfg.RateLimit.RequestsPerMinute,
					cfg.RateLimit.Burst,
					"Too many requests, please try again later",
				)}
			},
			func(cfg *config.AppConfig) *LoginLimiter {
				return &LoginLimiter{NewIPRateLimiter(
					cfg.RateLimit.LoginPerMinute,
					cfg.RateLimit.LoginBurst,
					"Too many login attempts, please try again later",
				)}
			},
			func(cfg *config.AppConfig) *ContactLimiter {
				return &ContactLimiter{NewIPRateLimiter(
					cfg.RateLimit.ContactPerMinute,
					cfg.RateLimit.ContactBurst,
					"Too many messages, please try again later",
				)}
			},
		),
		fx.Invoke(registerHooks),
	)
}

func registerHooks(lifecycle fx.Lifecycle, api *APILimiter, login *LoginLimiter, contact *ContactLimiter) {
	limiters := []*IPRateLimiter{api.IPRateLimiter, login.IPRateLimiter, contact.IPRateLimiter}
	lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			for _, l := range limiters {
				go l.Cleanup(5 * time.Minute)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			for _, l := range limiters {
				l.Stop()
			}
			return nil
		},
	})
}
