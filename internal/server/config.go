package server

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/elskow/portfolio-cms/internal/config"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

const defaultJWTSecret = "change-me-in-production"

func LoadConfig() (*config.AppConfig, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = EnvDevelopment
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath("./config/server")

	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Env = env

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.upload_dir", "uploads")
	v.SetDefault("server.max_image_width", 1200)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "portfolio")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "data/portfolio.db")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("auth.jwt_secret", defaultJWTSecret)
	v.SetDefault("auth.token_expiration", 7*24*time.Hour)
	v.SetDefault("auth.max_failed_attempts", 5)
	v.SetDefault("auth.failure_window", 2*time.Hour)
	v.SetDefault("auth.lockout_duration", 2*time.Hour)
	v.SetDefault("auth.bootstrap_username", "")
	v.SetDefault("auth.bootstrap_email", "")
	v.SetDefault("auth.bootstrap_password", "")

	v.SetDefault("rate_limit.requests_per_minute", 100)
	v.SetDefault("rate_limit.burst", 50)
	v.SetDefault("rate_limit.login_per_minute", 10)
	v.SetDefault("rate_limit.login_burst", 10)
	v.SetDefault("rate_limit.contact_per_minute", 5)
	v.SetDefault("rate_limit.contact_burst", 5)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)
}

func validateConfig(cfg *config.AppConfig) error {
	if cfg.Env == EnvProduction && cfg.Auth.JWTSecret == defaultJWTSecret {
		return errors.New("auth.jwt_secret must be set in production")
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret must not be empty")
	}
	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if cfg.Auth.MaxFailedAttempts < 1 {
		return errors.New("auth.max_failed_attempts must be at least 1")
	}
	// The lockout has to answer before the login limiter does.
	if cfg.RateLimit.LoginBurst <= cfg.Auth.MaxFailedAttempts {
		return fmt.Errorf("rate_limit.login_burst (%d) must exceed auth.max_failed_attempts (%d)",
			cfg.RateLimit.LoginBurst, cfg.Auth.MaxFailedAttempts)
	}
	return nil
}
