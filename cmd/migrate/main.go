package main

import (
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/migration"
	"github.com/elskow/portfolio-cms/internal/server"
)

func main() {
	command := flag.String("command", "up", "migration command (up/down/down-to/status/version/reset)")
	target := flag.Int64("version", 0, "target version for down-to")
	flag.Parse()

	if os.Getenv("APP_ENV") == "" {
		os.Setenv("APP_ENV", "development")
	}

	log, err := server.NewLogger(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	migrator, err := migration.NewMigrator(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer migrator.Close()

	switch *command {
	case "up":
		if err := migrator.Up(); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
		log.Info("Successfully ran migrations")

	case "down":
		if err := migrator.Down(); err != nil {
			log.Fatal("Failed to rollback migrations", zap.Error(err))
		}
		log.Info("Successfully rolled back migrations")

	case "down-to":
		if err := migrator.DownTo(*target); err != nil {
			log.Fatal("Failed to rollback migrations", zap.Int64("version", *target), zap.Error(err))
		}
		log.Info("Rolled back migrations", zap.Int64("version", *target))

	case "status":
		if err := migrator.Status(); err != nil {
			log.Fatal("Failed to get migration status", zap.Error(err))
		}

	case "version":
		version, err := migrator.Version()
		if err != nil {
			log.Fatal("Failed to get migration version", zap.Error(err))
		}
		log.Info("Current migration version", zap.Int64("version", version))

	case "reset":
		if err := migrator.Reset(); err != nil {
			log.Fatal("Failed to reset migrations", zap.Error(err))
		}
		log.Info("Successfully reset migrations")

	default:
		log.Fatal("Unknown command", zap.String("command", *command))
	}
}
