package main

import (
	"flag"

	"github.com/joho/godotenv"

	"github.com/oksasatya/invest-marketplace/config"
	pginfra "github.com/oksasatya/invest-marketplace/internal/infrastructure/postgres"
	"github.com/oksasatya/invest-marketplace/pkg/helpers"
)

// migrate applies or rolls back the embedded schema migrations.
//
//	go run ./cmd/migrate -direction up
func main() {
	direction := flag.String("direction", "up", "up or down")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-migrate", cfg.Env, cfg.LogLevel)

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), *direction, logger); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}
	logger.WithField("direction", *direction).Info("migrations done")
}
