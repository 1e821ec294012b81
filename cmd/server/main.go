// Package main implements the entry point for the accounts API server,
// a REST API over user accounts with bearer-token authentication and
// soft-delete semantics.
package main

import (
	"context"
	"log"

	"github.com/joel-arnold/accounts-api/internal/config"
	"github.com/joel-arnold/accounts-api/internal/platform/logger"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		// Startup failures are fatal: the process must not accept traffic
		// in a half-configured state.
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := app.run(context.Background()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging and wires the
// application's dependencies.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logr, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return nil, err
	}

	logr.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	return newApplication(cfg, logr)
}
