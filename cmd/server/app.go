package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/joel-arnold/accounts-api/internal/config"
	"github.com/joel-arnold/accounts-api/internal/platform/postgres"
	"github.com/joel-arnold/accounts-api/internal/service/account"
	"github.com/joel-arnold/accounts-api/internal/service/auth"
	"github.com/joel-arnold/accounts-api/internal/store"
)

// application holds the wired dependency graph. Everything is constructed
// here and passed down explicitly; there are no global singletons.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	db       *sql.DB
	users    store.UserStore
	accounts *account.Service
}

// newApplication connects to the database, runs migrations and builds the
// service graph.
func newApplication(cfg *config.Config, logr *slog.Logger) (*application, error) {
	ctx := context.Background()

	db, err := openDatabase(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	logr.Info("database ready")

	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	hasher := auth.NewBcryptHasher()
	users := postgres.NewUserStore(db, logr)
	accounts := account.NewService(users, tokens, hasher, hasher, logr)

	return &application{
		config:   cfg,
		logger:   logr,
		db:       db,
		users:    users,
		accounts: accounts,
	}, nil
}

// run starts the HTTP server and blocks until shutdown.
func (app *application) run(ctx context.Context) error {
	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
