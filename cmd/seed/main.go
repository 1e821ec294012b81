// Package main implements a small seeding utility that inserts a demo set
// of users through the same store layer the server uses. It is a no-op when
// the database already contains users.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/joel-arnold/accounts-api/internal/config"
	"github.com/joel-arnold/accounts-api/internal/domain"
	"github.com/joel-arnold/accounts-api/internal/platform/logger"
	"github.com/joel-arnold/accounts-api/internal/platform/postgres"
	"github.com/joel-arnold/accounts-api/internal/service/auth"
	"github.com/joel-arnold/accounts-api/internal/store"
	"github.com/joel-arnold/accounts-api/migrations"
)

type seedUser struct {
	name     string
	email    string
	password string
}

var demoUsers = []seedUser{
	{"Alice", "alice@example.com", "alice-demo-pass"},
	{"Bob", "bob@example.com", "bob-demo-pass"},
	{"Carlos", "carlos@example.com", "carlos-demo-pass"},
}

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logr, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logr.Error("failed to close database", "error", closeErr)
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	users := postgres.NewUserStore(db, logr)
	hasher := auth.NewBcryptHasher()

	existing, err := users.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for existing users: %w", err)
	}
	if len(existing) > 0 {
		logr.Info("database already contains users, skipping seed", "count", len(existing))
		return nil
	}

	// Insert the demo set atomically so a partial seed never survives.
	err = store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := users.WithTx(tx)
		for _, su := range demoUsers {
			hashed, err := hasher.Hash(su.password)
			if err != nil {
				return fmt.Errorf("failed to hash password for %s: %w", su.name, err)
			}

			user, err := domain.NewUser(su.name, su.email, hashed)
			if err != nil {
				return fmt.Errorf("invalid demo user %s: %w", su.name, err)
			}

			if err := txUsers.Create(ctx, user); err != nil {
				return fmt.Errorf("failed to create demo user %s: %w", su.name, err)
			}

			logr.Info("demo user created", "user_id", user.ID, "name", user.Name)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			logr.Warn("demo users already present, nothing to do")
			return nil
		}
		return err
	}

	logr.Info("seed completed")
	return nil
}
