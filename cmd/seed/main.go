package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/band-vault/internal/auth"
	"github.com/spec-kit/band-vault/internal/config"
	"github.com/spec-kit/band-vault/internal/domain"
	"github.com/spec-kit/band-vault/internal/observability"
	"github.com/spec-kit/band-vault/internal/persistence"
	"github.com/spec-kit/band-vault/internal/repository"
)

type seedUser struct {
	email string
	name  string
	role  domain.Role
}

var seedUsers = []seedUser{
	{email: "user@example.com", name: "Band Member", role: domain.RoleUser},
	{email: "admin@example.com", name: "Band Admin", role: domain.RoleAdmin},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		logger.Fatal("SEED_PASSWORD is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pg, err := persistence.Shared(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	bands := repository.NewBandRepository(pg.PoolHandle())
	users := repository.NewUserRepository(pg.PoolHandle())

	hash, err := auth.HashPassword(password, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to hash password", zap.Error(err))
	}

	var band *domain.Band

	for _, su := range seedUsers {
		if _, err := users.GetByEmail(ctx, su.email); err == nil {
			logger.Info("user exists, skipping", zap.String("email", su.email))
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			logger.Fatal("failed to look up user", zap.String("email", su.email), zap.Error(err))
		}

		if band == nil {
			band = &domain.Band{Name: "Default Band"}
			if err := bands.Create(ctx, band); err != nil {
				logger.Fatal("failed to create band", zap.Error(err))
			}
		}

		user := &domain.User{
			Name:         su.name,
			Email:        su.email,
			PasswordHash: hash,
			Role:         su.role,
			BandID:       band.ID,
		}
		if err := users.Create(ctx, user); err != nil {
			logger.Fatal("failed to create user", zap.String("email", su.email), zap.Error(err))
		}
		logger.Info("seeded user", zap.String("email", su.email), zap.String("role", string(su.role)))
	}
}
