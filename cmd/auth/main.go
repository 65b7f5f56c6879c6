package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/stybayev/graduate-work/config"
	"github.com/stybayev/graduate-work/db"
	"github.com/stybayev/graduate-work/internal/auth/handler"
	"github.com/stybayev/graduate-work/internal/auth/middleware"
	repo "github.com/stybayev/graduate-work/internal/auth/repository/postgres"
	"github.com/stybayev/graduate-work/internal/auth/revocation"
	"github.com/stybayev/graduate-work/internal/auth/service"
	autherror "github.com/stybayev/graduate-work/internal/errors"
	"github.com/stybayev/graduate-work/internal/kv"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "auth").Logger()
	cfg := config.Load()
	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer dbPool.Close()

	redisClient, err := db.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	store := kv.NewRedisStore(redisClient)
	registry := revocation.NewRegistry(store)

	tokenService, err := service.NewTokenService(
		cfg.SigningSecret, cfg.SigningAlgorithm,
		cfg.AccessExpiryMin, cfg.RefreshExpiryMin,
		store, registry, log,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("token service init failed")
	}

	userRepo := repo.NewUserRepository(dbPool)
	roleRepo := repo.NewRoleRepository(dbPool)
	userService := service.NewUserService(userRepo, tokenService, log)
	roleService := service.NewRoleService(roleRepo, userRepo, cfg.AdminRoleName, log)

	gate := middleware.NewGate(tokenService, registry, log)
	authHandler := handler.NewAuthHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)

	app := fiber.New(fiber.Config{
		ErrorHandler: autherror.Handler,
	})
	handler.RegisterRoutes(app, authHandler, roleHandler, gate, roleService)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
