package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/stybayev/graduate-work/config"
	"github.com/stybayev/graduate-work/db"
	autherror "github.com/stybayev/graduate-work/internal/errors"
	"github.com/stybayev/graduate-work/internal/gateway"
	"github.com/stybayev/graduate-work/internal/kv"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "gateway").Logger()
	cfg := config.LoadGateway()
	ctx := context.Background()

	redisClient, err := db.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	table, err := gateway.ParseServiceMap(cfg.ServiceMap)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid GATEWAY_SERVICE_MAP")
	}

	store := kv.NewRedisStore(redisClient)
	limiter := gateway.NewLimiter(store, cfg.RateLimitPerMinute, cfg.RateLimitKeyTTLSec, log)
	proxy := gateway.NewProxy(gateway.NewRouter(table), log)

	app := fiber.New(fiber.Config{
		ErrorHandler: autherror.Handler,
	})
	app.Use(limiter.Middleware())
	app.All("/*", proxy.Handle)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
