package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fraud-screening-ledger/internal/config"
	goredis "github.com/redis/go-redis/v9"
)

// NewRedisClient opens a client for the suspension cache and verifies it with PING
func NewRedisClient(ctx context.Context, logger *slog.Logger, cfg *config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(redisOptions(cfg))

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis at %s: %w", cfg.Addr, err)
	}

	logger.Info("Connected to Redis", "addr", cfg.Addr, "db", cfg.DB)
	return client, nil
}

func redisOptions(cfg *config.RedisConfig) *goredis.Options {
	return &goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}
