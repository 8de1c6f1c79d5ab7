package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/aleodoni/meetapp/internal/config"
	"github.com/aleodoni/meetapp/internal/logger"
	"github.com/go-redis/redis/v8"
)

// InitializeRedis connects to Redis for token revocation and checks the
// connection.
func InitializeRedis(cfg config.RedisConfig, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}

	log.Info("REDIS", fmt.Sprintf("Connected to Redis at %s (DB: %d) for token revocation", cfg.Addr, cfg.DB))
	return client, nil
}
