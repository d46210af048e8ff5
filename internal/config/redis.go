package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis using REDIS_ADDR (or REDIS_HOST and
// REDIS_PORT), REDIS_PASSWORD and REDIS_DB. Redis backs the response
// cache and the rate limiter only, so a failed ping returns nil and the
// middleware degrades to pass-through instead of blocking startup.
func NewRedisClient() *redis.Client {
	addr := envStr("REDIS_ADDR", "")
	if host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", ""); host != "" && port != "" {
		addr = host + ":" + port
	}
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: envStr("REDIS_PASSWORD", ""),
		DB:       envInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
