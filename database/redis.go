package database

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis builds a redis client from REDIS_ADDR/REDIS_PASSWORD and
// verifies the connection. Redis backs the weekly favorites curation only,
// so callers treat a failure here as "feature off", not fatal.
func ConnectRedis() (*redis.Client, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
