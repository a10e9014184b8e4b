package database

import (
	"context"
	"fmt"
	"time"

	"Backend-SurveyHub/src/logger"

	"github.com/redis/go-redis/v9"
)

var (
	RedisClient *redis.Client
	RedisURI    string
)

// InitRedis connects to Redis when uri is set. An empty uri leaves RedisClient nil,
// which callers treat as development mode (no blacklist, no outcome cache, no queue).
func InitRedis(uri string) error {
	if uri == "" {
		logger.L().Warn("⚠️ REDIS_URI not set. Redis features are disabled.")
		return nil
	}

	c := redis.NewClient(&redis.Options{
		Addr:     uri, // เช่น localhost:6379
		Password: "",
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := c.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect redis: %w", err)
	}

	RedisClient = c
	RedisURI = uri
	logger.L().Info("✅ Redis connected")
	return nil
}
