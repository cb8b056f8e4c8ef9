package db

import (
	"context"
	"log"
	"time"

	redis_v9 "github.com/redis/go-redis/v9"
)

var RedisClient *redis_v9.Client

// InitRedis connects to Redis. Returns nil when no URI is configured; the
// leaderboard cache is optional and callers must tolerate a nil client.
func InitRedis(uri string) *redis_v9.Client {
	if uri == "" {
		log.Println("Redis not configured, leaderboard cache disabled")
		return nil
	}

	opts, err := redis_v9.ParseURL(uri)
	if err != nil {
		log.Printf("Invalid REDIS_URI %q, leaderboard cache disabled: %v", uri, err)
		return nil
	}

	client := redis_v9.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Failed to ping Redis, leaderboard cache disabled: %v", err)
		return nil
	}

	RedisClient = client
	log.Println("Connected to Redis successfully")
	return client
}
