// Package redisstore provides the Redis-backed session store and the
// workflow consumer's deduplication and metrics primitives.
package redisstore

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config contains Redis connection configuration.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Connect establishes a connection to Redis with retries.
func Connect(cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	var err error
	for i := 0; i < 30; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = client.Ping(ctx).Err()
		cancel()
		if err == nil {
			log.Println("Connected to Redis")
			return client, nil
		}

		log.Printf("Failed to ping Redis: %v, retrying in 2s...", err)
		time.Sleep(2 * time.Second)
	}

	return nil, fmt.Errorf("could not connect to Redis after 30 attempts: %w", err)
}
