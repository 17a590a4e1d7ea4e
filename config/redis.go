package config

import (
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// ConnectRedis connects to s.Redis.URL. Redis is optional for the catalog:
// with no URL it returns (nil, nil) and the storefront runs without rate
// limiting.
func ConnectRedis(s Settings) (*redis.Client, error) {
	if s.Redis.URL == "" {
		log.Println("⚠️  REDIS_URL not set, rate limiting disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(s.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := WithTimeout()
	defer cancel()
	res, err := client.Ping(ctx).Result()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("✅ Connected to Redis:", res)

	RedisClient = client
	return client, nil
}

func CloseRedis() {
	if RedisClient != nil {
		RedisClient.Close()
		log.Println("✅ Redis connection closed")
	}
}
