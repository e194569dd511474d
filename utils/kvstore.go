package utils

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"clinicore/config"
)

// KVStore is a small TTL-scoped key-value capability. The inquiry intake
// rate limiter and verification-code flows depend on this interface instead
// of process-wide maps so that expiry is explicit and the backend swappable.
type KVStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

// KVClient is the shared Redis client backing the KV store.
var KVClient *redis.Client

// InitKV initializes the Redis client used for TTL key-value storage.
func InitKV() {
	KVClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisKVDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := KVClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (KV): %v", err)
	}
}

// GetKVStore returns the Redis-backed KV store.
func GetKVStore() KVStore {
	if KVClient == nil {
		InitKV()
	}
	return &redisKV{client: KVClient}
}

type redisKV struct {
	client *redis.Client
}

func (s *redisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *redisKV) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
