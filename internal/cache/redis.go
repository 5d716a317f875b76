package cache

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"thanksboard/internal/config"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

// Store is the slice of Redis the services use: a read-through cache and a fixed-window limiter.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	SetWithRandomTTL(ctx context.Context, key string, value interface{}, baseTTL time.Duration) error
	Del(ctx context.Context, key string) error
	AllowRequest(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type RedisCache struct {
	client *redis.Client
}

func NewRedis(cfg *config.Config) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: rdb}, nil
}

// New returns Redis when enabled and reachable, otherwise a no-op store.
// The service works without Redis; it only loses caching and rate limiting.
func New(cfg *config.Config, logger *zap.Logger) Store {
	if !cfg.Redis.Enabled {
		return Nop{}
	}
	rc, err := NewRedis(cfg)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", zap.Error(err))
		return Nop{}
	}
	logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))
	return rc
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return val, err
}

func (c *RedisCache) SetWithRandomTTL(ctx context.Context, key string, value interface{}, baseTTL time.Duration) error {
	return c.client.Set(ctx, key, value, jitter(baseTTL, rand.Int63n)).Err()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

const allowScript = `
local current = redis.call("INCR", KEYS[1])
if tonumber(current) == 1 then
    redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

// AllowRequest counts hits on key within a window; the first hit starts the window.
func (c *RedisCache) AllowRequest(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := c.client.Eval(ctx, allowScript, []string{key}, int(window.Seconds())).Int()
	if err != nil {
		return true, err
	}
	return count <= limit, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// jitter spreads expiries by ±10% so cached keys do not all expire together.
func jitter(base time.Duration, int63n func(int64) int64) time.Duration {
	spread := int64(base / 5)
	if spread <= 0 {
		return base
	}
	ttl := base + time.Duration(int63n(spread)-int64(base/10))
	if ttl <= 0 {
		return base
	}
	return ttl
}

// Nop stands in when Redis is disabled: every read misses and every request is allowed.
type Nop struct{}

func (Nop) Get(context.Context, string) (string, error) { return "", ErrMiss }

func (Nop) SetWithRandomTTL(context.Context, string, interface{}, time.Duration) error { return nil }

func (Nop) Del(context.Context, string) error { return nil }

func (Nop) AllowRequest(context.Context, string, int, time.Duration) (bool, error) { return true, nil }
