package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LimiterStore counts hits per key inside a fixed window.
type LimiterStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type entry struct {
	count    int
	windowAt time.Time
}

// MemoryStore keeps counters in process memory. Call Cleanup periodically to
// drop expired keys.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[key]
	if !ok || now.After(e.windowAt) {
		s.entries[key] = &entry{count: 1, windowAt: now.Add(window)}
		return limit > 0, nil
	}
	e.count++
	return e.count <= limit, nil
}

func (s *MemoryStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.entries {
		if now.After(e.windowAt) {
			delete(s.entries, key)
		}
	}
}

// RedisStore shares counters between server instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{client: client, prefix: "ratelimit:"}, nil
}

// Allow increments and reads the TTL in one transaction. A counter left
// without a TTL, on its first hit or after a failed EXPIRE, gets one here.
func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	redisKey := s.prefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		ttl = pipe.PTTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		return false, err
	}

	if ttl.Val() < 0 {
		if err := s.client.PExpire(ctx, redisKey, window).Err(); err != nil {
			return false, err
		}
	}
	return incr.Val() <= int64(limit), nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// UserKey limits per authenticated user and falls back to the client IP.
func UserKey(c *fiber.Ctx) string {
	if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
		return "user:" + userID
	}
	return "ip:" + c.IP()
}

// RateLimit rejects requests over limit per window with 429. Store failures
// let the request through and are logged.
func RateLimit(
	store LimiterStore,
	keyFunc func(*fiber.Ctx) string,
	limit int,
	window time.Duration,
	logger *zap.Logger,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := keyFunc(c)
		allowed, err := store.Allow(c.UserContext(), key, limit, window)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			return c.Next()
		}
		if !allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests",
			})
		}
		return c.Next()
	}
}
