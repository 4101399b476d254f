package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/matchpoint-backend/internal/logger"
)

// EmbeddingCache stores vectors keyed by (model, canonical profile text). A
// miss is not an error. Implementations are injected so tests can substitute
// a deterministic or empty cache; there is no package-global instance.
//
// Entries are never evicted, so a long-lived deployment grows with the number
// of distinct profiles seen.
type EmbeddingCache interface {
	Get(ctx context.Context, key string) ([]float32, bool, error)
	Put(ctx context.Context, key string, vec []float32) error
}

const redisEmbeddingKeyPrefix = "matchpoint:embedding:"

type redisEmbeddingCache struct {
	log *logger.Logger
	rdb *redis.Client
}

func NewRedisEmbeddingCache(log *logger.Logger) (EmbeddingCache, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisEmbeddingCache{
		log: log.With("service", "RedisEmbeddingCache"),
		rdb: rdb,
	}, nil
}

func (c *redisEmbeddingCache) Get(ctx context.Context, key string) ([]float32, bool, error) {
	raw, err := c.rdb.Get(ctx, redisEmbeddingKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil {
		// A corrupt entry behaves like a miss so the caller re-embeds.
		c.log.Warn("Dropping unreadable cache entry", "key", key, "error", err)
		return nil, false, nil
	}
	return vec, true, nil
}

func (c *redisEmbeddingCache) Put(ctx context.Context, key string, vec []float32) error {
	raw, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, redisEmbeddingKeyPrefix+key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

type memoryEmbeddingCache struct {
	mu   sync.RWMutex
	data map[string][]float32
}

// NewMemoryEmbeddingCache returns a process-local cache. Used in tests and as
// the fallback when Redis is not configured.
func NewMemoryEmbeddingCache() EmbeddingCache {
	return &memoryEmbeddingCache{data: map[string][]float32{}}
}

func (c *memoryEmbeddingCache) Get(_ context.Context, key string) ([]float32, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vec, ok := c.data[key]
	return vec, ok, nil
}

func (c *memoryEmbeddingCache) Put(_ context.Context, key string, vec []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = vec
	return nil
}
