package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fleetops/backend/internal/infrastructure/config"
)

const scanBatchSize = 100

// RedisPageCache stores rendered list and detail payloads in Redis so
// repeated reads of unchanged data skip the database. Keys are scoped
// per organization and entity kind so invalidation after a mutation
// only drops the affected slice of the cache.
type RedisPageCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       config.CacheConfig
	enabled   bool
	logger    *zap.Logger
}

// NewRedisPageCache creates a page cache with an existing Redis client.
// The caller retains ownership of the client and is responsible for
// closing it.
func NewRedisPageCache(client *redis.Client, cfg config.CacheConfig, logger *zap.Logger) *RedisPageCache {
	return &RedisPageCache{
		client:    client,
		keyPrefix: strings.TrimRight(cfg.KeyPrefix, ":"),
		ttl:       cfg,
		enabled:   cfg.Enabled,
		logger:    logger,
	}
}

// key builds "<prefix>:<org>:<entity>:<variant>" where variant encodes
// the concrete page (query string hash, entity ID, report name).
func (c *RedisPageCache) key(orgID uuid.UUID, entity, variant string) string {
	return fmt.Sprintf("%s:%s:%s:%s", c.keyPrefix, orgID, entity, variant)
}

// Get returns the cached payload, or (nil, nil) on a miss
func (c *RedisPageCache) Get(ctx context.Context, orgID uuid.UUID, entity, variant string) ([]byte, error) {
	if !c.enabled {
		return nil, nil
	}

	data, err := c.client.Get(ctx, c.key(orgID, entity, variant)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("page cache get failed: %w", err)
	}
	return data, nil
}

// Set stores a payload under the configured TTL
func (c *RedisPageCache) Set(ctx context.Context, orgID uuid.UUID, entity, variant string, payload []byte) error {
	if !c.enabled {
		return nil
	}

	if err := c.client.Set(ctx, c.key(orgID, entity, variant), payload, c.ttl.TTL).Err(); err != nil {
		return fmt.Errorf("page cache set failed: %w", err)
	}
	return nil
}

// InvalidateEntity drops every cached page of one entity kind for an
// organization. Called after a successful mutation.
func (c *RedisPageCache) InvalidateEntity(ctx context.Context, orgID uuid.UUID, entity string) error {
	if !c.enabled {
		return nil
	}

	pattern := fmt.Sprintf("%s:%s:%s:*", c.keyPrefix, orgID, entity)

	var cursor uint64
	var dropped int
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("page cache scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("page cache delete failed: %w", err)
			}
			dropped += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if dropped > 0 {
		c.logger.Debug("page cache invalidated",
			zap.String("organization_id", orgID.String()),
			zap.String("entity", entity),
			zap.Int("keys", dropped),
		)
	}
	return nil
}
