package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/inventory-health/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	voucherMappingKeyPrefix = "inventory_health:voucher_mappings"
	voucherScanBatchSize    = 100
)

// VoucherCache stores the item -> voucher type mapping loaded from the database.
type VoucherCache interface {
	GetMappings(ctx context.Context, source string) (map[string]string, bool, error)
	SetMappings(ctx context.Context, source string, mappings map[string]string) error
	InvalidateAll(ctx context.Context) error
	// Close releases the underlying connection, if any.
	Close() error
}

type redisVoucherCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopVoucherCache struct{}

func NewVoucherCache(cfg config.CacheConfig) (VoucherCache, error) {
	if !cfg.Enabled {
		return &noopVoucherCache{}, nil
	}

	client, err := newRedisClient(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisVoucherCache(client, ttlFromSeconds(cfg.VoucherTTLSeconds)), nil
}

// NewRedisVoucherCache wraps an existing client.
func NewRedisVoucherCache(client *redis.Client, ttl time.Duration) VoucherCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisVoucherCache{client: client, ttl: ttl}
}

func NewNoopVoucherCache() VoucherCache {
	return &noopVoucherCache{}
}

func (c *redisVoucherCache) GetMappings(ctx context.Context, source string) (map[string]string, bool, error) {
	payload, err := c.client.Get(ctx, voucherMappingKey(source)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var mappings map[string]string
	if err := json.Unmarshal(payload, &mappings); err != nil {
		return nil, false, fmt.Errorf("decode voucher mapping cache: %w", err)
	}
	return mappings, true, nil
}

func (c *redisVoucherCache) SetMappings(ctx context.Context, source string, mappings map[string]string) error {
	payload, err := json.Marshal(mappings)
	if err != nil {
		return fmt.Errorf("encode voucher mapping cache: %w", err)
	}

	if err := c.client.Set(ctx, voucherMappingKey(source), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisVoucherCache) InvalidateAll(ctx context.Context) error {
	removed, err := unlinkPrefix(ctx, c.client, voucherMappingKeyPrefix+":", voucherScanBatchSize)
	if err != nil {
		return err
	}
	log.Debug().Int("keys", removed).Msg("voucher mapping cache invalidated")
	return nil
}

func (c *redisVoucherCache) Close() error {
	return c.client.Close()
}

func (n *noopVoucherCache) GetMappings(ctx context.Context, source string) (map[string]string, bool, error) {
	return nil, false, nil
}

func (n *noopVoucherCache) SetMappings(ctx context.Context, source string, mappings map[string]string) error {
	return nil
}

func (n *noopVoucherCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func voucherMappingKey(source string) string {
	if source == "" {
		source = "default"
	}
	return fmt.Sprintf("%s:%s", voucherMappingKeyPrefix, source)
}

func (n *noopVoucherCache) Close() error {
	return nil
}
