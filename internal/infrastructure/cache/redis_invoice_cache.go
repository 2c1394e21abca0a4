// Package cache holds the Redis read-through cache for assembled invoices.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/pkg/config"
	"github.com/jhoicas/gst-billing-api/pkg/logger"
)

const (
	invoiceKeyPrefix = "invoice:"
	defaultCacheTTL  = 5 * time.Minute
)

var _ billing.InvoiceCache = (*RedisInvoiceCache)(nil)

// RedisInvoiceCache implements billing.InvoiceCache on Redis. Values are the
// JSON form of dto.InvoiceResponse.
type RedisInvoiceCache struct {
	client redis.Cmdable
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisClient opens a client and checks it answers PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewRedisInvoiceCache wraps client. A zero ttl falls back to five minutes.
func NewRedisInvoiceCache(client redis.Cmdable, ttl time.Duration, log *logger.Logger) *RedisInvoiceCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisInvoiceCache{client: client, ttl: ttl, log: log.Component("cache")}
}

// Key is the Redis key holding invoice id.
func Key(id string) string {
	return invoiceKeyPrefix + id
}

// Get returns the cached invoice or (nil, nil) on a miss.
func (c *RedisInvoiceCache) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	data, err := c.client.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug().Str("invoice_id", id).Msg("cache miss")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", id, err)
	}

	var inv dto.InvoiceResponse
	if err := json.Unmarshal(data, &inv); err != nil {
		// unreadable entry: drop it and report a miss
		_ = c.client.Del(ctx, Key(id)).Err()
		c.log.Warn().Err(err).Str("invoice_id", id).Msg("discarding corrupt cache entry")
		return nil, nil
	}
	c.log.Debug().Str("invoice_id", id).Msg("cache hit")
	return &inv, nil
}

// Set stores inv under its id for the configured TTL.
func (c *RedisInvoiceCache) Set(ctx context.Context, inv *dto.InvoiceResponse) error {
	if inv == nil || inv.ID == "" {
		return nil
	}
	data, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, Key(inv.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", inv.ID, err)
	}
	return nil
}

// Delete evicts invoice id.
func (c *RedisInvoiceCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, Key(id)).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", id, err)
	}
	return nil
}
