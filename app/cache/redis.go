package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const htmlTTL = 6 * time.Hour

// Cache wraps a Redis client for caching fetched article HTML, keyed by the
// hash of the source URL. A nil *Cache is valid and caches nothing, so the
// pipeline works unchanged when Redis is not configured.
type Cache struct {
	client *redis.Client
}

func NewCache(addr string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", addr)

	return &Cache{client: client}, nil
}

func (c *Cache) Get(ctx context.Context, url string) (string, bool) {
	if c == nil {
		return "", false
	}

	val, err := c.client.Get(ctx, cacheKey(url)).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		slog.Warn("Cache read failed", "error", err)
		return "", false
	}

	return val, true
}

func (c *Cache) Set(ctx context.Context, url, html string) {
	if c == nil {
		return
	}

	if err := c.client.Set(ctx, cacheKey(url), html, htmlTTL).Err(); err != nil {
		slog.Warn("Cache write failed", "error", err)
	}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "html:" + hex.EncodeToString(sum[:])
}
