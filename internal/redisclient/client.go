package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"printpos/internal/models"

	"github.com/go-redis/redis/v8"
)

const (
	catalogKey       = "catalog:items"
	catalogTTL       = 10 * time.Minute
	revenueKeyPrefix = "revenue"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetCatalog caches the active catalog snapshot as JSON with a TTL.
func (c *Client) SetCatalog(ctx context.Context, items []models.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return c.rdb.Set(ctx, catalogKey, data, catalogTTL).Err()
}

// GetCatalog retrieves the cached catalog snapshot. Returns (nil, nil) on a
// cache miss so callers can fall through to the database.
func (c *Client) GetCatalog(ctx context.Context) ([]models.Item, error) {
	data, err := c.rdb.Get(ctx, catalogKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached catalog: %w", err)
	}
	return items, nil
}

// InvalidateCatalog drops the cached catalog snapshot after a catalog write.
func (c *Client) InvalidateCatalog(ctx context.Context) error {
	return c.rdb.Del(ctx, catalogKey).Err()
}

func revenueKey(branchID string, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s", revenueKeyPrefix, branchID, day.Format("2006-01-02"))
}

// AddRevenue increments the per-branch daily revenue counter. IncrByFloat
// is atomic on the server, so concurrent workers cannot lose a delta.
func (c *Client) AddRevenue(ctx context.Context, branchID string, day time.Time, amount float64) error {
	key := revenueKey(branchID, day)
	if err := c.rdb.IncrByFloat(ctx, key, amount).Err(); err != nil {
		return fmt.Errorf("failed to increment revenue counter: %w", err)
	}
	return c.rdb.Expire(ctx, key, 90*24*time.Hour).Err()
}

// GetRevenue reads the per-branch daily revenue counter; zero on a miss.
func (c *Client) GetRevenue(ctx context.Context, branchID string, day time.Time) (float64, error) {
	val, err := c.rdb.Get(ctx, revenueKey(branchID, day)).Float64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}
