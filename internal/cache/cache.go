package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/highland-admin-portal/internal/models"
	"github.com/redis/go-redis/v9"
)

// StatsKey is where the dashboard stats are stored
const StatsKey = "kb:dashboard:stats"

// StatsCache holds the actor-independent dashboard stats
type StatsCache interface {
	Get(ctx context.Context) (*models.DashboardStats, error) // nil on miss
	Set(ctx context.Context, stats *models.DashboardStats) error
	Invalidate(ctx context.Context) error
}

// Client wraps go-redis for the application
type Client struct {
	rdb *redis.Client
}

// Connect creates a Redis client and verifies connectivity
func Connect(ctx context.Context, url string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close releases the connection pool
func (c *Client) Close() error { return c.rdb.Close() }

// RedisStats stores dashboard stats as JSON under StatsKey
type RedisStats struct {
	client *Client
	ttl    time.Duration
}

// NewRedisStats creates a stats cache entry that expires after ttl
func NewRedisStats(client *Client, ttl time.Duration) *RedisStats {
	return &RedisStats{client: client, ttl: ttl}
}

func (c *RedisStats) Get(ctx context.Context) (*models.DashboardStats, error) {
	val, err := c.client.rdb.Get(ctx, StatsKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stats models.DashboardStats
	if err := json.Unmarshal(val, &stats); err != nil {
		// A stale layout is treated as a miss
		return nil, nil
	}
	return &stats, nil
}

func (c *RedisStats) Set(ctx context.Context, stats *models.DashboardStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.rdb.Set(ctx, StatsKey, data, c.ttl).Err()
}

func (c *RedisStats) Invalidate(ctx context.Context) error {
	return c.client.rdb.Del(ctx, StatsKey).Err()
}

// Nop is used when no Redis URL is configured
type Nop struct{}

func (Nop) Get(ctx context.Context) (*models.DashboardStats, error)      { return nil, nil }
func (Nop) Set(ctx context.Context, stats *models.DashboardStats) error { return nil }
func (Nop) Invalidate(ctx context.Context) error                        { return nil }
