package redisclient

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"parking-service/internal/models"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/adjust_occupancy.lua
var adjustOccupancyScript string

// ErrTokenNotFound means the session token is unknown or expired
var ErrTokenNotFound = errors.New("session token not found")

type Client struct {
	rdb             *redis.Client
	occupancyScript *redis.Script
}

// NewClient creates a new Redis client with Lua scripts loaded
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

	return &Client{
		rdb:             rdb,
		occupancyScript: redis.NewScript(adjustOccupancyScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SaveToken stores an opaque session token with the caller identity it
// resolves to, expiring after ttl
func (c *Client) SaveToken(ctx context.Context, token string, identity models.Identity, ttl time.Duration) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, fmt.Sprintf("session:%s", token), payload, ttl).Err()
}

// GetToken resolves a session token to the identity it was issued for.
// Returns ErrTokenNotFound for unknown or expired tokens.
func (c *Client) GetToken(ctx context.Context, token string) (*models.Identity, error) {
	payload, err := c.rdb.Get(ctx, fmt.Sprintf("session:%s", token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	var identity models.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return nil, fmt.Errorf("corrupt session payload: %w", err)
	}
	return &identity, nil
}

// DeleteToken invalidates a session token
func (c *Client) DeleteToken(ctx context.Context, token string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("session:%s", token)).Err()
}

// AdjustOccupancy atomically moves a lot's live occupancy counter by delta
// using a Lua script, clamped at zero. Returns the updated count.
func (c *Client) AdjustOccupancy(ctx context.Context, lotID int64, delta int) (int64, error) {
	key := fmt.Sprintf("occupancy:%d", lotID)

	result, err := c.occupancyScript.Run(ctx, c.rdb, []string{key}, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("adjust occupancy script failed: %w", err)
	}

	count, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected script result type")
	}

	return count, nil
}

// GetOccupancy reads a lot's live occupancy counter. Missing keys read as
// zero.
func (c *Client) GetOccupancy(ctx context.Context, lotID int64) (int64, error) {
	count, err := c.rdb.Get(ctx, fmt.Sprintf("occupancy:%d", lotID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return count, err
}
