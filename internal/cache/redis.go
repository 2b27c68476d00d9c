package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	eventsListKey    = "events:list"
	revokedKeyPrefix = "tokens:revoked:"
	eventsListTTL    = 30 * time.Second
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

type Client struct {
	client *redis.Client
}

func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{client: rdb}, nil
}

// GetEventsListRaw returns the cached unfiltered events listing as raw JSON,
// avoiding an unmarshal/marshal round trip on the hot path.
func (c *Client) GetEventsListRaw(ctx context.Context) ([]byte, error) {
	return c.client.Get(ctx, eventsListKey).Bytes()
}

func (c *Client) SetEventsList(ctx context.Context, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, eventsListKey, payload, eventsListTTL).Err()
}

// InvalidateEventsList drops the cached listing after any event mutation.
func (c *Client) InvalidateEventsList(ctx context.Context) error {
	return c.client.Del(ctx, eventsListKey).Err()
}

// RevokeToken blacklists a refresh token id until its natural expiry.
func (c *Client) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

func (c *Client) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	err := c.client.Get(ctx, revokedKeyPrefix+jti).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
