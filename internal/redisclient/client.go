package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/models"

	"github.com/go-redis/redis/v8"
)

const (
	fulfilledKeyPrefix = "fulfilled:"
	fulfilledIndexKey  = "fulfilled:index"
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

// Lookup retrieves the fulfillment record for a session identifier.
// Returns nil without error when the session has not been fulfilled.
func (c *Client) Lookup(ctx context.Context, sessionID string) (*models.FulfilledSession, error) {
	data, err := c.rdb.Get(ctx, fulfilledKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read fulfillment record: %w", err)
	}

	var record models.FulfilledSession
	if err := json.Unmarshal(data, &record); err != nil {
		// Entry exists but the snapshot is unreadable. The session is
		// still fulfilled; the summary degrades to zeros.
		return &models.FulfilledSession{SessionID: sessionID}, nil
	}
	return &record, nil
}

// Commit writes the fulfillment record for a session identifier.
// SetNX makes the first writer win: a false return means another
// invocation already committed this session.
func (c *Client) Commit(ctx context.Context, record *models.FulfilledSession) (bool, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return false, fmt.Errorf("failed to marshal fulfillment record: %w", err)
	}

	ok, err := c.rdb.SetNX(ctx, fulfilledKeyPrefix+record.SessionID, data, 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to commit fulfillment record: %w", err)
	}
	if !ok {
		return false, nil
	}

	err = c.rdb.ZAdd(ctx, fulfilledIndexKey, &redis.Z{
		Score:  float64(record.FulfilledAt.UnixNano()),
		Member: record.SessionID,
	}).Err()
	if err != nil {
		return true, fmt.Errorf("failed to index fulfillment record: %w", err)
	}
	return true, nil
}

// Trim drops the oldest fulfillment records, keeping the most recent
// keep entries. Entries are never removed any other way.
func (c *Client) Trim(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}

	count, err := c.rdb.ZCard(ctx, fulfilledIndexKey).Result()
	if err != nil {
		return fmt.Errorf("failed to count fulfillment records: %w", err)
	}
	if count <= int64(keep) {
		return nil
	}

	old, err := c.rdb.ZRange(ctx, fulfilledIndexKey, 0, count-int64(keep)-1).Result()
	if err != nil {
		return fmt.Errorf("failed to list old fulfillment records: %w", err)
	}

	pipe := c.rdb.Pipeline()
	for _, sessionID := range old {
		pipe.Del(ctx, fulfilledKeyPrefix+sessionID)
		pipe.ZRem(ctx, fulfilledIndexKey, sessionID)
	}
	_, err = pipe.Exec(ctx)
	return err
}
