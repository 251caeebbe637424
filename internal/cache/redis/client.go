package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/reportaudit/backend/pkg/logger"
	"github.com/reportaudit/backend/pkg/retry"
)

// Client caches quick-validate summaries keyed by a hash of the report
// text. Full analysis results are never cached: items carry fresh
// identity per invocation.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(host string, port int, password string, db, ttlSec int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	cfg := retry.DefaultConfig()
	cfg.Logger = logger.GetLogger()

	err := retry.Do(ctx, cfg, func() error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{
		client: client,
		ttl:    time.Duration(ttlSec) * time.Second,
	}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) SetValidation(ctx context.Context, textHash string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal validation: %w", err)
	}

	err = c.client.Set(ctx, fmt.Sprintf("validate:%s", textHash), data, c.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set validation cache: %w", err)
	}

	logger.Debug("Validation cached", zap.String("text_hash", textHash))
	return nil
}

func (c *Client) GetValidation(ctx context.Context, textHash string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf("validate:%s", textHash)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get validation cache: %w", err)
	}

	err = json.Unmarshal(data, dest)
	if err != nil {
		return false, fmt.Errorf("failed to unmarshal validation: %w", err)
	}

	logger.Debug("Validation cache hit", zap.String("text_hash", textHash))
	return true, nil
}
