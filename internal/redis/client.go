package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vidinfra/churnalytics/internal/config"
	"github.com/vidinfra/churnalytics/internal/logger"
)

// Client wraps the go-redis client with our configuration
type Client struct {
	client *redis.Client
	log    *logger.Logger
}

// NewClient connects to redis and verifies the connection with a ping
func NewClient(cfg *config.Configuration, log *logger.Logger) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Infow("connected to redis", "address", cfg.Redis.Address, "db", cfg.Redis.DB)
	return &Client{client: client, log: log}, nil
}

// GetClient returns the underlying go-redis client
func (c *Client) GetClient() *redis.Client {
	return c.client
}

// Close closes the connection
func (c *Client) Close() error {
	return c.client.Close()
}
