// Package rediscli wraps the go-redis client with the connect/ping/log
// ceremony the teacher repo applies at every Redis call site (redis/client.go).
package rediscli

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps *redis.Client with a named logger.
type Client struct {
	*redis.Client
	log *zap.Logger
}

// New dials addr/db and performs a startup ping, logging the outcome.
func New(addr string, db int, log *zap.Logger) *Client {
	opts := &redis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
	}

	c := &Client{
		Client: redis.NewClient(opts),
		log:    log.Named("redis"),
	}
	c.ping(context.Background())
	return c
}

func (c *Client) ping(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := c.Client.Ping(ctx).Err()
	elapsed := time.Since(start)

	opts := c.Options()
	log := c.log.With(zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	if err != nil {
		log.Warn("connection failed", zap.Error(err), zap.Duration("ping_rtt", elapsed))
		return
	}
	log.Info("connection established", zap.Duration("ping_rtt", elapsed))
}

// Close closes the underlying connection pool.
func (c *Client) Close() error { return c.Client.Close() }
