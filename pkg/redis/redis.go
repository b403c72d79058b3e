package redis

import (
	"context"
	"fmt"
	"time"

	"exchange-backend/internal/config"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Client wraps the go-redis client with the connection options and health
// reporting the service needs. The underlying pool handles retries and
// reconnection.
type Client struct {
	client *redis.Client
	config config.RedisConfig
	ctx    context.Context
	cancel context.CancelFunc
}

type HealthStatus struct {
	IsConnected    bool          `json:"isConnected"`
	LastPing       time.Time     `json:"lastPing"`
	ResponseTime   time.Duration `json:"responseTime"`
	ConnectionInfo string        `json:"connectionInfo"`
	Error          string        `json:"error,omitempty"`
}

// NewClient creates a Redis client with connection pooling.
func NewClient(cfg config.RedisConfig) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
		client: redis.NewClient(&redis.Options{
			Addr:            fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Password:        cfg.Password,
			DB:              cfg.DB,
			PoolSize:        cfg.PoolSize,
			MinIdleConns:    cfg.MinIdleConns,
			MaxRetries:      cfg.MaxRetries,
			DialTimeout:     cfg.DialTimeout,
			ReadTimeout:     cfg.ReadTimeout,
			WriteTimeout:    cfg.WriteTimeout,
			PoolTimeout:     cfg.PoolTimeout,
		}),
	}

	go c.healthCheckLoop()

	return c
}

// GetClient returns the underlying go-redis client.
func (c *Client) GetClient() *redis.Client {
	return c.client
}

// HealthCheck pings the store and returns detailed status.
func (c *Client) HealthCheck() HealthStatus {
	status := HealthStatus{
		ConnectionInfo: fmt.Sprintf("%s:%s", c.config.Host, c.config.Port),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	start := time.Now()
	err := c.client.Ping(ctx).Err()
	status.ResponseTime = time.Since(start)
	status.LastPing = time.Now()

	if err != nil {
		status.Error = err.Error()
		return status
	}

	status.IsConnected = true
	return status
}

// healthCheckLoop logs periodic connectivity failures so outages show up
// even while the limiter is silently failing closed.
func (c *Client) healthCheckLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if status := c.HealthCheck(); !status.IsConnected {
				log.WithField("addr", status.ConnectionInfo).
					Errorf("Redis health check failed: %s", status.Error)
			}
		}
	}
}

// Close shuts down the health loop and the connection pool.
func (c *Client) Close() error {
	c.cancel()
	return c.client.Close()
}
