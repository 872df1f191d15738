package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrDisabled is returned by operations that need a live server when Redis
// is switched off in config.
var ErrDisabled = errors.New("redis is disabled")

type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	Enabled      bool
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Client is the subset of Redis the service relies on: byte values with a
// TTL for the user cache and fixed-window counters for rate limiting.
type Client interface {
	IsEnabled() bool
	Ping(ctx context.Context) error
	Close() error

	// Get returns nil, nil on a cache miss.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// IncrWindow increments the counter at key and returns the new count
	// and the time left in the current window. The first hit opens the
	// window.
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects to Redis when enabled. A failed startup ping is logged
// but does not fail construction; requests touching Redis will surface the
// error themselves.
func NewClient(cfg Config, logger *zap.Logger) Client {
	if !cfg.Enabled {
		logger.Info("Redis disabled by configuration")
		return disabledClient{}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
	})

	c := &client{rdb: rdb, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		logger.Error("Failed to connect to Redis",
			zap.String("address", cfg.Addr()),
			zap.Error(err),
		)
	} else {
		logger.Info("Successfully connected to Redis",
			zap.String("address", cfg.Addr()),
			zap.Int("database", cfg.DB),
		)
	}

	return c
}

func (c *client) IsEnabled() bool { return true }

func (c *client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *client) Close() error {
	return c.rdb.Close()
}

func (c *client) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	c.logger.Debug("Cache hit", zap.String("key", key))
	return data, nil
}

func (c *client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	c.logger.Debug("Cache set",
		zap.String("key", key),
		zap.Duration("ttl", ttl),
		zap.Int("data_size", len(value)),
	)
	return nil
}

func (c *client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}

	c.logger.Debug("Cache deleted", zap.Strings("keys", keys))
	return nil
}

func (c *client) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	var (
		incr *goredis.IntCmd
		pttl *goredis.DurationCmd
	)

	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to increment counter: %w", err)
	}

	ttl := pttl.Val()
	if ttl < 0 {
		// New counter, or one left without expiry by an interrupted request.
		if err := c.rdb.PExpire(ctx, key, window).Err(); err != nil {
			return 0, 0, fmt.Errorf("failed to set counter expiry: %w", err)
		}
		ttl = window
	}

	return incr.Val(), ttl, nil
}

// disabledClient stands in when Redis is switched off: cache reads miss,
// writes are dropped and counters are unavailable.
type disabledClient struct{}

func (disabledClient) IsEnabled() bool                                          { return false }
func (disabledClient) Ping(context.Context) error                               { return ErrDisabled }
func (disabledClient) Close() error                                             { return nil }
func (disabledClient) Get(context.Context, string) ([]byte, error)              { return nil, nil }
func (disabledClient) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (disabledClient) Delete(context.Context, ...string) error                  { return nil }

func (disabledClient) IncrWindow(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, ErrDisabled
}
