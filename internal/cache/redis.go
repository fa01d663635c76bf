package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pumpradar/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Client is the process-wide redis connection, nil when redis is unavailable.
var Client *redis.Client

var (
	newRedisClient = redis.NewClient
	pingRedis      = func(ctx context.Context, client *redis.Client) error {
		return client.Ping(ctx).Err()
	}
	parseRedisURL = redis.ParseURL
)

const (
	defaultRedisAddr = "localhost:6379"
	dialTimeout      = 3 * time.Second
	ioTimeout        = 2 * time.Second
)

// Options turns REDIS_URL into client options. Both host:port and
// redis:// or rediss:// URLs are accepted.
func Options(addr string) (*redis.Options, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = defaultRedisAddr
	}

	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		parsed, err := parseRedisURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opts = parsed
	}
	// A slow redis fails fast and the analysis runs uncached.
	opts.DialTimeout = dialTimeout
	opts.ReadTimeout = ioTimeout
	opts.WriteTimeout = ioTimeout
	return opts, nil
}

// InitRedis connects Client. On failure Client stays nil and callers run
// without a cache.
func InitRedis(ctx context.Context, addr string) error {
	opts, err := Options(addr)
	if err != nil {
		return err
	}

	client := newRedisClient(opts)
	if err := pingRedis(ctx, client); err != nil {
		_ = client.Close()
		return fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	Client = client
	logger.Get().Named("cache").Infow("connected to redis", "addr", opts.Addr, "db", opts.DB)
	return nil
}

// Ping reports redis reachability for health checks.
func Ping(ctx context.Context) error {
	if Client == nil {
		return errors.New("redis not connected")
	}
	return pingRedis(ctx, Client)
}

func Close() {
	if Client != nil {
		_ = Client.Close()
		Client = nil
	}
}
