package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// KV is the part of the redis client the JSON helpers need.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ErrCorrupt marks a stored value that no longer decodes.
var ErrCorrupt = errors.New("corrupt cache entry")

func AnalysisKey(ticker string) string { return "analysis:" + strings.ToUpper(ticker) }

// GetJSON decodes the value at key into out. It reports false on a miss.
func GetJSON(ctx context.Context, kv KV, key string, out any) (bool, error) {
	raw, err := kv.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("cache decode %s: %w: %w", key, ErrCorrupt, err)
	}
	return true, nil
}

func SetJSON(ctx context.Context, kv KV, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func Delete(ctx context.Context, kv KV, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return kv.Del(ctx, keys...).Err()
}
