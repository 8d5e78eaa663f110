// Package cache stores serialized parse results keyed by dictionary version and query.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrCacheMiss indicates a cache miss.
var ErrCacheMiss = errors.New("cache miss")

// Client defines the cache interface.
type Client interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Close() error
}

// Config selects and tunes the cache backend
type Config struct {
	Driver     string // none, memory or redis
	MaxEntries int
	Redis      RedisConfig
}

// NewClient builds the client named by cfg.Driver. The "none" driver returns nil.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryClient(cfg.MaxEntries), nil
	case "redis":
		return NewRedisClient(cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// Key joins parts with ":" after hashing the last one, so raw query text never
// ends up in a key.
func Key(parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	last := sha256.Sum256([]byte(parts[len(parts)-1]))
	out := append(append([]string(nil), parts[:len(parts)-1]...), hex.EncodeToString(last[:16]))
	return strings.Join(out, ":")
}
