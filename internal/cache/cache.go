// Package cache stores parsed documents keyed by content hash so repeated
// uploads of the same file skip extraction.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache is a string key/value store with per-entry expiry.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Type            string // "none", "memory" or "redis"
	DefaultTTL      time.Duration
	CleanupInterval time.Duration
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
}

// New builds the backend named by cfg.Type.
func New(cfg Config) (Cache, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "none":
		return Nop{}, nil
	case "memory":
		return NewMemory(cfg), nil
	case "redis":
		return NewRedis(cfg)
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}

// Key joins a prefix and parts with ':'.
func Key(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), ":")
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (string, bool, error)        { return "", false, nil }
func (Nop) Set(context.Context, string, string, time.Duration) error { return nil }
func (Nop) Delete(context.Context, string) error                     { return nil }
func (Nop) Close() error                                             { return nil }
