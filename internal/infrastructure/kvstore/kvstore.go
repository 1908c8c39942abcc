// Package kvstore provides the key-value media behind the local report
// store: append-only record logs plus single JSON values, keyed by stable
// names such as "security_reports".
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/redis/go-redis/v9"

	"github.com/gorodok-inc/gorodok/internal/shared/config"
)

// ErrInvalidKey is returned for keys outside [a-z0-9_].
var ErrInvalidKey = errors.New("invalid store key")

var keyPattern = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

// Store is an append-only record log per key plus a value slot per key.
// Records are opaque single-line JSON documents.
type Store interface {
	Append(ctx context.Context, key string, record []byte) error
	// Records returns every record of key in append order.
	Records(ctx context.Context, key string) ([][]byte, error)
	// Get returns the value of key; ok is false when it was never set.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// New builds the backend selected in cfg. The redis backend needs a client.
func New(cfg config.StoreConfig, client *redis.Client) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.Dir)
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis store backend requires a redis client")
		}
		return NewRedisStore(client, cfg.KeyPrefix), nil
	case "memory":
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
}
