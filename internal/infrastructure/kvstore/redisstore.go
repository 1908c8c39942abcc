package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps logs in lists (RPUSH/LRANGE) and values in strings.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Append(ctx context.Context, key string, record []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.client.RPush(ctx, s.logKey(key), record).Err(); err != nil {
		return fmt.Errorf("failed to append to log %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Records(ctx context.Context, key string) ([][]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	values, err := s.client.LRange(ctx, s.logKey(key), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read log %s: %w", key, err)
	}
	records := make([][]byte, 0, len(values))
	for _, v := range values {
		records = append(records, []byte(v))
	}
	return records, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	value, err := s.client.Get(ctx, s.valueKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read value %s: %w", key, err)
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.valueKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write value %s: %w", key, err)
	}
	return nil
}

// Close leaves the shared client open; its owner closes it.
func (s *RedisStore) Close() error {
	return nil
}

func (s *RedisStore) logKey(key string) string {
	return s.prefix + "log:" + key
}

func (s *RedisStore) valueKey(key string) string {
	return s.prefix + "kv:" + key
}
