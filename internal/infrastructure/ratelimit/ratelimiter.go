package ratelimit

import (
	"context"
	"time"
)

// Window is a sliding request budget: at most Limit requests per Period.
type Window struct {
	Limit  int
	Period time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, window Window) (bool, error)
	GetCount(ctx context.Context, key string, window Window) (int64, error)
	Reset(ctx context.Context, key string) error
}
