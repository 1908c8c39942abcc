// Package goroutine provides utilities for running background work with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

// SafeGo launches fn in a goroutine. A panic is logged with its stack and
// swallowed.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		_ = Run(log, name, func() error {
			fn()
			return nil
		})
	}()
}

// Run calls fn on the current goroutine and converts a panic into an error.
func Run(log logger.Interface, name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("goroutine panicked",
				"goroutine", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("%s panicked: %v", name, r)
		}
	}()
	return fn()
}
