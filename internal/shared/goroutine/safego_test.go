package goroutine

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

func TestRun_ConvertsPanic(t *testing.T) {
	err := Run(logger.NewNopLogger(), "boom", func() error {
		panic("kaboom")
	})
	assert.EqualError(t, err, "boom panicked: kaboom")
}

func TestRun_PassesThroughError(t *testing.T) {
	want := errors.New("plain")
	assert.Equal(t, want, Run(logger.NewNopLogger(), "plain", func() error { return want }))
}

func TestSafeGo_RecoversAndRuns(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(2)

	SafeGo(logger.NewNopLogger(), "panicky", func() {
		defer wg.Done()
		panic("ignored")
	})
	ran := false
	SafeGo(logger.NewNopLogger(), "ok", func() {
		defer wg.Done()
		ran = true
	})

	wg.Wait()
	assert.True(t, ran)
}
