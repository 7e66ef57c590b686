package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"inventrack/pkg/logger"
)

func TestJanitor_Sweep(t *testing.T) {
	var calls atomic.Int32
	ok := CleanupTask{Name: "ok", Run: func(context.Context) (int64, error) {
		calls.Add(1)
		return 3, nil
	}}
	failing := CleanupTask{Name: "failing", Run: func(context.Context) (int64, error) {
		calls.Add(1)
		return 0, errors.New("boom")
	}}

	NewJanitor(time.Minute, logger.NewNop(), ok, failing).Sweep(context.Background())

	assert.Equal(t, int32(2), calls.Load())
}

func TestJanitor_RunStopsWithContext(t *testing.T) {
	var calls atomic.Int32
	task := CleanupTask{Name: "count", Run: func(context.Context) (int64, error) {
		calls.Add(1)
		return 0, nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewJanitor(time.Hour, logger.NewNop(), task).Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
