package app

import (
	"context"
	"sync"
	"time"

	"inventrack/pkg/logger"
)

// CleanupTask deletes expired rows and reports how many went.
type CleanupTask struct {
	Name string
	Run  func(ctx context.Context) (int64, error)
}

// Janitor runs cleanup tasks on a fixed interval until its context ends.
type Janitor struct {
	interval time.Duration
	tasks    []CleanupTask
	log      *logger.Logger
}

// NewJanitor creates a janitor.
func NewJanitor(interval time.Duration, log *logger.Logger, tasks ...CleanupTask) *Janitor {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Janitor{interval: interval, tasks: tasks, log: log.WithComponent("janitor")}
}

// Run sweeps once immediately and then on every tick.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep runs every task concurrently and waits for them.
func (j *Janitor) Sweep(ctx context.Context) {
	var wg sync.WaitGroup
	for _, task := range j.tasks {
		wg.Add(1)
		go func(task CleanupTask) {
			defer wg.Done()
			n, err := task.Run(ctx)
			if err != nil {
				j.log.Errorw("cleanup failed", "task", task.Name, "error", err)
				return
			}
			if n > 0 {
				j.log.Infow("cleanup done", "task", task.Name, "deleted", n)
			}
		}(task)
	}
	wg.Wait()
}
