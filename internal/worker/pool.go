package worker

import (
	"context"
	"sync"
)

// Task is a unit of work. Tasks write only to state they own, so the
// pool needs no result channel or locking.
type Task func(ctx context.Context)

// Pool executes tasks with bounded concurrency
type Pool struct {
	workers int
}

// NewPool creates a pool with the given number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run executes all tasks and blocks until every task has finished or the
// context is cancelled. Tasks still queued when the context is cancelled
// are drained without executing.
func (p *Pool) Run(ctx context.Context, tasks []Task) {
	if len(tasks) == 0 {
		return
	}

	queue := make(chan Task)
	var wg sync.WaitGroup

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				select {
				case <-ctx.Done():
					continue
				default:
				}
				task(ctx)
			}
		}()
	}

	for _, task := range tasks {
		queue <- task
	}
	close(queue)

	wg.Wait()
}
