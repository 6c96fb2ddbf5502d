package worker

import (
	"context"
	"sync"
)

// Task is one unit of per-frame work, typically a single OCR extraction.
// Tasks must observe ctx and return promptly on cancellation.
type Task func(ctx context.Context)

// Pool runs tasks across a fixed number of goroutines. The batch extraction
// phase is embarrassingly parallel, so the pool only needs bounded fan-out
// and a join barrier: Wait must return before any scoring begins.
type Pool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewPool creates a pool with the given worker count, derived from the
// configured OCR concurrency limit.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers: workers,
		tasks:   make(chan Task, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			task(p.ctx)
		}
	}
}

// Submit queues a task. Submissions after cancellation are dropped.
func (p *Pool) Submit(task Task) {
	select {
	case <-p.ctx.Done():
	case p.tasks <- task:
	}
}

// Wait closes the queue and blocks until every submitted task has finished.
func (p *Pool) Wait() {
	close(p.tasks)
	p.wg.Wait()
	p.cancel()
}

// Shutdown cancels outstanding work and waits for workers to exit.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
