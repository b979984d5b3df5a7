package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Pool runs a stage on submitted inputs with a fixed number of workers.
// Submit blocks while the queue is full.
type Pool[In, Out any] struct {
	stage Stage[In, Out]
	jobs  chan In
	ctx   context.Context
	wg    sync.WaitGroup

	// gate orders Submit sends before the close in Wait.
	gate   sync.RWMutex
	closed bool

	mu   sync.Mutex
	errs *multierror.Error
	done int
}

// NewPool starts workers goroutines (runtime.NumCPU when <= 0) reading
// from a queue of the given depth.
func NewPool[In, Out any](ctx context.Context, stage Stage[In, Out], workers, depth int) *Pool[In, Out] {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if depth < 0 {
		depth = 0
	}

	p := &Pool[In, Out]{
		stage: stage,
		jobs:  make(chan In, depth),
		ctx:   ctx,
	}
	for w := 0; w < workers; w++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool[In, Out]) worker() {
	defer p.wg.Done()

	for input := range p.jobs {
		if p.ctx.Err() != nil {
			continue
		}
		_, err := p.stage.Execute(p.ctx, input)

		p.mu.Lock()
		if err != nil {
			p.errs = multierror.Append(p.errs, err)
		} else {
			p.done++
		}
		p.mu.Unlock()
	}
}

// Submit queues input. It returns false after Wait or once ctx is done.
func (p *Pool[In, Out]) Submit(input In) bool {
	p.gate.RLock()
	defer p.gate.RUnlock()
	if p.closed {
		return false
	}

	select {
	case p.jobs <- input:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// Wait stops accepting work, drains the queue and returns the number of
// inputs processed successfully along with every stage error.
func (p *Pool[In, Out]) Wait() (int, error) {
	p.gate.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.gate.Unlock()

	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.errs.ErrorOrNil(); err != nil {
		return p.done, fmt.Errorf("%d frame(s) failed: %w", len(p.errs.Errors), err)
	}
	return p.done, nil
}
