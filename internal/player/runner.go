package player

import (
	"context"
	"sync"
	"time"
)

// Runner executes Commands one at a time in the order they were queued, so
// the element sees transport commands in the order the user issued them.
type Runner struct {
	timeout time.Duration
	results chan error
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Command
	busy   bool
	closed bool
}

// NewRunner starts a runner that bounds each command by timeout.
func NewRunner(timeout time.Duration) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		timeout: timeout,
		results: make(chan error, 64),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	r.cond = sync.NewCond(&r.mu)
	go r.loop()
	return r
}

// Enqueue appends cmd to the queue without blocking. Nil commands are
// ignored.
func (r *Runner) Enqueue(cmd Command) {
	if cmd == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.queue = append(r.queue, cmd)
	r.cond.Broadcast()
}

// Results delivers the error of every failed command. It is closed once the
// runner stops.
func (r *Runner) Results() <-chan error { return r.results }

// Wait blocks until every queued command has finished.
func (r *Runner) Wait() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for len(r.queue) > 0 || r.busy {
		r.cond.Wait()
	}
}

// Close cancels the running command, drops the rest of the queue and waits
// for the worker to exit.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	r.queue = nil
	r.cond.Broadcast()
	r.mu.Unlock()

	r.cancel()
	<-r.done
}

func (r *Runner) loop() {
	defer close(r.done)
	defer close(r.results)
	for {
		r.mu.Lock()
		for len(r.queue) == 0 && !r.closed {
			r.cond.Wait()
		}
		if r.closed {
			r.mu.Unlock()
			return
		}
		cmd := r.queue[0]
		r.queue = r.queue[1:]
		r.busy = true
		r.mu.Unlock()

		if err := r.run(cmd); err != nil {
			select {
			case r.results <- err:
			case <-r.ctx.Done():
			}
		}

		r.mu.Lock()
		r.busy = false
		r.cond.Broadcast()
		r.mu.Unlock()
	}
}

func (r *Runner) run(cmd Command) error {
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()
	return cmd(ctx)
}
