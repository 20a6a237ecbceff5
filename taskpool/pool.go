// Package taskpool runs closures on a fixed number of worker goroutines and
// hands back pollable handles, so a frame loop can dispatch I/O without ever
// waiting on it.
package taskpool

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/eapache/queue.v1"
)

// ErrClosed fails tasks submitted after Close.
var ErrClosed = errors.New("taskpool: closed")

// Stats is a snapshot of pool activity.
type Stats struct {
	Workers   int
	Submitted uint64
	Completed uint64
	Queued    int
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the logger used for recovered panics.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pool) { p.logger = l }
}

// Pool is a fixed-size worker pool with an unbounded FIFO queue. Submit never
// blocks.
type Pool struct {
	workers int
	logger  zerolog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	jobs   *queue.Queue
	closed bool

	group     errgroup.Group
	closeOnce sync.Once

	submitted atomic.Uint64
	completed atomic.Uint64
}

// New starts a pool with the given number of workers (at least one).
func New(workers int, opts ...Option) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		workers: workers,
		logger:  log.Logger.With().Str("component", "taskpool").Logger(),
		jobs:    queue.New(),
	}
	p.cond = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}
	for i := 0; i < workers; i++ {
		p.group.Go(p.work)
	}
	return p
}

func (p *Pool) work() error {
	for {
		p.mu.Lock()
		for p.jobs.Length() == 0 && !p.closed {
			p.cond.Wait()
		}
		if p.jobs.Length() == 0 {
			p.mu.Unlock()
			return nil
		}
		job := p.jobs.Remove().(func())
		p.mu.Unlock()

		job()
		p.completed.Add(1)
	}
}

func (p *Pool) enqueue(job func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.jobs.Add(job)
	p.submitted.Add(1)
	p.cond.Signal()
	return true
}

// Submit queues fn and returns its handle immediately. A panic inside fn
// fails the handle rather than the worker.
func Submit[T any](p *Pool, fn func() (T, error)) *Handle[T] {
	h := newHandle[T]()
	job := func() {
		var (
			value T
			err   error
		)
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("task panicked")
				var zero T
				h.finish(zero, fmt.Errorf("taskpool: task panicked: %v", r))
				return
			}
			h.finish(value, err)
		}()
		value, err = fn()
	}
	if !p.enqueue(job) {
		var zero T
		h.finish(zero, ErrClosed)
	}
	return h
}

// Close stops accepting work, runs everything already queued and waits for
// the workers to exit.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.cond.Broadcast()
		p.mu.Unlock()
	})
	return p.group.Wait()
}

func (p *Pool) Stats() Stats {
	p.mu.Lock()
	queued := p.jobs.Length()
	p.mu.Unlock()
	return Stats{
		Workers:   p.workers,
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Queued:    queued,
	}
}
