package golfswing

import (
	"fmt"
	"sync"
)

// Pool is a simple engine pool for analysing several recordings or camera
// streams in parallel with the same configuration
type Pool struct {
	// pool of engines
	engines chan *Engine
	// size of pool
	size   int
	closed bool
	mu     sync.RWMutex
	close  sync.Once
}

// NewPool creates a pool of size engines.  When cfg.CPUCores is set each
// engine is pinned to one of those cores, assigned round robin.
func NewPool(size int, cfg Config, opts ...Option) (*Pool, error) {

	if size < 1 {
		return nil, fmt.Errorf("%w: pool size must be at least 1, got %d", ErrInvalidConfig, size)
	}

	p := &Pool{
		engines: make(chan *Engine, size),
		size:    size,
	}

	for i := 0; i < size; i++ {
		ecfg := cfg
		ecfg.CPUCores = engineCores(cfg.CPUCores, i)

		e, err := New(ecfg, opts...)

		if err != nil {
			p.Close()
			return nil, err
		}

		// attach to pool
		p.engines <- e
	}

	return p, nil
}

// Size returns the number of engines in the pool
func (p *Pool) Size() int {
	return p.size
}

// Get takes an engine from the pool, blocking until one is returned.  It
// returns ErrClosed once the pool has been closed.
func (p *Pool) Get() (*Engine, error) {

	e, ok := <-p.engines

	if !ok {
		return nil, ErrClosed
	}

	return e, nil
}

// Return resets an engine under a new session id and puts it back in the
// pool.  Engines returned after the pool is closed are stopped and
// discarded.
func (p *Pool) Return(e *Engine) {

	if e == nil {
		return
	}

	// stopping an engine that was never started is not an error here
	_ = e.Stop()

	// the next user gets a fresh session
	if err := e.NewSession(""); err != nil {
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return
	}

	select {
	case p.engines <- e:
	default:
		// pool is full
	}
}

// Close the pool and stop all engines in it
func (p *Pool) Close() {
	p.close.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.engines)
		p.mu.Unlock()

		for next := range p.engines {
			_ = next.Stop()
		}
	})
}
