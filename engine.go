package golfswing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/swdee/go-golfswing/benchmark"
	"github.com/swdee/go-golfswing/history"
	"github.com/swdee/go-golfswing/metrics"
	"github.com/swdee/go-golfswing/phase"
	"github.com/swdee/go-golfswing/pose"
	"github.com/swdee/go-golfswing/smoothing"
)

// Result is the output of processing one frame.  It holds no references to
// engine state and may be shared between goroutines.
type Result struct {
	SessionID  string               `msgpack:"session" json:"session"`
	Seq        uint64               `msgpack:"seq" json:"seq"`
	Timestamp  time.Duration        `msgpack:"ts" json:"timestamp"`
	Phase      phase.Phase          `msgpack:"phase" json:"phase"`
	Transition bool                 `msgpack:"transition" json:"transition"`
	Status     phase.Status         `msgpack:"status" json:"status"`
	Metrics    metrics.Snapshot     `msgpack:"metrics" json:"metrics"`
	Comparison benchmark.Comparison `msgpack:"comparison" json:"comparison"`
}

// Stats are the engine's operational counters
type Stats struct {
	// Published counts frames passed to Publish
	Published uint64
	// InboxDrops counts published frames overwritten before processing
	InboxDrops uint64
	// Processed counts frames that went through phase detection
	Processed uint64
	// Throttled counts frames dropped for arriving too soon or out of order
	Throttled uint64
	// Invalid counts processed frames that failed validation
	Invalid uint64
	// Swings counts completed swings
	Swings uint64
	// Incomplete counts abandoned swings
	Incomplete uint64
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger, the default is slog.Default()
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithSessionID overrides the generated session id
func WithSessionID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.id = id
		}
	}
}

// Engine runs phase detection and metric calculation over the frames of one
// session.  Frames are either processed synchronously with Process or
// published to a single slot inbox consumed by the goroutine started with
// Start.
type Engine struct {
	cfg  Config
	id   string
	log  *slog.Logger
	// base is the logger before the session attribute is added
	base *slog.Logger

	// mu is the processing boundary, it guards everything below it up to
	// the subscribers
	mu      sync.Mutex
	buffer  *history.Buffer[metrics.Snapshot]
	machine *phase.Machine
	calc    *metrics.Calculator
	// recent is reused to read frames back from the buffer
	recent  []pose.Frame
	lastTs  time.Duration
	started bool
	streak  int

	subMu   sync.RWMutex
	subs    map[uint64]func(Result)
	nextSub uint64

	// inbox is a single slot mailbox, nil once consumed
	inboxMu   sync.Mutex
	inboxCond *sync.Cond
	inbox     *pose.Frame

	runMu   sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	published  atomic.Uint64
	inboxDrops atomic.Uint64
	processed  atomic.Uint64
	throttled  atomic.Uint64
	invalid    atomic.Uint64
	swings     atomic.Uint64
	incomplete atomic.Uint64
}

// New returns an engine for a new session.  Configuration errors are
// returned immediately and wrap ErrInvalidConfig.
func New(cfg Config, opts ...Option) (*Engine, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	kind, _ := smoothing.ParseKind(string(cfg.Smoothing))

	filter, err := smoothing.New(kind, cfg.SmoothingFactor, 1/cfg.FrameRate)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	machine, err := phase.NewMachine(cfg.Phase)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	calc, err := metrics.NewCalculator(cfg.Metrics, metrics.Params{
		FrameRate:     cfg.FrameRate,
		Handedness:    cfg.Handedness,
		MinVisibility: cfg.Validation.MinVisibility,
		Filter:        filter,
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	e := &Engine{
		cfg:     cfg,
		id:      uuid.NewString(),
		log:     slog.Default(),
		buffer:  history.NewBuffer[metrics.Snapshot](cfg.HistorySize, cfg.MetricsHistory),
		machine: machine,
		calc:    calc,
		subs:    make(map[uint64]func(Result)),
	}

	e.inboxCond = sync.NewCond(&e.inboxMu)

	for _, opt := range opts {
		opt(e)
	}

	e.base = e.log
	e.log = e.base.With("session", e.id)

	return e, nil
}

// SessionID returns the session identifier stamped on every result
func (e *Engine) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.id
}

// NewSession resets the engine and starts a new session under id, a new
// id is generated when id is empty.  The engine must be stopped.
func (e *Engine) NewSession(id string) error {

	e.runMu.Lock()
	defer e.runMu.Unlock()

	if e.running {
		return ErrAlreadyStarted
	}

	if id == "" {
		id = uuid.NewString()
	}

	e.Reset()

	e.mu.Lock()
	e.id = id
	e.log = e.base.With("session", id)
	e.mu.Unlock()

	return nil
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// Process runs a frame through validation, phase detection, metrics and
// benchmarking, then delivers the result to subscribers.  It reports false
// when the frame was dropped for arriving within the minimum frame interval
// of, or not after, the previously processed frame.  Frames must be
// processed from a single goroutine to keep results in order.
func (e *Engine) Process(f pose.Frame) (Result, bool) {

	res, ok := e.process(f)

	if !ok {
		return res, false
	}

	e.notify(res)

	return res, true
}

func (e *Engine) process(f pose.Frame) (Result, bool) {

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		if f.Timestamp <= e.lastTs || f.Timestamp-e.lastTs < e.cfg.MinFrameInterval {
			e.throttled.Add(1)
			e.log.Debug("golfswing: frame dropped", "seq", f.Seq, "ts", f.Timestamp,
				"last_ts", e.lastTs)
			return Result{}, false
		}
	}

	e.started = true
	e.lastTs = f.Timestamp
	e.processed.Add(1)

	f, missing := e.cfg.Validation.Check(f)

	if !f.Valid {
		e.invalid.Add(1)
		e.streak++

		if e.streak == e.cfg.InvalidStreakWarn {
			e.log.Warn("golfswing: invalid frames", "seq", f.Seq, "count", e.streak,
				"missing", missing)
		}
	} else {
		e.streak = 0
	}

	// frames are retained even when invalid to keep timing continuous
	e.buffer.Push(f)

	e.recent = e.buffer.RecentInto(metrics.HistoryFrames, e.recent)
	scalars, ok := e.calc.Observe(e.recent)
	pres := e.machine.Update(f.Seq, f.Timestamp, ok, scalars)
	snap := e.calc.Snapshot(f, pres, e.machine.Cycle())
	e.buffer.PushMetrics(snap)

	res := Result{
		SessionID:  e.id,
		Seq:        f.Seq,
		Timestamp:  f.Timestamp,
		Phase:      pres.Phase,
		Transition: pres.Transition,
		Status:     pres.Status,
		Metrics:    snap,
		Comparison: benchmark.Compare(snap, e.cfg.SkillLevel, e.cfg.Club),
	}

	switch {
	case pres.Status == phase.StatusIncomplete:
		e.incomplete.Add(1)
		e.log.Warn("golfswing: swing incomplete", "seq", f.Seq, "from", pres.Previous)

	case pres.Transition && pres.Phase == phase.Finish:
		e.swings.Add(1)
		e.log.Info("golfswing: swing complete", "seq", f.Seq,
			"composite", snap.Composite,
			"tempo", snap.Timing.Tempo,
			"peak_separation", snap.PeakSeparation,
			"overall", res.Comparison.Overall)

	case pres.Transition:
		e.log.Debug("golfswing: phase transition", "seq", f.Seq, "from", pres.Previous,
			"to", pres.Phase, "rule", pres.Rule)
	}

	return res, true
}

// notify delivers a result to every subscriber
func (e *Engine) notify(res Result) {

	e.subMu.RLock()
	fns := make([]func(Result), 0, len(e.subs))

	for _, fn := range e.subs {
		fns = append(fns, fn)
	}

	e.subMu.RUnlock()

	for _, fn := range fns {
		fn(res)
	}
}

// Subscribe registers fn to receive every result.  Callbacks run on the
// processing goroutine and must return quickly.  The returned func removes
// the subscription.
func (e *Engine) Subscribe(fn func(Result)) (cancel func()) {

	e.subMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.subMu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			e.subMu.Lock()
			delete(e.subs, id)
			e.subMu.Unlock()
		})
	}
}

// Publish hands a frame to the processing goroutine without blocking.  An
// unprocessed frame already waiting is overwritten and counted as a drop,
// the engine always works on the newest frame.
func (e *Engine) Publish(f pose.Frame) {

	e.published.Add(1)

	e.inboxMu.Lock()

	if e.inbox != nil {
		e.inboxDrops.Add(1)
	}

	e.inbox = &f
	e.inboxMu.Unlock()

	e.inboxCond.Signal()
}

// Start begins processing published frames on a new goroutine until ctx is
// cancelled or Stop is called
func (e *Engine) Start(ctx context.Context) error {

	e.runMu.Lock()
	defer e.runMu.Unlock()

	if e.running {
		return ErrAlreadyStarted
	}

	e.ctx, e.cancel = context.WithCancel(ctx)
	e.running = true

	e.wg.Add(1)
	go e.processLoop(e.ctx)

	// wake the loop on context cancellation so it can exit
	go func(ctx context.Context) {
		<-ctx.Done()
		e.inboxMu.Lock()
		e.inboxCond.Broadcast()
		e.inboxMu.Unlock()
	}(e.ctx)

	e.log.Info("golfswing: session started", "frame_rate", e.cfg.FrameRate,
		"skill", e.cfg.SkillLevel, "club", e.cfg.Club, "handedness", e.cfg.Handedness)

	return nil
}

// Stop ends the processing goroutine and waits for it to exit.  A frame
// still in the inbox is discarded.
func (e *Engine) Stop() error {

	e.runMu.Lock()

	if !e.running {
		e.runMu.Unlock()
		return ErrNotStarted
	}

	e.running = false
	cancel := e.cancel
	e.runMu.Unlock()

	cancel()

	e.inboxMu.Lock()
	e.inboxCond.Broadcast()
	e.inboxMu.Unlock()

	e.wg.Wait()

	e.log.Info("golfswing: session stopped", "processed", e.processed.Load(),
		"swings", e.swings.Load())

	return nil
}

// processLoop consumes the inbox until ctx is done
func (e *Engine) processLoop(ctx context.Context) {

	defer e.wg.Done()

	if err := pinToCores(e.cfg.CPUCores); err != nil {
		e.log.Warn("golfswing: failed to pin processing to cpu cores",
			"cores", e.cfg.CPUCores, "error", err)
	}

	for {
		e.inboxMu.Lock()

		for e.inbox == nil {
			if ctx.Err() != nil {
				e.inboxMu.Unlock()
				return
			}

			e.inboxCond.Wait()
		}

		if ctx.Err() != nil {
			e.inboxMu.Unlock()
			return
		}

		f := *e.inbox
		e.inbox = nil
		e.inboxMu.Unlock()

		e.Process(f)
	}
}

// Run reads frames from src and processes them in order until the source
// is exhausted, returning nil on io.EOF, or ctx is cancelled
func (e *Engine) Run(ctx context.Context, src pose.Source) error {

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		f, err := src.Next(ctx)

		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("failed to read frame: %w", err)
		}

		e.Process(f)
	}
}

// Reset returns the session to its initial state, clearing the history,
// filters, phase machine and any frame waiting in the inbox.  A frame being
// processed when Reset is called completes against the state before the
// reset.
func (e *Engine) Reset() {

	e.inboxMu.Lock()
	e.inbox = nil
	e.inboxMu.Unlock()

	e.mu.Lock()
	e.buffer.Reset()
	e.machine.Reset()
	e.calc.Reset()
	e.started = false
	e.lastTs = 0
	e.streak = 0
	e.mu.Unlock()

	e.log.Info("golfswing: session reset")
}

// Phase returns the current swing phase
func (e *Engine) Phase() phase.Phase {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.machine.Phase()
}

// PhaseHistory returns the phase of recent frames, oldest first
func (e *Engine) PhaseHistory() []phase.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.machine.History()
}

// Swings returns the summaries of recently completed swings, oldest first
func (e *Engine) Swings() []metrics.SwingSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.calc.Summaries()
}

// History returns a copy of up to n recent frames and m recent snapshots
func (e *Engine) History(n, m int) history.View[metrics.Snapshot] {
	return e.buffer.View(n, m)
}

// Stats returns a snapshot of the engine counters
func (e *Engine) Stats() Stats {
	return Stats{
		Published:  e.published.Load(),
		InboxDrops: e.inboxDrops.Load(),
		Processed:  e.processed.Load(),
		Throttled:  e.throttled.Load(),
		Invalid:    e.invalid.Load(),
		Swings:     e.swings.Load(),
		Incomplete: e.incomplete.Load(),
	}
}
