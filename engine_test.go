package golfswing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/swdee/go-golfswing/metrics"
	"github.com/swdee/go-golfswing/phase"
	"github.com/swdee/go-golfswing/pose"
	"github.com/swdee/go-golfswing/smoothing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()

	e, err := New(cfg, WithLogger(quietLogger()))

	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	return e
}

// transitions collects the phase changes from a run of results
func transitions(results []Result) []phase.Entry {

	var out []phase.Entry

	for _, r := range results {
		if r.Transition {
			out = append(out, phase.Entry{Phase: r.Phase, Seq: r.Seq, Timestamp: r.Timestamp})
		}
	}

	return out
}

func TestEngineSyntheticSwing(t *testing.T) {

	e := newTestEngine(t, DefaultConfig())

	var results []Result

	for _, f := range pose.DefaultGolfer().Swing(0, 30) {
		res, ok := e.Process(f)

		if !ok {
			t.Fatalf("frame %d unexpectedly dropped", f.Seq)
		}

		if res.SessionID != e.SessionID() {
			t.Fatalf("result session %q does not match engine %q", res.SessionID, e.SessionID())
		}

		results = append(results, res)
	}

	want := []phase.Phase{
		phase.Address, phase.Takeaway, phase.Backswing, phase.Transition,
		phase.Downswing, phase.Impact, phase.Finish, phase.Setup, phase.Address,
	}

	got := transitions(results)

	if len(got) != len(want) {
		t.Fatalf("expected %d transitions, got %v", len(want), got)
	}

	for i, entry := range got {
		if entry.Phase != want[i] {
			t.Fatalf("transition %d: expected %s, got %s (%v)", i, want[i], entry.Phase, got)
		}
	}

	bySeq := map[phase.Phase]uint64{}

	for _, entry := range got[:7] {
		bySeq[entry.Phase] = entry.Seq
	}

	if s := bySeq[phase.Takeaway]; s != 14 {
		t.Errorf("expected takeaway at frame 14, got %d", s)
	}

	if s := bySeq[phase.Transition]; s < 41 || s > 44 {
		t.Errorf("expected transition shortly after the peak turn at frame 40, got %d", s)
	}

	if s := bySeq[phase.Impact]; s < 59 || s > 62 {
		t.Errorf("expected impact near frame 60, got %d", s)
	}

	// the finish result carries the completed swing metrics
	var finish Result

	for _, r := range results {
		if r.Transition && r.Phase == phase.Finish {
			finish = r
		}
	}

	if finish.Metrics.PeakSeparation < 35 || finish.Metrics.PeakSeparation > 45.5 {
		t.Errorf("unexpected peak separation %v", finish.Metrics.PeakSeparation)
	}

	if !finish.Metrics.Timing.TempoValid || finish.Metrics.Timing.Tempo <= 1 {
		t.Errorf("expected a backswing slower than the downswing, got %+v", finish.Metrics.Timing)
	}

	if finish.Comparison.Overall < 0 || finish.Comparison.Overall > 10 {
		t.Errorf("overall score out of range: %v", finish.Comparison.Overall)
	}

	stats := e.Stats()

	if stats.Processed != pose.SwingLength || stats.Swings != 1 || stats.Incomplete != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}

	if e.Phase() != phase.Address {
		t.Errorf("expected engine back at address, got %s", e.Phase())
	}
}

// literalTurn rises from square to a 45 degree peak at frame 40, unwinds to
// 10 degrees by frame 60 and then holds
func literalTurn(k int) float64 {
	switch {
	case k <= 40:
		return 45 * float64(k) / 40
	case k <= 60:
		return 45 - 35*float64(k-40)/20
	}

	return 10
}

// TestEngineSeparationPeakAtFrame40 drives a golfer with still hands whose
// separation peaks at frame 40 and expects the transition right after it
func TestEngineSeparationPeakAtFrame40(t *testing.T) {

	e := newTestEngine(t, DefaultConfig())
	g := pose.DefaultGolfer()
	g.HandLift = 0
	step := time.Second / 30

	var results []Result

	for k := 0; k < 90; k++ {
		res, ok := e.Process(g.Frame(uint64(k), time.Duration(k)*step, literalTurn(k), 0))

		if !ok {
			t.Fatalf("frame %d unexpectedly dropped", k)
		}

		if res.Status == phase.StatusIncomplete {
			t.Fatalf("frame %d: swing reported incomplete", k)
		}

		results = append(results, res)
	}

	got := transitions(results)

	want := []phase.Phase{
		phase.Address, phase.Takeaway, phase.Backswing, phase.Transition,
		phase.Downswing, phase.Impact, phase.Finish, phase.Setup,
	}

	if len(got) < len(want) {
		t.Fatalf("expected at least %d transitions, got %v", len(want), got)
	}

	bySeq := map[phase.Phase]uint64{}

	for i, w := range want {
		if got[i].Phase != w {
			t.Fatalf("transition %d: expected %s, got %s (%v)", i, w, got[i].Phase, got)
		}

		bySeq[w] = got[i].Seq
	}

	if s := bySeq[phase.Transition]; s < 40 || s > 45 {
		t.Errorf("expected transition near the peak at frame 40, got %d", s)
	}

	// the finish waits for the golfer to be still inside it
	reset := DefaultConfig().Phase.ResetStillFrames

	if bySeq[phase.Setup]-bySeq[phase.Finish] != uint64(reset) {
		t.Errorf("expected reset %d frames after finish at %d, got %d",
			reset, bySeq[phase.Finish], bySeq[phase.Setup])
	}
}

// pausedTurn is pose.SwingTurn with the top of the backswing held for
// frames 40 to 43
func pausedTurn(k int) float64 {
	switch {
	case k < 10:
		return 0
	case k <= 40:
		return 1.5 * float64(k-10)
	case k <= 43:
		return 45
	case k <= 63:
		return 45 - 1.75*float64(k-43)
	case k <= 83:
		return 10 - 0.5*float64(k-63)
	}

	return 0
}

func TestEnginePauseAtTop(t *testing.T) {

	for _, kind := range []smoothing.Kind{smoothing.KindNone, smoothing.KindMoving, smoothing.KindEMA} {
		t.Run(string(kind), func(t *testing.T) {

			cfg := DefaultConfig()
			cfg.Smoothing = kind

			e := newTestEngine(t, cfg)
			g := pose.DefaultGolfer()
			step := time.Second / 30

			var results []Result

			for k := 0; k < 90; k++ {
				res, _ := e.Process(g.Frame(uint64(k), time.Duration(k)*step, pausedTurn(k), 0))

				if res.Status == phase.StatusIncomplete {
					t.Fatalf("frame %d: paused swing reported incomplete", k)
				}

				results = append(results, res)
			}

			seen := map[phase.Phase]uint64{}

			for _, entry := range transitions(results) {
				if _, ok := seen[entry.Phase]; !ok {
					seen[entry.Phase] = entry.Seq
				}
			}

			s, ok := seen[phase.Transition]

			if !ok || s < 44 || s > 48 {
				t.Errorf("expected transition shortly after the pause, got %d (%v)", s, ok)
			}

			if _, ok := seen[phase.Finish]; !ok {
				t.Errorf("expected the swing to finish, got %v", transitions(results))
			}
		})
	}
}

func TestEngineEmptyFramesHoldPhase(t *testing.T) {

	e := newTestEngine(t, DefaultConfig())
	g := pose.DefaultGolfer()
	step := time.Second / 30

	for k := 0; k < 10; k++ {
		e.Process(g.Frame(uint64(k), time.Duration(k)*step, 0, 0))
	}

	if e.Phase() != phase.Address {
		t.Fatalf("expected address after standing still, got %s", e.Phase())
	}

	// frames with no landmarks at all
	for k := 10; k < 15; k++ {
		res, ok := e.Process(pose.NewFrame(uint64(k), time.Duration(k)*step))

		if !ok {
			t.Fatalf("frame %d unexpectedly dropped", k)
		}

		if res.Phase != phase.Address || res.Status != phase.StatusHeld || res.Transition {
			t.Fatalf("empty frame %d: expected held address, got %s %s", k, res.Phase, res.Status)
		}

		if !res.Metrics.Stale.Has(metrics.StaleSeparation) || !res.Metrics.Stale.Has(metrics.StaleVelocity) {
			t.Errorf("expected stale metrics on an empty frame, got %b", res.Metrics.Stale)
		}
	}

	res, _ := e.Process(g.Frame(15, 15*step, 0, 0))

	if res.Phase != phase.Address || res.Status != phase.StatusOK {
		t.Errorf("expected address to resume, got %s %s", res.Phase, res.Status)
	}

	if res.Metrics.Stale.Has(metrics.StaleVelocity) {
		t.Errorf("expected wrist speed from the last valid frame before the gap")
	}

	if inv := e.Stats().Invalid; inv != 5 {
		t.Errorf("expected 5 invalid frames, got %d", inv)
	}
}

func TestEngineMissingFramesHoldPhase(t *testing.T) {

	e := newTestEngine(t, DefaultConfig())
	g := pose.DefaultGolfer()
	step := time.Second / 30

	var seq uint64

	next := func(drop bool) Result {
		f := g.Frame(seq, time.Duration(seq)*step, 0, 0)

		if drop {
			f = f.Without(pose.LeftShoulder)
		}

		seq++

		res, ok := e.Process(f)

		if !ok {
			t.Fatalf("frame %d unexpectedly dropped", f.Seq)
		}

		return res
	}

	for i := 0; i < 10; i++ {
		next(false)
	}

	if e.Phase() != phase.Address {
		t.Fatalf("expected address after standing still, got %s", e.Phase())
	}

	for i := 0; i < 5; i++ {
		res := next(true)

		if res.Phase != phase.Address || res.Status != phase.StatusHeld || res.Transition {
			t.Fatalf("missing frame %d: expected held address, got %s %s", i, res.Phase, res.Status)
		}

		if !res.Metrics.Stale.Has(metrics.StaleSeparation) {
			t.Errorf("expected stale metrics on an invalid frame")
		}
	}

	res := next(false)

	if res.Phase != phase.Address || res.Status != phase.StatusOK {
		t.Errorf("expected address to resume, got %s %s", res.Phase, res.Status)
	}

	if inv := e.Stats().Invalid; inv != 5 {
		t.Errorf("expected 5 invalid frames, got %d", inv)
	}

	// invalid frames are still kept in the history
	view := e.History(100, 100)

	if len(view.Frames) != 16 || len(view.Metrics) != 16 {
		t.Errorf("expected 16 frames and snapshots, got %d and %d", len(view.Frames), len(view.Metrics))
	}
}

func TestEngineThrottle(t *testing.T) {

	cfg := DefaultConfig()
	cfg.MinFrameInterval = 30 * time.Millisecond

	e := newTestEngine(t, cfg)
	g := pose.DefaultGolfer()

	var accepted []uint64

	for i := 0; i < 10; i++ {
		f := g.Frame(uint64(i), time.Duration(i)*10*time.Millisecond, 0, 0)

		if _, ok := e.Process(f); ok {
			accepted = append(accepted, f.Seq)
		}
	}

	want := []uint64{0, 3, 6, 9}

	if len(accepted) != len(want) {
		t.Fatalf("expected frames %v, got %v", want, accepted)
	}

	for i := range want {
		if accepted[i] != want[i] {
			t.Fatalf("expected frames %v, got %v", want, accepted)
		}
	}

	// out of order frames are dropped too
	if _, ok := e.Process(g.Frame(20, 50*time.Millisecond, 0, 0)); ok {
		t.Errorf("expected out of order frame to be dropped")
	}

	stats := e.Stats()

	if stats.Processed != 4 || stats.Throttled != 7 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestEngineReset(t *testing.T) {

	e := newTestEngine(t, DefaultConfig())

	for _, f := range pose.DefaultGolfer().Swing(0, 30)[:30] {
		e.Process(f)
	}

	if e.Phase() != phase.Backswing {
		t.Fatalf("expected backswing at frame 30, got %s", e.Phase())
	}

	e.Reset()

	if e.Phase() != phase.Setup {
		t.Errorf("expected setup after reset, got %s", e.Phase())
	}

	if h := e.PhaseHistory(); len(h) != 0 {
		t.Errorf("expected empty phase history, got %d entries", len(h))
	}

	if v := e.History(10, 10); len(v.Frames) != 0 || len(v.Metrics) != 0 {
		t.Errorf("expected empty history after reset")
	}

	// timestamps start over after a reset
	if _, ok := e.Process(pose.DefaultGolfer().Frame(0, 0, 0, 0)); !ok {
		t.Errorf("expected first frame after reset to be processed")
	}
}

func TestEngineSubscribe(t *testing.T) {

	e := newTestEngine(t, DefaultConfig())
	frames := pose.DefaultGolfer().Swing(0, 30)

	var count int

	cancel := e.Subscribe(func(r Result) {
		count++
	})

	for _, f := range frames[:5] {
		e.Process(f)
	}

	cancel()
	cancel()

	for _, f := range frames[5:10] {
		e.Process(f)
	}

	if count != 5 {
		t.Errorf("expected 5 results before cancelling, got %d", count)
	}
}

func TestEngineMailbox(t *testing.T) {

	e := newTestEngine(t, DefaultConfig())
	g := pose.DefaultGolfer()

	got := make(chan Result, 10)

	e.Subscribe(func(r Result) {
		got <- r
	})

	if err := e.Stop(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted, got %v", err)
	}

	// the second frame overwrites the first before processing starts
	e.Publish(g.Frame(1, 10*time.Millisecond, 0, 0))
	e.Publish(g.Frame(2, 20*time.Millisecond, 0, 0))

	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("failed to start: %v", err)
	}

	if err := e.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}

	select {
	case r := <-got:
		if r.Seq != 2 {
			t.Errorf("expected newest frame 2, got %d", r.Seq)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for result")
	}

	if err := e.Stop(); err != nil {
		t.Errorf("failed to stop: %v", err)
	}

	stats := e.Stats()

	if stats.Published != 2 || stats.InboxDrops != 1 || stats.Processed != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestEngineStopOnContext(t *testing.T) {

	e := newTestEngine(t, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())

	if err := e.Start(ctx); err != nil {
		t.Fatalf("failed to start: %v", err)
	}

	cancel()

	done := make(chan struct{})

	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("processing goroutine did not exit on cancel")
	}

	if err := e.Stop(); err != nil {
		t.Errorf("expected stop after cancel to succeed, got %v", err)
	}
}

func TestEngineRun(t *testing.T) {

	e := newTestEngine(t, DefaultConfig())
	frames := pose.DefaultGolfer().Swing(0, 30)

	i := 0
	src := pose.SourceFunc(func(ctx context.Context) (pose.Frame, error) {
		if i == len(frames) {
			return pose.Frame{}, io.EOF
		}

		f := frames[i]
		i++

		return f, nil
	})

	if err := e.Run(context.Background(), src); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if p := e.Stats().Processed; p != uint64(len(frames)) {
		t.Errorf("expected %d frames processed, got %d", len(frames), p)
	}

	failing := pose.SourceFunc(func(ctx context.Context) (pose.Frame, error) {
		return pose.Frame{}, errors.New("camera gone")
	})

	if err := e.Run(context.Background(), failing); err == nil {
		t.Errorf("expected source error to be returned")
	}
}

func TestEngineConsistencyOverSwings(t *testing.T) {

	e := newTestEngine(t, DefaultConfig())
	g := pose.DefaultGolfer()

	var last Result

	for swing := 0; swing < 2; swing++ {
		for _, f := range g.Swing(uint64(swing*pose.SwingLength), 30) {
			res, _ := e.Process(f)

			if res.Transition && res.Phase == phase.Finish {
				last = res
			}
		}
	}

	if n := e.Stats().Swings; n != 2 {
		t.Fatalf("expected 2 swings, got %d", n)
	}

	c := last.Metrics.Consistency

	if !c.Valid || c.Swings != 2 {
		t.Fatalf("expected consistency over 2 swings, got %+v", c)
	}

	if c.Score <= 0.9 {
		t.Errorf("expected near identical swings to score above 0.9, got %v", c.Score)
	}

	if s := e.Swings(); len(s) != 2 {
		t.Errorf("expected 2 swing summaries, got %d", len(s))
	}
}

func TestNewInvalidConfig(t *testing.T) {

	cfg := DefaultConfig()
	cfg.FrameRate = 0

	if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestEngineNewSession(t *testing.T) {

	e := newTestEngine(t, DefaultConfig())
	first := e.SessionID()

	for _, f := range pose.DefaultGolfer().Swing(0, 30)[:20] {
		e.Process(f)
	}

	if err := e.NewSession(""); err != nil {
		t.Fatalf("failed to start new session: %v", err)
	}

	if e.SessionID() == first || e.SessionID() == "" {
		t.Errorf("expected a generated session id, got %q", e.SessionID())
	}

	if e.Phase() != phase.Setup {
		t.Errorf("expected setup in a new session, got %s", e.Phase())
	}

	if err := e.NewSession("range-3"); err != nil || e.SessionID() != "range-3" {
		t.Errorf("expected session range-3, got %q %v", e.SessionID(), err)
	}

	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("failed to start: %v", err)
	}

	defer e.Stop()

	if err := e.NewSession(""); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted while running, got %v", err)
	}
}
