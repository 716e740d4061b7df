package history

import (
	"sync"

	"github.com/swdee/go-golfswing/pose"
)

// Buffer is the rolling window of recent pose frames and derived metric
// snapshots for one session.  It is the only mutable state shared between
// the frame producer and the calculators, all access goes through its
// mutex and readers receive copies so nothing they hold is changed by later
// pushes.
type Buffer[S any] struct {
	frames  *Ring[pose.Frame]
	metrics *Ring[S]
	// pushed counts frames ever pushed since the last Reset
	pushed uint64
	sync.Mutex
}

// View is a consistent copy of the buffer contents taken under a single lock
type View[S any] struct {
	Frames  []pose.Frame
	Metrics []S
	// Pushed is the total frames pushed when the view was taken
	Pushed uint64
}

// NewBuffer returns a buffer keeping frameSize frames and metricSize
// snapshots
func NewBuffer[S any](frameSize, metricSize int) *Buffer[S] {
	return &Buffer[S]{
		frames:  NewRing[pose.Frame](frameSize),
		metrics: NewRing[S](metricSize),
	}
}

// Push appends a frame, evicting the oldest once at capacity.  It returns
// true if a frame was evicted.
func (b *Buffer[S]) Push(frame pose.Frame) bool {
	b.Lock()
	defer b.Unlock()

	b.pushed++
	_, evicted := b.frames.Push(frame)

	return evicted
}

// PushMetrics appends a metrics snapshot
func (b *Buffer[S]) PushMetrics(s S) {
	b.Lock()
	defer b.Unlock()

	b.metrics.Push(s)
}

// RecentInto copies the last n frames in chronological order into dst's
// storage, growing it when too small, so a single reader can avoid an
// allocation per frame
func (b *Buffer[S]) RecentInto(n int, dst []pose.Frame) []pose.Frame {
	b.Lock()
	defer b.Unlock()

	return b.frames.Recent(n, dst)
}

// View returns the last n frames and last m snapshots taken together
func (b *Buffer[S]) View(n, m int) View[S] {
	b.Lock()
	defer b.Unlock()

	return View[S]{
		Frames:  b.frames.Recent(n, nil),
		Metrics: b.metrics.Recent(m, nil),
		Pushed:  b.pushed,
	}
}

// Len returns the number of frames held
func (b *Buffer[S]) Len() int {
	b.Lock()
	defer b.Unlock()

	return b.frames.Len()
}

// Cap returns the frame capacity
func (b *Buffer[S]) Cap() int {
	return b.frames.Cap()
}

// Reset clears all frames and snapshots
func (b *Buffer[S]) Reset() {
	b.Lock()
	defer b.Unlock()

	b.frames.Reset()
	b.metrics.Reset()
	b.pushed = 0
}
