package smoothing

import (
	"math"

	"github.com/swdee/go-golfswing/history"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Trend is the direction a series is moving in
type Trend int

const (
	Stable  Trend = 0
	Rising  Trend = 1
	Falling Trend = -1
)

// String returns the trend name
func (t Trend) String() string {
	switch t {
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	}

	return "stable"
}

// Series is a bounded FIFO of samples, the oldest evicted first
type Series struct {
	ring *history.Ring[float64]
	// scratch is reused by read helpers to avoid allocating per call
	scratch []float64
}

// NewSeries returns a series holding at most size samples
func NewSeries(size int) *Series {
	return &Series{
		ring: history.NewRing[float64](size),
	}
}

// Push appends a sample, returning the evicted sample if the series was full
func (s *Series) Push(v float64) (float64, bool) {
	return s.ring.Push(v)
}

// Len returns the number of samples held
func (s *Series) Len() int {
	return s.ring.Len()
}

// Cap returns the series capacity
func (s *Series) Cap() int {
	return s.ring.Cap()
}

// Values returns a copy of the last n samples in chronological order
func (s *Series) Values(n int) []float64 {
	return s.ring.Recent(n, nil)
}

// Reset empties the series
func (s *Series) Reset() {
	s.ring.Reset()
}

// recent returns the last n samples in the internal scratch buffer, the
// result is only valid until the next call
func (s *Series) recent(n int) []float64 {
	s.scratch = s.ring.Recent(n, s.scratch)
	return s.scratch
}

// Max returns the largest sample held
func (s *Series) Max() (float64, bool) {
	if s.ring.Len() == 0 {
		return 0, false
	}

	return floats.Max(s.recent(s.ring.Len())), true
}

// Mean returns the mean of the last n samples
func (s *Series) Mean(n int) (float64, bool) {

	vals := s.recent(n)

	if len(vals) == 0 {
		return 0, false
	}

	return stat.Mean(vals, nil), true
}

// LocalMax reports whether the last window samples contain a local maximum
// that has been followed by strictly decreasing samples.  A peak held over
// several equal samples is anchored at the last of them.  The peak must be
// followed by at least minFalling samples, each lower than the one before,
// and the first differing sample before the plateau must be lower.  The
// plateau may extend back past the window.  It returns the peak value and
// how many samples ago the peak occurred.
func (s *Series) LocalMax(window, minFalling int) (peak float64, ago int, ok bool) {

	if minFalling < 1 {
		minFalling = 1
	}

	vals := s.recent(s.ring.Len())
	start := len(vals) - window

	if start < 0 {
		start = 0
	}

	if len(vals)-start < minFalling+2 {
		return 0, 0, false
	}

	// walk back over the falling run to the end of the peak plateau
	idx := len(vals) - 1

	for idx > start && vals[idx-1] > vals[idx] {
		idx--
	}

	ago = len(vals) - 1 - idx

	if ago < minFalling {
		return 0, 0, false
	}

	top := vals[idx]

	if floats.Max(vals[start:]) > top {
		return 0, 0, false
	}

	// skip the rest of the plateau, the sample before it must be lower
	j := idx - 1

	for j >= 0 && vals[j] == top {
		j--
	}

	if j < 0 || vals[j] > top {
		return 0, 0, false
	}

	return top, ago, true
}

// Falling reports whether the last n samples are strictly decreasing
func (s *Series) Falling(n int) bool {

	vals := s.recent(n)

	if len(vals) < 2 || len(vals) < n {
		return false
	}

	for i := 1; i < len(vals); i++ {
		if vals[i] >= vals[i-1] {
			return false
		}
	}

	return true
}

// Slope returns the least squares slope per sample over the last n samples
func (s *Series) Slope(n int) (float64, bool) {

	vals := s.recent(n)

	if len(vals) < 2 {
		return 0, false
	}

	xs := make([]float64, len(vals))

	for i := range xs {
		xs[i] = float64(i)
	}

	_, beta := stat.LinearRegression(xs, vals, nil, false)

	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return 0, false
	}

	return beta, true
}

// Trend classifies the slope over the last n samples, slopes within
// tolerance per sample are Stable
func (s *Series) Trend(n int, tolerance float64) Trend {

	slope, ok := s.Slope(n)

	if !ok {
		return Stable
	}

	switch {
	case slope > tolerance:
		return Rising
	case slope < -tolerance:
		return Falling
	}

	return Stable
}
