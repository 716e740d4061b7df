package smoothing

import "math"

// EMA is an exponential moving average filter
type EMA struct {
	// alpha is the weight given to each new sample
	alpha float64
	value float64
	set   bool
}

// NewEMA returns an exponential moving average with the given alpha, values
// outside (0,1] are clamped
func NewEMA(alpha float64) *EMA {

	if alpha <= 0 || math.IsNaN(alpha) {
		alpha = 1e-3
	}

	if alpha > 1 {
		alpha = 1
	}

	return &EMA{alpha: alpha}
}

// Add feeds a sample.  Non finite samples are ignored and the current value
// returned.
func (e *EMA) Add(v float64) float64 {

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return e.value
	}

	if !e.set {
		e.value = v
		e.set = true
		return v
	}

	e.value = e.alpha*v + (1-e.alpha)*e.value

	return e.value
}

// Value returns the current average
func (e *EMA) Value() (float64, bool) {
	return e.value, e.set
}

// Reset clears the average
func (e *EMA) Reset() {
	e.value = 0
	e.set = false
}

// MovingAverage is a fixed window simple moving average
type MovingAverage struct {
	window *Series
	sum    float64
}

// NewMovingAverage returns a moving average over the last size samples
func NewMovingAverage(size int) *MovingAverage {
	if size < 1 {
		size = 1
	}

	return &MovingAverage{
		window: NewSeries(size),
	}
}

// Add feeds a sample and returns the average of the window
func (m *MovingAverage) Add(v float64) float64 {

	if math.IsNaN(v) || math.IsInf(v, 0) {
		avg, _ := m.Value()
		return avg
	}

	if evicted, ok := m.window.Push(v); ok {
		m.sum -= evicted
	}

	m.sum += v

	return m.sum / float64(m.window.Len())
}

// Value returns the current average
func (m *MovingAverage) Value() (float64, bool) {
	if m.window.Len() == 0 {
		return 0, false
	}

	return m.sum / float64(m.window.Len()), true
}

// Reset empties the window
func (m *MovingAverage) Reset() {
	m.window.Reset()
	m.sum = 0
}
