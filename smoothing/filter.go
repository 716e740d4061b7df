// Package smoothing provides deterministic filters for the noisy scalar
// series derived from pose landmarks, such as rotation angles and joint
// speeds.  Filters never consult the wall clock, replaying the same samples
// from a reset filter yields the same output.
package smoothing

import (
	"fmt"
	"strings"
)

// Filter is a stateful scalar smoother
type Filter interface {
	// Add feeds a sample and returns the smoothed value
	Add(v float64) float64
	// Value returns the current smoothed value and false if no samples have
	// been added since the last Reset
	Value() (float64, bool)
	// Reset returns the filter to its empty state
	Reset()
}

// Kind selects a filter implementation
type Kind string

const (
	KindEMA     Kind = "ema"
	KindMoving  Kind = "moving"
	KindKalman  Kind = "kalman"
	KindNone    Kind = "none"
	defaultKind      = KindEMA
)

// ParseKind parses a filter kind name, an empty name gives the default EMA
func ParseKind(s string) (Kind, error) {

	k := Kind(strings.ToLower(strings.TrimSpace(s)))

	switch k {
	case "":
		return defaultKind, nil
	case KindEMA, KindMoving, KindKalman, KindNone:
		return k, nil
	}

	return "", fmt.Errorf("unknown smoothing kind %q", s)
}

// New returns a filter of the given kind.  factor is the EMA alpha in (0,1],
// for the moving average the window is derived as round(2/factor - 1)
// matching an EMA of the same center of mass, for the Kalman filter it
// sets how strongly measurements are trusted over the motion model.  dt is
// the sample period in seconds.
func New(kind Kind, factor, dt float64) (Filter, error) {

	if factor <= 0 || factor > 1 {
		return nil, fmt.Errorf("smoothing factor must be within (0,1], got %v", factor)
	}

	switch kind {
	case KindEMA, "":
		return NewEMA(factor), nil

	case KindMoving:
		window := int(2/factor - 1 + 0.5)
		return NewMovingAverage(window), nil

	case KindKalman:
		if dt <= 0 {
			return nil, fmt.Errorf("kalman filter requires a positive sample period, got %v", dt)
		}

		// a factor of 1 trusts measurements fully, smaller values give the
		// measurement proportionally more noise than the motion model
		measurementNoise := (1 - factor) / factor

		return NewKalman(dt, 1.0, measurementNoise+1e-6), nil

	case KindNone:
		return &passthrough{}, nil
	}

	return nil, fmt.Errorf("unknown smoothing kind %q", kind)
}

// passthrough is a Filter that returns samples unchanged
type passthrough struct {
	last float64
	set  bool
}

func (p *passthrough) Add(v float64) float64 {
	p.last = v
	p.set = true
	return v
}

func (p *passthrough) Value() (float64, bool) {
	return p.last, p.set
}

func (p *passthrough) Reset() {
	p.last = 0
	p.set = false
}
