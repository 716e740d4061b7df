package golfswing

import "errors"

var (
	// ErrInvalidConfig is wrapped by every configuration error
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrAlreadyStarted is returned when Start is called on a running engine
	ErrAlreadyStarted = errors.New("engine already started")
	// ErrNotStarted is returned by Stop on an engine that is not running
	ErrNotStarted = errors.New("engine not started")
	// ErrClosed is returned when using a closed pool
	ErrClosed = errors.New("closed")
)
