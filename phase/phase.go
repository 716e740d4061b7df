// Package phase detects which stage of the golf swing each pose frame
// belongs to.  Detection is an ordered list of named predicates evaluated
// top down per frame, the first match wins, and a Machine enforces that
// phases only ever advance through the swing except for the explicit reset
// back to Setup once the golfer is still after the finish.
package phase

import (
	"fmt"
	"strings"
)

// Phase is one discrete stage of the golf swing.  The numeric order is the
// order phases occur in.
type Phase int

const (
	Setup Phase = iota
	Address
	Takeaway
	Backswing
	Transition
	Downswing
	Impact
	FollowThrough
	Finish

	// NumPhases is the number of swing phases
	NumPhases = 9
)

var phaseNames = [NumPhases]string{
	"SETUP",
	"ADDRESS",
	"TAKEAWAY",
	"BACKSWING",
	"TRANSITION",
	"DOWNSWING",
	"IMPACT",
	"FOLLOW_THROUGH",
	"FINISH",
}

// String returns the upper case phase name
func (p Phase) String() string {
	if p < 0 || p >= NumPhases {
		return fmt.Sprintf("PHASE(%d)", int(p))
	}

	return phaseNames[p]
}

// MarshalText implements encoding.TextMarshaler
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Phase) UnmarshalText(b []byte) error {

	name := strings.ToUpper(strings.TrimSpace(string(b)))

	for i, n := range phaseNames {
		if n == name {
			*p = Phase(i)
			return nil
		}
	}

	return fmt.Errorf("unknown swing phase %q", string(b))
}

// InSwing reports whether the phase is part of the moving swing, from
// takeaway to follow through
func (p Phase) InSwing() bool {
	return p >= Takeaway && p <= FollowThrough
}

// Between reports whether lo <= p <= hi
func (p Phase) Between(lo, hi Phase) bool {
	return p >= lo && p <= hi
}

// Status describes how a frame was handled by the Machine
type Status int

const (
	// StatusOK is a normally processed frame
	StatusOK Status = iota
	// StatusHeld is an invalid frame where the previous phase was kept
	StatusHeld
	// StatusIncomplete is returned on the frame a swing was abandoned
	// because it did not reach the finish in time, the machine has reset to
	// Setup
	StatusIncomplete
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case StatusHeld:
		return "held"
	case StatusIncomplete:
		return "incomplete"
	}

	return "ok"
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Status) UnmarshalText(b []byte) error {

	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "ok":
		*s = StatusOK
	case "held":
		*s = StatusHeld
	case "incomplete":
		*s = StatusIncomplete
	default:
		return fmt.Errorf("unknown status %q", string(b))
	}

	return nil
}
