package phase

import (
	"errors"
	"fmt"
	"time"

	"github.com/swdee/go-golfswing/history"
	"github.com/swdee/go-golfswing/smoothing"
)

// Thresholds tune the phase predicates.  Angles are in degrees, speeds in
// normalized image units per second and counts in frames.
type Thresholds struct {
	// StillSpeed is the lead wrist speed below which the golfer is at rest
	StillSpeed float64 `yaml:"still_speed"`
	// AddressStillFrames is the number of still frames needed for address
	AddressStillFrames int `yaml:"address_still_frames"`
	// AddressMaxSeparation is the largest separation accepted at address
	AddressMaxSeparation float64 `yaml:"address_max_separation"`
	// TakeawayMinTurn is the shoulder turn from address starting the swing
	TakeawayMinTurn float64 `yaml:"takeaway_min_turn"`
	// BackswingMinTurn is the shoulder turn from address for the backswing
	BackswingMinTurn float64 `yaml:"backswing_min_turn"`
	// TransitionWindow is the number of separation samples searched for the
	// top of swing peak
	TransitionWindow int `yaml:"transition_window"`
	// TransitionMinFalling is the number of decreasing samples after the
	// peak required before transition is declared
	TransitionMinFalling int `yaml:"transition_min_falling"`
	// TransitionMinSeparation is the smallest peak treated as a top of swing
	TransitionMinSeparation float64 `yaml:"transition_min_separation"`
	// ImpactMaxTurn is the shoulder turn from address at or below which the
	// downswing has returned to impact
	ImpactMaxTurn float64 `yaml:"impact_max_turn"`
	// FinishSpeed is the lead wrist speed below which the follow through
	// has ended
	FinishSpeed float64 `yaml:"finish_speed"`
	// ResetStillFrames is the number of still frames in the finish before
	// the machine returns to setup
	ResetStillFrames int `yaml:"reset_still_frames"`
	// IncompleteFrames is the number of frames after takeaway without
	// reaching the finish before the swing is abandoned
	IncompleteFrames int `yaml:"incomplete_frames"`
	// HistorySize is the number of per frame phase entries kept
	HistorySize int `yaml:"history_size"`
}

// DefaultThresholds returns thresholds tuned for 30 FPS input
func DefaultThresholds() Thresholds {
	return Thresholds{
		StillSpeed:              0.15,
		AddressStillFrames:      3,
		AddressMaxSeparation:    10,
		TakeawayMinTurn:         5,
		BackswingMinTurn:        20,
		TransitionWindow:        5,
		TransitionMinFalling:    2,
		TransitionMinSeparation: 15,
		ImpactMaxTurn:           10,
		FinishSpeed:             0.3,
		ResetStillFrames:        15,
		IncompleteFrames:        150,
		HistorySize:             60,
	}
}

// Validate checks the thresholds are usable
func (t Thresholds) Validate() error {

	if t.AddressStillFrames < 1 || t.ResetStillFrames < 1 {
		return errors.New("still frame counts must be at least 1")
	}

	if t.TakeawayMinTurn <= 0 || t.BackswingMinTurn <= t.TakeawayMinTurn {
		return fmt.Errorf("backswing turn %v must exceed takeaway turn %v",
			t.BackswingMinTurn, t.TakeawayMinTurn)
	}

	if t.TransitionWindow < t.TransitionMinFalling+2 {
		return fmt.Errorf("transition window %d too small for %d falling samples",
			t.TransitionWindow, t.TransitionMinFalling)
	}

	if t.IncompleteFrames < 1 || t.HistorySize < 1 {
		return errors.New("incomplete frames and history size must be positive")
	}

	return nil
}

// Entry is one frame in the phase history
type Entry struct {
	Phase     Phase         `msgpack:"phase" json:"phase"`
	Seq       uint64        `msgpack:"seq" json:"seq"`
	Timestamp time.Duration `msgpack:"ts" json:"timestamp"`
}

// Result is the outcome of a single Update
type Result struct {
	Phase    Phase
	Previous Phase
	// Transition is true when Phase differs from Previous
	Transition bool
	Status     Status
	// Rule is the name of the matching predicate, empty when the phase was
	// held or set by the machine itself
	Rule string
	// Turn is the shoulder rotation relative to address
	Turn float64
}

// Machine tracks the swing phase across frames.  It is not safe for
// concurrent use, callers serialize Update.
type Machine struct {
	thresholds Thresholds
	rules      []Rule
	current    Phase
	// separation is the trailing smoothed separation window
	separation *smoothing.Series
	// baseline is the shoulder angle recorded at address
	baseline      float64
	framesInPhase int
	stillFrames   int
	// swingFrames counts frames since takeaway
	swingFrames int
	// history holds the phase of recent frames
	history *history.Ring[Entry]
	// transitions holds the frames where the phase changed
	transitions *history.Ring[Entry]
	ctx         Context
}

// maxTransitions is enough to hold two full swing cycles
const maxTransitions = 2 * NumPhases

// NewMachine returns a machine in Setup using the default rules
func NewMachine(th Thresholds) (*Machine, error) {
	return NewMachineWithRules(th, DefaultRules())
}

// NewMachineWithRules returns a machine evaluating the given rules in order
func NewMachineWithRules(th Thresholds, rules []Rule) (*Machine, error) {

	if err := th.Validate(); err != nil {
		return nil, err
	}

	if len(rules) == 0 {
		return nil, errors.New("no phase rules given")
	}

	return &Machine{
		thresholds:  th,
		rules:       rules,
		current:     Setup,
		// long enough to see past a pause at the top of the backswing
		separation:  smoothing.NewSeries(th.TransitionWindow + th.IncompleteFrames),
		history:     history.NewRing[Entry](th.HistorySize),
		transitions: history.NewRing[Entry](maxTransitions),
	}, nil
}

// Phase returns the current phase
func (m *Machine) Phase() Phase {
	return m.current
}

// Update advances the machine by one frame.  Invalid frames hold the
// current phase and are otherwise only counted toward the incomplete swing
// timeout.
func (m *Machine) Update(seq uint64, ts time.Duration, valid bool, sc Scalars) Result {

	prev := m.current
	res := Result{Previous: prev, Phase: prev, Status: StatusOK}

	if m.current.InSwing() {
		m.swingFrames++

		if m.swingFrames >= m.thresholds.IncompleteFrames {
			m.reset()
			m.enter(Setup, seq, ts)
			res.Phase = Setup
			res.Transition = prev != Setup
			res.Status = StatusIncomplete
			m.record(seq, ts)
			return res
		}
	}

	if !valid {
		m.framesInPhase++
		res.Status = StatusHeld
		m.record(seq, ts)
		return res
	}

	if sc.WristSpeed < m.thresholds.StillSpeed {
		m.stillFrames++
	} else {
		m.stillFrames = 0
	}

	m.separation.Push(sc.Separation)

	turn := sc.ShoulderAngle - m.baseline
	res.Turn = turn

	// resting after the finish starts the next swing cycle
	if m.current == Finish && m.stillFrames >= m.thresholds.ResetStillFrames {
		m.reset()
		m.enter(Setup, seq, ts)
		res.Phase = Setup
		res.Transition = true
		m.record(seq, ts)
		return res
	}

	m.ctx = Context{
		Current:       m.current,
		Scalars:       sc,
		Turn:          turn,
		Separation:    m.separation,
		FramesInPhase: m.framesInPhase,
		StillFrames:   m.stillFrames,
		Thresholds:    m.thresholds,
	}

	next, rule := m.evaluate(&m.ctx)

	// phases never move backwards within a cycle
	if next < m.current {
		next = m.current
		rule = ""
	}

	res.Rule = rule

	if next == Address && rule != "" {
		// track the address posture while it is matched
		m.baseline = sc.ShoulderAngle
	}

	if next != m.current {
		if next == Takeaway || (m.current < Takeaway && next.InSwing()) {
			m.swingFrames = 0
		}

		m.enter(next, seq, ts)
		res.Phase = next
		res.Transition = true
	} else {
		m.framesInPhase++
	}

	m.record(seq, ts)

	return res
}

// evaluate returns the first matching rule, or the fallback when none match
func (m *Machine) evaluate(ctx *Context) (Phase, string) {

	for _, r := range m.rules {
		if r.Match(ctx) {
			return r.Phase, r.Name
		}
	}

	// once past impact an unmatched frame means the swing has finished,
	// before that the phase is held
	if ctx.Current >= Impact {
		return Finish, "finish"
	}

	return ctx.Current, ""
}

// enter switches to a new phase
func (m *Machine) enter(p Phase, seq uint64, ts time.Duration) {
	m.current = p
	m.framesInPhase = 0

	// only rest inside the finish counts toward the reset
	if p == Finish {
		m.stillFrames = 0
	}

	m.transitions.Push(Entry{Phase: p, Seq: seq, Timestamp: ts})
}

// record appends the current phase to the history
func (m *Machine) record(seq uint64, ts time.Duration) {
	m.history.Push(Entry{Phase: m.current, Seq: seq, Timestamp: ts})
}

// reset clears per swing state
func (m *Machine) reset() {
	m.separation.Reset()
	m.baseline = 0
	m.stillFrames = 0
	m.swingFrames = 0
}

// Reset returns the machine to Setup and clears all history
func (m *Machine) Reset() {
	m.reset()
	m.current = Setup
	m.framesInPhase = 0
	m.history.Reset()
	m.transitions.Reset()
}

// History returns a copy of the most recent per frame phase entries in
// chronological order
func (m *Machine) History() []Entry {
	return m.history.Recent(m.history.Len(), nil)
}

// Transitions returns a copy of the recorded phase changes in chronological
// order
func (m *Machine) Transitions() []Entry {
	return m.transitions.Recent(m.transitions.Len(), nil)
}

// Cycle returns the phase changes of the current or most recently completed
// swing, starting from the last entry into Address
func (m *Machine) Cycle() []Entry {

	all := m.Transitions()

	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Phase == Address {
			return all[i:]
		}
	}

	return nil
}

// FramesInPhase returns how many frames have been spent in the current
// phase after the one that entered it
func (m *Machine) FramesInPhase() int {
	return m.framesInPhase
}

// Thresholds returns the thresholds in use
func (m *Machine) Thresholds() Thresholds {
	return m.thresholds
}
