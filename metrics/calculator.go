// Package metrics computes biomechanical swing metrics from pose frames
// and the detected swing phase.
package metrics

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/swdee/go-golfswing/history"
	"github.com/swdee/go-golfswing/phase"
	"github.com/swdee/go-golfswing/pose"
	"github.com/swdee/go-golfswing/smoothing"
)

// Params are the session settings the calculator needs beyond Config
type Params struct {
	// FrameRate is the capture rate in frames per second
	FrameRate float64
	// Handedness selects the lead side
	Handedness pose.Handedness
	// MinVisibility is the landmark visibility below which a landmark is
	// treated as missing
	MinVisibility float64
	// Filter smooths the separation series, nil disables smoothing
	Filter smoothing.Filter
}

// HistoryFrames is how many recent frames, the observed frame included,
// Observe reads for velocities and the ground force estimate.  A previous
// frame further back than this is treated as missing.
const HistoryFrames = 8

// hipSample is a hip centre height reading for the ground force estimate
type hipSample struct {
	y  float64
	ts time.Duration
}

// Calculator computes a Snapshot per frame.  Each metric keeps its last
// known good value when the landmarks it needs are missing.  It is not safe
// for concurrent use.
type Calculator struct {
	cfg    Config
	params Params

	// last known good values
	rotation    Rotation
	separation  float64
	wristSpeed  float64
	wristHeight float64
	weightShift float64
	groundForce float64
	balance     Balance
	height      float64

	// hip readings of the frames being read, reused per call
	hips []hipSample

	// values of the frame being processed
	frameVel   [NumSegments]float64
	frameVelOK [NumSegments]bool
	frameSeg   segmentPose
	frameRotOK bool
	stale      Stale

	// per swing accumulators, reset at address
	peakSeparation float64
	peaks          peakTracker
	power          Power

	summaries   *history.Ring[SwingSummary]
	scores      *smoothing.Series
	consistency Consistency
}

// NewCalculator returns a calculator for one session
func NewCalculator(cfg Config, params Params) (*Calculator, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if params.FrameRate <= 0 || math.IsNaN(params.FrameRate) {
		return nil, fmt.Errorf("frame rate must be positive, got %v", params.FrameRate)
	}

	if params.MinVisibility < 0 || params.MinVisibility > 1 {
		return nil, errors.New("minimum visibility must be within [0,1]")
	}

	c := &Calculator{
		cfg:       cfg,
		params:    params,
		hips:      make([]hipSample, 0, 3),
		summaries: history.NewRing[SwingSummary](cfg.ConsistencySwings),
		scores:    smoothing.NewSeries(cfg.ConsistencySwings * 2),
	}

	c.Reset()

	return c, nil
}

// Reset returns the calculator to its initial state
func (c *Calculator) Reset() {

	c.rotation = Rotation{}
	c.separation = DefaultSeparation
	c.wristSpeed = 0
	c.wristHeight = 0
	c.weightShift = DefaultWeightShift
	c.groundForce = DefaultGroundForce
	c.balance = DefaultBalance
	c.height = 0

	c.frameVel = [NumSegments]float64{}
	c.frameVelOK = [NumSegments]bool{}
	c.stale = 0

	c.resetSwing()

	c.summaries.Reset()
	c.scores.Reset()
	c.consistency = Consistency{}

	if c.params.Filter != nil {
		c.params.Filter.Reset()
	}
}

// resetSwing clears the accumulators of the current swing
func (c *Calculator) resetSwing() {
	c.peakSeparation = 0
	c.peaks.reset()
	c.power = Power{}
}

// Observe measures the last frame of recent and returns the scalars driving
// phase detection.  recent holds the latest frames from the session history
// in chronological order, the earlier ones supply velocities and the hip
// acceleration.  It reports false when the frame is invalid or the rotation
// could not be measured, in which case the returned scalars hold the last
// known good values.
func (c *Calculator) Observe(recent []pose.Frame) (phase.Scalars, bool) {

	c.stale = 0
	c.frameVel = [NumSegments]float64{}
	c.frameVelOK = [NumSegments]bool{}
	c.frameSeg = segmentPose{}
	c.frameRotOK = false

	if len(recent) > HistoryFrames {
		recent = recent[len(recent)-HistoryFrames:]
	}

	if len(recent) == 0 || !recent[len(recent)-1].Valid {
		c.stale = StaleSeparation | StaleWeightShift | StaleGroundForce | StaleBalance | StaleVelocity
		return c.scalars(), false
	}

	f := recent[len(recent)-1]
	prev, havePrev := lastValid(recent[:len(recent)-1])

	minVis := c.params.MinVisibility
	hand := c.params.Handedness

	dt := 1 / c.params.FrameRate

	if havePrev && f.Timestamp > prev.Timestamp {
		dt = (f.Timestamp - prev.Timestamp).Seconds()
	}

	rot, rotOK := Separation(f, hand, c.cfg.Plane, minVis)
	c.frameRotOK = rotOK

	if rotOK {
		c.rotation = rot
		c.separation = rot.Separation

		if c.params.Filter != nil {
			c.separation = c.params.Filter.Add(rot.Separation)
		}
	} else {
		c.stale |= StaleSeparation
	}

	// lead wrist speed and height
	wrist, wOK := f.Visible(hand.Lead(pose.LeftWrist), minVis)

	switch {
	case wOK && !havePrev:
		c.wristSpeed = 0
	case wOK:
		if pw, ok := prev.Visible(hand.Lead(pose.LeftWrist), minVis); ok {
			c.wristSpeed = wrist.Distance(pw) / dt
		} else {
			c.stale |= StaleVelocity
		}
	default:
		c.stale |= StaleVelocity
	}

	if shoulder, ok := f.Visible(hand.Lead(pose.LeftShoulder), minVis); ok && wOK {
		c.wristHeight = shoulder.Y - wrist.Y
	}

	// segment angular velocities
	c.frameSeg = segments(f, rot, rotOK, hand, minVis)

	if havePrev {
		prot, protOK := Separation(prev, hand, c.cfg.Plane, minVis)
		prevSeg := segments(prev, prot, protOK, hand, minVis)
		c.frameVel, c.frameVelOK = angularVelocity(prevSeg, c.frameSeg, dt)
	}

	if ws, ok := WeightShift(f, hand, minVis); ok {
		c.weightShift = ws
	} else {
		c.stale |= StaleWeightShift
	}

	if b, ok := BalanceOf(f, c.cfg.BalanceMargin, minVis); ok {
		c.balance = b
	} else {
		c.stale |= StaleBalance
	}

	c.observeGround(recent, minVis)

	return c.scalars(), rotOK
}

// lastValid returns the most recent valid frame
func lastValid(frames []pose.Frame) (pose.Frame, bool) {

	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i].Valid {
			return frames[i], true
		}
	}

	return pose.Frame{}, false
}

// observeGround updates the ground force estimate from the hip centre of
// the last three valid frames in recent
func (c *Calculator) observeGround(recent []pose.Frame, minVis float64) {

	f := recent[len(recent)-1]

	if h, ok := bodyHeight(f, minVis); ok {
		c.height = h
	}

	if _, ok := f.Midpoint(pose.LeftHip, pose.RightHip, minVis); !ok {
		c.stale |= StaleGroundForce
		return
	}

	// newest first
	c.hips = c.hips[:0]

	for i := len(recent) - 1; i >= 0 && len(c.hips) < 3; i-- {
		if !recent[i].Valid {
			continue
		}

		if hips, ok := recent[i].Midpoint(pose.LeftHip, pose.RightHip, minVis); ok {
			c.hips = append(c.hips, hipSample{y: hips.Y, ts: recent[i].Timestamp})
		}
	}

	if len(c.hips) < 3 {
		c.stale |= StaleGroundForce
		return
	}

	s0, s1, s2 := c.hips[2], c.hips[1], c.hips[0]
	dt := (s2.ts - s0.ts).Seconds() / 2

	if force, ok := GroundForce(s0.y, s1.y, s2.y, c.height, dt); ok {
		c.groundForce = force
	} else {
		c.stale |= StaleGroundForce
	}
}

// scalars returns the phase inputs from the current values
func (c *Calculator) scalars() phase.Scalars {
	return phase.Scalars{
		ShoulderAngle: c.rotation.Shoulder,
		HipAngle:      c.rotation.Hip,
		Separation:    c.separation,
		WristHeight:   c.wristHeight,
		WristSpeed:    c.wristSpeed,
	}
}

// Snapshot completes the metrics of the frame last passed to Observe using
// the phase it was classified as and the phase changes of the current
// swing
func (c *Calculator) Snapshot(f pose.Frame, res phase.Result, cycle []phase.Entry) Snapshot {

	if res.Status == phase.StatusIncomplete ||
		(res.Transition && res.Phase == phase.Address) {
		c.resetSwing()
	}

	inSwing := res.Phase >= phase.Address

	if inSwing && c.frameRotOK {
		c.peakSeparation = math.Max(c.peakSeparation, c.separation)
	}

	if res.Phase.Between(phase.Transition, phase.FollowThrough) {
		c.peaks.observe(f.Timestamp, c.frameVel, c.frameVelOK)
	}

	if inSwing && f.Valid {
		c.power.record(res.Phase,
			segmentPower(c.cfg.BodyMass, c.frameVel, c.frameVelOK, c.frameSeg.length))
	}

	snap := Snapshot{
		Seq:            f.Seq,
		Timestamp:      f.Timestamp,
		Phase:          res.Phase,
		ShoulderAngle:  c.rotation.Shoulder,
		HipAngle:       c.rotation.Hip,
		Separation:     c.separation,
		PeakSeparation: c.peakSeparation,
		WristSpeed:     c.wristSpeed,
		Sequence:       c.peaks.sequence(),
		Power:          c.power,
		WeightShift:    c.weightShift,
		GroundForce:    c.groundForce,
		Balance:        c.balance,
		Timing:         TimingOf(cycle, f.Seq, c.params.FrameRate),
		Stale:          c.stale,
	}

	snap.EnergyTransfer = energyTransfer(snap.Sequence, c.cfg.IdealGain)

	if res.Transition && res.Phase == phase.Finish {
		c.completeSwing(&snap)
	}

	snap.Consistency = c.consistency
	snap.Composite = compositeScore(&snap, c.cfg)

	return snap
}

// completeSwing records the summary of a finished swing and updates the
// consistency score
func (c *Calculator) completeSwing(snap *Snapshot) {

	c.summaries.Push(SwingSummary{
		Seq:                snap.Seq,
		PeakSeparation:     snap.PeakSeparation,
		Tempo:              snap.Timing.Tempo,
		SequenceEfficiency: snap.Sequence.Efficiency,
		TotalPower:         snap.Power.Total,
		Backswing:          snap.Timing.Durations[phase.Takeaway] + snap.Timing.Durations[phase.Backswing],
		Composite:          compositeScore(snap, c.cfg),
	})

	swings := c.summaries.Recent(c.summaries.Len(), nil)
	score, ok := ConsistencyScore(swings, c.cfg.ConsistencyTolerance)

	if !ok {
		return
	}

	c.scores.Push(score)

	c.consistency = Consistency{
		Score:  score,
		Trend:  consistencyTrend(c.scores, c.cfg.TrendRecent, c.cfg.TrendBand),
		Swings: len(swings),
		Valid:  true,
	}
}

// Summaries returns the retained completed swing summaries, oldest first
func (c *Calculator) Summaries() []SwingSummary {
	return c.summaries.Recent(c.summaries.Len(), nil)
}
