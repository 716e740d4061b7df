package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/swdee/go-golfswing/pose"
)

// Segment is a body segment tracked for the kinematic sequence
type Segment int

const (
	Pelvis Segment = iota
	Torso
	LeadArm
	TrailArm
	Club

	// NumSegments is the number of tracked segments
	NumSegments = 5
)

var segmentNames = [NumSegments]string{"pelvis", "torso", "lead_arm", "trail_arm", "club"}

// String returns the segment name
func (s Segment) String() string {
	if s < 0 || s >= NumSegments {
		return "unknown"
	}

	return segmentNames[s]
}

// chain is the proximal to distal order used to judge the sequence, the
// trail arm is tracked but not part of it
var chain = [...]Segment{Pelvis, Torso, LeadArm, Club}

// segmentPose is the orientation and length of each segment in one frame
type segmentPose struct {
	angle  [NumSegments]float64
	length [NumSegments]float64
	ok     [NumSegments]bool
}

// segments measures each body segment.  Pelvis and torso use the hip and
// shoulder line rotation, the arms use the shoulder to wrist direction and
// the club is approximated by the lead forearm.
func segments(f pose.Frame, rot Rotation, rotOK bool, hand pose.Handedness, minVisibility float64) segmentPose {

	var sp segmentPose

	get := func(left pose.LandmarkID, lead bool) (pose.Point, bool) {
		if lead {
			return f.Visible(hand.Lead(left), minVisibility)
		}
		return f.Visible(hand.Trail(left), minVisibility)
	}

	ls, okLS := get(pose.LeftShoulder, true)
	ts, okTS := get(pose.LeftShoulder, false)
	lh, okLH := get(pose.LeftHip, true)
	th, okTH := get(pose.LeftHip, false)
	le, okLE := get(pose.LeftElbow, true)
	lw, okLW := get(pose.LeftWrist, true)
	tw, okTW := get(pose.LeftWrist, false)

	if rotOK && okLH && okTH {
		sp.angle[Pelvis] = rot.Hip
		sp.length[Pelvis] = lh.Distance(th) / 2
		sp.ok[Pelvis] = true
	}

	if rotOK && okLS && okTS {
		sp.angle[Torso] = rot.Shoulder
		sp.length[Torso] = ls.Distance(ts) / 2
		sp.ok[Torso] = true
	}

	if okLS && okLW {
		sp.angle[LeadArm], sp.ok[LeadArm] = segmentAngle(ls, lw)
		sp.length[LeadArm] = ls.Distance(lw)
	}

	if okTS && okTW {
		sp.angle[TrailArm], sp.ok[TrailArm] = segmentAngle(ts, tw)
		sp.length[TrailArm] = ts.Distance(tw)
	}

	if okLE && okLW {
		sp.angle[Club], sp.ok[Club] = segmentAngle(le, lw)
		sp.length[Club] = le.Distance(lw)
	}

	return sp
}

// angularVelocity returns each segment's angular speed in degrees per
// second between two segment poses dt seconds apart
func angularVelocity(prev, cur segmentPose, dt float64) (vel [NumSegments]float64, ok [NumSegments]bool) {

	if dt <= 0 {
		return vel, ok
	}

	for i := 0; i < NumSegments; i++ {
		if !prev.ok[i] || !cur.ok[i] {
			continue
		}

		vel[i] = math.Abs(angleDelta(prev.angle[i], cur.angle[i])) / dt
		ok[i] = true
	}

	return vel, ok
}

// Sequence describes the order body segments reach their peak rotational
// velocity during the downswing
type Sequence struct {
	// PeakVelocity is each segment's peak angular speed in degrees per
	// second
	PeakVelocity [NumSegments]float64 `msgpack:"peak_velocity" json:"peak_velocity"`
	// PeakTime is the frame timestamp of each segment's peak
	PeakTime [NumSegments]time.Duration `msgpack:"peak_time" json:"peak_time"`
	// Order lists the segments sorted by peak time
	Order [NumSegments]Segment `msgpack:"order" json:"order"`
	// Gaps are the timing deltas between consecutive peaks along the
	// pelvis, torso, lead arm, club chain
	Gaps [len(chain) - 1]time.Duration `msgpack:"gaps" json:"gaps"`
	// Efficiency is the fraction of chain segment pairs peaking in the
	// proximal to distal order, ties count half
	Efficiency float64 `msgpack:"efficiency" json:"efficiency"`
	// Optimal is true when every chain gap is positive
	Optimal bool `msgpack:"optimal" json:"optimal"`
	// Valid is false until every chain segment has a peak
	Valid bool `msgpack:"valid" json:"valid"`
}

// peakTracker records each segment's peak velocity over a swing
type peakTracker struct {
	vel  [NumSegments]float64
	when [NumSegments]time.Duration
	seen [NumSegments]bool
}

// observe updates the peaks with one frame of velocities
func (p *peakTracker) observe(ts time.Duration, vel [NumSegments]float64, ok [NumSegments]bool) {
	for i := 0; i < NumSegments; i++ {
		if !ok[i] {
			continue
		}

		if !p.seen[i] || vel[i] > p.vel[i] {
			p.vel[i] = vel[i]
			p.when[i] = ts
			p.seen[i] = true
		}
	}
}

func (p *peakTracker) reset() {
	*p = peakTracker{}
}

// sequence evaluates the tracked peaks
func (p *peakTracker) sequence() Sequence {

	seq := NewSequence(p.vel, p.when)

	for _, s := range chain {
		if !p.seen[s] {
			seq.Valid = false
			seq.Optimal = false
		}
	}

	return seq
}

// NewSequence evaluates a kinematic sequence from segment peak velocities
// and the times they occurred
func NewSequence(peakVel [NumSegments]float64, peakTime [NumSegments]time.Duration) Sequence {

	seq := Sequence{
		PeakVelocity: peakVel,
		PeakTime:     peakTime,
		Valid:        true,
	}

	order := make([]Segment, NumSegments)

	for i := range order {
		order[i] = Segment(i)
	}

	// stable so simultaneous peaks keep proximal to distal order
	sort.SliceStable(order, func(i, j int) bool {
		return peakTime[order[i]] < peakTime[order[j]]
	})

	copy(seq.Order[:], order)

	seq.Optimal = true

	for i := 1; i < len(chain); i++ {
		gap := peakTime[chain[i]] - peakTime[chain[i-1]]
		seq.Gaps[i-1] = gap

		if gap <= 0 {
			seq.Optimal = false
		}
	}

	var score, pairs float64

	for i := 0; i < len(chain); i++ {
		for j := i + 1; j < len(chain); j++ {
			pairs++

			switch a, b := peakTime[chain[i]], peakTime[chain[j]]; {
			case b > a:
				score++
			case b == a:
				score += 0.5
			}
		}
	}

	seq.Efficiency = score / pairs

	return seq
}
