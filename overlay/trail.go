package overlay

import (
	"image"

	"github.com/swdee/go-golfswing/history"
	"github.com/swdee/go-golfswing/phase"
	"github.com/swdee/go-golfswing/pose"
)

// TrailPoint is a lead wrist position and the phase it was seen in
type TrailPoint struct {
	At    image.Point
	Phase phase.Phase
}

// Trail keeps the lead wrist path of the current swing for drawing the
// swing plane.  Points are only kept from takeaway to the finish, starting
// a new takeaway clears the previous swing.
type Trail struct {
	points *history.Ring[TrailPoint]
	hand   pose.Handedness
	minVis float64
	last   phase.Phase
}

// NewTrail returns a trail keeping up to size points
func NewTrail(size int, hand pose.Handedness, minVisibility float64) *Trail {
	return &Trail{
		points: history.NewRing[TrailPoint](size),
		hand:   hand,
		minVis: minVisibility,
	}
}

// Add records the lead wrist of the frame and reports whether a point was
// added
func (t *Trail) Add(f pose.Frame, p phase.Phase, width, height int) bool {

	prev := t.last
	t.last = p

	if !p.Between(phase.Takeaway, phase.Finish) {
		return false
	}

	if p == phase.Takeaway && prev != phase.Takeaway {
		t.points.Reset()
	}

	wrist, ok := f.Visible(t.hand.Lead(pose.LeftWrist), t.minVis)

	if !ok {
		return false
	}

	t.points.Push(TrailPoint{At: ToPixel(wrist, width, height), Phase: p})

	return true
}

// Points returns the trail oldest first
func (t *Trail) Points() []TrailPoint {
	return t.points.Recent(t.points.Len(), nil)
}

// Reset clears the trail
func (t *Trail) Reset() {
	t.points.Reset()
	t.last = phase.Setup
}
