package metrics

import (
	"fmt"
	"math"
	"strings"

	"github.com/swdee/go-golfswing/pose"
)

// Plane selects which two coordinates rotation angles are measured in
type Plane int

const (
	// PlaneTransverse measures rotation about the vertical axis using the
	// x and depth coordinates, suited to face on cameras with depth
	PlaneTransverse Plane = iota
	// PlaneImage measures the tilt of a line in the image x,y plane for
	// sources with no usable depth
	PlaneImage
)

// String returns the plane name
func (p Plane) String() string {
	if p == PlaneImage {
		return "image"
	}

	return "transverse"
}

// MarshalText implements encoding.TextMarshaler
func (p Plane) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Plane) UnmarshalText(b []byte) error {

	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "", "transverse":
		*p = PlaneTransverse
	case "image":
		*p = PlaneImage
	default:
		return fmt.Errorf("unknown rotation plane %q", string(b))
	}

	return nil
}

// minLineLength is the shortest landmark pair separation, in normalized
// units, an angle is computed from
const minLineLength = 1e-3

// lineAngle returns the rotation in degrees of the line from the lead to
// the trail landmark.  Swapping lead and trail negates the result.  It
// reports false when the two points are too close together for the angle
// to be meaningful.
func lineAngle(lead, trail pose.Point, plane Plane) (float64, bool) {

	dx := trail.X - lead.X
	dv := trail.Z - lead.Z

	if plane == PlaneImage {
		dv = trail.Y - lead.Y
	}

	if math.Hypot(dx, dv) < minLineLength {
		return 0, false
	}

	angle := math.Atan2(dv, math.Abs(dx)) * 180 / math.Pi

	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0, false
	}

	return angle, true
}

// segmentAngle returns the direction in degrees of the vector from a to b
// in the image plane
func segmentAngle(a, b pose.Point) (float64, bool) {

	dx := b.X - a.X
	dy := b.Y - a.Y

	if math.Hypot(dx, dy) < minLineLength {
		return 0, false
	}

	return math.Atan2(dy, dx) * 180 / math.Pi, true
}

// angleDelta returns the signed difference b-a wrapped to (-180, 180]
func angleDelta(a, b float64) float64 {

	d := math.Mod(b-a, 360)

	switch {
	case d > 180:
		d -= 360
	case d <= -180:
		d += 360
	}

	return d
}

// clamp limits v to [lo, hi], NaN becomes lo
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

// finite reports whether v is a usable number
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Rotation holds the shoulder and hip line rotation of a single frame
type Rotation struct {
	Shoulder   float64
	Hip        float64
	Separation float64
}

// Separation computes the shoulder and hip line rotations and the signed
// angle between them.  The lead side is chosen by handedness so a left
// handed golfer reports the same sign as a right handed one for the same
// motion.
func Separation(f pose.Frame, hand pose.Handedness, plane Plane, minVisibility float64) (Rotation, bool) {

	ls, ok1 := f.Visible(hand.Lead(pose.LeftShoulder), minVisibility)
	ts, ok2 := f.Visible(hand.Trail(pose.LeftShoulder), minVisibility)
	lh, ok3 := f.Visible(hand.Lead(pose.LeftHip), minVisibility)
	th, ok4 := f.Visible(hand.Trail(pose.LeftHip), minVisibility)

	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Rotation{}, false
	}

	shoulder, ok := lineAngle(ls, ts, plane)

	if !ok {
		return Rotation{}, false
	}

	hip, ok := lineAngle(lh, th, plane)

	if !ok {
		return Rotation{}, false
	}

	return Rotation{
		Shoulder:   shoulder,
		Hip:        hip,
		Separation: shoulder - hip,
	}, true
}
