package pose

import (
	"math"
	"time"
)

// Point is a 3D coordinate.  X and Y are normalized image coordinates in the
// range [0,1] with Y increasing downwards, Z is depth relative to the hip
// midpoint on roughly the same scale as X.
type Point struct {
	X float64 `msgpack:"x" json:"x"`
	Y float64 `msgpack:"y" json:"y"`
	Z float64 `msgpack:"z" json:"z"`
}

// Sub returns p - o
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y, Z: p.Z - o.Z}
}

// Distance returns the euclidean distance between two points
func (p Point) Distance(o Point) float64 {
	d := p.Sub(o)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}

// Midpoint returns the point halfway between p and o
func (p Point) Midpoint(o Point) Point {
	return Point{X: (p.X + o.X) / 2, Y: (p.Y + o.Y) / 2, Z: (p.Z + o.Z) / 2}
}

// Landmark is a single named joint position with the pose model's
// visibility score for it
type Landmark struct {
	ID LandmarkID
	Point
	// Visibility is the model confidence the joint is visible, in [0,1]
	Visibility float64
}

// Frame is one timestamped set of landmarks produced by a pose source.  It
// is a value type, once pushed into a session it is never modified.
type Frame struct {
	// Seq is the source sequence index of the frame
	Seq uint64
	// Timestamp is the monotonic capture time relative to session start
	Timestamp time.Duration
	// Valid is set by Validation.Check, invalid frames are kept for timing
	// continuity but excluded from phase and metric computation
	Valid bool

	landmarks [NumLandmarks]Landmark
	present   uint64
}

// NewFrame returns a Frame holding the given landmarks.  Landmarks with an
// id outside the canonical set are ignored.
func NewFrame(seq uint64, ts time.Duration, landmarks ...Landmark) Frame {

	f := Frame{
		Seq:       seq,
		Timestamp: ts,
	}

	for _, lm := range landmarks {
		f.set(lm)
	}

	return f
}

// With returns a copy of the frame with the landmark added or replaced
func (f Frame) With(lm Landmark) Frame {
	f.set(lm)
	return f
}

// Without returns a copy of the frame with the landmark removed
func (f Frame) Without(id LandmarkID) Frame {
	if id.Valid() {
		f.landmarks[id] = Landmark{}
		f.present &^= 1 << uint(id)
	}

	return f
}

func (f *Frame) set(lm Landmark) {
	if !lm.ID.Valid() {
		return
	}

	f.landmarks[lm.ID] = lm
	f.present |= 1 << uint(lm.ID)
}

// Get returns the landmark for the id and whether the frame holds it
func (f Frame) Get(id LandmarkID) (Landmark, bool) {
	if !id.Valid() || f.present&(1<<uint(id)) == 0 {
		return Landmark{ID: id}, false
	}

	return f.landmarks[id], true
}

// Visible returns the landmark position if it is present with at least the
// given visibility score
func (f Frame) Visible(id LandmarkID, minVisibility float64) (Point, bool) {

	lm, ok := f.Get(id)

	if !ok || lm.Visibility < minVisibility || !finite(lm.Point) {
		return Point{}, false
	}

	return lm.Point, true
}

// Landmarks returns the present landmarks in id order
func (f Frame) Landmarks() []Landmark {

	out := make([]Landmark, 0, f.Len())

	for i := 0; i < NumLandmarks; i++ {
		if f.present&(1<<uint(i)) != 0 {
			out = append(out, f.landmarks[i])
		}
	}

	return out
}

// Len returns the number of landmarks present
func (f Frame) Len() int {

	n := 0

	for p := f.present; p != 0; p &= p - 1 {
		n++
	}

	return n
}

// CountVisible returns the number of landmarks with at least the given
// visibility score
func (f Frame) CountVisible(minVisibility float64) int {

	n := 0

	for i := 0; i < NumLandmarks; i++ {
		if _, ok := f.Visible(LandmarkID(i), minVisibility); ok {
			n++
		}
	}

	return n
}

// Midpoint returns the midpoint of two landmarks if both are visible
func (f Frame) Midpoint(a, b LandmarkID, minVisibility float64) (Point, bool) {

	pa, ok := f.Visible(a, minVisibility)

	if !ok {
		return Point{}, false
	}

	pb, ok := f.Visible(b, minVisibility)

	if !ok {
		return Point{}, false
	}

	return pa.Midpoint(pb), true
}

// Mirror returns a copy of the frame with left and right landmark labels
// swapped.  Positions are untouched.
func (f Frame) Mirror() Frame {

	out := Frame{
		Seq:       f.Seq,
		Timestamp: f.Timestamp,
		Valid:     f.Valid,
	}

	for _, lm := range f.Landmarks() {
		lm.ID = lm.ID.Opposite()
		out.set(lm)
	}

	return out
}

// finite checks a point holds no NaN or Inf coordinates
func finite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsNaN(p.Z) &&
		!math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0) && !math.IsInf(p.Z, 0)
}
