package pose

import (
	"math"
	"time"
)

// Golfer builds synthetic frames of a right handed golfer filmed face on.
// It is used to drive replays and tests without a pose model.
type Golfer struct {
	// CenterX is the horizontal body centre in normalized image units
	CenterX float64
	// Visibility assigned to every landmark
	Visibility float64
	// ShoulderWidth and HipWidth are the joint spans when square
	ShoulderWidth float64
	HipWidth      float64
	// HandLift is how far the hands rise per degree of shoulder turn
	HandLift float64
}

// DefaultGolfer returns a golfer centred in the image
func DefaultGolfer() Golfer {
	return Golfer{
		CenterX:       0.5,
		Visibility:    0.95,
		ShoulderWidth: 0.18,
		HipWidth:      0.14,
		HandLift:      0.006,
	}
}

// rotatedPair returns the left and right joint of a pair rotated about the
// vertical axis by deg degrees, the trail (right) side moving away from the
// camera for positive angles
func rotatedPair(cx, y, width, deg float64) (left, right Point) {

	hw := width / 2
	rad := deg * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)

	left = Point{X: cx + hw*c, Y: y, Z: -hw * s}
	right = Point{X: cx - hw*c, Y: y, Z: hw * s}

	return left, right
}

// Frame returns a frame with the shoulders and hips turned by the given
// angles in degrees.  The hands rise and move toward the trail side in
// proportion to the shoulder turn.
func (g Golfer) Frame(seq uint64, ts time.Duration, shoulderDeg, hipDeg float64) Frame {

	cx := g.CenterX
	vis := g.Visibility

	ls, rs := rotatedPair(cx, 0.35, g.ShoulderWidth, shoulderDeg)
	lh, rh := rotatedPair(cx, 0.55, g.HipWidth, hipDeg)

	lift := g.HandLift * math.Max(0, shoulderDeg)
	hands := Point{X: cx - lift/2, Y: 0.62 - lift}

	lw := Point{X: hands.X + 0.01, Y: hands.Y}
	rw := Point{X: hands.X - 0.01, Y: hands.Y + 0.01}

	lm := func(id LandmarkID, p Point) Landmark {
		return Landmark{ID: id, Point: p, Visibility: vis}
	}

	return NewFrame(seq, ts,
		lm(Nose, Point{X: cx, Y: 0.2}),
		lm(LeftShoulder, ls),
		lm(RightShoulder, rs),
		lm(LeftElbow, ls.Midpoint(lw)),
		lm(RightElbow, rs.Midpoint(rw)),
		lm(LeftWrist, lw),
		lm(RightWrist, rw),
		lm(LeftHip, lh),
		lm(RightHip, rh),
		lm(LeftKnee, Point{X: cx + 0.06, Y: 0.72}),
		lm(RightKnee, Point{X: cx - 0.06, Y: 0.72}),
		lm(LeftAnkle, Point{X: cx + 0.08, Y: 0.9}),
		lm(RightAnkle, Point{X: cx - 0.08, Y: 0.9}),
		lm(LeftHeel, Point{X: cx + 0.08, Y: 0.92, Z: 0.03}),
		lm(RightHeel, Point{X: cx - 0.08, Y: 0.92, Z: 0.03}),
		lm(LeftFootIndex, Point{X: cx + 0.1, Y: 0.93, Z: -0.05}),
		lm(RightFootIndex, Point{X: cx - 0.1, Y: 0.93, Z: -0.05}),
	)
}

// SwingLength is the number of frames in one synthetic swing
const SwingLength = 90

// SwingTurn returns the shoulder turn in degrees at frame k of a synthetic
// swing.  The golfer is still for 10 frames, turns to a 45 degree peak at
// frame 40, unwinds to 10 degrees at frame 60 for impact, then settles
// back to square over 20 frames and rests.
func SwingTurn(k int) float64 {
	switch {
	case k < 10:
		return 0
	case k <= 40:
		return 1.5 * float64(k-10)
	case k <= 60:
		return 45 - 1.75*float64(k-40)
	case k <= 80:
		return 10 - 0.5*float64(k-60)
	}

	return 0
}

// Swing returns the frames of one synthetic swing with static hips,
// numbered from seq and spaced at frameRate
func (g Golfer) Swing(seq uint64, frameRate float64) []Frame {

	frames := make([]Frame, SwingLength)
	step := time.Duration(float64(time.Second) / frameRate)

	for k := range frames {
		s := seq + uint64(k)
		frames[k] = g.Frame(s, time.Duration(s)*step, SwingTurn(k), 0)
	}

	return frames
}
