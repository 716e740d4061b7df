package pose

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrNoSubject is returned when no candidate pose could be chosen as the
	// golfer
	ErrNoSubject = errors.New("no subject in frame")
	// ErrLayout is returned when keypoints do not match the layout
	ErrLayout = errors.New("keypoints do not match layout")
)

// Source is implemented by anything that delivers pose frames in capture
// order, such as a pose estimation model wrapper or a recording.  Next
// blocks until a frame is available and returns io.EOF when the stream ends.
type Source interface {
	Next(ctx context.Context) (Frame, error)
}

// SourceFunc adapts a function to the Source interface
type SourceFunc func(ctx context.Context) (Frame, error)

// Next calls f(ctx)
func (f SourceFunc) Next(ctx context.Context) (Frame, error) {
	return f(ctx)
}

// KeyPoint is a vendor neutral keypoint as output by pose estimation models,
// such as the YOLOv8-pose postprocessor.  Coordinates may be pixels or
// normalized depending on the Converter configuration.
type KeyPoint struct {
	X     float64
	Y     float64
	Z     float64
	Score float64
}

// Layout maps a model's keypoint index to the canonical landmark, entries of
// NoLandmark are dropped during conversion
type Layout []LandmarkID

// COCO17Layout is the 17 keypoint COCO skeleton used by YOLOv8-pose
var COCO17Layout = Layout{
	Nose,
	LeftEye, RightEye,
	LeftEar, RightEar,
	LeftShoulder, RightShoulder,
	LeftElbow, RightElbow,
	LeftWrist, RightWrist,
	LeftHip, RightHip,
	LeftKnee, RightKnee,
	LeftAnkle, RightAnkle,
}

// MediaPipe33Layout is the BlazePose 33 landmark topology which maps one to
// one onto the canonical set
var MediaPipe33Layout = func() Layout {
	l := make(Layout, NumLandmarks)

	for i := range l {
		l[i] = LandmarkID(i)
	}

	return l
}()

// Converter translates model keypoints into canonical frames.  This is the
// only place vendor specific landmark formats are handled.
type Converter struct {
	// Layout of the model keypoints
	Layout Layout
	// Width and Height of the source image.  When non zero the keypoint X and
	// Y pixel coordinates are divided by them to normalize, Z is divided
	// by Width.
	Width  float64
	Height float64
}

// Convert builds a frame from the keypoints of a single person
func (c Converter) Convert(kps []KeyPoint, seq uint64, ts time.Duration) (Frame, error) {

	if len(kps) != len(c.Layout) {
		return Frame{}, fmt.Errorf("%w: got %d keypoints, layout has %d",
			ErrLayout, len(kps), len(c.Layout))
	}

	f := Frame{
		Seq:       seq,
		Timestamp: ts,
	}

	for i, kp := range kps {
		id := c.Layout[i]

		if !id.Valid() {
			continue
		}

		p := Point{X: kp.X, Y: kp.Y, Z: kp.Z}

		if c.Width > 0 && c.Height > 0 {
			p.X /= c.Width
			p.Y /= c.Height
			p.Z /= c.Width
		}

		f.set(Landmark{ID: id, Point: p, Visibility: clamp01(kp.Score)})
	}

	return f, nil
}

// SelectSubject picks the golfer from several detected people.  With a
// previous frame the candidate whose hip midpoint is nearest the previous
// hip midpoint wins, otherwise the candidate with the widest visible stance.
func SelectSubject(candidates []Frame, prev *Frame, minVisibility float64) (Frame, error) {

	if len(candidates) == 0 {
		return Frame{}, ErrNoSubject
	}

	if len(candidates) == 1 {
		return candidates[0], nil
	}

	if prev != nil {
		if ref, ok := prev.Midpoint(LeftHip, RightHip, minVisibility); ok {

			best := -1
			bestDist := math.MaxFloat64

			for i, c := range candidates {
				hip, ok := c.Midpoint(LeftHip, RightHip, minVisibility)

				if !ok {
					continue
				}

				if d := hip.Distance(ref); d < bestDist {
					best = i
					bestDist = d
				}
			}

			if best >= 0 {
				return candidates[best], nil
			}
		}
	}

	// no reference so choose the most prominent person in view
	best := -1
	bestSpan := -1.0

	for i, c := range candidates {
		span := extent(c, minVisibility)

		if span > bestSpan {
			best = i
			bestSpan = span
		}
	}

	if best < 0 {
		return Frame{}, ErrNoSubject
	}

	return candidates[best], nil
}

// extent returns the diagonal of the bounding box around visible landmarks
func extent(f Frame, minVisibility float64) float64 {

	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	seen := 0

	for i := 0; i < NumLandmarks; i++ {
		p, ok := f.Visible(LandmarkID(i), minVisibility)

		if !ok {
			continue
		}

		seen++
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	if seen < 2 {
		return 0
	}

	return math.Hypot(maxX-minX, maxY-minY)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}
