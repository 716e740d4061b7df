// Package render draws the swing overlay onto OpenCV images.
package render

import (
	"github.com/swdee/go-golfswing/overlay"
	"github.com/swdee/go-golfswing/pose"
	"gocv.io/x/gocv"
)

// SkeletonStyle defines how the pose skeleton is drawn
type SkeletonStyle struct {
	LineThickness int
	JointRadius   int
	// MinVisibility hides landmarks the pose model is unsure of
	MinVisibility float64
}

// DefaultSkeletonStyle returns default skeleton style settings
func DefaultSkeletonStyle() SkeletonStyle {
	return SkeletonStyle{
		LineThickness: 2,
		JointRadius:   3,
		MinVisibility: 0.5,
	}
}

// Skeleton renders the golfer's pose, lead side bones and joints in one
// colour and trail side in another
func Skeleton(img *gocv.Mat, f pose.Frame, hand pose.Handedness, style SkeletonStyle) {

	segs, joints := overlay.Skeleton(f, hand, style.MinVisibility, img.Cols(), img.Rows())

	// draw skeleton lines
	for _, s := range segs {
		gocv.Line(img, s.From, s.To, s.Color, style.LineThickness)
	}

	// draw circles at skeleton joints
	for _, j := range joints {
		gocv.Circle(img, j.At, style.JointRadius, j.Color, -1)
	}
}
