package render

import (
	"image/color"

	"github.com/swdee/go-golfswing/overlay"
	"gocv.io/x/gocv"
)

// TrailStyle defines the parameters used for rendering the wrist trail
type TrailStyle struct {
	// LinePhase colours each segment of the trail by the swing phase it
	// was drawn in.  If set to false then use the color specified at
	// LineColor
	LinePhase     bool
	LineColor     color.RGBA
	LineThickness int
	CircleColor   color.RGBA
	CircleRadius  int
}

// DefaultTrailStyle returns default trail style settings
func DefaultTrailStyle() TrailStyle {
	return TrailStyle{
		LinePhase:     true,
		LineColor:     overlay.Yellow,
		LineThickness: 2,
		CircleColor:   overlay.Pink,
		CircleRadius:  4,
	}
}

// Trail draws the lead wrist path of the current swing
func Trail(img *gocv.Mat, trail *overlay.Trail, style TrailStyle) {

	points := trail.Points()

	if len(points) < 2 {
		return
	}

	for i := 1; i < len(points); i++ {

		lineClr := style.LineColor

		if style.LinePhase {
			lineClr = overlay.PhaseColor(points[i].Phase)
		}

		// draw line segment of trail
		gocv.Line(img, points[i-1].At, points[i].At, lineClr, style.LineThickness)
	}

	// mark the current wrist position
	gocv.Circle(img, points[len(points)-1].At, style.CircleRadius, style.CircleColor, -1)
}
