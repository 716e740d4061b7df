package overlay

import (
	"image/color"

	"github.com/swdee/go-golfswing/phase"
	"github.com/swdee/go-golfswing/pose"
)

var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 50, A: 255}
	Pink   = color.RGBA{R: 255, G: 0, B: 255, A: 255}

	// LeadColor, TrailColor and CentreColor paint the skeleton by body side
	LeadColor   = color.RGBA{R: 255, G: 128, B: 0, A: 255}
	TrailColor  = color.RGBA{R: 51, G: 153, B: 255, A: 255}
	CentreColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}

	// PanelColor is the translucent HUD background
	PanelColor = color.RGBA{R: 0, G: 0, B: 0, A: 160}

	phaseColors = [phase.NumPhases]color.RGBA{
		{R: 192, G: 192, B: 192, A: 255}, // setup
		{R: 255, G: 255, B: 255, A: 255}, // address
		{R: 207, G: 210, B: 49, A: 255},  // takeaway
		{R: 255, G: 178, B: 29, A: 255},  // backswing
		{R: 255, G: 56, B: 56, A: 255},   // transition
		{R: 255, G: 55, B: 199, A: 255},  // downswing
		{R: 132, G: 56, B: 255, A: 255},  // impact
		{R: 0, G: 194, B: 255, A: 255},   // follow through
		{R: 72, G: 249, B: 10, A: 255},   // finish
	}
)

// PhaseColor returns the colour used to draw a swing phase
func PhaseColor(p phase.Phase) color.RGBA {
	if p < 0 || p >= phase.NumPhases {
		return White
	}

	return phaseColors[p]
}

// isLeft reports whether a landmark is on the left of the body, the left
// landmark of each pair has the lower id
func isLeft(id pose.LandmarkID) bool {
	return id.Opposite() > id
}

// JointColor returns the colour of a landmark by body side
func JointColor(id pose.LandmarkID, hand pose.Handedness) color.RGBA {

	if id.Opposite() == id {
		return CentreColor
	}

	if isLeft(id) == (hand == pose.RightHanded) {
		return LeadColor
	}

	return TrailColor
}
