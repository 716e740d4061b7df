package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/swdee/go-golfswing/overlay"
	"gocv.io/x/gocv"
	"golang.org/x/image/font"
)

// Font defines the parameters for rendering text on an image using GoCV
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	LineType  gocv.LineType
	// Padding to place around text
	LeftPad   int
	TopPad    int
	BottomPad int
}

// DefaultFont returns default font settings
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.6,
		Color:     overlay.White,
		Thickness: 1,
		LineType:  gocv.LineAA,
		LeftPad:   4,
		TopPad:    4,
		BottomPad: 6,
	}
}

// PhaseBanner writes the phase name in its phase colour on a dark strip
// across the top of the image
func PhaseBanner(img *gocv.Mat, text string, clr color.RGBA, f Font) {

	size := gocv.GetTextSize(text, f.Face, f.Scale, f.Thickness)
	height := size.Y + f.TopPad + f.BottomPad

	gocv.Rectangle(img, image.Rect(0, 0, img.Cols(), height), overlay.Black, -1)
	gocv.PutTextWithParams(img, text, image.Pt(f.LeftPad, f.TopPad+size.Y),
		f.Face, f.Scale, clr, f.Thickness, f.LineType, false)
}

// HUD renders lines of text with the TrueType face and copies the panel
// onto the image with its top left corner at pt.  The panel is clipped to
// the image.
func HUD(img *gocv.Mat, face font.Face, lines []string, pt image.Point) error {

	panel := overlay.Panel(face, lines, overlay.White, overlay.PanelColor, 6)

	dst := image.Rect(pt.X, pt.Y, pt.X+panel.Rect.Dx(), pt.Y+panel.Rect.Dy()).
		Intersect(image.Rect(0, 0, img.Cols(), img.Rows()))

	if dst.Empty() {
		return nil
	}

	// Convert image.RGBA to gocv.Mat
	rgba, err := gocv.NewMatFromBytes(panel.Rect.Dy(), panel.Rect.Dx(), gocv.MatTypeCV8UC4, panel.Pix)

	if err != nil || rgba.Empty() {
		return fmt.Errorf("error creating Mat from RGBA: %v", err)
	}

	defer rgba.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()

	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)

	src := bgr.Region(image.Rect(0, 0, dst.Dx(), dst.Dy()))
	defer src.Close()

	roi := img.Region(dst)
	defer roi.Close()

	// blend over the video so the panel background stays translucent
	gocv.AddWeighted(roi, 0.4, src, 0.6, 0, &roi)

	return nil
}
