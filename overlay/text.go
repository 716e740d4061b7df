package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// NewFace returns a font face of the given point size.  An empty ttf uses
// the embedded Go Regular font.
func NewFace(ttf []byte, size float64) (font.Face, error) {

	if len(ttf) == 0 {
		ttf = goregular.TTF
	}

	// parse the font
	f, err := opentype.Parse(ttf)

	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	// create a type face
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create type face: %w", err)
	}

	return face, nil
}

// Panel renders lines of text onto a new image sized to fit them with pad
// pixels of background around the text
func Panel(face font.Face, lines []string, fg, bg color.RGBA, pad int) *image.RGBA {

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()

	width := 0

	for _, l := range lines {
		if w := font.MeasureString(face, l).Ceil(); w > width {
			width = w
		}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, width+2*pad, lineHeight*len(lines)+2*pad))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	dr := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(fg),
		Face: face,
	}

	for i, l := range lines {
		dr.Dot = fixed.Point26_6{
			X: fixed.I(pad),
			Y: fixed.I(pad+i*lineHeight) + metrics.Ascent,
		}
		dr.DrawString(l)
	}

	return rgba
}
