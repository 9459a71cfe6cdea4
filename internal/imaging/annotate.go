package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/glyphseg/internal/segment"
)

// Label is a recognized glyph to draw on the page.
type Label struct {
	Box  segment.Box
	Text string
}

// Style controls how Annotate draws labels.
type Style struct {
	// LabelColor is the label text color.
	LabelColor color.Color

	// BoxColor outlines each glyph box when DrawBoxes is set.
	BoxColor color.Color

	// DrawBoxes enables box outlines.
	DrawBoxes bool
}

// DefaultStyle draws green labels without box outlines.
func DefaultStyle() Style {
	return Style{
		LabelColor: color.NRGBA{G: 255, A: 255},
		BoxColor:   color.NRGBA{R: 255, A: 128},
	}
}

// labelFace is the bitmap font used for labels.
var labelFace = basicfont.Face7x13

// Annotate returns a copy of img with each label's text drawn with its
// baseline at the bottom-right corner of the label's box.
//
// Boxes are in the zero-origin coordinates Segment reports, and the
// returned image is zero-origin as well. Text that would run past the right
// or bottom edge is shifted back inside the page.
func Annotate(img image.Image, labels []Label, style Style) *image.NRGBA {
	dst := imaging.Clone(img)
	if style.LabelColor == nil {
		style.LabelColor = DefaultStyle().LabelColor
	}
	if style.BoxColor == nil {
		style.BoxColor = DefaultStyle().BoxColor
	}

	if style.DrawBoxes {
		for _, l := range labels {
			drawOutline(dst, l.Box.Rect(), style.BoxColor)
		}
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(style.LabelColor),
		Face: labelFace,
	}
	for _, l := range labels {
		if l.Text == "" {
			continue
		}
		d.Dot = labelOrigin(dst.Bounds(), l.Box, d.MeasureString(l.Text).Ceil())
		d.DrawString(l.Text)
	}
	return dst
}

// labelOrigin places the baseline start at the box's bottom-right corner,
// kept inside bounds.
func labelOrigin(bounds image.Rectangle, box segment.Box, width int) fixed.Point26_6 {
	corner := box.BottomRight()
	x, y := corner.X, corner.Y

	ascent := labelFace.Ascent
	descent := labelFace.Descent
	if x+width > bounds.Max.X {
		x = bounds.Max.X - width
	}
	if x < bounds.Min.X {
		x = bounds.Min.X
	}
	if y+descent > bounds.Max.Y {
		y = bounds.Max.Y - descent
	}
	if y-ascent < bounds.Min.Y {
		y = bounds.Min.Y + ascent
	}
	return fixed.P(x, y)
}

// drawOutline draws a one-pixel rectangle border just inside r.
func drawOutline(dst draw.Image, r image.Rectangle, c color.Color) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y+1, r.Min.X+1, r.Max.Y-1),
		image.Rect(r.Max.X-1, r.Min.Y+1, r.Max.X, r.Max.Y-1),
	}
	for _, e := range edges {
		if e.Empty() {
			continue
		}
		draw.Draw(dst, e, src, image.Point{}, draw.Over)
	}
}

// ParseColor parses "#RRGGBB", "#RGB" or "#RRGGBBAA".
func ParseColor(hex string) (color.Color, error) {
	if hex == "" {
		return nil, fmt.Errorf("empty color string")
	}
	s := strings.TrimPrefix(hex, "#")

	alpha := uint8(255)
	if len(s) == 8 {
		a, err := strconv.ParseUint(s[6:], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid alpha in color %q: %w", hex, err)
		}
		alpha = uint8(a)
		s = s[:6]
	}
	if len(s) != 3 && len(s) != 6 {
		return nil, fmt.Errorf("invalid color %q: want 3, 6 or 8 hex digits", hex)
	}

	c, err := colorful.Hex("#" + s)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
