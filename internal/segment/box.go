package segment

import (
	"fmt"
	"image"
)

// Box is an axis-aligned rectangle covering the pixels [X, X+W) x [Y, Y+H).
type Box struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"width"`
	H int `json:"height"`
}

// BoxFromRect converts an image.Rectangle to a Box.
func BoxFromRect(r image.Rectangle) Box {
	r = r.Canon()
	return Box{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Rect returns the pixel rectangle covered by b.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// TopLeft returns the top-left corner.
func (b Box) TopLeft() image.Point {
	return image.Pt(b.X, b.Y)
}

// BottomRight returns the bottom-right corner, one past the last pixel.
func (b Box) BottomRight() image.Point {
	return image.Pt(b.X+b.W, b.Y+b.H)
}

// Area returns W*H.
func (b Box) Area() int {
	return b.W * b.H
}

// Empty reports whether b covers no pixels.
func (b Box) Empty() bool {
	return b.W <= 0 || b.H <= 0
}

// Contains reports whether p lies inside b or on its boundary.
func (b Box) Contains(p image.Point) bool {
	return p.X >= b.X && p.X <= b.X+b.W && p.Y >= b.Y && p.Y <= b.Y+b.H
}

// Encloses reports whether both corners of other lie inside b.
func (b Box) Encloses(other Box) bool {
	return b.Contains(other.TopLeft()) && b.Contains(other.BottomRight())
}

func (b Box) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", b.X, b.Y, b.W, b.H)
}
