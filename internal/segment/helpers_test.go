package segment

import (
	"image"
	"image/color"
	"image/draw"
)

// newMask creates an all-background mask.
func newMask(width, height int) *image.Gray {
	return image.NewGray(image.Rect(0, 0, width, height))
}

// fillRect sets the pixels [x1,x2) x [y1,y2) of a mask to v.
func fillRect(m *image.Gray, x1, y1, x2, y2 int, v uint8) {
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			m.SetGray(x, y, color.Gray{Y: v})
		}
	}
}

// newPage creates a white RGBA page.
func newPage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

// drawInk paints a black rectangle [x1,x2) x [y1,y2) on a page.
func drawInk(img *image.RGBA, x1, y1, x2, y2 int) {
	draw.Draw(img, image.Rect(x1, y1, x2, y2), image.Black, image.Point{}, draw.Src)
}

// drawRing paints a black square outline of the given stroke width.
func drawRing(img *image.RGBA, x1, y1, x2, y2, stroke int) {
	drawInk(img, x1, y1, x2, y2)
	draw.Draw(img, image.Rect(x1+stroke, y1+stroke, x2-stroke, y2-stroke), image.White, image.Point{}, draw.Src)
}

func countInk(m *image.Gray) int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}
