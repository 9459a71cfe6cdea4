//go:build gocv

package segment

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// findBoxes hands contour tracing to OpenCV. Building with -tags gocv
// requires OpenCV to be installed.
func findBoxes(mask *image.Gray, cfg Config) ([]Box, error) {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()

	pix := mask.Pix
	if mask.Stride != w || b.Min != (image.Point{}) {
		pix = make([]byte, w*h)
		for y := 0; y < h; y++ {
			off := mask.PixOffset(b.Min.X, b.Min.Y+y)
			copy(pix[y*w:(y+1)*w], mask.Pix[off:off+w])
		}
	}

	mat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, pix)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to convert mask: %v", ErrRegionDiscovery, err)
	}
	defer mat.Close()

	contours := gocv.FindContours(mat, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer contours.Close()

	boxes := make([]Box, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		approx := gocv.ApproxPolyDP(contours.At(i), cfg.Epsilon, true)
		boxes = append(boxes, BoxFromRect(gocv.BoundingRect(approx)))
		approx.Close()
	}
	return boxes, nil
}
