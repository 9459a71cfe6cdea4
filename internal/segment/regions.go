package segment

import (
	"fmt"
	"image"
)

// FindBoxes reports one bounding box per border in the working mask.
//
// Hole borders are reported too, so a glyph with an enclosed hole yields an
// outer box and a smaller box inside it; FilterOuter removes the inner one.
// Each border is simplified to a polygon within cfg.Epsilon pixels before
// its bounding box is taken, which keeps single stray pixels on a stroke
// from widening the box.
//
// Boxes come back in discovery order. A mask without ink yields an empty
// slice and no error. A nil or zero-size mask wraps ErrRegionDiscovery.
func FindBoxes(mask *image.Gray, cfg Config) ([]Box, error) {
	if mask == nil {
		return nil, fmt.Errorf("%w: no mask", ErrRegionDiscovery)
	}
	b := mask.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: mask has zero size %dx%d", ErrRegionDiscovery, b.Dx(), b.Dy())
	}
	if cfg.Epsilon < 0 {
		return nil, fmt.Errorf("%w: negative epsilon %g", ErrRegionDiscovery, cfg.Epsilon)
	}
	return findBoxes(mask, cfg)
}
