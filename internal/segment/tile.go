package segment

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// CropRegion returns the rectangle ExtractTile crops for box.
//
// The preferred region is a square of side 2*pad + max(W, H) whose origin is
// (X-pad, Y-pad). When that square, widened by another pad on each side,
// would touch or cross the image border, the region falls back to box
// itself. The result is not checked against bounds.
func CropRegion(bounds image.Rectangle, box Box, pad int) image.Rectangle {
	side := 2*pad + max(box.W, box.H)
	x, y := box.X-pad, box.Y-pad

	if x-pad <= bounds.Min.X || x+side+pad >= bounds.Max.X ||
		y-pad <= bounds.Min.Y || y+side+pad >= bounds.Max.Y {
		return box.Rect()
	}
	return image.Rect(x, y, x+side, y+side)
}

// ExtractTile crops one glyph from the threshold image and scales it to a
// cfg.TileSize x cfg.TileSize single-channel tile.
//
// Parameters:
//   - threshold: The threshold image returned by Preprocess.
//   - box: A glyph box, normally one returned by FilterOuter.
//   - cfg: Pad and TileSize are used.
//
// Returns:
//   - *image.Gray: A tile of exactly TileSize x TileSize, whatever the box
//     geometry.
//   - error: Wraps ErrCrop when box has no area, or when the crop region
//     lies outside the image even after falling back to the unpadded box.
//
// Boxes near the image border are not an error; see CropRegion.
func ExtractTile(threshold *image.Gray, box Box, cfg Config) (*image.Gray, error) {
	if threshold == nil {
		return nil, fmt.Errorf("%w: no source image", ErrCrop)
	}
	if box.Empty() {
		return nil, fmt.Errorf("%w: degenerate box %v", ErrCrop, box)
	}
	if cfg.TileSize < 1 || cfg.Pad < 0 {
		return nil, fmt.Errorf("%w: invalid tile size %d or pad %d", ErrCrop, cfg.TileSize, cfg.Pad)
	}

	bounds := threshold.Bounds()
	region := CropRegion(bounds, box, cfg.Pad)
	if region.Empty() || !region.In(bounds) {
		return nil, fmt.Errorf("%w: region %v outside image bounds %v", ErrCrop, region, bounds)
	}

	cropped := imaging.Crop(threshold, region)
	resized := imaging.Resize(cropped, cfg.TileSize, cfg.TileSize, imaging.Linear)

	tile := image.NewGray(image.Rect(0, 0, cfg.TileSize, cfg.TileSize))
	draw.Draw(tile, tile.Bounds(), resized, resized.Bounds().Min, draw.Src)
	return tile, nil
}
