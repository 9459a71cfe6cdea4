package segment

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	bildsegment "github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// maskLevel separates ink from background when a morphology result is
// turned back into a two-valued mask.
const maskLevel = 128

// Preprocess turns a raw image into a working mask for region discovery and
// a threshold image for cropping.
//
// Parameters:
//   - img: Source image, color or grayscale. Any bounds origin is accepted;
//     both outputs are re-based to (0, 0).
//   - shouldDilate: Dilate the eroded mask to reconnect strokes broken by
//     erosion or by thin ink.
//   - cfg: Blur, cutoff and structuring element sizes.
//
// Returns:
//   - working: The eroded (and optionally dilated) mask. Only used to find
//     regions; morphology distorts glyph shapes too much for tiles.
//   - threshold: The inverted threshold image before any morphology. Ink is
//     255, background is 0.
//   - error: Wraps ErrPreprocess for an empty image, a blur kernel below 1
//     or a negative radius.
//
// # Pipeline
//
//  1. Grayscale conversion
//  2. Box-average blur with a BlurKernel x BlurKernel kernel
//  3. Inverse threshold: gray <= Cutoff becomes ink
//  4. Erosion with radius ErodeRadius
//  5. Dilation with radius DilateRadius, only when shouldDilate is set
//
// The result depends only on the input pixels and cfg.
func Preprocess(img image.Image, shouldDilate bool, cfg Config) (working, threshold *image.Gray, err error) {
	if img == nil {
		return nil, nil, fmt.Errorf("%w: no source image", ErrPreprocess)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, nil, fmt.Errorf("%w: image has zero size %dx%d", ErrPreprocess, bounds.Dx(), bounds.Dy())
	}
	if err := validatePreprocess(cfg); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrPreprocess, err)
	}

	gray := effect.Grayscale(imaging.Clone(img))
	blurred := blur.Box(gray, float64(cfg.BlurKernel-1)/2)
	threshold = invertedThreshold(blurred, cfg.Cutoff)

	morphed := effect.Erode(threshold, float64(cfg.ErodeRadius))
	if shouldDilate {
		morphed = effect.Dilate(morphed, float64(cfg.DilateRadius))
	}
	working = bildsegment.Threshold(morphed, maskLevel)

	return working, threshold, nil
}

// validatePreprocess checks the fields Preprocess uses. The others are
// checked by the stage that reads them.
func validatePreprocess(cfg Config) error {
	switch {
	case cfg.BlurKernel < 1:
		return fmt.Errorf("blur kernel must be at least 1, got %d", cfg.BlurKernel)
	case cfg.ErodeRadius < 0:
		return fmt.Errorf("erode radius must not be negative, got %d", cfg.ErodeRadius)
	case cfg.DilateRadius < 0:
		return fmt.Errorf("dilate radius must not be negative, got %d", cfg.DilateRadius)
	}
	return nil
}

// invertedThreshold marks pixels at or below cutoff as ink (255) and
// everything brighter as background (0).
func invertedThreshold(img image.Image, cutoff uint8) *image.Gray {
	if cutoff == 255 {
		all := image.NewGray(img.Bounds())
		for i := range all.Pix {
			all.Pix[i] = 255
		}
		return all
	}

	// Threshold keeps values >= level as white; flipping the result gives
	// white for values <= cutoff.
	out := bildsegment.Threshold(img, cutoff+1)
	for i := range out.Pix {
		out.Pix[i] = 255 - out.Pix[i]
	}
	return out
}
