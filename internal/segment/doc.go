// Package segment splits an image of text into normalized glyph tiles.
//
// The pipeline has four stages, each consuming the previous stage's output:
//
//  1. Preprocess: grayscale, box blur, inverse threshold, erosion and an
//     optional dilation. Returns the morphology result (the working mask)
//     and the untouched threshold image.
//  2. FindBoxes: traces every border in the working mask, outer borders and
//     hole borders alike, and reports the bounding box of each.
//  3. FilterOuter: drops boxes enclosed by another box, which removes the
//     holes of characters such as "o", "p" and "d".
//  4. ExtractTile: crops a padded square around each remaining box from the
//     threshold image and resizes it to a fixed tile size.
//
// Segment runs all four stages for one image.
//
// # Coordinate System
//
// Coordinates are 0-based with the origin at the top-left corner. A Box
// covers the pixels [X, X+W) x [Y, Y+H). Its corners for containment tests
// are (X, Y) and (X+W, Y+H).
//
// # Masks
//
// Every mask produced here is an *image.Gray whose pixels are either 0
// (background) or 255 (ink). Ink is the dark part of the source image.
//
// # Thread Safety
//
// All functions are stateless. Parameters travel in a Config value, so
// independent images can be processed concurrently.
//
// # Error Handling
//
// Stage failures wrap ErrPreprocess, ErrRegionDiscovery or ErrCrop.
// Segment additionally wraps them in a *StageError naming the stage. A box
// whose padded square leaves the image is not an error: the crop falls back
// to the unpadded box.
package segment
