// Package imaging holds the page-level image plumbing around the glyph
// segmenter: a shared cache of decoded pages, PNG encoding for tiles sent
// over the wire, and annotation of recognized labels onto a page copy.
//
// # Coordinate System
//
// Boxes drawn by Annotate use the zero-origin coordinates that the segment
// package reports: (0,0) is the top-left pixel of the page, X grows to the
// right and Y grows downward. Source images with a non-zero bounds origin
// are copied to a zero-origin image before drawing.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The other functions do not share
// state and may run concurrently on different images.
//
// # Colors
//
// ParseColor accepts "#RRGGBB", "#RGB" and "#RRGGBBAA". The alpha suffix is
// applied when outlines are blended over the page.
package imaging
