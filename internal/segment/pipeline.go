package segment

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Glyph is one segmented character candidate.
type Glyph struct {
	Box  Box         `json:"box"`
	Tile *image.Gray `json:"-"`
}

// Result is the outcome of segmenting one image.
type Result struct {
	// Width and Height of the source image.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Candidates is the number of boxes found before nested boxes were
	// removed.
	Candidates int `json:"candidates"`

	// Glyphs holds the surviving boxes and their tiles in discovery order.
	Glyphs []Glyph `json:"glyphs"`
}

// Boxes returns the glyph boxes in order.
func (r *Result) Boxes() []Box {
	boxes := make([]Box, len(r.Glyphs))
	for i, g := range r.Glyphs {
		boxes[i] = g.Box
	}
	return boxes
}

// Segment runs Preprocess, FindBoxes, FilterOuter and ExtractTile for one
// image.
//
// Tiles are extracted concurrently, at most cfg.Workers at a time. The
// first failing stage aborts the image and is reported as a *StageError;
// each stage checks only the Config fields it reads. A negative
// cfg.Workers is rejected before any stage runs.
// Cancelling ctx stops tile extraction and returns ctx's error.
func Segment(ctx context.Context, img image.Image, shouldDilate bool, cfg Config) (*Result, error) {
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}

	working, threshold, err := Preprocess(img, shouldDilate, cfg)
	if err != nil {
		return nil, &StageError{Stage: StagePreprocess, Err: err}
	}

	candidates, err := FindBoxes(working, cfg)
	if err != nil {
		return nil, &StageError{Stage: StageRegions, Err: err}
	}
	boxes := FilterOuter(candidates)

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	glyphs := make([]Glyph, len(boxes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, box := range boxes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tile, err := ExtractTile(threshold, box, cfg)
			if err != nil {
				return err
			}
			glyphs[i] = Glyph{Box: box, Tile: tile}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrCrop) {
			return nil, &StageError{Stage: StageCrop, Err: err}
		}
		return nil, err
	}

	return &Result{
		Width:      threshold.Bounds().Dx(),
		Height:     threshold.Bounds().Dy(),
		Candidates: len(candidates),
		Glyphs:     glyphs,
	}, nil
}
