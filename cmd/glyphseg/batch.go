package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/glyphseg/internal/config"
	"github.com/ironsheep/glyphseg/internal/imaging"
	"github.com/ironsheep/glyphseg/internal/segment"
)

// batch segments a list of images, several at a time.
type batch struct {
	inputs []input
	dilate bool
	jobs   int
	cfg    *config.File
	cache  *imaging.ImageCache

	mu   sync.Mutex
	refs map[string]int
}

// input is one image of a batch. name is unique within the batch and is
// used to derive output file names.
type input struct {
	path string
	name string
}

func newBatch(c *cli.Context, cfg *config.File) *batch {
	dilate := cfg.Segment.Dilate
	if c.IsSet("dilate") {
		dilate = c.Bool("dilate")
	}
	return newPageBatch(c.Args().Slice(), dilate, c.Int("jobs"), cfg)
}

func newPageBatch(paths []string, dilate bool, jobs int, cfg *config.File) *batch {
	names := uniqueNames(paths)
	b := &batch{
		inputs: make([]input, len(paths)),
		dilate: dilate,
		jobs:   jobs,
		cfg:    cfg,
		cache:  imaging.NewImageCache(),
		refs:   make(map[string]int),
	}
	for i, path := range paths {
		b.inputs[i] = input{path: path, name: names[i]}
		b.refs[path]++
	}
	return b
}

// uniqueNames returns the base name of each path. Base names shared by
// several inputs get the input's index appended, so a/scan.png and
// b/scan.png given as inputs 0 and 1 become scan_0 and scan_1.
func uniqueNames(paths []string) []string {
	count := make(map[string]int)
	for _, path := range paths {
		count[baseName(path)]++
	}
	used := make(map[string]bool)
	for base, n := range count {
		if n == 1 {
			used[base] = true
		}
	}

	names := make([]string, len(paths))
	for i, path := range paths {
		base := baseName(path)
		if count[base] == 1 {
			names[i] = base
			continue
		}
		name := fmt.Sprintf("%s_%d", base, i)
		for n := i + len(paths); used[name]; n += len(paths) {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// pageFunc handles one segmented image.
type pageFunc func(ctx context.Context, in input, img image.Image, res *segment.Result) error

// stepError names a failing step outside the segmentation pipeline.
type stepError struct {
	step string
	err  error
}

func (e *stepError) Error() string { return e.step + ": " + e.err.Error() }
func (e *stepError) Unwrap() error { return e.err }

// failureStage names where an image failed: a pipeline stage, or a driver
// step such as "load" or "save".
func failureStage(err error) string {
	if stage := segment.FailedStage(err); stage != "" {
		return string(stage)
	}
	var se *stepError
	if errors.As(err, &se) {
		return se.step
	}
	return "unknown"
}

// each segments every image and passes the result to fn. A failing image
// is logged with its stage and skipped; the batch goes on with the rest and
// reports how many failed at the end.
func (b *batch) each(ctx context.Context, fn pageFunc) error {
	if len(b.inputs) == 0 {
		return fmt.Errorf("no images given")
	}
	jobs := b.jobs
	if jobs < 1 {
		jobs = 1
	}

	var failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, in := range b.inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := b.page(gctx, in, fn); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Add(1)
				log.WithError(err).WithFields(log.Fields{
					"image": in.path,
					"stage": failureStage(err),
				}).Error("image failed")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d images failed", n, len(b.inputs))
	}
	return nil
}

// page loads, segments and handles one input. The decoded image stays
// cached until the last input naming the same path is done with it.
func (b *batch) page(ctx context.Context, in input, fn pageFunc) error {
	defer b.release(in.path)

	img, err := b.cache.Load(in.path)
	if err != nil {
		return &stepError{step: "load", err: err}
	}

	res, err := segment.Segment(ctx, img, b.dilate, b.cfg.Segment)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"image":      in.path,
		"candidates": res.Candidates,
		"glyphs":     len(res.Glyphs),
	}).Debug("image segmented")

	return fn(ctx, in, img, res)
}

// release drops one reference to path and evicts its image with the last.
func (b *batch) release(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refs[path]--
	if b.refs[path] <= 0 {
		delete(b.refs, path)
		b.cache.Evict(path)
	}
}
