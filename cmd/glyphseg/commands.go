package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/glyphseg/internal/classify"
	"github.com/ironsheep/glyphseg/internal/imaging"
	"github.com/ironsheep/glyphseg/internal/segment"
)

type runOptions struct {
	model     string
	whitelist string
	out       string
	drawBoxes bool
}

// runImages classifies every glyph of every image and writes an annotated
// copy of each image.
func runImages(ctx context.Context, b *batch, opts runOptions) error {
	if opts.model == "" {
		return fmt.Errorf("a model is required: pass --model or set classifier.model in the config")
	}
	if opts.out == "" {
		return fmt.Errorf("an output path is required")
	}

	style := imaging.Style{DrawBoxes: opts.drawBoxes}
	var err error
	if style.LabelColor, err = imaging.ParseColor(b.cfg.Output.LabelColor); err != nil {
		return fmt.Errorf("output.label_color: %w", err)
	}
	if style.BoxColor, err = imaging.ParseColor(b.cfg.Output.BoxColor); err != nil {
		return fmt.Errorf("output.box_color: %w", err)
	}

	c := newClassifier(opts.whitelist)
	if err := c.Load(opts.model); err != nil {
		c.Close()
		return fmt.Errorf("failed to load model %s: %w", opts.model, err)
	}
	defer c.Close()

	multi := len(b.inputs) > 1
	return b.each(ctx, func(ctx context.Context, in input, img image.Image, res *segment.Result) error {
		labeled, err := classify.LabelGlyphs(ctx, c, res.Glyphs)
		if err != nil {
			return &stepError{step: "classify", err: err}
		}

		labels := make([]imaging.Label, len(labeled))
		var text strings.Builder
		for i, l := range labeled {
			labels[i] = imaging.Label{Box: l.Box, Text: l.Label}
			text.WriteString(l.Label)
		}

		out := outputPath(opts.out, in.name, multi)
		if err := imaging.Save(imaging.Annotate(img, labels, style), out); err != nil {
			return &stepError{step: "save", err: err}
		}
		log.WithFields(log.Fields{
			"image":  in.path,
			"output": out,
			"text":   text.String(),
		}).Info("image labeled")
		return nil
	})
}

// boxesLine is one JSON line of the boxes command.
type boxesLine struct {
	Image      string        `json:"image"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Candidates int           `json:"candidates"`
	Boxes      []segment.Box `json:"boxes"`
}

// printBoxes writes one JSON line per image. With several jobs the lines
// come in completion order.
func printBoxes(ctx context.Context, b *batch, w io.Writer) error {
	var mu sync.Mutex
	enc := json.NewEncoder(w)
	return b.each(ctx, func(_ context.Context, in input, _ image.Image, res *segment.Result) error {
		mu.Lock()
		defer mu.Unlock()
		return enc.Encode(boxesLine{
			Image:      in.path,
			Width:      res.Width,
			Height:     res.Height,
			Candidates: res.Candidates,
			Boxes:      res.Boxes(),
		})
	})
}

// writeTiles saves every glyph tile as dir/<name>-<index>.png, indexed in
// discovery order from 0. <name> is the image's unique name in the batch.
func writeTiles(ctx context.Context, b *batch, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create tile directory: %w", err)
	}
	return b.each(ctx, func(_ context.Context, in input, _ image.Image, res *segment.Result) error {
		for i, g := range res.Glyphs {
			tilePath := filepath.Join(dir, fmt.Sprintf("%s-%d.png", in.name, i))
			if err := imaging.Save(g.Tile, tilePath); err != nil {
				return &stepError{step: "save", err: err}
			}
		}
		log.WithFields(log.Fields{"image": in.path, "tiles": len(res.Glyphs)}).Info("tiles written")
		return nil
	})
}

// outputPath returns out for a single image. For several images the image's
// unique name is appended, so output.png becomes output-page1.png.
func outputPath(out, name string, multi bool) string {
	if !multi {
		return out
	}
	ext := filepath.Ext(out)
	stem := strings.TrimSuffix(out, ext)
	if ext == "" {
		ext = ".png"
	}
	return stem + "-" + name + ext
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
