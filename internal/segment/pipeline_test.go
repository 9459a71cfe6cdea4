package segment

import (
	"context"
	"errors"
	"image"
	"testing"
)

// newGlyphPage draws three glyph-like shapes: a solid block, a ring with a
// hole like an "o", and a small block hugging the left edge.
func newGlyphPage() *image.RGBA {
	page := newPage(160, 80)
	drawInk(page, 2, 30, 14, 44)
	drawInk(page, 40, 20, 60, 60)
	drawRing(page, 90, 20, 130, 60, 10)
	return page
}

func TestSegment_GlyphPage(t *testing.T) {
	cfg := DefaultConfig()
	res, err := Segment(context.Background(), newGlyphPage(), false, cfg)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	if res.Width != 160 || res.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 160x80", res.Width, res.Height)
	}
	if res.Candidates != 4 {
		t.Errorf("candidates: got %d, want 4 (three outer borders and one hole)", res.Candidates)
	}
	if len(res.Glyphs) != 3 {
		t.Fatalf("glyphs: got %d (%v), want 3", len(res.Glyphs), res.Boxes())
	}

	for i, g := range res.Glyphs {
		if g.Tile == nil {
			t.Fatalf("glyph %d has no tile", i)
		}
		b := g.Tile.Bounds()
		if b.Dx() != cfg.TileSize || b.Dy() != cfg.TileSize {
			t.Errorf("glyph %d tile: got %dx%d", i, b.Dx(), b.Dy())
		}
	}

	// The ring's outer box must survive and nothing may sit inside it.
	var ring *Box
	for i := range res.Glyphs {
		if b := res.Glyphs[i].Box; b.X >= 85 {
			ring = &res.Glyphs[i].Box
		}
	}
	if ring == nil {
		t.Fatalf("ring glyph missing from %v", res.Boxes())
	}
	if ring.W < 30 || ring.H < 30 {
		t.Errorf("ring box too small: %v", *ring)
	}
}

func TestSegment_BlankPage(t *testing.T) {
	res, err := Segment(context.Background(), newPage(50, 50), false, DefaultConfig())
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if len(res.Glyphs) != 0 || res.Candidates != 0 {
		t.Errorf("blank page: got %d glyphs from %d candidates", len(res.Glyphs), res.Candidates)
	}
}

func TestSegment_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 3

	first, err := Segment(context.Background(), newGlyphPage(), false, cfg)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	second, err := Segment(context.Background(), newGlyphPage(), false, cfg)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	a, b := first.Boxes(), second.Boxes()
	if len(a) != len(b) {
		t.Fatalf("runs disagree: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("box %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSegment_PreprocessFailure(t *testing.T) {
	_, err := Segment(context.Background(), nil, false, DefaultConfig())
	if !errors.Is(err, ErrPreprocess) {
		t.Fatalf("got %v, want ErrPreprocess", err)
	}
	if stage := FailedStage(err); stage != StagePreprocess {
		t.Errorf("stage: got %q, want %q", stage, StagePreprocess)
	}
}

func TestSegment_InvalidConfigStage(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		stage  Stage
		want   error
	}{
		{"blur kernel", func(c *Config) { c.BlurKernel = 0 }, StagePreprocess, ErrPreprocess},
		{"erode radius", func(c *Config) { c.ErodeRadius = -1 }, StagePreprocess, ErrPreprocess},
		{"epsilon", func(c *Config) { c.Epsilon = -1 }, StageRegions, ErrRegionDiscovery},
		{"tile size", func(c *Config) { c.TileSize = 0 }, StageCrop, ErrCrop},
		{"pad", func(c *Config) { c.Pad = -1 }, StageCrop, ErrCrop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			_, err := Segment(context.Background(), newGlyphPage(), false, cfg)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if got := FailedStage(err); got != tt.stage {
				t.Errorf("FailedStage = %q, want %q", got, tt.stage)
			}
		})
	}
}

func TestSegment_NegativeWorkers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = -1

	_, err := Segment(context.Background(), newGlyphPage(), false, cfg)
	if err == nil {
		t.Fatal("expected error for negative workers")
	}
	if got := FailedStage(err); got != "" {
		t.Errorf("FailedStage = %q, want no stage", got)
	}
}

func TestSegment_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Segment(ctx, newGlyphPage(), false, DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestFailedStage(t *testing.T) {
	if got := FailedStage(errors.New("plain")); got != "" {
		t.Errorf("plain error: got %q", got)
	}
	err := &StageError{Stage: StageCrop, Err: ErrCrop}
	if got := FailedStage(err); got != StageCrop {
		t.Errorf("got %q, want %q", got, StageCrop)
	}
	if !errors.Is(err, ErrCrop) {
		t.Error("StageError should unwrap to its cause")
	}
}
