package classify

import (
	"context"
	"fmt"

	"github.com/ironsheep/glyphseg/internal/segment"
)

// Labeled pairs a glyph box with the classifier's label for its tile.
type Labeled struct {
	Box   segment.Box `json:"box"`
	Label string      `json:"label"`
}

// LabelGlyphs classifies every glyph tile in order.
//
// Classification stops at the first error, which names the failing glyph
// index, or when ctx is cancelled.
func LabelGlyphs(ctx context.Context, c Classifier, glyphs []segment.Glyph) ([]Labeled, error) {
	labeled := make([]Labeled, 0, len(glyphs))
	for i, g := range glyphs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		label, err := c.Classify(g.Tile)
		if err != nil {
			return nil, fmt.Errorf("failed to classify glyph %d at %s: %w", i, g.Box, err)
		}
		labeled = append(labeled, Labeled{Box: g.Box, Label: label})
	}
	return labeled, nil
}
