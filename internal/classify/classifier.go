package classify

import (
	"errors"
	"image"
)

// Classifier turns a glyph tile into a character label.
type Classifier interface {
	// Load reads the model at path. It must succeed before Classify is
	// called.
	Load(path string) error

	// Classify returns the label for one tile. An empty label means the
	// classifier recognized nothing.
	Classify(tile image.Image) (string, error)

	// Close releases the model.
	Close() error
}

// ErrNotLoaded is returned by Classify before a model has been loaded.
var ErrNotLoaded = errors.New("classifier model not loaded")
