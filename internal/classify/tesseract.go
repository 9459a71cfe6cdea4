package classify

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

const (
	// ModelExt is the file extension of a Tesseract model.
	ModelExt = ".traineddata"

	// glyphScale is the side a tile is enlarged to before recognition.
	glyphScale = 64

	// glyphMargin is the white border added around the enlarged tile.
	glyphMargin = 16

	pageSegModeVar = "tessedit_pageseg_mode"
)

// Tesseract classifies tiles with the Tesseract engine in single-character
// page segmentation mode.
type Tesseract struct {
	// Whitelist limits recognition to these characters when non-empty.
	Whitelist string

	mu     sync.Mutex
	client *gosseract.Client
}

var _ Classifier = (*Tesseract)(nil)

// NewTesseract returns an unloaded Tesseract classifier.
func NewTesseract(whitelist string) *Tesseract {
	return &Tesseract{Whitelist: whitelist}
}

// Load configures Tesseract from a ".traineddata" file and initializes the
// engine with it.
//
// Parameters:
//   - path: Path to the model file. The directory becomes the tessdata
//     prefix; the file name without extension becomes the language.
//
// Returns an error if the file does not exist, is not a traineddata file,
// or Tesseract cannot initialize from it. Load recognizes a blank tile so
// that a corrupt or incompatible model fails here rather than in Classify.
// Loading again replaces the previous model.
func (t *Tesseract) Load(path string) error {
	lang, dir, err := modelLanguage(path)
	if err != nil {
		return err
	}

	client := gosseract.NewClient()
	if err := client.SetTessdataPrefix(dir); err != nil {
		client.Close()
		return fmt.Errorf("failed to set tessdata prefix: %w", err)
	}
	if err := client.SetLanguage(lang); err != nil {
		client.Close()
		return fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetVariable(pageSegModeVar, strconv.Itoa(int(gosseract.PSM_SINGLE_CHAR))); err != nil {
		client.Close()
		return fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if t.Whitelist != "" {
		if err := client.SetWhitelist(t.Whitelist); err != nil {
			client.Close()
			return fmt.Errorf("failed to set whitelist: %w", err)
		}
	}

	blank := image.NewGray(image.Rect(0, 0, 8, 8))
	if _, err := recognize(client, blank); err != nil {
		client.Close()
		return fmt.Errorf("failed to initialize model %s: %w", path, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client != nil {
		t.client.Close()
	}
	t.client = client
	return nil
}

// Classify recognizes the single character in tile.
func (t *Tesseract) Classify(tile image.Image) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client == nil {
		return "", ErrNotLoaded
	}
	return recognize(t.client, tile)
}

// recognize runs one tile through client.
func recognize(client *gosseract.Client, tile image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, prepareTile(tile)); err != nil {
		return "", fmt.Errorf("failed to encode tile: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Close releases the Tesseract engine. Classify fails with ErrNotLoaded
// afterwards until Load is called again.
func (t *Tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client == nil {
		return nil
	}
	err := t.client.Close()
	t.client = nil
	return err
}

// modelLanguage splits a model path into its language and tessdata
// directory.
func modelLanguage(path string) (lang, dir string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to open model: %w", err)
	}
	if info.IsDir() {
		return "", "", fmt.Errorf("model path %s is a directory", path)
	}

	name := filepath.Base(path)
	if !strings.HasSuffix(name, ModelExt) {
		return "", "", fmt.Errorf("model %s is not a %s file", name, ModelExt)
	}
	lang = strings.TrimSuffix(name, ModelExt)
	if lang == "" {
		return "", "", fmt.Errorf("model %s has no language name", name)
	}
	return lang, filepath.Dir(path), nil
}

// prepareTile turns a light-on-dark tile into dark ink on a white page with
// a margin, the layout Tesseract recognizes best.
func prepareTile(tile image.Image) image.Image {
	inverted := imaging.Invert(tile)
	enlarged := imaging.Resize(inverted, glyphScale, glyphScale, imaging.NearestNeighbor)

	side := glyphScale + 2*glyphMargin
	page := imaging.New(side, side, color.White)
	return imaging.PasteCenter(page, enlarged)
}
