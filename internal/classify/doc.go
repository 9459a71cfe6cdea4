// Package classify connects segmented glyph tiles to a character classifier.
//
// The segmentation pipeline treats the classifier as an opaque
// collaborator: it can load a model from a path and turn one tile into a
// label. Classifier is that contract. Tesseract is the shipped adapter; it
// runs the Tesseract OCR engine (via gosseract/v2) in single-character mode.
//
// # Prerequisites
//
// Tesseract and its development headers must be installed on the system:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Models
//
// A model path names a Tesseract ".traineddata" file. Its directory is used
// as the tessdata prefix and its base name as the language, so
// "/usr/share/tesseract-ocr/5/tessdata/eng.traineddata" loads English.
//
// # Tiles
//
// Tiles from the segmenter are light ink on a dark background. Tesseract
// expects the opposite, so Classify inverts each tile, enlarges it and
// centers it on a white margin before recognition.
//
// # Thread Safety
//
// A Tesseract value serializes Classify calls internally. Use one value per
// goroutine for parallel recognition.
package classify
