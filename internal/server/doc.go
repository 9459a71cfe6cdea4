// Package server implements the MCP (Model Context Protocol) server for the
// glyph segmenter.
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line on stdin
// and one response per line on stdout. Supported methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load a page and report its metadata
//   - glyph_boxes: Segment a page and list the glyph boxes
//   - glyph_tiles: Segment a page and return each glyph tile as PNG
//   - glyph_classify: Segment a page and label each glyph with Tesseract
//   - glyph_annotate: Draw glyph boxes and labels on a copy of the page
//
// Every glyph tool runs segment.Segment with the configuration the server
// was created with. A "dilate" argument overrides the configured default for
// one call.
//
// # Caching
//
// Pages are cached by path in an imaging.ImageCache for the lifetime of the
// server. Classifiers are loaded once per model and whitelist pair and
// closed when Serve returns.
//
// # Error Handling
//
// Tool failures are returned as JSON-RPC errors with code -32000 and the Go
// error string as data. Segmentation errors name the failing stage
// ("preprocess", "regions" or "crop").
//
// # Usage
//
//	srv := server.New(cfg, logrus.StandardLogger())
//	if err := srv.Run(ctx); err != nil {
//	    logrus.Fatal(err)
//	}
package server
