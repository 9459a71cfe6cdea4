package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/glyphseg/internal/classify"
	"github.com/ironsheep/glyphseg/internal/imaging"
	"github.com/ironsheep/glyphseg/internal/segment"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "glyph_boxes").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// Segmentation failures carry the failing stage in the error data.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.WithError(err).WithField("tool", params.Name).Warn("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "glyph_boxes":
		return s.handleGlyphBoxes(ctx, args)
	case "glyph_tiles":
		return s.handleGlyphTiles(ctx, args)
	case "glyph_classify":
		return s.handleGlyphClassify(ctx, args)
	case "glyph_annotate":
		return s.handleGlyphAnnotate(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// segmentArgs are shared by every glyph tool.
type segmentArgs struct {
	Path   string `json:"path"`
	Dilate *bool  `json:"dilate"`
}

// segment loads the page and runs the pipeline with the server's settings.
// An omitted dilate argument falls back to the configured default.
func (s *Server) segment(ctx context.Context, a segmentArgs) (*segment.Result, error) {
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	dilate := s.cfg.Segment.Dilate
	if a.Dilate != nil {
		dilate = *a.Dilate
	}

	res, err := segment.Segment(ctx, img, dilate, s.cfg.Segment)
	if err != nil {
		return nil, fmt.Errorf("segmentation failed: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"path":       a.Path,
		"candidates": res.Candidates,
		"glyphs":     len(res.Glyphs),
	}).Debug("page segmented")
	return res, nil
}

// === Image Information ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Glyph Segmentation ===

// GlyphBoxesResult lists the glyph boxes of a page.
type GlyphBoxesResult struct {
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Candidates int           `json:"candidates"`
	Count      int           `json:"count"`
	Boxes      []segment.Box `json:"boxes"`
}

func (s *Server) handleGlyphBoxes(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a segmentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, err := s.segment(ctx, a)
	if err != nil {
		return nil, err
	}
	return &GlyphBoxesResult{
		Width:      res.Width,
		Height:     res.Height,
		Candidates: res.Candidates,
		Count:      len(res.Glyphs),
		Boxes:      res.Boxes(),
	}, nil
}

type glyphTilesArgs struct {
	segmentArgs
	Limit int `json:"limit"`
}

// GlyphTile is one encoded tile and the box it was cut from.
type GlyphTile struct {
	Box segment.Box `json:"box"`
	*imaging.EncodedImage
}

// GlyphTilesResult holds the encoded tiles of a page.
type GlyphTilesResult struct {
	Count int         `json:"count"`
	Total int         `json:"total"`
	Tiles []GlyphTile `json:"tiles"`
}

func (s *Server) handleGlyphTiles(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a glyphTilesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Limit < 0 {
		return nil, fmt.Errorf("limit must not be negative")
	}
	res, err := s.segment(ctx, a.segmentArgs)
	if err != nil {
		return nil, err
	}

	glyphs := res.Glyphs
	if a.Limit > 0 && a.Limit < len(glyphs) {
		glyphs = glyphs[:a.Limit]
	}

	tiles := make([]GlyphTile, 0, len(glyphs))
	for _, g := range glyphs {
		enc, err := imaging.EncodePNG(g.Tile)
		if err != nil {
			return nil, err
		}
		tiles = append(tiles, GlyphTile{Box: g.Box, EncodedImage: enc})
	}
	return &GlyphTilesResult{
		Count: len(tiles),
		Total: len(res.Glyphs),
		Tiles: tiles,
	}, nil
}

// === Classification ===

type glyphClassifyArgs struct {
	segmentArgs
	Model     string  `json:"model"`
	Whitelist *string `json:"whitelist"`
}

// GlyphClassifyResult holds the labeled glyphs of a page.
type GlyphClassifyResult struct {
	Model  string             `json:"model"`
	Text   string             `json:"text"`
	Glyphs []classify.Labeled `json:"glyphs"`
}

func (s *Server) handleGlyphClassify(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a glyphClassifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Model == "" {
		a.Model = s.cfg.Classifier.Model
	}
	if a.Model == "" {
		return nil, fmt.Errorf("model is required: pass one or set classifier.model in the config")
	}
	whitelist := s.cfg.Classifier.Whitelist
	if a.Whitelist != nil {
		whitelist = *a.Whitelist
	}

	c, err := s.classifier(a.Model, whitelist)
	if err != nil {
		return nil, err
	}
	res, err := s.segment(ctx, a.segmentArgs)
	if err != nil {
		return nil, err
	}

	labeled, err := classify.LabelGlyphs(ctx, c, res.Glyphs)
	if err != nil {
		return nil, err
	}

	var text []byte
	for _, l := range labeled {
		text = append(text, l.Label...)
	}
	return &GlyphClassifyResult{
		Model:  a.Model,
		Text:   string(text),
		Glyphs: labeled,
	}, nil
}

// === Annotation ===

type glyphAnnotateArgs struct {
	segmentArgs
	Labels     []string `json:"labels"`
	BoxColor   string   `json:"box_color"`
	LabelColor string   `json:"label_color"`
}

func (s *Server) handleGlyphAnnotate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a glyphAnnotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.BoxColor == "" {
		a.BoxColor = s.cfg.Output.BoxColor
	}
	if a.LabelColor == "" {
		a.LabelColor = s.cfg.Output.LabelColor
	}

	style := imaging.Style{DrawBoxes: true}
	var err error
	if style.BoxColor, err = imaging.ParseColor(a.BoxColor); err != nil {
		return nil, err
	}
	if style.LabelColor, err = imaging.ParseColor(a.LabelColor); err != nil {
		return nil, err
	}

	res, err := s.segment(ctx, a.segmentArgs)
	if err != nil {
		return nil, err
	}
	if len(a.Labels) > 0 && len(a.Labels) != len(res.Glyphs) {
		return nil, fmt.Errorf("got %d labels for %d glyphs", len(a.Labels), len(res.Glyphs))
	}

	labels := make([]imaging.Label, len(res.Glyphs))
	for i, g := range res.Glyphs {
		labels[i].Box = g.Box
		if len(a.Labels) > 0 {
			labels[i].Text = a.Labels[i]
		}
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(imaging.Annotate(img, labels, style))
}
