package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the page image",
	}
}

func dilateProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Dilate the mask after erosion to join broken strokes. Defaults to the server configuration",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load a page image and return its dimensions, format and color depth. The image is cached for the glyph tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "glyph_boxes",
			Description: "Segment a page into character glyphs and return their bounding boxes in discovery order. Boxes nested inside another box (such as the hole of an 'O') are removed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"dilate": dilateProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "glyph_tiles",
			Description: "Segment a page and return each glyph's fixed-size binary tile as base64-encoded PNG, white ink on black.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"dilate": dilateProperty(),
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of tiles to return. 0 returns all",
						"default":     0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "glyph_classify",
			Description: "Segment a page and label every glyph with a Tesseract single-character model.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"dilate": dilateProperty(),
					"model": map[string]interface{}{
						"type":        "string",
						"description": "Path to a .traineddata model. Defaults to the server configuration",
					},
					"whitelist": map[string]interface{}{
						"type":        "string",
						"description": "Characters the classifier may return",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "glyph_annotate",
			Description: "Draw the glyph boxes, and optional labels, onto a copy of the page and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"dilate": dilateProperty(),
					"labels": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "One label per glyph, in the order glyph_boxes returns them",
					},
					"box_color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as hex (#RRGGBB or #RRGGBBAA)",
					},
					"label_color": map[string]interface{}{
						"type":        "string",
						"description": "Label color as hex (#RRGGBB or #RRGGBBAA)",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
