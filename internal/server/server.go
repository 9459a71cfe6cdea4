package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/glyphseg/internal/classify"
	"github.com/ironsheep/glyphseg/internal/config"
	"github.com/ironsheep/glyphseg/internal/imaging"
)

// Name and Version identify the server in the initialize handshake.
const (
	Name    = "glyphseg"
	Version = "0.1.0"
)

// Server handles MCP protocol communication
type Server struct {
	cache *imaging.ImageCache
	cfg   *config.File
	log   logrus.FieldLogger

	// newClassifier builds an unloaded classifier for a whitelist.
	newClassifier func(whitelist string) classify.Classifier

	mu          sync.Mutex
	classifiers map[classifierKey]classify.Classifier
}

type classifierKey struct {
	model     string
	whitelist string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server that segments with cfg's settings. A nil cfg means
// config.Default(); a nil logger means the logrus standard logger.
func New(cfg *config.File, logger logrus.FieldLogger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		cache: imaging.NewImageCache(),
		cfg:   cfg,
		log:   logger,
		newClassifier: func(whitelist string) classify.Classifier {
			return classify.NewTesseract(whitelist)
		},
		classifiers: make(map[classifierKey]classify.Classifier),
	}
}

// Run serves requests from stdin and writes responses to stdout until stdin
// closes or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes each response
// as one line to w. Loaded classifiers are closed when Serve returns.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	defer s.closeClassifiers()

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.WithError(err).Warn("failed to parse request")
			continue
		}

		resp := s.handleRequest(ctx, &req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.WithError(err).WithField("method", req.Method).Error("failed to encode response")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	s.log.WithField("method", req.Method).Debug("request")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    Name,
				"version": Version,
			},
		},
	}
}

// classifier returns a loaded classifier for model and whitelist, loading
// it on first use.
func (s *Server) classifier(model, whitelist string) (classify.Classifier, error) {
	key := classifierKey{model: model, whitelist: whitelist}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.classifiers[key]; ok {
		return c, nil
	}

	c := s.newClassifier(whitelist)
	if err := c.Load(model); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load model %s: %w", model, err)
	}
	s.classifiers[key] = c
	s.log.WithField("model", model).Info("classifier loaded")
	return c, nil
}

func (s *Server) closeClassifiers() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, c := range s.classifiers {
		if err := c.Close(); err != nil {
			s.log.WithError(err).WithField("model", key.model).Warn("failed to close classifier")
		}
		delete(s.classifiers, key)
	}
}
