package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/ironsheep/image-grayscale/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_grayscale").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// GrayscaleResult is returned by the image_grayscale tool.
type GrayscaleResult struct {
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	SourceFormat imaging.Format `json:"source_format"`
	SourceLayout string         `json:"source_layout"`
	ImageBase64  string         `json:"image_base64"`
	MimeType     string         `json:"mime_type"`
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
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warnf("tool %s: %v", params.Name, err)
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

func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_grayscale":
		return s.handleImageGrayscale(args)
	case "image_inspect":
		return s.handleImageInspect(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response. An empty data is omitted.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// imageSourceArgs names the input image. Exactly one field must be set.
type imageSourceArgs struct {
	Path        string `json:"path"`
	ImageBase64 string `json:"image_base64"`
}

func (a imageSourceArgs) load() ([]byte, error) {
	switch {
	case a.Path != "" && a.ImageBase64 != "":
		return nil, errors.New("path and image_base64 are mutually exclusive")
	case a.Path != "":
		raw, err := os.ReadFile(a.Path)
		if err != nil {
			return nil, errors.Wrap(err, "read image")
		}
		return raw, nil
	case a.ImageBase64 != "":
		raw, err := base64.StdEncoding.DecodeString(stripDataURL(a.ImageBase64))
		if err != nil {
			return nil, errors.Wrap(err, "decode image_base64")
		}
		return raw, nil
	default:
		return nil, errors.New("one of path or image_base64 is required")
	}
}

// stripDataURL drops a "data:<mime>;base64," prefix if present.
func stripDataURL(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, ","); i >= 0 {
		return s[i+1:]
	}
	return s
}

func (s *Server) handleImageGrayscale(args json.RawMessage) (interface{}, error) {
	var a imageSourceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	raw, err := a.load()
	if err != nil {
		return nil, err
	}

	res, err := s.pipeline.Process(raw)
	if err != nil {
		return nil, err
	}
	return &GrayscaleResult{
		Width:        res.Width,
		Height:       res.Height,
		SourceFormat: res.SourceFormat,
		SourceLayout: res.SourceLayout.String(),
		ImageBase64:  base64.StdEncoding.EncodeToString(res.Data),
		MimeType:     res.ContentType,
	}, nil
}

func (s *Server) handleImageInspect(args json.RawMessage) (interface{}, error) {
	var a imageSourceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	raw, err := a.load()
	if err != nil {
		return nil, err
	}
	return imaging.Inspect(raw)
}
