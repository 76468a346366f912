package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageSourceProperties is shared by every tool that takes an input image.
func imageSourceProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file. Mutually exclusive with image_base64.",
		},
		"image_base64": map[string]interface{}{
			"type":        "string",
			"description": "Base64-encoded image bytes, optionally as a data URL. Mutually exclusive with path.",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name: "image_grayscale",
			Description: "Convert a PNG, JPEG, GIF, BMP, TIFF or WebP image to an 8-bit single-channel grayscale PNG. " +
				"Returns the dimensions, the detected source format and the PNG as base64.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": imageSourceProperties(),
			},
		},
		{
			Name:        "image_inspect",
			Description: "Read an image header and report its dimensions, format, bit depth and whether it carries alpha. Pixel data is not decoded.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": imageSourceProperties(),
			},
		},
	}
}
