package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// focalPointSchema describes an optional focal point argument.
var focalPointSchema = map[string]interface{}{
	"type":        "object",
	"description": "Optional focal point: centre x, y and size in pixels, all non-negative",
	"properties": map[string]interface{}{
		"x":      map[string]interface{}{"type": "integer", "minimum": 0},
		"y":      map[string]interface{}{"type": "integer", "minimum": 0},
		"width":  map[string]interface{}{"type": "integer", "minimum": 0},
		"height": map[string]interface{}{"type": "integer", "minimum": 0},
	},
	"required": []string{"x", "y", "width", "height"},
}

var imageIDSchema = map[string]interface{}{
	"type":        "integer",
	"description": "ID returned by image_import",
}

var specSchema = map[string]interface{}{
	"type":        "string",
	"description": "Filter spec, e.g. \"fill-300x200-c50|format-jpeg\". Operations are separated by |, arguments by -",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Images
		{
			Name:        "image_load",
			Description: "Read an image file and return its dimensions, content-sniffed format, alpha and animation flags and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_import",
			Description: "Copy an image file into the media root as a new original, validate its type and create its default renditions. Returns the image with its ID.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file to import",
					},
					"title": map[string]interface{}{
						"type":        "string",
						"description": "Optional title; defaults to the file name",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_list",
			Description: "List the images imported in this session.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "image_set_focal_point",
			Description: "Set or clear the focal point of an image from a selected rectangle, then recreate its default renditions.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_id": imageIDSchema,
					"left":     map[string]interface{}{"type": "number", "description": "Left edge of the selection"},
					"top":      map[string]interface{}{"type": "number", "description": "Top edge of the selection"},
					"right":    map[string]interface{}{"type": "number", "description": "Right edge of the selection"},
					"bottom":   map[string]interface{}{"type": "number", "description": "Bottom edge of the selection"},
					"clear": map[string]interface{}{
						"type":        "boolean",
						"description": "Remove the focal point instead of setting it",
						"default":     false,
					},
				},
				"required": []string{"image_id"},
			},
		},
		{
			Name:        "image_delete",
			Description: "Delete an image, its original file and all of its renditions.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_id": imageIDSchema,
				},
				"required": []string{"image_id"},
			},
		},

		// Filter specs
		{
			Name:        "filter_parse",
			Description: "Parse a filter spec and list its operations. Reports whether renditions of the spec depend on the focal point.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"spec": specSchema,
				},
				"required": []string{"spec"},
			},
		},
		{
			Name:        "rendition_cache_key",
			Description: "Compute the rendition cache key of a spec for a focal point. Empty when the spec does not depend on the focal point.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"spec":        specSchema,
					"focal_point": focalPointSchema,
				},
				"required": []string{"spec"},
			},
		},
		{
			Name:        "rendition_filename",
			Description: "Derive the rendition file name for an original file name, spec and output format (jpeg, png or gif).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source": map[string]interface{}{
						"type":        "string",
						"description": "Original file name or path",
					},
					"spec": specSchema,
					"format": map[string]interface{}{
						"type": "string",
						"enum": []string{"jpeg", "png", "gif"},
					},
				},
				"required": []string{"source", "spec", "format"},
			},
		},

		// Renditions
		{
			Name:        "rendition_generate",
			Description: "Run a filter spec over an image file and write the result to output_path. Nothing is stored in the rendition index.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the source image",
					},
					"spec": specSchema,
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to write the rendition to",
					},
					"focal_point": focalPointSchema,
				},
				"required": []string{"path", "spec", "output_path"},
			},
		},
		{
			Name:        "rendition_get",
			Description: "Get the rendition of an imported image for a spec, generating it if needed. A missing original yields a 0x0 \"not-found\" placeholder.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_id": imageIDSchema,
					"spec":     specSchema,
				},
				"required": []string{"image_id", "spec"},
			},
		},
		{
			Name:        "rendition_list",
			Description: "List the stored renditions of an imported image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_id": imageIDSchema,
				},
				"required": []string{"image_id"},
			},
		},
		{
			Name:        "renditions_regenerate",
			Description: "Recreate the default renditions of every imported image.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
