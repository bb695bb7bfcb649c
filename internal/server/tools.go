package server

import (
	"github.com/ironsheep/image-analysis-mcp/internal/detection"
	"github.com/ironsheep/image-analysis-mcp/internal/imaging"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema of the path argument shared by every tool.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// analysisProperties returns the pipeline arguments shared by the tools that
// detect objects before rendering them.
func analysisProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"mode": map[string]interface{}{
			"type":        "string",
			"enum":        detection.Modes,
			"description": "Pipeline variant: binary (median filter + labeling), grayscale (Gaussian + Canny edges) or color (Gaussian + watershed)",
		},
		"filtered": map[string]interface{}{
			"type":        "boolean",
			"description": "Keep only objects with 10 < area < 2500 and compute Hu moment shape descriptors",
			"default":     false,
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	overlayProps := analysisProperties()
	overlayProps["show_index"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Draw the object index above each box",
		"default":     true,
	}
	overlayProps["box_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Box color as hex (#RRGGBB or #RRGGBBAA)",
		"default":     imaging.DefaultBoxColor,
	}

	cropProps := analysisProperties()
	cropProps["padding"] = map[string]interface{}{
		"type":        "integer",
		"description": "Pixels added around each bounding box before cropping",
		"default":     0,
	}
	cropProps["scale"] = map[string]interface{}{
		"type":        "number",
		"description": "Optional scale factor for every crop. Default 1.0",
		"default":     1.0,
	}

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"reload": map[string]interface{}{
						"type":        "boolean",
						"description": "Drop the cached copy and read the file again, e.g. after it changed on disk",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from an image and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},

		// Object Analysis
		{
			Name:        "image_analyze_objects",
			Description: "Detect objects and return their bounding boxes and pixel areas as index-aligned x, y, width, height and area lists.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": analysisProperties(),
				"required":   []string{"path", "mode"},
			},
		},
		{
			Name:        "image_object_overlay",
			Description: "Detect objects and draw their bounding boxes onto a copy of the image, returned as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": overlayProps,
				"required":   []string{"path", "mode"},
			},
		},
		{
			Name:        "image_crop_objects",
			Description: "Detect objects and return one base64-encoded PNG crop per object.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": cropProps,
				"required":   []string{"path", "mode"},
			},
		},

		// Conversions
		{
			Name:        "image_convert",
			Description: "Read an image as binary, mono or color and convert it to another kind. Returns the result as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"from": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"binary", "mono", "color"},
						"description": "Kind the file is read as. Default color",
						"default":     "color",
					},
					"to": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"binary", "mono", "color"},
						"description": "Kind to convert to",
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Binarization threshold (pixels above become foreground). Omit or -1 for Otsu",
						"default":     imaging.AutoThreshold,
					},
					"palette": map[string]interface{}{
						"type":        "string",
						"enum":        imaging.PaletteNames(),
						"description": "Palette for mono or binary to color. Defaults to the server palette",
					},
					"target_mean": map[string]interface{}{
						"type":        "number",
						"description": "With target_std, statistically normalize a mono or color result to this mean",
					},
					"target_std": map[string]interface{}{
						"type":        "number",
						"description": "With target_mean, statistically normalize a mono or color result to this standard deviation",
					},
				},
				"required": []string{"path", "to"},
			},
		},
		{
			Name:        "image_distance_transform",
			Description: "Binarize an image and compute every pixel's 4-connected distance to the nearest foreground pixel, normalized to 0-255.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Binarization threshold. Omit or -1 for Otsu",
						"default":     imaging.AutoThreshold,
					},
					"palette": map[string]interface{}{
						"type":        "string",
						"enum":        imaging.PaletteNames(),
						"description": "Render the distances through this palette instead of as grayscale",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_otsu_threshold",
			Description: "Compute the Otsu binarization threshold of an image's unweighted gray levels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_edge_detect",
			Description: "Apply Canny edge detection after a 5x5 Gaussian blur. Returns an edge map as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Low threshold for edge detection (default 100)",
						"default":     imaging.CannyLowThreshold,
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "High threshold for edge detection (default 200)",
						"default":     imaging.CannyHighThreshold,
					},
				},
				"required": []string{"path"},
			},
		},

		// Histograms
		{
			Name:        "image_histogram",
			Description: "Read a histogram from a .bin, .txt, .json or .csv file, or compute the normalized intensity histogram of an image. Optionally save it in another format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a histogram or image file",
					},
					"weighting": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"luminance", "average"},
						"description": "Gray conversion for image files: luminance (0.299/0.587/0.114) or the unweighted channel average used by the pipelines",
						"default":     "luminance",
					},
					"save_to": map[string]interface{}{
						"type":        "string",
						"description": "Optional output path; the extension selects the format",
					},
				},
				"required": []string{"path"},
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
