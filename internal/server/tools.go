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
		"description": "Absolute path to the image file",
	}
}

func intProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

func colorProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Fill color as hex, e.g. \"#FF0000\" or \"#F00\"",
	}
}

// withRect adds the x1, y1, x2, y2 edge properties to props.
func withRect(props map[string]interface{}) map[string]interface{} {
	props["x1"] = intProperty("Left edge X coordinate (0-based)")
	props["y1"] = intProperty("Top edge Y coordinate (0-based)")
	props["x2"] = intProperty("Right edge X coordinate (exclusive)")
	props["y2"] = intProperty("Bottom edge Y coordinate (exclusive)")
	return props
}

func schema(props map[string]interface{}, required ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_info",
			Description: "Load an image file and describe it: dimensions, file format, in-memory color layout, pixel format and row stride.",
			InputSchema: schema(map[string]interface{}{
				"path": pathProperty(),
			}, "path"),
		},
		{
			Name:        "image_convert",
			Description: "Convert an image to another color family and return it encoded. HSV is returned as three grayscale planes (H in [0,180], S and V in [0,255]).",
			InputSchema: schema(map[string]interface{}{
				"path": pathProperty(),
				"color": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"gray", "bgr", "bgra", "rgb", "hsv"},
					"description": "Target color family",
				},
			}, "path", "color"),
		},
		{
			Name:        "image_split_channels",
			Description: "Split an image into per-channel grayscale planes (0=blue, 1=green, 2=red, 3=alpha).",
			InputSchema: schema(map[string]interface{}{
				"path": pathProperty(),
				"channels": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 3},
					"description": "Channel indices to extract. Default all four",
				},
			}, "path"),
		},
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from an image and return it encoded. Use this to zoom into areas that need detailed examination.",
			InputSchema: schema(withRect(map[string]interface{}{
				"path": pathProperty(),
				"scale": map[string]interface{}{
					"type":        "number",
					"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
					"default":     1.0,
				},
			}), "path", "x1", "y1", "x2", "y2"),
		},
		{
			Name:        "image_crop_region",
			Description: "Crop a named region of the image (top-left, top-right, bottom-left, bottom-right, top-half, bottom-half, left-half, right-half, center).",
			InputSchema: schema(map[string]interface{}{
				"path": pathProperty(),
				"region": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
					"description": "Named region to extract",
				},
				"scale": map[string]interface{}{
					"type":        "number",
					"description": "Optional scale factor. Default 1.0",
					"default":     1.0,
				},
			}, "path", "region"),
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a pixel as hex, RGBA, HSL, 8-bit HSV and gray.",
			InputSchema: schema(map[string]interface{}{
				"path": pathProperty(),
				"x":    intProperty("X coordinate (0-based, from left)"),
				"y":    intProperty("Y coordinate (0-based, from top)"),
			}, "path", "x", "y"),
		},
		{
			Name:        "image_mask_rect",
			Description: "Fill the rectangle dragged from (x1,y1) to (x2,y2) with a color and return the result. Corners may be given in any order; the file is not modified.",
			InputSchema: schema(withRect(map[string]interface{}{
				"path":  pathProperty(),
				"color": colorProperty(),
			}), "path", "x1", "y1", "x2", "y2", "color"),
		},
		{
			Name:        "image_mask_polygon",
			Description: "Fill a polygon (even-odd rule), or draw a freehand stroke when thickness is given, with a color and return the result. The file is not modified.",
			InputSchema: schema(map[string]interface{}{
				"path": pathProperty(),
				"points": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x": map[string]interface{}{"type": "integer"},
							"y": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"x", "y"},
					},
					"description": "Vertices of the polygon or points along the stroke",
				},
				"thickness": intProperty("Brush diameter in pixels. Omit or 0 to fill the polygon"),
				"color":     colorProperty(),
			}, "path", "points", "color"),
		},
		{
			Name:        "image_channel_stats",
			Description: "Compute min, max, mean and standard deviation of each BGRA channel over a region (the whole image when no region is given).",
			InputSchema: schema(withRect(map[string]interface{}{
				"path": pathProperty(),
			}), "path"),
		},
		{
			Name:        "image_measure_distance",
			Description: "Measure the distance and angle from (x1,y1) to (x2,y2), also as a percentage of the image width and height.",
			InputSchema: schema(map[string]interface{}{
				"path": pathProperty(),
				"x1":   intProperty("Start X coordinate"),
				"y1":   intProperty("Start Y coordinate"),
				"x2":   intProperty("End X coordinate"),
				"y2":   intProperty("End Y coordinate"),
			}, "path", "x1", "y1", "x2", "y2"),
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
