package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func integerProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

func numberProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "number", "description": description}
}

func booleanProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": description}
}

func regionProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x1": integerProp("Left edge X coordinate (0-based)"),
			"y1": integerProp("Top edge Y coordinate (0-based)"),
			"x2": integerProp("Right edge X coordinate (exclusive)"),
			"y2": integerProp("Bottom edge Y coordinate (exclusive)"),
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

func renderProps(props map[string]interface{}) map[string]interface{} {
	props["colormap"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"gray", "jet", "viridis"},
		"description": "Colormap for the rendered disparity. Nearer surfaces get the high end. Default from server config (jet)",
	}
	props["format"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"png", "webp"},
		"description": "Encoding of the rendered disparity. Default png",
	}
	props["range_min"] = numberProp("Disparity drawn at the low end of the colormap. Requires range_max; both omitted means the 2nd-98th percentile range")
	props["range_max"] = numberProp("Disparity drawn at the high end of the colormap. Requires range_min")
	props["grid_spacing"] = integerProp("Draw a coordinate grid with this spacing in pixels, to help choose sample points. Default 0 (off)")
	props["grid_labels"] = booleanProp("Label grid crossings with their x,y coordinates. Default true when grid_spacing is set")
	props["grid_color"] = stringProp("Grid line color as #rrggbb. Default #ffffff")
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Input Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, color depth and whether it is grayscale.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": stringProp("Absolute path to the image file"),
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
					"path": stringProp("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "stereo_pair_info",
			Description: "Load both images of a rectified stereo pair and report whether they can be matched (equal dimensions).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"left":  stringProp("Absolute path to the left image"),
					"right": stringProp("Absolute path to the right image"),
				},
				"required": []string{"left", "right"},
			},
		},

		// Matching
		{
			Name: "stereo_match",
			Description: "Compute the disparity map of a rectified stereo pair with Semi-Global Matching. " +
				"Returns statistics, occlusion and mismatch counts, a rendered disparity image, and a result_id " +
				"for stereo_sample_disparity, stereo_disparity_stats and stereo_render_disparity. " +
				"Left pixel (x, y) with disparity d matches right pixel (x-d, y).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": renderProps(map[string]interface{}{
					"left":               stringProp("Absolute path to the left image"),
					"right":              stringProp("Absolute path to the right image"),
					"num_paths":          map[string]interface{}{"type": "integer", "enum": []int{4, 8}, "description": "Aggregation directions. Default 8"},
					"min_disparity":      integerProp("Smallest disparity searched (may be negative). Default 0"),
					"max_disparity":      integerProp("Search bound, exclusive. Default 64"),
					"p1":                 integerProp("Penalty for disparity changes of one pixel. Default 10"),
					"p2_init":            integerProp("Base penalty for larger disparity jumps. Default 150"),
					"check_unique":       booleanProp("Reject pixels whose best cost is not clearly unique. Default true"),
					"uniqueness_ratio":   numberProp("Uniqueness ratio in [0, 1]. Default 0.95"),
					"check_lr":           booleanProp("Left-right consistency check. Default true"),
					"lr_check_threshold": numberProp("Maximum left-right disagreement in pixels. Default 1.0"),
					"remove_speckles":    booleanProp("Invalidate small disparity islands. Default true"),
					"min_speckle_area":   integerProp("Smallest region kept by speckle removal. Default 20"),
					"fill_holes":         booleanProp("Inpaint invalid pixels from their surroundings. Default true"),
					"region":             regionProp("Optional region of both images to match"),
					"scale":              numberProp("Optional scale factor applied to both images after cropping (e.g. 0.5). Default 1.0"),
					"blur_radius":        numberProp("Optional Gaussian prefilter radius. Default 0 (off)"),
					"include_image":      booleanProp("Include the rendered disparity image. Default true"),
				}),
				"required": []string{"left", "right"},
			},
		},

		// Result Inspection
		{
			Name:        "stereo_sample_disparity",
			Description: "Read disparity values at specific pixels of a stored stereo_match result.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"result_id": stringProp("result_id returned by stereo_match"),
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Pixels to sample, in matched-image coordinates",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     integerProp("X coordinate (0-based)"),
								"y":     integerProp("Y coordinate (0-based)"),
								"label": stringProp("Optional label echoed in the result"),
							},
							"required": []string{"x", "y"},
						},
					},
				},
				"required": []string{"result_id", "points"},
			},
		},
		{
			Name:        "stereo_disparity_stats",
			Description: "Summarize a stored stereo_match result: valid pixel ratio, range, mean, standard deviation, median and 5th/95th percentiles.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"result_id": stringProp("result_id returned by stereo_match"),
					"region":    regionProp("Optional region to summarize"),
				},
				"required": []string{"result_id"},
			},
		},
		{
			Name:        "stereo_render_disparity",
			Description: "Render a stored stereo_match result again with another colormap, format or display range.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": renderProps(map[string]interface{}{
					"result_id": stringProp("result_id returned by stereo_match"),
				}),
				"required": []string{"result_id"},
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
