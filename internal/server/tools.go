package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// emptySchema is the input schema of tools that take no arguments.
func emptySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Status
		{
			Name:        "tracker_status",
			Description: "Get the current settings, the last frame's indicator, candidates and diagnostics, and a summary of the run so far.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "tracker_snapshot",
			Description: "Get the last rendered overlay frame as base64-encoded PNG.",
			InputSchema: emptySchema(),
		},

		// Classification
		{
			Name:        "tracker_set_threshold",
			Description: "Set the classification threshold used from the next frame. For the ratio classifier this is the minimum red percentage (0-100).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "New threshold value",
					},
				},
				"required": []string{"threshold"},
			},
		},
		{
			Name:        "tracker_adjust_threshold",
			Description: "Raise or lower the classification threshold by a step, clamped to the classifier's range.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"delta": map[string]interface{}{
						"type":        "integer",
						"description": "Amount to add to the threshold (default 5, negative to lower)",
						"default":     5,
					},
				},
			},
		},

		// Ranking
		{
			Name:        "tracker_set_rank_mode",
			Description: "Choose how candidates are ordered: 'size' (largest first) or 'mean' (closest to the mean size first).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"size", "mean"},
						"description": "Ranking mode",
					},
				},
				"required": []string{"mode"},
			},
		},

		// Execution
		{
			Name:        "tracker_set_debug",
			Description: "Turn step mode on or off. In step mode the tracker renders the diagnostic view and waits for tracker_step after each frame.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"enabled": map[string]interface{}{
						"type":        "boolean",
						"description": "true to enter step mode, false to run freely",
					},
				},
				"required": []string{"enabled"},
			},
		},
		{
			Name:        "tracker_step",
			Description: "Process the next frame while in step mode.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "tracker_stop",
			Description: "Stop requesting frames and end the run.",
			InputSchema: emptySchema(),
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
