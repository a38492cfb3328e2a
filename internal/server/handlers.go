package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/redeye-tracker/internal/detection"
	"github.com/ironsheep/redeye-tracker/internal/tracker"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "tracker_status", "tracker_step").
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
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "tracker_status":
		return s.handleStatus()
	case "tracker_snapshot":
		return s.handleSnapshot()
	case "tracker_set_threshold":
		return s.handleSetThreshold(args)
	case "tracker_adjust_threshold":
		return s.handleAdjustThreshold(args)
	case "tracker_set_rank_mode":
		return s.handleSetRankMode(args)
	case "tracker_set_debug":
		return s.handleSetDebug(args)
	case "tracker_step":
		s.controls.Step()
		return s.controls.Settings(), nil
	case "tracker_stop":
		s.logger.Infow("stop requested by control client")
		s.controls.Stop()
		return map[string]interface{}{"stopping": true}, nil
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
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments. Missing arguments decode as the
// zero value.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	return json.Unmarshal(args, v)
}

// StatusResult is returned by tracker_status.
type StatusResult struct {
	Settings    tracker.Settings      `json:"settings"`
	Frames      int                   `json:"frames"`
	Found       bool                  `json:"found"`
	Indicator   *detection.Indicator  `json:"indicator,omitempty"`
	Candidates  []detection.Candidate `json:"candidates,omitempty"`
	Diagnostics *tracker.Diagnostics  `json:"diagnostics,omitempty"`
	Summary     *tracker.Summary      `json:"summary,omitempty"`
}

func (s *Server) handleStatus() (interface{}, error) {
	res := &StatusResult{Settings: s.controls.Settings()}

	last, frames, ok := s.controls.Last()
	res.Frames = frames
	if ok {
		res.Found = last.Found
		res.Indicator = &last.Indicator
		res.Candidates = last.Candidates
		res.Diagnostics = &last.Diagnostics
	}
	if s.stats != nil {
		sum := s.stats.Summary()
		res.Summary = &sum
	}
	return res, nil
}

func (s *Server) handleSnapshot() (interface{}, error) {
	if s.snapshots == nil {
		return nil, errors.New("no overlay is being rendered")
	}
	return s.snapshots.Snapshot()
}

type setThresholdArgs struct {
	Threshold *int `json:"threshold"`
}

func (s *Server) handleSetThreshold(args json.RawMessage) (interface{}, error) {
	var a setThresholdArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Threshold == nil {
		return nil, errors.New("threshold is required")
	}
	if err := s.controls.SetThreshold(*a.Threshold); err != nil {
		return nil, err
	}
	return s.controls.Settings(), nil
}

type adjustThresholdArgs struct {
	Delta *int `json:"delta"`
}

func (s *Server) handleAdjustThreshold(args json.RawMessage) (interface{}, error) {
	var a adjustThresholdArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	delta := 5
	if a.Delta != nil {
		delta = *a.Delta
	}
	s.controls.AdjustThreshold(delta)
	return s.controls.Settings(), nil
}

type setRankModeArgs struct {
	Mode string `json:"mode"`
}

func (s *Server) handleSetRankMode(args json.RawMessage) (interface{}, error) {
	var a setRankModeArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Mode == "" {
		return nil, errors.New("mode is required")
	}
	mode, err := detection.ParseRankMode(a.Mode)
	if err != nil {
		return nil, err
	}
	s.controls.SetRankMode(mode)
	return s.controls.Settings(), nil
}

type setDebugArgs struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) handleSetDebug(args json.RawMessage) (interface{}, error) {
	var a setDebugArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	s.controls.SetDebug(a.Enabled)
	s.logger.Infow("step mode changed", "enabled", a.Enabled)
	return s.controls.Settings(), nil
}
