// Package server implements the tracker's control surface as a JSON-RPC 2.0
// server speaking the MCP tool protocol.
//
// The control surface is how an operator tunes a running tracker: raise or
// lower the color threshold, switch the ranking mode, step through frames
// one at a time and look at what the tracker sees. It never touches the
// pipeline directly; every change goes through tracker.Controls and is
// applied between frames.
//
// # Protocol
//
// The server communicates over a line-oriented stream (normally stdio):
//   - Input: JSON-RPC requests, one per line
//   - Output: JSON-RPC responses, one per line
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Status:
//   - tracker_status: Settings, last indicator, diagnostics, run summary
//   - tracker_snapshot: Last rendered overlay as base64 PNG
//
// Classification:
//   - tracker_set_threshold: Set the color threshold
//   - tracker_adjust_threshold: Step the threshold up or down (default 5)
//
// Ranking:
//   - tracker_set_rank_mode: "size" or "mean"
//
// Execution:
//   - tracker_set_debug: Enter or leave step mode
//   - tracker_step: Advance one frame in step mode
//   - tracker_stop: End the run
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(runner.Controls, runner.Stats, sink, logger)
//	go func() {
//	    if err := srv.Run(os.Stdin, os.Stdout); err != nil {
//	        logger.Errorw("control surface failed", "error", err)
//	    }
//	}()
package server
