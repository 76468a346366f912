// Package server implements an MCP (Model Context Protocol) server that exposes
// the grayscale pipeline as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Tools
//
//   - image_grayscale: convert an image to a grayscale PNG (returned as base64)
//   - image_inspect: report dimensions, format and depth from the header
//
// Both take the image either as a file path or inline as base64.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: the Go error string, e.g. "decode failure: read image header: image: unknown format"
//
// Lines that are not valid JSON get a -32700 response with a null id.
//
// # Usage
//
//	srv := server.New(imaging.NewPipeline())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
