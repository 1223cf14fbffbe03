// Package server implements the MCP (Model Context Protocol) server for stereo
// matching tools.
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
// # Available Tools
//
// Input Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - stereo_pair_info: Metadata of both images and whether they can be matched
//
// Matching:
//   - stereo_match: Compute a disparity map with Semi-Global Matching
//
// Result Inspection:
//   - stereo_sample_disparity: Disparity at given pixels
//   - stereo_disparity_stats: Statistics of a whole map or a region
//   - stereo_render_disparity: Render a map again with other display settings
//
// # State
//
// Images are cached by path for the lifetime of the process. The server keeps
// one sgm.Matcher and resets it only when the pair size or matcher options
// change. Finished disparity maps are stored under a result_id; the oldest is
// dropped once the store is full.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses:
//   - -32602: malformed or invalid tool arguments (including unknown result ids)
//   - -32000: the tool ran and failed (unreadable image, mismatched pair, ...)
//   - data: the Go error string
package server
