// Package server implements an MCP (Model Context Protocol) tool server
// over the image buffer packages.
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
//   - image_info: Dimensions, file format, color layout and stride
//   - image_convert: Convert to gray, bgr, bgra, rgb or hsv
//   - image_split_channels: One grayscale plane per channel
//   - image_crop: Extract a rectangular region
//   - image_crop_region: Extract a named region (top-left, center, etc.)
//   - image_sample_color: Color at a pixel
//   - image_mask_rect: Fill a dragged rectangle with a color
//   - image_mask_polygon: Fill a polygon or draw a stroke with a color
//   - image_channel_stats: Per-channel statistics over a region
//   - image_measure_distance: Distance and angle between two points
//
// Encoded images use the output.format setting (PNG by default).
//
// # Image Caching
//
// Decoded images are cached by path as Bgra<uint8> buffers and reused across
// tool calls. Tools never modify cached images; masking works on a copy.
// Close releases the cache.
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
//	srv, err := server.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer srv.Close()
//	return srv.Run(ctx)
package server
