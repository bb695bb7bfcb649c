// Package server implements the MCP (Model Context Protocol) server for image analysis tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the object analysis
// pipelines and image conversions through the MCP protocol.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_crop: Extract rectangular region
//
// Object Analysis:
//   - image_analyze_objects: Bounding boxes and areas from a binary, grayscale or color pipeline
//   - image_object_overlay: Draw the detected boxes onto the image
//   - image_crop_objects: One crop per detected object
//
// Conversions:
//   - image_convert: Convert between binary, mono and color images
//   - image_distance_transform: Distance to the nearest foreground pixel
//   - image_otsu_threshold: Otsu binarization threshold
//   - image_edge_detect: Canny edge detection
//
// Histograms:
//   - image_histogram: Read, compute and save intensity histograms
//
// # Image Caching
//
// Decoded files are kept in an imaging.ImageCache keyed by cleaned path, so a
// file analyzed by one tool and overlaid by the next is read once. The cache
// lives as long as the server; image_load with reload=true evicts a path so
// a file changed on disk is read again.
//
// # Error Handling
//
// Failures are returned as JSON-RPC error responses. The code is -32000 when
// a tool ran and failed, -32602 for malformed params or an unknown tool name,
// and -32601 for an unknown method. The data field carries the Go error string.
//
// Failed tool calls are also logged at warn level.
//
// # Usage
//
//	srv := server.New(server.WithLogger(log), server.WithConfig(cfg))
//	if err := srv.Run(); err != nil {
//	    log.Fatal().Err(err).Msg("server error")
//	}
package server
