// Package server implements an MCP (Model Context Protocol) server exposing
// the renditions engine as tools.
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
// Images:
//   - image_load: Read an image file's metadata
//   - image_import: Store a new original and create its default renditions
//   - image_list: List imported images
//   - image_set_focal_point: Set or clear an image's focal point
//   - image_delete: Remove an image and its renditions
//
// Filter specs:
//   - filter_parse: List the operations of a spec
//   - rendition_cache_key: Cache key of a spec for a focal point
//   - rendition_filename: File name a rendition would be saved under
//
// Renditions:
//   - rendition_generate: One-shot render of a file to a file
//   - rendition_get: Get or create the rendition of an imported image
//   - rendition_list: List an image's stored renditions
//   - renditions_regenerate: Recreate every image's default renditions
//
// # Images
//
// Imported images are kept in an in-memory catalogue for the lifetime of the
// process; their files and renditions live under the configured media root
// and their renditions in the configured rendition store.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses with:
//   - code: -32602 for invalid filter specs and arguments, -32000 for other
//     tool failures, or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(service, imaging.NewBackend(), logger)
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal(err)
//	}
package server
