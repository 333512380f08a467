// Package filter parses filter specifications and runs them as an image
// operation pipeline.
//
// A filter spec is a compact, filename-safe description of how to derive a
// rendition from a source image:
//
//	fill-800x600-c50|format-jpeg|jpegquality-70
//
// Stages are separated by '|'. Within a stage, '-' separates the operation
// name from its positional arguments. The reserved word "thumbnail" expands
// to a configured default spec before parsing.
//
// # Operations
//
//   - original: no-op
//   - width-N, height-N: shrink so that one dimension is at most N
//   - min-WxH: shrink while both dimensions still cover WxH
//   - max-WxH: shrink so both dimensions fit inside WxH
//   - fill-WxH[-cNN]: crop to the WxH aspect ratio around the focal point,
//     then shrink to exactly WxH; cNN zooms NN% toward the focal point
//   - crop[-LxTxWxH]: crop to the focal point (or the given box)
//   - format-jpeg|png|gif: choose the output format
//   - jpegquality-N: JPEG quality 0..100
//   - bgcolor-RGB or bgcolor-RRGGBB: flatten transparency onto a colour
//
// No operation ever upscales.
//
// # Error Handling
//
// Every parse or argument failure is an *InvalidFilterSpecError. Failures to
// open the source image are wrapped in *SourceImageIOError so callers can
// serve a placeholder instead. Decode and encode failures from the Backend
// are returned wrapped but otherwise unchanged.
//
// # Thread Safety
//
// The operation registry is an immutable package-level table. A Filter parses
// its spec once and may then be Run concurrently on different sources; each
// Run owns its own Handle and Env.
package filter
