// Package imaging implements the filter pipeline's image backend on top of
// disintegration/imaging and the standard library codecs.
//
// The pipeline in package filter only ever talks to the filter.Backend and
// filter.Handle interfaces; this package supplies the concrete decoder,
// pixel operations and encoders behind them.
//
// # Supported Formats
//
// Decoding:
//   - JPEG, PNG and GIF via the standard library
//   - BMP, TIFF and WebP via golang.org/x/image
//
// Encoding:
//   - JPEG, PNG and GIF
//
// Formats are sniffed from the file content with gabriel-vasile/mimetype,
// never from a file name.
//
// # Coordinate System
//
// Crop rectangles are 0-based and relative to the top-left corner of the
// image, with Min inclusive and Max exclusive, as image.Rectangle.
//
// # Thread Safety
//
// Backend is stateless. A Handle is immutable: Resize, Crop and
// SetBackgroundColorRGB return a new Handle, so handles can be shared
// between goroutines once created.
//
// # Orientation
//
// Open decodes without applying EXIF orientation and keeps the encoded bytes.
// Handle.AutoOrient re-decodes them with orientation applied, which the
// filter pipeline does once per run.
package imaging
