// Package rendition manages the stored renditions of source images.
//
// A rendition is the encoded output of running a filter spec over an image,
// saved as a file next to the originals and recorded in a Store so later
// requests for the same (image, spec, focal point) reuse it.
//
// # Components
//
//   - Image: a source image, its stored file name and optional focal point
//   - Rendition: a generated file with its spec, size and cache key
//   - Storage: where original and rendition files live (FileSystem)
//   - Store: the rendition index (MemoryStore, RedisStore)
//   - Service: get-or-create, default renditions and cleanup
//
// # File Layout
//
// Originals are saved under "original_images/" and renditions under
// "images_renditions/", relative to the storage root. Rendition file names
// are derived with Filename and never exceed 60 characters.
//
// # Missing Originals
//
// When an original file cannot be opened the filter pipeline returns a
// filter.SourceImageIOError. Service.GetRenditionOrNotFound turns that into a
// 0x0 placeholder rendition named "not-found" so callers rendering pages can
// carry on.
package rendition
