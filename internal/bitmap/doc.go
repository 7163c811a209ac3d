// Package bitmap moves pixels between imgbuf images and the standard library
// image types, and reads and writes encoded image files.
//
// Encoding and decoding are delegated to github.com/disintegration/imaging;
// this package only maps pixel layouts. The supported layouts are listed by
// FormatOf:
//
//   - Gray<uint8>   <-> *image.Gray
//   - Gray<uint16>  <-> *image.Gray16
//   - Bgr<uint8>, Rgb<uint8> <-> *image.RGBA (opaque)
//   - Bgra<uint8>   <-> *image.NRGBA
//   - Bgr<uint16>   <-> *image.RGBA64 (opaque)
//   - Bgra<uint16>  <-> *image.NRGBA64
//
// # Coordinate System
//
// All coordinates are 0-based with the origin at the top-left corner. Image
// rectangles returned by ToImage always start at (0,0).
//
// # Caching
//
// ImageCache keeps decoded files as Bgra<uint8> images keyed by path. Cached
// images are owned by the cache and closed when evicted.
package bitmap
