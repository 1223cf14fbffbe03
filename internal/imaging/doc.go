// Package imaging is the image front-end and back-end of the stereo tools.
//
// On the way in it decodes stereo inputs (PNG, JPEG, GIF, BMP, TIFF, WebP and
// TGA), caches them, and prepares a rectified pair for matching: optional crop,
// scale and Gaussian prefilter, then conversion to tightly packed 8-bit
// grayscale buffers. On the way out it renders disparity maps through a
// colormap (optionally under a labelled coordinate grid), encodes them as PNG
// or lossless WebP, samples individual pixels and summarizes maps
// statistically.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Disparity Maps
//
// Disparity maps are row-major []float32 buffers as produced by package sgm.
// Pixels without an estimate hold sgm.Invalid; every function here tests them
// with sgm.IsValid. Rendering draws them black and statistics skip them.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless.
package imaging
