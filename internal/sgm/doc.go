// Package sgm computes dense disparity maps from rectified grayscale stereo pairs
// using Semi-Global Matching.
//
// A Matcher owns every intermediate buffer for one image size and one set of
// Options. Buffers are allocated once by Initialize (or New) and reused by every
// Match call until Reset or Release.
//
// # Pipeline
//
// Match runs these stages in order:
//
//  1. Census transform: a 5x5 binary descriptor per pixel of both images
//  2. Cost initialization: Hamming distance between left and right descriptors
//     for every pixel and candidate disparity
//  3. Cost aggregation: 4 or 8 one-dimensional dynamic programming passes with
//     P1/P2 smoothness penalties, summed into a 16-bit cost volume
//  4. Disparity extraction: winner-take-all, uniqueness test, parabolic sub-pixel fit
//  5. Left-right consistency check (optional), classifying rejected pixels as
//     occlusions or mismatches
//  6. Speckle removal (optional)
//  7. Hole filling (optional)
//  8. 3x3 median filter
//
// # Disparity Values
//
// Output disparities are float32 values in [MinDisparity, MaxDisparity). Pixels
// without an estimate hold Invalid (positive infinity); use IsValid rather than
// comparing against Invalid directly.
//
// # Memory Layout
//
// All buffers are row-major. Cost volumes store the disparity axis innermost, so
// the costs of one pixel are contiguous:
//
//	index(row, col, d) = (row*width + col)*dispRange + d
//
// Memory use is dominated by the cost volumes: width*height*dispRange bytes for
// the initial costs, the same again for each active direction, and twice that for
// the aggregated 16-bit volume.
//
// # Thread Safety
//
// A Matcher serializes its own Match calls. Within a call, the census, cost and
// aggregation stages fan out over Options.Workers goroutines; every goroutine
// writes a disjoint region, so results do not depend on the worker count.
package sgm
