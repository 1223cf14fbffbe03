package sgm

import (
	"math"
	"slices"
)

// ray is a unit step (cos θ, sin θ) in image coordinates (x right, y down).
type ray struct {
	dx, dy float64
}

const halfSqrt2 = math.Sqrt2 / 2

// Ray tables for hole filling. Rows in the upper half of the image use
// upperRays (θ = π, 3π/4, π/2, π/4, 0, 7π/4, 3π/2, 5π/4); the rest use lowerRays
// (θ = π, 5π/4, 3π/2, 7π/4, 0, π/4, π/2, 3π/4). Components are exact so axis
// rays never drift off their row or column.
var (
	upperRays = [8]ray{
		{-1, 0}, {-halfSqrt2, halfSqrt2}, {0, 1}, {halfSqrt2, halfSqrt2},
		{1, 0}, {halfSqrt2, -halfSqrt2}, {0, -1}, {-halfSqrt2, -halfSqrt2},
	}
	lowerRays = [8]ray{
		{-1, 0}, {-halfSqrt2, -halfSqrt2}, {0, -1}, {halfSqrt2, -halfSqrt2},
		{1, 0}, {halfSqrt2, halfSqrt2}, {0, 1}, {-halfSqrt2, halfSqrt2},
	}
)

// holeKind selects how the collected ray hits become a fill value.
type holeKind int

const (
	// occlusionHole takes the second-smallest hit: occluded pixels belong to the
	// background, which has the smaller disparity.
	occlusionHole holeKind = iota
	// mismatchHole takes the median hit.
	mismatchHole
)

// rayHits appends to hits the first valid disparity met along each ray from
// (x, y). Ray samples are truncated toward zero, and a ray ends when it leaves
// the image.
func rayHits(disp []float32, width, height, x, y int, rays *[8]ray, hits []float32) []float32 {
	for _, r := range rays {
		for n := 1; ; n++ {
			yy := int(float64(y) + float64(n)*r.dy)
			xx := int(float64(x) + float64(n)*r.dx)
			if yy < 0 || yy >= height || xx < 0 || xx >= width {
				break
			}
			if d := disp[yy*width+xx]; IsValid(d) {
				hits = append(hits, d)
				break
			}
		}
	}
	return hits
}

// fillPixels inpaints each target pixel in place from its ray hits. Pixels with
// no hit stay invalid.
func fillPixels(disp []float32, width, height int, targets []Pixel, kind holeKind, hits []float32) []float32 {
	for _, p := range targets {
		rays := &upperRays
		if p.Row >= height/2 {
			rays = &lowerRays
		}
		hits = rayHits(disp, width, height, p.Col, p.Row, rays, hits[:0])
		if len(hits) == 0 {
			continue
		}
		slices.Sort(hits)

		var v float32
		switch {
		case kind == occlusionHole && len(hits) > 1:
			v = hits[1]
		case kind == occlusionHole:
			v = hits[0]
		default:
			v = hits[len(hits)/2]
		}
		disp[p.Row*width+p.Col] = v
	}
	return hits
}

// fillHoles runs three passes: occlusions, then mismatches, then every pixel
// still invalid after the first two.
func fillHoles(disp []float32, width, height int, occlusions, mismatches []Pixel) {
	hits := make([]float32, 0, 8)
	hits = fillPixels(disp, width, height, occlusions, occlusionHole, hits)
	hits = fillPixels(disp, width, height, mismatches, mismatchHole, hits)

	var leftover []Pixel
	for i := 0; i < height; i++ {
		for j := 0; j < width; j++ {
			if !IsValid(disp[i*width+j]) {
				leftover = append(leftover, Pixel{Row: i, Col: j})
			}
		}
	}
	fillPixels(disp, width, height, leftover, mismatchHole, hits)
}
