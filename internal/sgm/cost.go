package sgm

import (
	"math"
	"math/bits"
)

// maxCost is the initial cost of a disparity whose match falls outside the image.
const maxCost = math.MaxUint8

// hamming32 counts the bits that differ between two census codes.
func hamming32(x, y uint32) uint8 {
	return uint8(bits.OnesCount32(x ^ y))
}

// computeCost fills cost with the Hamming distance between each left descriptor
// and the right descriptor d columns to its left, for every candidate d.
func computeCost(censusLeft, censusRight []uint32, cost volume[uint8], minDisparity, workers int) {
	width := cost.width
	forEachBand(cost.height, workers, func(y0, y1 int) {
		for i := y0; i < y1; i++ {
			for j := 0; j < width; j++ {
				left := censusLeft[i*width+j]
				costs := cost.pixel(i, j)
				for k := range costs {
					jr := j - (minDisparity + k)
					if jr < 0 || jr >= width {
						costs[k] = maxCost
						continue
					}
					costs[k] = hamming32(left, censusRight[i*width+jr])
				}
			}
		}
	})
}
