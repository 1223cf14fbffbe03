package sgm

import "math"

// unreachableCost stands in for candidates whose left-image source pixel lies
// outside the image when extracting right disparities.
const unreachableCost = math.MaxUint16

// extractor turns one pixel's aggregated costs into a disparity.
type extractor struct {
	minDisparity    int
	checkUnique     bool
	uniquenessRatio float32
}

func newExtractor(opts Options) extractor {
	return extractor{
		minDisparity:    opts.MinDisparity,
		checkUnique:     opts.CheckUnique,
		uniquenessRatio: opts.UniquenessRatio,
	}
}

// pick selects the lowest cost (first occurrence on ties), applies the
// uniqueness test, rejects the two ends of the range and refines the winner with
// a parabola through its two neighbours.
func (e extractor) pick(costs []uint16) float32 {
	n := len(costs)
	best := -1
	bestCost := uint16(unreachableCost)
	for d, c := range costs {
		if c < bestCost {
			bestCost = c
			best = d
		}
	}
	if best < 0 {
		return Invalid
	}

	if e.checkUnique {
		second := uint16(unreachableCost)
		for d, c := range costs {
			if d != best && c < second {
				second = c
			}
		}
		if second-bestCost <= uint16(float32(bestCost)*(1-e.uniquenessRatio)) {
			return Invalid
		}
	}

	if best == 0 || best == n-1 {
		return Invalid
	}

	c1 := int(costs[best-1])
	c2 := int(costs[best+1])
	denom := max(1, c1+c2-2*int(bestCost))
	return float32(best+e.minDisparity) + float32(c1-c2)/(float32(denom)*2)
}

// computeDisparityLeft extracts the left disparity map from costAggr.
func computeDisparityLeft(costAggr volume[uint16], disp []float32, opts Options) {
	e := newExtractor(opts)
	width := costAggr.width
	for i := 0; i < costAggr.height; i++ {
		for j := 0; j < width; j++ {
			disp[i*width+j] = e.pick(costAggr.pixel(i, j))
		}
	}
}

// computeDisparityRight extracts the right disparity map from the same
// left-indexed volume: the cost of right pixel (i, j) at disparity d is the cost
// stored for left pixel (i, j+d) at d.
func computeDisparityRight(costAggr volume[uint16], disp []float32, opts Options) {
	e := newExtractor(opts)
	width := costAggr.width
	costs := make([]uint16, costAggr.dispRange)
	for i := 0; i < costAggr.height; i++ {
		for j := 0; j < width; j++ {
			for k := range costs {
				jl := j + opts.MinDisparity + k
				if jl < 0 || jl >= width {
					costs[k] = unreachableCost
					continue
				}
				costs[k] = costAggr.at(i, jl, k)
			}
			disp[i*width+j] = e.pick(costs)
		}
	}
}
