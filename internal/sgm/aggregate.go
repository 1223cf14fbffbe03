package sgm

// pathState carries the running values of one scan line from pixel to pixel.
type pathState struct {
	// prev holds the previous pixel's aggregated costs at prev[1:dispRange+1];
	// prev[0] and prev[dispRange+1] stay at maxCost so the d-1 and d+1 terms at
	// the range ends act as if that neighbour were maximal.
	prev     []uint8
	prevMin  uint8
	prevGray uint8
}

func newPathState(dispRange int) *pathState {
	prev := make([]uint8, dispRange+2)
	prev[0] = maxCost
	prev[dispRange+1] = maxCost
	return &pathState{prev: prev}
}

// seed starts a scan line: the first pixel has no predecessor, so its aggregated
// cost is its initial cost.
func (s *pathState) seed(cost, out []uint8, gray uint8) {
	copy(out, cost)
	s.remember(out, gray)
}

// step applies the SGM recurrence at one pixel:
//
//	Lr(p,d) = C(p,d) + min(Lr(p-r,d), Lr(p-r,d-1)+P1, Lr(p-r,d+1)+P1, minPrev+P2) - minPrev
//
// with P2 = max(P1, P2Init/(|I(p)-I(p-r)|+1)). Results saturate at maxCost.
func (s *pathState) step(cost, out []uint8, gray uint8, p1, p2Init int) {
	diff := int(gray) - int(s.prevGray)
	if diff < 0 {
		diff = -diff
	}
	p2 := max(p1, p2Init/(diff+1))

	prevMin := int(s.prevMin)
	jump := prevMin + p2
	prev := s.prev
	for d, c := range cost {
		best := int(prev[d+1])
		if v := int(prev[d]) + p1; v < best {
			best = v
		}
		if v := int(prev[d+2]) + p1; v < best {
			best = v
		}
		if jump < best {
			best = jump
		}
		v := int(c) + best - prevMin
		if v > maxCost {
			v = maxCost
		}
		out[d] = uint8(v)
	}
	s.remember(out, gray)
}

func (s *pathState) remember(out []uint8, gray uint8) {
	copy(s.prev[1:], out)
	m := uint8(maxCost)
	for _, v := range out {
		if v < m {
			m = v
		}
	}
	s.prevMin = m
	s.prevGray = gray
}

// aggregateLines runs the recurrence along scan lines [first, last) of dir,
// reading intensities from img and writing into out.
func aggregateLines(dir direction, first, last int, img []uint8, costInit, out volume[uint8], p1, p2Init int) {
	width, height := costInit.width, costInit.height
	state := newPathState(costInit.dispRange)
	for i := first; i < last; i++ {
		l := dir.line(i, width, height)
		row, col := l.row, l.col
		state.seed(costInit.pixel(row, col), out.pixel(row, col), img[row*width+col])
		for k := 1; k < l.length; k++ {
			row, col = l.next(row, col, width)
			state.step(costInit.pixel(row, col), out.pixel(row, col), img[row*width+col], p1, p2Init)
		}
	}
}

// aggregateCosts runs every direction selected by opts.NumPaths over costInit,
// each into its own volume of paths, and sums them into costAggr. Any other
// path count leaves costAggr zero.
func aggregateCosts(img []uint8, costInit volume[uint8], paths []volume[uint8], costAggr volume[uint16], opts Options) {
	costAggr.clear()
	dirs := directionsFor(opts.NumPaths)
	if len(dirs) == 0 || len(paths) < len(dirs) {
		return
	}

	workers := opts.workers()
	width, height := costInit.width, costInit.height
	var tasks []func()
	for k, dir := range dirs {
		out := paths[k]
		for _, band := range splitRows(dir.lineCount(width, height), workers) {
			first, last := band[0], band[1]
			tasks = append(tasks, func() {
				aggregateLines(dir, first, last, img, costInit, out, opts.P1, opts.P2Init)
			})
		}
	}
	runAll(workers, tasks)

	active := paths[:len(dirs)]
	stride := width * costInit.dispRange
	forEachBand(height, workers, func(y0, y1 int) {
		sum := costAggr.data[y0*stride : y1*stride]
		for _, p := range active {
			src := p.data[y0*stride : y1*stride]
			for i, v := range src {
				sum[i] += uint16(v)
			}
		}
	})
}
