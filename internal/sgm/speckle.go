package sgm

// neighbour offsets for 8-connectivity
var (
	neighbourDX = [8]int{-1, 0, 1, -1, 1, -1, 0, 1}
	neighbourDY = [8]int{-1, -1, -1, 0, 0, 1, 1, 1}
)

// removeSpeckles invalidates every 8-connected region of similar disparity with
// fewer than minArea pixels. Two neighbours are in the same region when both are
// valid and differ by at most diffThreshold.
//
// visited and queue are scratch space; visited must hold width*height entries.
// The (possibly grown) queue is returned for reuse.
func removeSpeckles(disp []float32, width, height int, diffThreshold float32, minArea int, visited []bool, queue []int) []int {
	if width <= 0 || height <= 0 {
		return queue
	}
	visited = visited[:width*height]
	clear(visited)

	for idx := range visited {
		if visited[idx] || !IsValid(disp[idx]) {
			continue
		}

		// BFS; queue keeps every member so small regions can be cleared afterwards
		queue = append(queue[:0], idx)
		visited[idx] = true
		for head := 0; head < len(queue); head++ {
			curr := queue[head]
			base := disp[curr]
			cy := curr / width
			cx := curr % width
			for k := 0; k < 8; k++ {
				nx := cx + neighbourDX[k]
				ny := cy + neighbourDY[k]
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				ni := ny*width + nx
				if visited[ni] || !IsValid(disp[ni]) {
					continue
				}
				if abs32(disp[ni]-base) <= diffThreshold {
					visited[ni] = true
					queue = append(queue, ni)
				}
			}
		}

		if len(queue) < minArea {
			for _, i := range queue {
				disp[i] = Invalid
			}
		}
	}
	return queue
}
