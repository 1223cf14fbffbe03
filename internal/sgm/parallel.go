package sgm

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// splitRows divides [0, h) into at most workers contiguous bands.
func splitRows(h, workers int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	if workers > h {
		workers = h
	}
	rows := make([][2]int, 0, workers)
	if h <= 0 {
		return rows
	}
	step := h / workers
	start := 0
	for i := 0; i < workers; i++ {
		end := start + step
		if i == workers-1 {
			end = h
		}
		rows = append(rows, [2]int{start, end})
		start = end
	}
	return rows
}

// forEachBand runs fn over row bands of [0, h) and waits for all of them.
// fn must only write rows inside its band.
func forEachBand(h, workers int, fn func(y0, y1 int)) {
	bands := splitRows(h, workers)
	if len(bands) == 1 {
		fn(bands[0][0], bands[0][1])
		return
	}
	var wg sync.WaitGroup
	for _, b := range bands {
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(b[0], b[1])
	}
	wg.Wait()
}

// runAll runs every task with at most workers in flight.
func runAll(workers int, tasks []func()) {
	if workers <= 1 {
		for _, task := range tasks {
			task()
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for _, task := range tasks {
		g.Go(func() error {
			task()
			return nil
		})
	}
	_ = g.Wait()
}
