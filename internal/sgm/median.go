package sgm

import "slices"

// medianFilter replaces every pixel of disp with the median of the valid values
// in its wndSize x wndSize window (clipped at the borders). A pixel whose window
// holds no valid value becomes Invalid. scratch must hold len(disp) values; the
// result is copied back into disp.
func medianFilter(disp, scratch []float32, width, height, wndSize int) {
	radius := wndSize / 2
	window := make([]float32, 0, wndSize*wndSize)
	out := scratch[:width*height]

	for i := 0; i < height; i++ {
		for j := 0; j < width; j++ {
			window = window[:0]
			for r := max(0, i-radius); r <= min(height-1, i+radius); r++ {
				for c := max(0, j-radius); c <= min(width-1, j+radius); c++ {
					if d := disp[r*width+c]; IsValid(d) {
						window = append(window, d)
					}
				}
			}
			if len(window) == 0 {
				out[i*width+j] = Invalid
				continue
			}
			slices.Sort(window)
			out[i*width+j] = window[len(window)/2]
		}
	}
	copy(disp, out)
}
