package sgm

import "math"

// roundToCol rounds a fractional column to the nearest integer column.
func roundToCol(x float32) int {
	return int(math.Floor(float64(x) + 0.5))
}

// lrCheck invalidates left disparities that disagree with the right map by more
// than threshold, and returns the rejected pixels split into occlusions and
// mismatches. The returned slices reuse the storage of the ones passed in.
//
// A rejected pixel is an occlusion when following the right disparity back into
// the left image lands on a pixel with a larger disparity (a nearer surface);
// otherwise it is a mismatch. Pixels that were already invalid, or whose match
// falls outside the right image, are mismatches.
func lrCheck(dispLeft, dispRight []float32, width, height int, threshold float32, occlusions, mismatches []Pixel) ([]Pixel, []Pixel) {
	occlusions = occlusions[:0]
	mismatches = mismatches[:0]

	for i := 0; i < height; i++ {
		row := dispLeft[i*width : (i+1)*width]
		rowRight := dispRight[i*width : (i+1)*width]
		for j := 0; j < width; j++ {
			disp := row[j]
			if !IsValid(disp) {
				mismatches = append(mismatches, Pixel{Row: i, Col: j})
				continue
			}

			colRight := roundToCol(float32(j) - disp)
			if colRight < 0 || colRight >= width {
				row[j] = Invalid
				mismatches = append(mismatches, Pixel{Row: i, Col: j})
				continue
			}

			dispR := rowRight[colRight]
			if IsValid(dispR) && abs32(disp-dispR) <= threshold {
				continue
			}

			occluded := false
			if IsValid(dispR) {
				colRL := roundToCol(float32(colRight) + dispR)
				if colRL >= 0 && colRL < width {
					dl := row[colRL]
					occluded = !IsValid(dl) || dl > disp
				}
			}
			if occluded {
				occlusions = append(occlusions, Pixel{Row: i, Col: j})
			} else {
				mismatches = append(mismatches, Pixel{Row: i, Col: j})
			}
			row[j] = Invalid
		}
	}
	return occlusions, mismatches
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
