package sgm

// censusRadius is the half-size of the 5x5 census window.
const censusRadius = 2

// censusTransform5x5 encodes every interior pixel of src as a bit string: one bit
// per pixel of its 5x5 window in raster order (centre included), set when that
// pixel is darker than the centre.
//
// The 2-pixel border of dst is left untouched. Inputs too short for width*height
// or smaller than the window are ignored.
func censusTransform5x5(src []uint8, dst []uint32, width, height, workers int) {
	if width < 2*censusRadius+1 || height < 2*censusRadius+1 {
		return
	}
	if len(src) < width*height || len(dst) < width*height {
		return
	}

	forEachBand(height-2*censusRadius, workers, func(y0, y1 int) {
		for i := y0 + censusRadius; i < y1+censusRadius; i++ {
			for j := censusRadius; j < width-censusRadius; j++ {
				center := src[i*width+j]
				var code uint32
				for r := -censusRadius; r <= censusRadius; r++ {
					row := src[(i+r)*width : (i+r+1)*width]
					for c := -censusRadius; c <= censusRadius; c++ {
						code <<= 1
						if row[j+c] < center {
							code |= 1
						}
					}
				}
				dst[i*width+j] = code
			}
		}
	})
}
