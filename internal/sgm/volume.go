package sgm

import "math"

// Invalid marks a pixel without a disparity estimate.
var Invalid = float32(math.Inf(1))

// IsValid reports whether d is a real disparity rather than the Invalid sentinel.
// NaN is never valid.
func IsValid(d float32) bool {
	return !math.IsInf(float64(d), 0) && !math.IsNaN(float64(d))
}

// Pixel is a (row, col) image coordinate.
type Pixel struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// VolumeBytes returns the memory a Matcher allocates for its cost volumes
// when initialized for width x height images with opts. The result saturates
// at math.MaxInt64 and is zero for an empty image or disparity range.
func VolumeBytes(width, height int, opts Options) int64 {
	pixels := int64(width) * int64(height)
	dispRange := int64(opts.DisparityRange())
	if width <= 0 || height <= 0 || dispRange <= 0 {
		return 0
	}
	// initial costs and one volume per path are uint8, the sums uint16
	perCell := int64(1 + len(directionsFor(opts.NumPaths)) + 2)
	if pixels > math.MaxInt64/dispRange/perCell {
		return math.MaxInt64
	}
	return pixels * dispRange * perCell
}

// volume is a dense (row, col, disparity) buffer with the disparity axis innermost.
type volume[T uint8 | uint16] struct {
	data      []T
	width     int
	height    int
	dispRange int
}

func newVolume[T uint8 | uint16](width, height, dispRange int) volume[T] {
	return volume[T]{
		data:      make([]T, width*height*dispRange),
		width:     width,
		height:    height,
		dispRange: dispRange,
	}
}

func (v volume[T]) index(row, col, d int) int {
	return (row*v.width+col)*v.dispRange + d
}

// pixel returns the costs of every disparity at (row, col).
func (v volume[T]) pixel(row, col int) []T {
	i := v.index(row, col, 0)
	return v.data[i : i+v.dispRange : i+v.dispRange]
}

func (v volume[T]) at(row, col, d int) T {
	return v.data[v.index(row, col, d)]
}

func (v volume[T]) clear() {
	clear(v.data)
}

