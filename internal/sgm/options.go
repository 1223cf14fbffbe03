package sgm

import (
	"fmt"
	"runtime"
)

// speckleDiffThreshold is the largest disparity step between neighbours that
// still places them in the same speckle region.
const speckleDiffThreshold float32 = 2.0

// Options configures a Matcher.
//
// All fields are used; start from DefaultOptions and override what you need.
type Options struct {
	// NumPaths selects the aggregation directions: 4 (horizontal and vertical)
	// or 8 (adds both diagonals).
	NumPaths int `json:"num_paths"`

	// MinDisparity and MaxDisparity bound the search window [min, max).
	MinDisparity int `json:"min_disparity"`
	MaxDisparity int `json:"max_disparity"`

	// CheckUnique rejects pixels whose best cost is not clearly better than the
	// runner-up. UniquenessRatio is in [0, 1]; higher is more permissive.
	CheckUnique     bool    `json:"check_unique"`
	UniquenessRatio float32 `json:"uniqueness_ratio"`

	// CheckLR enables the left-right consistency check with the given maximum
	// disparity difference in pixels.
	CheckLR          bool    `json:"check_lr"`
	LRCheckThreshold float32 `json:"lr_check_threshold"`

	// RemoveSpeckles invalidates connected regions smaller than MinSpeckleArea.
	RemoveSpeckles bool `json:"remove_speckles"`
	MinSpeckleArea int  `json:"min_speckle_area"`

	// FillHoles inpaints invalid pixels from their valid surroundings.
	FillHoles bool `json:"fill_holes"`

	// P1 penalizes disparity changes of one pixel between neighbours. P2Init is
	// the base penalty for larger jumps; it is divided by the local intensity
	// gradient and never drops below P1.
	P1     int `json:"p1"`
	P2Init int `json:"p2_init"`

	// Workers bounds the goroutines used by the parallel stages.
	// Zero means runtime.GOMAXPROCS(0).
	Workers int `json:"workers"`
}

// DefaultOptions returns the reference configuration.
func DefaultOptions() Options {
	return Options{
		NumPaths:         8,
		MinDisparity:     0,
		MaxDisparity:     640,
		CheckUnique:      true,
		UniquenessRatio:  0.95,
		CheckLR:          true,
		LRCheckThreshold: 1.0,
		RemoveSpeckles:   true,
		MinSpeckleArea:   20,
		FillHoles:        true,
		P1:               10,
		P2Init:           150,
	}
}

// DisparityRange returns the number of candidate disparities.
func (o Options) DisparityRange() int {
	return o.MaxDisparity - o.MinDisparity
}

// Validate reports the first configuration error in o.
func (o Options) Validate() error {
	if o.DisparityRange() <= 0 {
		return fmt.Errorf("%w: min=%d max=%d", ErrEmptyDisparityRange, o.MinDisparity, o.MaxDisparity)
	}
	if o.NumPaths != 4 && o.NumPaths != 8 {
		return fmt.Errorf("%w: got %d", ErrInvalidPaths, o.NumPaths)
	}
	if o.UniquenessRatio < 0 || o.UniquenessRatio > 1 {
		return fmt.Errorf("%w: uniqueness ratio %.3f outside [0, 1]", ErrInvalidOption, o.UniquenessRatio)
	}
	if o.LRCheckThreshold < 0 {
		return fmt.Errorf("%w: negative lr check threshold %.3f", ErrInvalidOption, o.LRCheckThreshold)
	}
	if o.MinSpeckleArea < 0 {
		return fmt.Errorf("%w: negative min speckle area %d", ErrInvalidOption, o.MinSpeckleArea)
	}
	if o.P1 < 0 || o.P2Init < 0 {
		return fmt.Errorf("%w: negative penalty p1=%d p2_init=%d", ErrInvalidOption, o.P1, o.P2Init)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: negative worker count %d", ErrInvalidOption, o.Workers)
	}
	return nil
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}
