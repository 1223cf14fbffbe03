package imaging

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/stereo-tools-mcp/internal/sgm"
)

// DisparityStats summarizes the valid pixels of a disparity map.
type DisparityStats struct {
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	ValidPixels  int     `json:"valid_pixels"`
	ValidPercent float64 `json:"valid_percent"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	Median       float64 `json:"median"`
	P05          float64 `json:"p05"`
	P95          float64 `json:"p95"`
}

// validValues returns the sorted valid disparities of disp inside region
// (the whole map when region is nil).
func validValues(disp []float32, width, height int, region *Region) ([]float64, int, error) {
	if len(disp) != width*height {
		return nil, 0, fmt.Errorf("disparity map has %d values, want %dx%d", len(disp), width, height)
	}
	r := Region{X2: width, Y2: height}
	if region != nil {
		if err := region.Validate(width, height); err != nil {
			return nil, 0, err
		}
		r = *region
	}

	values := make([]float64, 0, r.Width()*r.Height())
	for y := r.Y1; y < r.Y2; y++ {
		for _, d := range disp[y*width+r.X1 : y*width+r.X2] {
			if sgm.IsValid(d) {
				values = append(values, float64(d))
			}
		}
	}
	slices.Sort(values)
	return values, r.Width() * r.Height(), nil
}

// ComputeDisparityStats summarizes disp, or only region of it when region is
// not nil. Width and Height describe the summarized area. All value fields are
// zero when no pixel is valid.
func ComputeDisparityStats(disp []float32, width, height int, region *Region) (*DisparityStats, error) {
	values, total, err := validValues(disp, width, height, region)
	if err != nil {
		return nil, err
	}

	s := &DisparityStats{Width: width, Height: height, ValidPixels: len(values)}
	if region != nil {
		s.Width, s.Height = region.Width(), region.Height()
	}
	if total > 0 {
		s.ValidPercent = float64(len(values)) * 100 / float64(total)
	}
	if len(values) == 0 {
		return s, nil
	}

	s.Min = values[0]
	s.Max = values[len(values)-1]
	s.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	s.Median = stat.Quantile(0.5, stat.Empirical, values, nil)
	s.P05 = stat.Quantile(0.05, stat.Empirical, values, nil)
	s.P95 = stat.Quantile(0.95, stat.Empirical, values, nil)
	return s, nil
}

// percentileRange returns the lo and hi quantiles of the valid values of disp.
// ok is false when the map has no valid pixel.
func percentileRange(disp []float32, width, height int, lo, hi float64) (float64, float64, bool) {
	values, _, err := validValues(disp, width, height, nil)
	if err != nil || len(values) == 0 {
		return 0, 0, false
	}
	return stat.Quantile(lo, stat.Empirical, values, nil), stat.Quantile(hi, stat.Empirical, values, nil), true
}
