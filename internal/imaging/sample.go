package imaging

import (
	"fmt"

	"github.com/ironsheep/stereo-tools-mcp/internal/sgm"
)

// SamplePoint is a pixel coordinate with an optional descriptive label.
type SamplePoint struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label,omitempty"`
}

// DisparitySample is the disparity at one sampled point. Disparity is nil when
// the pixel has no estimate.
type DisparitySample struct {
	Label     string   `json:"label,omitempty"`
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Valid     bool     `json:"valid"`
	Disparity *float64 `json:"disparity,omitempty"`
}

// SampleDisparity reads the disparity at each point, in input order.
// On any out-of-bounds point no partial result is returned.
func SampleDisparity(disp []float32, width, height int, points []SamplePoint) ([]DisparitySample, error) {
	if len(disp) != width*height {
		return nil, fmt.Errorf("disparity map has %d values, want %dx%d", len(disp), width, height)
	}

	samples := make([]DisparitySample, 0, len(points))
	for _, p := range points {
		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			return nil, fmt.Errorf("failed to sample point (%d,%d): outside image bounds", p.X, p.Y)
		}
		s := DisparitySample{Label: p.Label, X: p.X, Y: p.Y}
		if d := disp[p.Y*width+p.X]; sgm.IsValid(d) {
			v := float64(d)
			s.Valid = true
			s.Disparity = &v
		}
		samples = append(samples, s)
	}
	return samples, nil
}
