package imaging

import (
	"math"
	"testing"
)

func TestComputeDisparityStats(t *testing.T) {
	disp := []float32{
		1, 2, 3, 4,
		5, 6, 7, inf,
	}

	s, err := ComputeDisparityStats(disp, 4, 2, nil)
	if err != nil {
		t.Fatalf("ComputeDisparityStats failed: %v", err)
	}

	if s.Width != 4 || s.Height != 2 {
		t.Errorf("dimensions: got %dx%d, want 4x2", s.Width, s.Height)
	}
	if s.ValidPixels != 7 {
		t.Errorf("ValidPixels: got %d, want 7", s.ValidPixels)
	}
	if math.Abs(s.ValidPercent-87.5) > 1e-9 {
		t.Errorf("ValidPercent: got %g, want 87.5", s.ValidPercent)
	}
	if s.Min != 1 || s.Max != 7 {
		t.Errorf("range: got [%g, %g], want [1, 7]", s.Min, s.Max)
	}
	if math.Abs(s.Mean-4) > 1e-9 {
		t.Errorf("Mean: got %g, want 4", s.Mean)
	}
	// sample standard deviation of 1..7
	if math.Abs(s.StdDev-math.Sqrt(28.0/6)) > 1e-9 {
		t.Errorf("StdDev: got %g, want %g", s.StdDev, math.Sqrt(28.0/6))
	}
	if s.Median != 4 {
		t.Errorf("Median: got %g, want 4", s.Median)
	}
	if s.P05 != 1 || s.P95 != 7 {
		t.Errorf("percentiles: got p05=%g p95=%g, want 1 and 7", s.P05, s.P95)
	}
}

func TestComputeDisparityStats_Region(t *testing.T) {
	disp := []float32{
		1, 2, 3, 4,
		5, 6, 7, inf,
	}

	s, err := ComputeDisparityStats(disp, 4, 2, &Region{X1: 2, Y1: 0, X2: 4, Y2: 2})
	if err != nil {
		t.Fatalf("ComputeDisparityStats failed: %v", err)
	}
	if s.Width != 2 || s.Height != 2 {
		t.Errorf("dimensions: got %dx%d, want 2x2", s.Width, s.Height)
	}
	if s.ValidPixels != 3 || s.Min != 3 || s.Max != 7 {
		t.Errorf("got valid=%d range [%g, %g], want 3 in [3, 7]", s.ValidPixels, s.Min, s.Max)
	}
	if math.Abs(s.ValidPercent-75) > 1e-9 {
		t.Errorf("ValidPercent: got %g, want 75", s.ValidPercent)
	}

	if _, err := ComputeDisparityStats(disp, 4, 2, &Region{X1: 0, Y1: 0, X2: 5, Y2: 1}); err == nil {
		t.Error("out-of-bounds region should fail")
	}
}

func TestComputeDisparityStats_NoValidPixels(t *testing.T) {
	s, err := ComputeDisparityStats([]float32{inf, inf}, 2, 1, nil)
	if err != nil {
		t.Fatalf("ComputeDisparityStats failed: %v", err)
	}
	if s.ValidPixels != 0 || s.ValidPercent != 0 || s.Mean != 0 {
		t.Errorf("expected zero stats, got %+v", s)
	}
}

func TestComputeDisparityStats_BadSize(t *testing.T) {
	if _, err := ComputeDisparityStats(make([]float32, 3), 2, 2, nil); err == nil {
		t.Error("mismatched buffer should fail")
	}
}

func TestSampleDisparity(t *testing.T) {
	disp := []float32{
		1.5, inf,
		3, 4,
	}

	samples, err := SampleDisparity(disp, 2, 2, []SamplePoint{
		{X: 0, Y: 0, Label: "near"},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
	})
	if err != nil {
		t.Fatalf("SampleDisparity failed: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}

	if !samples[0].Valid || *samples[0].Disparity != 1.5 || samples[0].Label != "near" {
		t.Errorf("sample 0: got %+v", samples[0])
	}
	if samples[1].Valid || samples[1].Disparity != nil {
		t.Errorf("sample 1 should be invalid, got %+v", samples[1])
	}
	if !samples[2].Valid || *samples[2].Disparity != 4 {
		t.Errorf("sample 2: got %+v", samples[2])
	}
}

func TestSampleDisparity_OutOfBounds(t *testing.T) {
	disp := []float32{1, 2, 3, 4}
	for _, p := range []SamplePoint{{X: -1, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 2}} {
		if _, err := SampleDisparity(disp, 2, 2, []SamplePoint{{X: 0, Y: 0}, p}); err == nil {
			t.Errorf("point %+v should fail", p)
		}
	}
}
