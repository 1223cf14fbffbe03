package imaging

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

// createShiftedPair writes a left/right pair where the right image is the left
// one shifted shift pixels to the left.
func createShiftedPair(t *testing.T, width, height, shift int) (string, string) {
	t.Helper()
	base := createGradientImage(width+shift, height)
	left := base.SubImage(image.Rect(0, 0, width, height))
	right := base.SubImage(image.Rect(shift, 0, width+shift, height))
	return writeTestImage(t, ToGray(left)), writeTestImage(t, ToGray(right))
}

func TestLoadPair(t *testing.T) {
	leftPath, rightPath := createShiftedPair(t, 40, 20, 3)

	pair, err := LoadPair(NewImageCache(), leftPath, rightPath, PairOptions{})
	if err != nil {
		t.Fatalf("LoadPair failed: %v", err)
	}

	if pair.Width != 40 || pair.Height != 20 {
		t.Fatalf("dimensions: got %dx%d, want 40x20", pair.Width, pair.Height)
	}
	if len(pair.Left) != 800 || len(pair.Right) != 800 {
		t.Fatalf("buffer sizes: got %d and %d, want 800", len(pair.Left), len(pair.Right))
	}
	// left (i, j) equals right (i, j-3)
	if pair.Left[5*40+10] != pair.Right[5*40+7] {
		t.Errorf("pair is not shifted by 3: left %d, right %d", pair.Left[5*40+10], pair.Right[5*40+7])
	}
}

func TestLoadPair_RegionAndScale(t *testing.T) {
	leftPath, rightPath := createShiftedPair(t, 40, 20, 2)

	pair, err := LoadPair(NewImageCache(), leftPath, rightPath, PairOptions{
		Region: &Region{X1: 0, Y1: 0, X2: 20, Y2: 10},
		Scale:  2,
	})
	if err != nil {
		t.Fatalf("LoadPair failed: %v", err)
	}
	if pair.Width != 40 || pair.Height != 20 {
		t.Errorf("dimensions: got %dx%d, want 40x20", pair.Width, pair.Height)
	}
}

func TestPreparePair_MaxPixels(t *testing.T) {
	img := createGradientImage(40, 20)

	tests := []struct {
		name    string
		opts    PairOptions
		wantErr bool
	}{
		{"at limit", PairOptions{MaxPixels: 800}, false},
		{"over limit", PairOptions{MaxPixels: 799}, true},
		{"region fits", PairOptions{Region: &Region{X1: 0, Y1: 0, X2: 20, Y2: 10}, MaxPixels: 200}, false},
		{"scale grows past limit", PairOptions{Scale: 2, MaxPixels: 2000}, true},
		{"scale shrinks under limit", PairOptions{Scale: 0.5, MaxPixels: 200}, false},
		{"huge scale", PairOptions{Scale: 1e9, MaxPixels: 1 << 24}, true},
		{"no limit", PairOptions{Scale: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PreparePair(img, img, tt.opts)
			if tt.wantErr {
				if !errors.Is(err, ErrPairTooLarge) {
					t.Errorf("got error %v, want ErrPairTooLarge", err)
				}
				return
			}
			if err != nil {
				t.Errorf("PreparePair failed: %v", err)
			}
		})
	}
}

func TestLoadPair_Blur(t *testing.T) {
	leftPath, rightPath := createShiftedPair(t, 30, 30, 1)

	pair, err := LoadPair(NewImageCache(), leftPath, rightPath, PairOptions{BlurRadius: 1})
	if err != nil {
		t.Fatalf("LoadPair failed: %v", err)
	}
	if pair.Width != 30 || pair.Height != 30 {
		t.Errorf("dimensions: got %dx%d, want 30x30", pair.Width, pair.Height)
	}
}

func TestLoadPair_DimensionMismatch(t *testing.T) {
	leftPath := createTestImage(t, 40, 20, color.White)
	rightPath := createTestImage(t, 41, 20, color.White)

	_, err := LoadPair(NewImageCache(), leftPath, rightPath, PairOptions{})
	if err == nil {
		t.Fatal("LoadPair should fail for pairs of different sizes")
	}
	if !strings.Contains(err.Error(), "dimensions differ") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadPair_Errors(t *testing.T) {
	good := createTestImage(t, 10, 10, color.White)

	tests := []struct {
		name        string
		left, right string
		opts        PairOptions
		wantPrefix  string
	}{
		{"missing left", "/nonexistent/left.png", good, PairOptions{}, "left image"},
		{"missing right", good, "/nonexistent/right.png", PairOptions{}, "right image"},
		{"bad region", good, good, PairOptions{Region: &Region{0, 0, 20, 5}}, "left image"},
		{"bad scale", good, good, PairOptions{Scale: -1}, "left image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPair(NewImageCache(), tt.left, tt.right, tt.opts)
			if err == nil {
				t.Fatal("LoadPair should fail")
			}
			if !strings.HasPrefix(err.Error(), tt.wantPrefix) {
				t.Errorf("error %q does not start with %q", err, tt.wantPrefix)
			}
		})
	}
}

func TestLoadPairInfo(t *testing.T) {
	cache := NewImageCache()
	a := createTestImage(t, 40, 20, color.White)
	b := createTestImage(t, 40, 20, color.Black)
	c := createTestImage(t, 20, 20, color.Black)

	info, err := LoadPairInfo(cache, a, b)
	if err != nil {
		t.Fatalf("LoadPairInfo failed: %v", err)
	}
	if !info.Matchable || info.Reason != "" {
		t.Errorf("equal-size pair: Matchable=%v Reason=%q", info.Matchable, info.Reason)
	}

	info, err = LoadPairInfo(cache, a, c)
	if err != nil {
		t.Fatalf("LoadPairInfo failed: %v", err)
	}
	if info.Matchable {
		t.Error("pairs of different sizes should not be matchable")
	}
	if !strings.Contains(info.Reason, "40x20") {
		t.Errorf("Reason should name the dimensions, got %q", info.Reason)
	}
}
