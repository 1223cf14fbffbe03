package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"
	"testing"

	"golang.org/x/image/bmp"
)

// writeTestImage encodes img as PNG into a temp file and returns its path.
// The file is removed when the test ends.
func writeTestImage(t *testing.T, img image.Image) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	if err := png.Encode(tmpFile, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return tmpFile.Name()
}

// createTestImage creates a solid color image file and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	return writeTestImage(t, createInMemoryImage(width, height, c))
}

func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createGradientImage creates a gray image whose value at (x, y) is (x + 7*y) mod 256.
func createGradientImage(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + 7*y) % 256)})
		}
	}
	return img
}

func TestNewImageCache(t *testing.T) {
	cache := NewImageCache()
	if cache == nil {
		t.Fatal("NewImageCache returned nil")
	}
	if cache.Len() != 0 {
		t.Fatalf("new cache holds %d images, want 0", cache.Len())
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 100, 100, color.RGBA{255, 0, 0, 255})

	img1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	bounds := img1.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x100", bounds.Dx(), bounds.Dy())
	}

	// Second load should return cached image
	img2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
}

func TestImageCache_Load_NonExistent(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load("/nonexistent/path/to/image.png"); err == nil {
		t.Error("Load should fail for non-existent file")
	}
}

func TestImageCache_Load_InvalidImage(t *testing.T) {
	cache := NewImageCache()

	tmpFile, err := os.CreateTemp("", "invalid-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.WriteString("not an image")
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	if _, err := cache.Load(tmpFile.Name()); err == nil {
		t.Error("Load should fail for invalid image data")
	}
}

func TestImageCache_Load_BMP(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "test-image-*.bmp")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())
	if err := bmp.Encode(tmpFile, createGradientImage(12, 8)); err != nil {
		t.Fatalf("failed to encode bmp: %v", err)
	}
	tmpFile.Close()

	info, err := LoadImageInfo(NewImageCache(), tmpFile.Name())
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if info.Format != "bmp" {
		t.Errorf("Format: got %q, want bmp", info.Format)
	}
	if info.Width != 12 || info.Height != 8 {
		t.Errorf("dimensions: got %dx%d, want 12x8", info.Width, info.Height)
	}
}

func TestImageCache_Evict(t *testing.T) {
	cache := NewImageCache()
	path1 := createTestImage(t, 10, 10, color.White)
	path2 := createTestImage(t, 10, 10, color.Black)

	cache.Load(path1)
	cache.Load(path2)
	if cache.Len() != 2 {
		t.Fatalf("cache holds %d images, want 2", cache.Len())
	}

	cache.Evict(path1)
	if cache.Len() != 1 {
		t.Errorf("after Evict: cache holds %d images, want 1", cache.Len())
	}
	cache.Evict("/never/loaded.png")
	if cache.Len() != 1 {
		t.Errorf("evicting an unknown path: cache holds %d images, want 1", cache.Len())
	}

	cache.Evict(path2)
	if cache.Len() != 0 {
		t.Errorf("after evicting both: cache holds %d images, want 0", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.RGBA{0, 0, 255, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(imgPath); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load failed: %v", err)
	}
}

func TestLoadImageInfo(t *testing.T) {
	tests := []struct {
		name         string
		img          image.Image
		wantGray     bool
		wantAlpha    bool
		wantDepth    string
		wantW, wantH int
	}{
		{"rgba", createInMemoryImage(30, 20, color.White), false, true, "8-bit", 30, 20},
		{"gray", createGradientImage(16, 9), true, false, "8-bit", 16, 9},
		{"gray16", image.NewGray16(image.Rect(0, 0, 4, 4)), true, false, "16-bit", 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := LoadImageInfo(NewImageCache(), writeTestImage(t, tt.img))
			if err != nil {
				t.Fatalf("LoadImageInfo failed: %v", err)
			}
			if info.Width != tt.wantW || info.Height != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", info.Width, info.Height, tt.wantW, tt.wantH)
			}
			if info.Format != "png" {
				t.Errorf("Format: got %q, want png", info.Format)
			}
			if info.Grayscale != tt.wantGray {
				t.Errorf("Grayscale: got %v, want %v", info.Grayscale, tt.wantGray)
			}
			if info.HasAlpha != tt.wantAlpha {
				t.Errorf("HasAlpha: got %v, want %v", info.HasAlpha, tt.wantAlpha)
			}
			if info.ColorDepth != tt.wantDepth {
				t.Errorf("ColorDepth: got %q, want %q", info.ColorDepth, tt.wantDepth)
			}
			if info.FileSizeBytes <= 0 {
				t.Errorf("FileSizeBytes: got %d, want > 0", info.FileSizeBytes)
			}
		})
	}
}

func TestGetDimensions(t *testing.T) {
	imgPath := createTestImage(t, 123, 456, color.White)

	result, err := GetDimensions(NewImageCache(), imgPath)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if result.Width != 123 || result.Height != 456 {
		t.Errorf("dimensions: got %dx%d, want 123x456", result.Width, result.Height)
	}

	if _, err := GetDimensions(NewImageCache(), "/nonexistent/image.png"); err == nil {
		t.Error("GetDimensions should fail for non-existent file")
	}
}

func TestToGray(t *testing.T) {
	src := createInMemoryImage(4, 3, color.RGBA{255, 255, 255, 255})

	g := ToGray(src)
	if g.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("bounds: got %v", g.Bounds())
	}
	for _, v := range g.Pix {
		if v != 255 {
			t.Fatalf("white converted to %d, want 255", v)
		}
	}

	gray := createGradientImage(5, 5)
	if ToGray(gray) != gray {
		t.Error("ToGray should return a gray image at the origin unchanged")
	}
}

func TestToGray_OffsetBounds(t *testing.T) {
	gray := createGradientImage(10, 10)
	sub := gray.SubImage(image.Rect(2, 3, 6, 8))

	g := ToGray(sub)
	if g.Bounds() != image.Rect(0, 0, 4, 5) {
		t.Fatalf("bounds: got %v, want (0,0)-(4,5)", g.Bounds())
	}
	if got, want := g.GrayAt(0, 0).Y, gray.GrayAt(2, 3).Y; got != want {
		t.Errorf("origin pixel: got %d, want %d", got, want)
	}
}

func TestGrayPixels_PacksRows(t *testing.T) {
	gray := createGradientImage(10, 10)
	sub := gray.SubImage(image.Rect(0, 0, 4, 2)).(*image.Gray)

	pix := GrayPixels(sub)
	if len(pix) != 8 {
		t.Fatalf("len: got %d, want 8", len(pix))
	}
	if pix[4] != gray.GrayAt(0, 1).Y {
		t.Errorf("second row starts with %d, want %d", pix[4], gray.GrayAt(0, 1).Y)
	}
}
