package imaging

import (
	"errors"
	"fmt"
	"image"
)

// ErrPairTooLarge is returned when a prepared pair would exceed
// PairOptions.MaxPixels.
var ErrPairTooLarge = errors.New("stereo pair too large")

// PairOptions controls how a stereo pair is prepared for matching. The same
// transforms are applied to both images so that rows stay aligned.
type PairOptions struct {
	// Region crops both images before scaling. Nil keeps the full frame.
	Region *Region

	// Scale resizes both images after cropping. Zero means 1.
	Scale float64

	// BlurRadius is the Gaussian prefilter radius. Zero disables it.
	BlurRadius float64

	// MaxPixels bounds the size of each prepared image, checked before any
	// resampling. Zero means no limit.
	MaxPixels int
}

// Pair is a rectified stereo pair as tightly packed 8-bit grayscale buffers.
type Pair struct {
	Width  int
	Height int
	Left   []uint8
	Right  []uint8
}

// PairInfo describes both inputs of a stereo pair.
type PairInfo struct {
	Left      *ImageInfo `json:"left"`
	Right     *ImageInfo `json:"right"`
	Matchable bool       `json:"matchable"`
	Reason    string     `json:"reason,omitempty"`
}

// LoadPairInfo loads both images and reports whether they can be matched.
func LoadPairInfo(cache *ImageCache, leftPath, rightPath string) (*PairInfo, error) {
	left, err := LoadImageInfo(cache, leftPath)
	if err != nil {
		return nil, fmt.Errorf("left image: %w", err)
	}
	right, err := LoadImageInfo(cache, rightPath)
	if err != nil {
		return nil, fmt.Errorf("right image: %w", err)
	}

	info := &PairInfo{Left: left, Right: right, Matchable: true}
	if left.Width != right.Width || left.Height != right.Height {
		info.Matchable = false
		info.Reason = fmt.Sprintf("dimensions differ: left %dx%d, right %dx%d",
			left.Width, left.Height, right.Width, right.Height)
	}
	return info, nil
}

// LoadPair loads a stereo pair through the cache and prepares it for matching:
// crop, scale, prefilter and grayscale conversion, in that order.
func LoadPair(cache *ImageCache, leftPath, rightPath string, opts PairOptions) (*Pair, error) {
	left, err := cache.Load(leftPath)
	if err != nil {
		return nil, fmt.Errorf("left image: %w", err)
	}
	right, err := cache.Load(rightPath)
	if err != nil {
		return nil, fmt.Errorf("right image: %w", err)
	}
	return PreparePair(left, right, opts)
}

// PreparePair applies opts to an already decoded pair.
func PreparePair(left, right image.Image, opts PairOptions) (*Pair, error) {
	lb, rb := left.Bounds(), right.Bounds()
	if lb.Dx() != rb.Dx() || lb.Dy() != rb.Dy() {
		return nil, fmt.Errorf("stereo pair dimensions differ: left %dx%d, right %dx%d",
			lb.Dx(), lb.Dy(), rb.Dx(), rb.Dy())
	}
	if opts.MaxPixels > 0 {
		w, h := lb.Dx(), lb.Dy()
		if opts.Region != nil {
			w, h = opts.Region.Width(), opts.Region.Height()
		}
		pixels := float64(w) * float64(h)
		if opts.Scale > 0 {
			pixels *= opts.Scale * opts.Scale
		}
		if pixels > float64(opts.MaxPixels) {
			return nil, fmt.Errorf("%w: %.0f pixels per image, limit %d", ErrPairTooLarge, pixels, opts.MaxPixels)
		}
	}

	prepare := func(img image.Image) (*image.Gray, error) {
		if opts.Region != nil {
			cropped, err := Crop(img, *opts.Region)
			if err != nil {
				return nil, err
			}
			img = cropped
		}
		if opts.Scale != 0 {
			scaled, err := Scale(img, opts.Scale)
			if err != nil {
				return nil, err
			}
			img = scaled
		}
		return ToGray(Prefilter(img, opts.BlurRadius)), nil
	}

	lg, err := prepare(left)
	if err != nil {
		return nil, fmt.Errorf("left image: %w", err)
	}
	rg, err := prepare(right)
	if err != nil {
		return nil, fmt.Errorf("right image: %w", err)
	}

	return &Pair{
		Width:  lg.Bounds().Dx(),
		Height: lg.Bounds().Dy(),
		Left:   GrayPixels(lg),
		Right:  GrayPixels(rg),
	}, nil
}
