package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"

	"github.com/ironsheep/stereo-tools-mcp/internal/sgm"
)

// Format is an output encoding for rendered disparity maps.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// ParseFormat returns the format named s. The empty string selects PNG.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatPNG:
		return FormatPNG, nil
	case FormatWebP:
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: png, webp)", s)
	}
}

// MimeType returns the media type of the encoding.
func (f Format) MimeType() string {
	if f == FormatWebP {
		return "image/webp"
	}
	return "image/png"
}

// Encode writes img to w in format f. WebP output is lossless.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("failed to encode webp: %w", err)
		}
	default:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("failed to encode png: %w", err)
		}
	}
	return nil
}

// RenderOptions controls how disparities map to colors.
type RenderOptions struct {
	Colormap Colormap

	// Min and Max bound the displayed range. When Max <= Min the range is taken
	// from the 2nd and 98th percentiles of the valid pixels.
	Min float64
	Max float64

	// Grid is drawn over the colored map when its spacing is positive.
	Grid Grid
}

// invalidColor is drawn for pixels without a disparity.
var invalidColor = color.NRGBA{A: 255}

// RenderDisparity draws a disparity map. Nearer surfaces (larger disparities)
// get the high end of the colormap; invalid pixels are black. It returns the
// image and the range that was used.
func RenderDisparity(disp []float32, width, height int, opts RenderOptions) (*image.NRGBA, float64, float64, error) {
	if width <= 0 || height <= 0 || len(disp) != width*height {
		return nil, 0, 0, fmt.Errorf("disparity map has %d values, want %dx%d", len(disp), width, height)
	}

	lo, hi := opts.Min, opts.Max
	if hi <= lo {
		var ok bool
		lo, hi, ok = percentileRange(disp, width, height, 0.02, 0.98)
		if !ok {
			lo, hi = 0, 1
		}
		if hi <= lo {
			hi = lo + 1
		}
	}

	cm := opts.Colormap
	if cm == "" {
		cm = ColormapJet
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	span := hi - lo
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := disp[y*width+x]
			if !sgm.IsValid(d) {
				img.SetNRGBA(x, y, invalidColor)
				continue
			}
			img.SetNRGBA(x, y, cm.At((float64(d)-lo)/span))
		}
	}
	if err := DrawGrid(img, opts.Grid); err != nil {
		return nil, 0, 0, err
	}
	return img, lo, hi, nil
}

// DisparityResult is a rendered disparity map ready for transport.
type DisparityResult struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Colormap    string  `json:"colormap"`
	RangeMin    float64 `json:"range_min"`
	RangeMax    float64 `json:"range_max"`
	GridSpacing int     `json:"grid_spacing,omitempty"`
	ImageBase64 string  `json:"image_base64"`
	MimeType    string  `json:"mime_type"`
}

// EncodeDisparity renders disp and encodes it as base64 in format f.
func EncodeDisparity(disp []float32, width, height int, opts RenderOptions, f Format) (*DisparityResult, error) {
	img, lo, hi, err := RenderDisparity(disp, width, height, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return nil, err
	}

	cm := opts.Colormap
	if cm == "" {
		cm = ColormapJet
	}
	return &DisparityResult{
		Width:       width,
		Height:      height,
		Colormap:    string(cm),
		RangeMin:    lo,
		RangeMax:    hi,
		GridSpacing: opts.Grid.Spacing,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    f.MimeType(),
	}, nil
}
