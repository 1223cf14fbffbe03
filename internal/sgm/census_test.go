package sgm

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomImage(rng *rand.Rand, width, height int) []uint8 {
	img := make([]uint8, width*height)
	for i := range img {
		img[i] = uint8(rng.Intn(256))
	}
	return img
}

func TestCensusTransform5x5_BrightCentre(t *testing.T) {
	img := make([]uint8, 5*5)
	img[2*5+2] = 200
	dst := make([]uint32, 5*5)

	censusTransform5x5(img, dst, 5, 5, 1)

	// every neighbour is darker; the centre bit (position 12 from the top) is never set
	want := uint32(1<<25-1) &^ (1 << 12)
	require.Equal(t, want, dst[2*5+2])
}

func TestCensusTransform5x5_DarkCentre(t *testing.T) {
	img := make([]uint8, 5*5)
	for i := range img {
		img[i] = 100
	}
	img[2*5+2] = 10
	dst := make([]uint32, 5*5)

	censusTransform5x5(img, dst, 5, 5, 1)

	require.Zero(t, dst[2*5+2])
}

func TestCensusTransform5x5_BitOrder(t *testing.T) {
	img := make([]uint8, 5*5)
	for i := range img {
		img[i] = 100
	}
	img[0] = 0 // top-left of the window is the most significant bit
	img[24] = 0
	dst := make([]uint32, 5*5)

	censusTransform5x5(img, dst, 5, 5, 1)

	require.Equal(t, uint32(1<<24|1), dst[12])
}

func TestCensusTransform5x5_BorderUntouched(t *testing.T) {
	const width, height = 9, 7
	rng := rand.New(rand.NewSource(7))
	img := randomImage(rng, width, height)

	const marker = 0xDEADBEEF
	dst := make([]uint32, width*height)
	for i := range dst {
		dst[i] = marker
	}

	censusTransform5x5(img, dst, width, height, 2)

	for i := 0; i < height; i++ {
		for j := 0; j < width; j++ {
			border := i < 2 || i >= height-2 || j < 2 || j >= width-2
			if border {
				require.Equal(t, uint32(marker), dst[i*width+j], "pixel (%d,%d)", i, j)
			} else {
				require.Less(t, dst[i*width+j], uint32(1<<25), "pixel (%d,%d)", i, j)
			}
		}
	}
}

func TestCensusTransform5x5_TooSmall(t *testing.T) {
	img := make([]uint8, 4*4)
	img[5] = 255
	dst := make([]uint32, 4*4)

	censusTransform5x5(img, dst, 4, 4, 1)

	require.Equal(t, make([]uint32, 4*4), dst)
}

func TestCensusTransform5x5_WorkersAgree(t *testing.T) {
	const width, height = 41, 29
	rng := rand.New(rand.NewSource(3))
	img := randomImage(rng, width, height)

	single := make([]uint32, width*height)
	multi := make([]uint32, width*height)
	censusTransform5x5(img, single, width, height, 1)
	censusTransform5x5(img, multi, width, height, 6)

	require.Equal(t, single, multi)
}
