package sgm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirectionsFor(t *testing.T) {
	require.Len(t, directionsFor(4), 4)
	require.Len(t, directionsFor(8), 8)
	require.Nil(t, directionsFor(6))
	require.Equal(t, axisDirections, directionsFor(8)[:4])
}

func TestDirection_String(t *testing.T) {
	require.Equal(t, "left-to-right", leftToRight.String())
	require.Equal(t, "up-right", upRight.String())
	require.Equal(t, "unknown", direction(42).String())
}

func TestDirection_LinesCoverImage(t *testing.T) {
	sizes := [][2]int{{1, 1}, {5, 3}, {3, 5}, {7, 7}, {16, 9}}

	for _, size := range sizes {
		width, height := size[0], size[1]
		for _, dir := range directionsFor(8) {
			t.Run(fmt.Sprintf("%s/%dx%d", dir, width, height), func(t *testing.T) {
				seen := make([]int, width*height)
				for i := 0; i < dir.lineCount(width, height); i++ {
					l := dir.line(i, width, height)
					row, col := l.row, l.col
					for k := 0; k < l.length; k++ {
						if k > 0 {
							row, col = l.next(row, col, width)
						}
						require.True(t, row >= 0 && row < height && col >= 0 && col < width,
							"line %d left the image at (%d,%d)", i, row, col)
						seen[row*width+col]++
					}
				}
				for idx, n := range seen {
					require.Equal(t, 1, n, "pixel %d visited %d times", idx, n)
				}
			})
		}
	}
}

func TestScanLine_NextWraps(t *testing.T) {
	const width = 6

	l := downRight.line(0, width, 4)
	row, col := l.next(1, width-1, width)
	require.Equal(t, 2, row)
	require.Equal(t, 0, col)

	l = upLeft.line(0, width, 4)
	row, col = l.next(3, 0, width)
	require.Equal(t, 2, row)
	require.Equal(t, width-1, col)

	l = leftToRight.line(2, width, 4)
	row, col = l.next(2, 3, width)
	require.Equal(t, 2, row)
	require.Equal(t, 4, col)
}
