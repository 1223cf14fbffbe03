package sgm

// direction is one of the eight aggregation scan directions.
type direction int

const (
	leftToRight direction = iota
	rightToLeft
	topToBottom
	bottomToTop
	downRight
	upLeft
	downLeft
	upRight
)

// axisDirections are aggregated for both 4 and 8 paths; diagonalDirections only for 8.
var (
	axisDirections     = []direction{leftToRight, rightToLeft, topToBottom, bottomToTop}
	diagonalDirections = []direction{downRight, upLeft, downLeft, upRight}
)

func (d direction) String() string {
	switch d {
	case leftToRight:
		return "left-to-right"
	case rightToLeft:
		return "right-to-left"
	case topToBottom:
		return "top-to-bottom"
	case bottomToTop:
		return "bottom-to-top"
	case downRight:
		return "down-right"
	case upLeft:
		return "up-left"
	case downLeft:
		return "down-left"
	case upRight:
		return "up-right"
	default:
		return "unknown"
	}
}

// directionsFor returns the directions aggregated for the given path count.
func directionsFor(numPaths int) []direction {
	switch numPaths {
	case 4:
		return axisDirections
	case 8:
		dirs := make([]direction, 0, 8)
		dirs = append(dirs, axisDirections...)
		return append(dirs, diagonalDirections...)
	default:
		return nil
	}
}

// scanLine is one walk through the image. Every direction partitions the image
// into scan lines that together visit each pixel exactly once.
type scanLine struct {
	row, col int // first pixel
	dr, dc   int // step
	length   int // pixels visited
}

// lineCount returns how many scan lines the direction has.
func (d direction) lineCount(width, height int) int {
	switch d {
	case leftToRight, rightToLeft:
		return height
	default:
		return width
	}
}

// line returns the i-th scan line of the direction.
//
// Diagonal lines start on the top row (forward) or bottom row (reverse), one per
// column, and are height pixels long; next wraps them horizontally.
func (d direction) line(i, width, height int) scanLine {
	switch d {
	case leftToRight:
		return scanLine{row: i, col: 0, dr: 0, dc: 1, length: width}
	case rightToLeft:
		return scanLine{row: i, col: width - 1, dr: 0, dc: -1, length: width}
	case topToBottom:
		return scanLine{row: 0, col: i, dr: 1, dc: 0, length: height}
	case bottomToTop:
		return scanLine{row: height - 1, col: i, dr: -1, dc: 0, length: height}
	case downRight:
		return scanLine{row: 0, col: i, dr: 1, dc: 1, length: height}
	case upLeft:
		return scanLine{row: height - 1, col: i, dr: -1, dc: -1, length: height}
	case downLeft:
		return scanLine{row: 0, col: i, dr: 1, dc: -1, length: height}
	case upRight:
		return scanLine{row: height - 1, col: i, dr: -1, dc: 1, length: height}
	}
	return scanLine{}
}

// next advances (row, col) one step along l. A step past the left or right edge
// turns to the opposite edge on the next row, so a diagonal leaving (r, width-1)
// down-right continues at (r+1, 0).
func (l scanLine) next(row, col, width int) (int, int) {
	row += l.dr
	col += l.dc
	if col < 0 {
		col = width - 1
	} else if col >= width {
		col = 0
	}
	return row, col
}
