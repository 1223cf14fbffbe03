package sgm

import (
	"fmt"
	"slices"
	"sync"
)

// medianWindow is the window size of the final smoothing pass.
const medianWindow = 3

// Matcher computes disparity maps for stereo pairs of one fixed size.
//
// The zero value is an uninitialized matcher; call Initialize (or use New)
// before Match.
type Matcher struct {
	mu sync.Mutex

	opts          Options
	width, height int
	initialized   bool

	censusLeft  []uint32
	censusRight []uint32

	costInit volume[uint8]
	paths    []volume[uint8]
	costAggr volume[uint16]

	dispLeft  []float32
	dispRight []float32
	hasRight  bool

	occlusions []Pixel
	mismatches []Pixel

	// scratch for speckle removal and the median filter
	visited []bool
	queue   []int
	scratch []float32
}

// New returns a Matcher initialized for width x height images.
func New(width, height int, opts Options) (*Matcher, error) {
	m := &Matcher{}
	if err := m.Initialize(width, height, opts); err != nil {
		return nil, err
	}
	return m, nil
}

// Initialize validates the configuration and allocates every buffer. On error
// the matcher holds no buffers and stays uninitialized.
func (m *Matcher) Initialize(width, height int, opts Options) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialize(width, height, opts)
}

// Reset releases the current buffers and initializes the matcher again for
// new dimensions or options.
func (m *Matcher) Reset(width, height int, opts Options) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
	return m.initialize(width, height, opts)
}

// Release drops every buffer. The matcher must be initialized again before use.
func (m *Matcher) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

func (m *Matcher) initialize(width, height int, opts Options) error {
	m.release()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, width, height)
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	size := width * height
	dispRange := opts.DisparityRange()

	m.opts = opts
	m.width = width
	m.height = height
	m.censusLeft = make([]uint32, size)
	m.censusRight = make([]uint32, size)
	m.costInit = newVolume[uint8](width, height, dispRange)
	m.costAggr = newVolume[uint16](width, height, dispRange)
	m.paths = make([]volume[uint8], len(directionsFor(opts.NumPaths)))
	for i := range m.paths {
		m.paths[i] = newVolume[uint8](width, height, dispRange)
	}
	m.dispLeft = make([]float32, size)
	m.dispRight = make([]float32, size)
	m.visited = make([]bool, size)
	m.scratch = make([]float32, size)
	m.initialized = true
	return nil
}

// release clears everything but the mutex, which the caller holds.
func (m *Matcher) release() {
	m.opts = Options{}
	m.width, m.height = 0, 0
	m.initialized = false
	m.censusLeft, m.censusRight = nil, nil
	m.costInit = volume[uint8]{}
	m.paths = nil
	m.costAggr = volume[uint16]{}
	m.dispLeft, m.dispRight = nil, nil
	m.hasRight = false
	m.occlusions, m.mismatches = nil, nil
	m.visited, m.queue, m.scratch = nil, nil, nil
}

// Match computes the left disparity map of the pair and copies it into out.
//
// left, right and out must each hold exactly Width()*Height() values. Pixels
// without an estimate are set to Invalid. On error nothing is computed and out
// is left untouched.
func (m *Matcher) Match(left, right []uint8, out []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ErrNotInitialized
	}
	if left == nil || right == nil {
		return ErrNilImage
	}
	size := m.width * m.height
	if len(left) != size || len(right) != size || len(out) != size {
		return fmt.Errorf("%w: want %d pixels, got left=%d right=%d out=%d",
			ErrBufferSize, size, len(left), len(right), len(out))
	}

	workers := m.opts.workers()
	m.occlusions = m.occlusions[:0]
	m.mismatches = m.mismatches[:0]
	m.hasRight = false

	censusTransform5x5(left, m.censusLeft, m.width, m.height, workers)
	censusTransform5x5(right, m.censusRight, m.width, m.height, workers)
	computeCost(m.censusLeft, m.censusRight, m.costInit, m.opts.MinDisparity, workers)
	aggregateCosts(left, m.costInit, m.paths, m.costAggr, m.opts)
	computeDisparityLeft(m.costAggr, m.dispLeft, m.opts)

	if m.opts.CheckLR {
		computeDisparityRight(m.costAggr, m.dispRight, m.opts)
		m.hasRight = true
		m.occlusions, m.mismatches = lrCheck(m.dispLeft, m.dispRight, m.width, m.height,
			m.opts.LRCheckThreshold, m.occlusions, m.mismatches)
	}

	if m.opts.RemoveSpeckles {
		m.queue = removeSpeckles(m.dispLeft, m.width, m.height, speckleDiffThreshold,
			m.opts.MinSpeckleArea, m.visited, m.queue)
	}

	if m.opts.FillHoles {
		fillHoles(m.dispLeft, m.width, m.height, m.occlusions, m.mismatches)
	}

	medianFilter(m.dispLeft, m.scratch, m.width, m.height, medianWindow)
	copy(out, m.dispLeft)
	return nil
}

// Width returns the image width the matcher was initialized for.
func (m *Matcher) Width() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width
}

// Height returns the image height the matcher was initialized for.
func (m *Matcher) Height() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.height
}

// Options returns the configuration the matcher was initialized with.
func (m *Matcher) Options() Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts
}

// Occlusions returns the pixels the last left-right check classified as
// occluded. Empty when the check is disabled.
func (m *Matcher) Occlusions() []Pixel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.occlusions)
}

// Mismatches returns the pixels the last left-right check classified as
// mismatched, including pixels that had no estimate before the check.
func (m *Matcher) Mismatches() []Pixel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.mismatches)
}

// RightDisparity returns a copy of the right-image disparity map of the last
// Match, or nil when the left-right check is disabled.
func (m *Matcher) RightDisparity() []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasRight {
		return nil
	}
	return slices.Clone(m.dispRight)
}
