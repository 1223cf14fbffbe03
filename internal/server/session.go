package server

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ironsheep/stereo-tools-mcp/internal/imaging"
	"github.com/ironsheep/stereo-tools-mcp/internal/sgm"
)

// defaultResultLimit bounds how many disparity maps the server keeps for
// follow-up calls. The oldest is dropped first.
const defaultResultLimit = 16

// defaultMaxVolumeBytes bounds the cost volumes of one match, see
// sgm.VolumeBytes.
const defaultMaxVolumeBytes int64 = 2 << 30

// maxPairPixels bounds each prepared input image.
const maxPairPixels = 1 << 24

var errVolumeTooLarge = errors.New("cost volume too large")

// storedResult is a finished match kept for stereo_sample_disparity and
// stereo_disparity_stats.
type storedResult struct {
	ID        string
	Left      string
	Right     string
	Width     int
	Height    int
	Options   sgm.Options
	Disparity []float32
}

// matchOutcome is what one matcher run produced.
type matchOutcome struct {
	Disparity  []float32
	Occlusions int
	Mismatches int
	// Reused is true when the matcher buffers from the previous call were kept.
	Reused bool
}

// matchSession owns the server's single matcher and the result store.
//
// The matcher's buffers scale with width*height*disparity range, so one
// instance is kept and only reset when the pair size or options change.
type matchSession struct {
	mu             sync.Mutex
	matcher        *sgm.Matcher
	maxVolumeBytes int64

	results map[string]*storedResult
	order   []string
	limit   int
	nextID  int
}

func newMatchSession(limit int, maxVolumeBytes int64) *matchSession {
	return &matchSession{
		maxVolumeBytes: maxVolumeBytes,
		results:        make(map[string]*storedResult),
		limit:          max(1, limit),
	}
}

// match runs the matcher on pair with opts. Pairs whose cost volumes would
// exceed maxVolumeBytes are rejected before anything is allocated.
func (m *matchSession) match(pair *imaging.Pair, opts sgm.Options) (*matchOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if need := sgm.VolumeBytes(pair.Width, pair.Height, opts); need > m.maxVolumeBytes {
		return nil, fmt.Errorf("%w: %dx%d with %d disparities and %d paths needs %d bytes, limit %d",
			errVolumeTooLarge, pair.Width, pair.Height, opts.DisparityRange(), opts.NumPaths, need, m.maxVolumeBytes)
	}

	reused := false
	switch {
	case m.matcher == nil:
		matcher, err := sgm.New(pair.Width, pair.Height, opts)
		if err != nil {
			return nil, err
		}
		m.matcher = matcher
	case m.matcher.Width() != pair.Width || m.matcher.Height() != pair.Height || m.matcher.Options() != opts:
		if err := m.matcher.Reset(pair.Width, pair.Height, opts); err != nil {
			m.matcher = nil
			return nil, err
		}
	default:
		reused = true
	}

	disp := make([]float32, pair.Width*pair.Height)
	if err := m.matcher.Match(pair.Left, pair.Right, disp); err != nil {
		return nil, err
	}
	return &matchOutcome{
		Disparity:  disp,
		Occlusions: len(m.matcher.Occlusions()),
		Mismatches: len(m.matcher.Mismatches()),
		Reused:     reused,
	}, nil
}

// store keeps r under a fresh id and returns it, evicting the oldest result
// when the store is full. released lists the input paths of evicted results
// that no remaining result refers to.
func (m *matchSession) store(r *storedResult) (id string, released []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	r.ID = fmt.Sprintf("match-%d", m.nextID)
	m.results[r.ID] = r
	m.order = append(m.order, r.ID)

	var dropped []string
	for len(m.order) > m.limit {
		old := m.results[m.order[0]]
		dropped = append(dropped, old.Left, old.Right)
		delete(m.results, old.ID)
		m.order = slices.Delete(m.order, 0, 1)
	}
	for _, path := range dropped {
		if !slices.Contains(released, path) && !m.inUse(path) {
			released = append(released, path)
		}
	}
	return r.ID, released
}

func (m *matchSession) inUse(path string) bool {
	for _, r := range m.results {
		if r.Left == path || r.Right == path {
			return true
		}
	}
	return false
}

// get returns the result stored under id.
func (m *matchSession) get(id string) (*storedResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.results[id]
	if !ok {
		return nil, fmt.Errorf("unknown result_id %q (results expire after %d newer matches)", id, m.limit)
	}
	return r, nil
}

// ids lists the stored result ids, oldest first.
func (m *matchSession) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.order)
}
