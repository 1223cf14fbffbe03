package sgm

import (
	"math"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	require.Equal(t, 8, opts.NumPaths)
	require.Equal(t, 0, opts.MinDisparity)
	require.Equal(t, 640, opts.MaxDisparity)
	require.Equal(t, 640, opts.DisparityRange())
	require.True(t, opts.CheckUnique)
	require.InDelta(t, 0.95, opts.UniquenessRatio, 1e-6)
	require.True(t, opts.CheckLR)
	require.InDelta(t, 1.0, opts.LRCheckThreshold, 1e-6)
	require.True(t, opts.RemoveSpeckles)
	require.Equal(t, 20, opts.MinSpeckleArea)
	require.True(t, opts.FillHoles)
	require.Equal(t, 10, opts.P1)
	require.Equal(t, 150, opts.P2Init)
	require.NoError(t, opts.Validate())
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		want   error
	}{
		{"empty range", func(o *Options) { o.MinDisparity, o.MaxDisparity = 10, 10 }, ErrEmptyDisparityRange},
		{"inverted range", func(o *Options) { o.MinDisparity, o.MaxDisparity = 10, 5 }, ErrEmptyDisparityRange},
		{"six paths", func(o *Options) { o.NumPaths = 6 }, ErrInvalidPaths},
		{"zero paths", func(o *Options) { o.NumPaths = 0 }, ErrInvalidPaths},
		{"ratio above one", func(o *Options) { o.UniquenessRatio = 1.5 }, ErrInvalidOption},
		{"negative ratio", func(o *Options) { o.UniquenessRatio = -0.1 }, ErrInvalidOption},
		{"negative lr threshold", func(o *Options) { o.LRCheckThreshold = -1 }, ErrInvalidOption},
		{"negative speckle area", func(o *Options) { o.MinSpeckleArea = -1 }, ErrInvalidOption},
		{"negative p1", func(o *Options) { o.P1 = -1 }, ErrInvalidOption},
		{"negative workers", func(o *Options) { o.Workers = -2 }, ErrInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			require.ErrorIs(t, opts.Validate(), tt.want)
		})
	}
}

func TestOptions_ValidateAcceptsNegativeMin(t *testing.T) {
	opts := DefaultOptions()
	opts.MinDisparity = -16
	opts.MaxDisparity = 16
	opts.NumPaths = 4

	require.NoError(t, opts.Validate())
	require.Equal(t, 32, opts.DisparityRange())
}

func TestOptions_Workers(t *testing.T) {
	opts := DefaultOptions()
	require.Equal(t, runtime.GOMAXPROCS(0), opts.workers())

	opts.Workers = 3
	require.Equal(t, 3, opts.workers())
}

func TestVolumeBytes(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxDisparity = 8

	require.Equal(t, int64(10*10*8*11), VolumeBytes(10, 10, opts))

	opts.NumPaths = 4
	require.Equal(t, int64(10*10*8*7), VolumeBytes(10, 10, opts))

	require.Zero(t, VolumeBytes(0, 10, opts))
	opts.MaxDisparity = opts.MinDisparity
	require.Zero(t, VolumeBytes(10, 10, opts))

	opts.MaxDisparity = math.MaxInt32
	require.Equal(t, int64(math.MaxInt64), VolumeBytes(1<<20, 1<<20, opts))
}

func TestVolumeBytes_MatchesAllocation(t *testing.T) {
	for _, paths := range []int{4, 8} {
		opts := testOptions()
		opts.NumPaths = paths
		m, err := New(13, 9, opts)
		require.NoError(t, err)

		allocated := len(m.costInit.data) + 2*len(m.costAggr.data)
		for _, p := range m.paths {
			allocated += len(p.data)
		}
		require.Equal(t, int64(allocated), VolumeBytes(13, 9, opts), "paths=%d", paths)
	}
}
