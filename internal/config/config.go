package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ironsheep/stereo-tools-mcp/internal/imaging"
	"github.com/ironsheep/stereo-tools-mcp/internal/sgm"
)

// Environment variables read by FromEnv.
const (
	EnvLogLevel = "STEREO_MCP_LOG_LEVEL"
	EnvConfig   = "STEREO_MCP_CONFIG"
)

// Log levels, from most to least verbose.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var levelRank = map[string]int{LevelDebug: 0, LevelInfo: 1, LevelWarn: 2, LevelError: 3}

// DefaultMaxDisparity is a search range suited to typical rectified pairs of a
// few hundred pixels across.
const DefaultMaxDisparity = 64

// Config holds the matcher settings and the input/output processing around it.
type Config struct {
	Matcher   sgm.Options `json:"matcher"`
	Prefilter Prefilter   `json:"prefilter"`
	Render    Render      `json:"render"`

	// LogLevel is "debug", "info", "warn" or "error".
	LogLevel string `json:"log_level"`
}

// Prefilter settings applied to both inputs before matching.
type Prefilter struct {
	BlurRadius float64 `json:"blur_radius"`
	Scale      float64 `json:"scale"`
}

// Render settings for disparity output.
type Render struct {
	Colormap string `json:"colormap"`
	Format   string `json:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	opts := sgm.DefaultOptions()
	opts.MaxDisparity = DefaultMaxDisparity
	return Config{
		Matcher:   opts,
		Prefilter: Prefilter{Scale: 1},
		Render: Render{
			Colormap: string(imaging.ColormapJet),
			Format:   string(imaging.FormatPNG),
		},
		LogLevel: LevelInfo,
	}
}

// Load reads a JSON config file. Fields not set in the file keep the values
// from Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv loads the file named by STEREO_MCP_CONFIG (or Default when unset) and
// applies STEREO_MCP_LOG_LEVEL on top.
func FromEnv() (Config, error) {
	cfg := Default()
	if path := os.Getenv(EnvConfig); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings. Nil fields
// were not given on the command line.
type Flags struct {
	NumPaths         *int
	MinDisparity     *int
	MaxDisparity     *int
	P1               *int
	P2Init           *int
	CheckUnique      *bool
	UniquenessRatio  *float64
	CheckLR          *bool
	LRCheckThreshold *float64
	RemoveSpeckles   *bool
	MinSpeckleArea   *int
	FillHoles        *bool
	Workers          *int

	BlurRadius *float64
	Scale      *float64
	Colormap   *string
	Format     *string
	LogLevel   *string
}

// Resolve applies the flags that were set. CLI flags take priority over the
// config file.
func (c *Config) Resolve(flags Flags) {
	setInt(&c.Matcher.NumPaths, flags.NumPaths)
	setInt(&c.Matcher.MinDisparity, flags.MinDisparity)
	setInt(&c.Matcher.MaxDisparity, flags.MaxDisparity)
	setInt(&c.Matcher.P1, flags.P1)
	setInt(&c.Matcher.P2Init, flags.P2Init)
	setBool(&c.Matcher.CheckUnique, flags.CheckUnique)
	setFloat32(&c.Matcher.UniquenessRatio, flags.UniquenessRatio)
	setBool(&c.Matcher.CheckLR, flags.CheckLR)
	setFloat32(&c.Matcher.LRCheckThreshold, flags.LRCheckThreshold)
	setBool(&c.Matcher.RemoveSpeckles, flags.RemoveSpeckles)
	setInt(&c.Matcher.MinSpeckleArea, flags.MinSpeckleArea)
	setBool(&c.Matcher.FillHoles, flags.FillHoles)
	setInt(&c.Matcher.Workers, flags.Workers)

	if flags.BlurRadius != nil {
		c.Prefilter.BlurRadius = *flags.BlurRadius
	}
	if flags.Scale != nil {
		c.Prefilter.Scale = *flags.Scale
	}
	if flags.Colormap != nil {
		c.Render.Colormap = *flags.Colormap
	}
	if flags.Format != nil {
		c.Render.Format = *flags.Format
	}
	if flags.LogLevel != nil {
		c.LogLevel = strings.ToLower(*flags.LogLevel)
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setFloat32(dst *float32, v *float64) {
	if v != nil {
		*dst = float32(*v)
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if err := c.Matcher.Validate(); err != nil {
		return fmt.Errorf("config: matcher: %w", err)
	}
	if c.Prefilter.BlurRadius < 0 {
		return fmt.Errorf("config: negative blur radius %g", c.Prefilter.BlurRadius)
	}
	if c.Prefilter.Scale <= 0 {
		return fmt.Errorf("config: scale must be positive, got %g", c.Prefilter.Scale)
	}
	if _, err := imaging.ParseColormap(c.Render.Colormap); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := imaging.ParseFormat(c.Render.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, ok := levelRank[c.LogLevel]; !ok {
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return nil
}

// PairOptions returns the input preparation settings for imaging.LoadPair.
func (c Config) PairOptions() imaging.PairOptions {
	return imaging.PairOptions{
		Scale:      c.Prefilter.Scale,
		BlurRadius: c.Prefilter.BlurRadius,
	}
}

// Logs reports whether messages at level are written under the configured
// log level. An unknown level is never written.
func (c Config) Logs(level string) bool {
	want, ok := levelRank[level]
	if !ok {
		return false
	}
	have, ok := levelRank[c.LogLevel]
	return ok && want >= have
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return c.Logs(LevelDebug)
}
