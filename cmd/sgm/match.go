package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/stereo-tools-mcp/internal/config"
	"github.com/ironsheep/stereo-tools-mcp/internal/imaging"
	"github.com/ironsheep/stereo-tools-mcp/internal/sgm"
)

type matchFlags struct {
	left, right string
	out, raw    string
	configFile  string
	region      string
	stats       bool
	grid        imaging.Grid
}

func newMatchCmd() *cobra.Command {
	var mf matchFlags

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Compute the disparity map of a stereo pair",
		Long: `Compute the disparity map of a rectified stereo pair.

Left pixel (x, y) with disparity d matches right pixel (x-d, y). Settings are
taken from --config (or the built-in defaults) and overridden by flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMatch(cmd, mf)
		},
	}

	f := cmd.Flags()
	f.StringVar(&mf.left, "left", "", "left image path")
	f.StringVar(&mf.right, "right", "", "right image path")
	f.StringVar(&mf.out, "out", "", "write the rendered disparity image here")
	f.StringVar(&mf.raw, "raw", "", "write the disparity map as little-endian float32 values (invalid pixels are +Inf)")
	f.StringVar(&mf.configFile, "config", "", "path to a JSON config file")
	f.StringVar(&mf.region, "region", "", "match only this region of both images: x1,y1,x2,y2")
	f.BoolVar(&mf.stats, "stats", false, "print disparity statistics as JSON on stdout")
	f.IntVar(&mf.grid.Spacing, "grid", 0, "draw a coordinate grid with this spacing on --out (0 = off)")
	f.BoolVar(&mf.grid.Labels, "grid-labels", true, "label grid crossings with their coordinates")
	f.StringVar(&mf.grid.Color, "grid-color", imaging.DefaultGridColor, "grid line color as #rrggbb")

	defaults := config.Default()
	f.Int("paths", defaults.Matcher.NumPaths, "aggregation directions (4 or 8)")
	f.Int("min-disparity", defaults.Matcher.MinDisparity, "smallest disparity searched")
	f.Int("max-disparity", defaults.Matcher.MaxDisparity, "search bound, exclusive")
	f.Int("p1", defaults.Matcher.P1, "penalty for one-pixel disparity changes")
	f.Int("p2", defaults.Matcher.P2Init, "base penalty for larger disparity jumps")
	f.Bool("check-unique", defaults.Matcher.CheckUnique, "reject ambiguous minima")
	f.Float64("uniqueness", float64(defaults.Matcher.UniquenessRatio), "uniqueness ratio in [0, 1]")
	f.Bool("check-lr", defaults.Matcher.CheckLR, "left-right consistency check")
	f.Float64("lr-threshold", float64(defaults.Matcher.LRCheckThreshold), "maximum left-right disagreement in pixels")
	f.Bool("remove-speckles", defaults.Matcher.RemoveSpeckles, "invalidate small disparity islands")
	f.Int("min-speckle-area", defaults.Matcher.MinSpeckleArea, "smallest region kept by speckle removal")
	f.Bool("fill-holes", defaults.Matcher.FillHoles, "inpaint invalid pixels")
	f.Int("workers", 0, "worker goroutines (default: GOMAXPROCS)")
	f.Float64("blur", defaults.Prefilter.BlurRadius, "Gaussian prefilter radius (0 = off)")
	f.Float64("scale", defaults.Prefilter.Scale, "scale factor applied to both images")
	f.String("colormap", defaults.Render.Colormap, "colormap for --out: gray, jet or viridis")
	f.String("format", defaults.Render.Format, "image format for --out: png or webp")
	f.String("log-level", defaults.LogLevel, "debug, info, warn or error")

	_ = cmd.MarkFlagRequired("left")
	_ = cmd.MarkFlagRequired("right")
	return cmd
}

// changedFlags collects the settings given on the command line. Flags left at
// their default do not override the config file.
func changedFlags(cmd *cobra.Command) config.Flags {
	f := cmd.Flags()
	intFlag := func(name string) *int {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetInt(name)
		return &v
	}
	boolFlag := func(name string) *bool {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetBool(name)
		return &v
	}
	floatFlag := func(name string) *float64 {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetFloat64(name)
		return &v
	}
	stringFlag := func(name string) *string {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetString(name)
		return &v
	}

	return config.Flags{
		NumPaths:         intFlag("paths"),
		MinDisparity:     intFlag("min-disparity"),
		MaxDisparity:     intFlag("max-disparity"),
		P1:               intFlag("p1"),
		P2Init:           intFlag("p2"),
		CheckUnique:      boolFlag("check-unique"),
		UniquenessRatio:  floatFlag("uniqueness"),
		CheckLR:          boolFlag("check-lr"),
		LRCheckThreshold: floatFlag("lr-threshold"),
		RemoveSpeckles:   boolFlag("remove-speckles"),
		MinSpeckleArea:   intFlag("min-speckle-area"),
		FillHoles:        boolFlag("fill-holes"),
		Workers:          intFlag("workers"),
		BlurRadius:       floatFlag("blur"),
		Scale:            floatFlag("scale"),
		Colormap:         stringFlag("colormap"),
		Format:           stringFlag("format"),
		LogLevel:         stringFlag("log-level"),
	}
}

func parseRegion(s string) (*imaging.Region, error) {
	if s == "" {
		return nil, nil
	}
	var r imaging.Region
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &r.X1, &r.Y1, &r.X2, &r.Y2); err != nil {
		return nil, fmt.Errorf("invalid --region %q: want x1,y1,x2,y2", s)
	}
	return &r, nil
}

func runMatch(cmd *cobra.Command, mf matchFlags) error {
	cfg := config.Default()
	if mf.configFile != "" {
		var err error
		if cfg, err = config.Load(mf.configFile); err != nil {
			return err
		}
	}
	cfg.Resolve(changedFlags(cmd))
	if err := cfg.Validate(); err != nil {
		return err
	}

	region, err := parseRegion(mf.region)
	if err != nil {
		return err
	}
	if err := mf.grid.Validate(); err != nil {
		return err
	}
	pairOpts := cfg.PairOptions()
	pairOpts.Region = region

	pair, err := imaging.LoadPair(imaging.NewImageCache(), mf.left, mf.right, pairOpts)
	if err != nil {
		return err
	}

	matcher, err := sgm.New(pair.Width, pair.Height, cfg.Matcher)
	if err != nil {
		return err
	}
	defer matcher.Release()

	start := time.Now()
	disp := make([]float32, pair.Width*pair.Height)
	if err := matcher.Match(pair.Left, pair.Right, disp); err != nil {
		return err
	}
	if cfg.Logs(config.LevelInfo) {
		log.Printf("matched %dx%d range [%d,%d) paths=%d in %s: %d occlusions, %d mismatches",
			pair.Width, pair.Height, cfg.Matcher.MinDisparity, cfg.Matcher.MaxDisparity,
			cfg.Matcher.NumPaths, time.Since(start), len(matcher.Occlusions()), len(matcher.Mismatches()))
	}

	if mf.out != "" {
		if err := writeRendered(mf.out, disp, pair, cfg, mf.grid); err != nil {
			return err
		}
	}
	if mf.raw != "" {
		if err := writeRaw(mf.raw, disp); err != nil {
			return err
		}
	}
	if mf.stats {
		stats, err := imaging.ComputeDisparityStats(disp, pair.Width, pair.Height, nil)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	return nil
}

func writeRendered(path string, disp []float32, pair *imaging.Pair, cfg config.Config, grid imaging.Grid) error {
	cm, err := imaging.ParseColormap(cfg.Render.Colormap)
	if err != nil {
		return err
	}
	format, err := imaging.ParseFormat(cfg.Render.Format)
	if err != nil {
		return err
	}
	img, _, _, err := imaging.RenderDisparity(disp, pair.Width, pair.Height, imaging.RenderOptions{Colormap: cm, Grid: grid})
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := imaging.Encode(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

func writeRaw(path string, disp []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, disp); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
