package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ironsheep/stereo-tools-mcp/internal/config"
	"github.com/ironsheep/stereo-tools-mcp/internal/imaging"
	"github.com/ironsheep/stereo-tools-mcp/internal/sgm"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "stereo_match").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// argumentError marks a tool failure caused by the caller's arguments.
type argumentError struct {
	err error
}

func (e *argumentError) Error() string { return e.err.Error() }
func (e *argumentError) Unwrap() error { return e.err }

func invalidArgs(err error) error {
	return &argumentError{err: err}
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument errors return code -32602; other tool failures return -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		var argErr *argumentError
		if errors.As(err, &argErr) {
			return s.errorResponse(req.ID, -32602, "Invalid arguments", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Input Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "stereo_pair_info":
		return s.handleStereoPairInfo(args)

	// Matching
	case "stereo_match":
		return s.handleStereoMatch(args)

	// Result Inspection
	case "stereo_sample_disparity":
		return s.handleStereoSampleDisparity(args)
	case "stereo_disparity_stats":
		return s.handleStereoDisparityStats(args)
	case "stereo_render_disparity":
		return s.handleStereoRenderDisparity(args)

	default:
		return nil, invalidArgs(fmt.Errorf("unknown tool: %s", name))
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments, reporting failures as argument errors.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return invalidArgs(err)
	}
	return nil
}

// === Input Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type stereoPairArgs struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

func (a stereoPairArgs) validate() error {
	if a.Left == "" || a.Right == "" {
		return invalidArgs(errors.New("both left and right image paths are required"))
	}
	return nil
}

func (s *Server) handleStereoPairInfo(args json.RawMessage) (interface{}, error) {
	var a stereoPairArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return imaging.LoadPairInfo(s.cache, a.Left, a.Right)
}

// === Matching Handler ===

// matchOptionArgs are per-call overrides of the server's matcher settings.
// Omitted fields keep the configured value.
type matchOptionArgs struct {
	NumPaths         *int     `json:"num_paths"`
	MinDisparity     *int     `json:"min_disparity"`
	MaxDisparity     *int     `json:"max_disparity"`
	P1               *int     `json:"p1"`
	P2Init           *int     `json:"p2_init"`
	CheckUnique      *bool    `json:"check_unique"`
	UniquenessRatio  *float64 `json:"uniqueness_ratio"`
	CheckLR          *bool    `json:"check_lr"`
	LRCheckThreshold *float64 `json:"lr_check_threshold"`
	RemoveSpeckles   *bool    `json:"remove_speckles"`
	MinSpeckleArea   *int     `json:"min_speckle_area"`
	FillHoles        *bool    `json:"fill_holes"`
}

type stereoMatchArgs struct {
	stereoPairArgs
	matchOptionArgs

	Region     *imaging.Region `json:"region"`
	Scale      *float64        `json:"scale"`
	BlurRadius *float64        `json:"blur_radius"`

	renderArgs

	// IncludeImage defaults to true.
	IncludeImage *bool `json:"include_image"`
}

type renderArgs struct {
	Colormap *string  `json:"colormap"`
	Format   *string  `json:"format"`
	RangeMin *float64 `json:"range_min"`
	RangeMax *float64 `json:"range_max"`

	GridSpacing *int    `json:"grid_spacing"`
	GridLabels  *bool   `json:"grid_labels"`
	GridColor   *string `json:"grid_color"`
}

// resolveConfig layers the call's arguments over the server configuration.
func (s *Server) resolveConfig(o matchOptionArgs, scale, blur *float64, r renderArgs) (config.Config, error) {
	cfg := s.cfg
	cfg.Resolve(config.Flags{
		NumPaths:         o.NumPaths,
		MinDisparity:     o.MinDisparity,
		MaxDisparity:     o.MaxDisparity,
		P1:               o.P1,
		P2Init:           o.P2Init,
		CheckUnique:      o.CheckUnique,
		UniquenessRatio:  o.UniquenessRatio,
		CheckLR:          o.CheckLR,
		LRCheckThreshold: o.LRCheckThreshold,
		RemoveSpeckles:   o.RemoveSpeckles,
		MinSpeckleArea:   o.MinSpeckleArea,
		FillHoles:        o.FillHoles,
		BlurRadius:       blur,
		Scale:            scale,
		Colormap:         r.Colormap,
		Format:           r.Format,
	})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, invalidArgs(err)
	}
	return cfg, nil
}

// renderOptions builds the rendering settings of a call.
func renderOptions(cfg config.Config, r renderArgs) (imaging.RenderOptions, imaging.Format, error) {
	cm, err := imaging.ParseColormap(cfg.Render.Colormap)
	if err != nil {
		return imaging.RenderOptions{}, "", invalidArgs(err)
	}
	format, err := imaging.ParseFormat(cfg.Render.Format)
	if err != nil {
		return imaging.RenderOptions{}, "", invalidArgs(err)
	}
	opts := imaging.RenderOptions{Colormap: cm}
	if (r.RangeMin == nil) != (r.RangeMax == nil) {
		return imaging.RenderOptions{}, "", invalidArgs(errors.New("range_min and range_max must be given together"))
	}
	if r.RangeMin != nil {
		if *r.RangeMax <= *r.RangeMin {
			return imaging.RenderOptions{}, "", invalidArgs(fmt.Errorf("range_max (%g) must exceed range_min (%g)", *r.RangeMax, *r.RangeMin))
		}
		opts.Min, opts.Max = *r.RangeMin, *r.RangeMax
	}
	if r.GridSpacing != nil {
		opts.Grid.Spacing = *r.GridSpacing
		opts.Grid.Labels = r.GridLabels == nil || *r.GridLabels
		if r.GridColor != nil {
			opts.Grid.Color = *r.GridColor
		}
		if err := opts.Grid.Validate(); err != nil {
			return imaging.RenderOptions{}, "", invalidArgs(err)
		}
	}
	return opts, format, nil
}

// StereoMatchResult is the response of stereo_match.
type StereoMatchResult struct {
	ResultID   string                   `json:"result_id"`
	Width      int                      `json:"width"`
	Height     int                      `json:"height"`
	Options    sgm.Options              `json:"options"`
	Stats      *imaging.DisparityStats  `json:"stats"`
	Occlusions int                      `json:"occlusions"`
	Mismatches int                      `json:"mismatches"`
	ElapsedMs  int64                    `json:"elapsed_ms"`
	Image      *imaging.DisparityResult `json:"image,omitempty"`
}

func (s *Server) handleStereoMatch(args json.RawMessage) (interface{}, error) {
	var a stereoMatchArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}

	cfg, err := s.resolveConfig(a.matchOptionArgs, a.Scale, a.BlurRadius, a.renderArgs)
	if err != nil {
		return nil, err
	}
	renderOpts, format, err := renderOptions(cfg, a.renderArgs)
	if err != nil {
		return nil, err
	}

	pairOpts := cfg.PairOptions()
	pairOpts.Region = a.Region
	pairOpts.MaxPixels = maxPairPixels
	pair, err := imaging.LoadPair(s.cache, a.Left, a.Right, pairOpts)
	if err != nil {
		if errors.Is(err, imaging.ErrPairTooLarge) {
			return nil, invalidArgs(err)
		}
		return nil, err
	}

	start := time.Now()
	outcome, err := s.session.match(pair, cfg.Matcher)
	if err != nil {
		if errors.Is(err, sgm.ErrInvalidDimensions) || errors.Is(err, sgm.ErrEmptyDisparityRange) ||
			errors.Is(err, sgm.ErrInvalidPaths) || errors.Is(err, sgm.ErrInvalidOption) ||
			errors.Is(err, errVolumeTooLarge) {
			return nil, invalidArgs(err)
		}
		return nil, fmt.Errorf("stereo match failed: %w", err)
	}
	elapsed := time.Since(start)
	if s.cfg.Logs(config.LevelInfo) {
		log.Printf("stereo_match %dx%d range [%d,%d) paths=%d in %s (buffers reused: %v)",
			pair.Width, pair.Height, cfg.Matcher.MinDisparity, cfg.Matcher.MaxDisparity,
			cfg.Matcher.NumPaths, elapsed, outcome.Reused)
	}

	stats, err := imaging.ComputeDisparityStats(outcome.Disparity, pair.Width, pair.Height, nil)
	if err != nil {
		return nil, err
	}

	result := &StereoMatchResult{
		Width:      pair.Width,
		Height:     pair.Height,
		Options:    cfg.Matcher,
		Stats:      stats,
		Occlusions: outcome.Occlusions,
		Mismatches: outcome.Mismatches,
		ElapsedMs:  elapsed.Milliseconds(),
	}

	if a.IncludeImage == nil || *a.IncludeImage {
		img, err := imaging.EncodeDisparity(outcome.Disparity, pair.Width, pair.Height, renderOpts, format)
		if err != nil {
			return nil, err
		}
		result.Image = img
	}

	id, released := s.session.store(&storedResult{
		Left:      a.Left,
		Right:     a.Right,
		Width:     pair.Width,
		Height:    pair.Height,
		Options:   cfg.Matcher,
		Disparity: outcome.Disparity,
	})
	for _, path := range released {
		s.cache.Evict(path)
	}
	result.ResultID = id
	return result, nil
}

// === Result Inspection Handlers ===

type resultArgs struct {
	ResultID string `json:"result_id"`
}

func (s *Server) lookupResult(a resultArgs) (*storedResult, error) {
	if a.ResultID == "" {
		return nil, invalidArgs(errors.New("result_id is required"))
	}
	r, err := s.session.get(a.ResultID)
	if err != nil {
		return nil, invalidArgs(err)
	}
	return r, nil
}

type stereoSampleArgs struct {
	resultArgs
	Points []imaging.SamplePoint `json:"points"`
}

// SampleResult is the response of stereo_sample_disparity.
type SampleResult struct {
	ResultID string                    `json:"result_id"`
	Samples  []imaging.DisparitySample `json:"samples"`
}

func (s *Server) handleStereoSampleDisparity(args json.RawMessage) (interface{}, error) {
	var a stereoSampleArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	r, err := s.lookupResult(a.resultArgs)
	if err != nil {
		return nil, err
	}
	if len(a.Points) == 0 {
		return nil, invalidArgs(errors.New("at least one point is required"))
	}

	samples, err := imaging.SampleDisparity(r.Disparity, r.Width, r.Height, a.Points)
	if err != nil {
		return nil, invalidArgs(err)
	}
	return &SampleResult{ResultID: r.ID, Samples: samples}, nil
}

type stereoStatsArgs struct {
	resultArgs
	Region *imaging.Region `json:"region"`
}

func (s *Server) handleStereoDisparityStats(args json.RawMessage) (interface{}, error) {
	var a stereoStatsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	r, err := s.lookupResult(a.resultArgs)
	if err != nil {
		return nil, err
	}

	stats, err := imaging.ComputeDisparityStats(r.Disparity, r.Width, r.Height, a.Region)
	if err != nil {
		return nil, invalidArgs(err)
	}
	return stats, nil
}

type stereoRenderArgs struct {
	resultArgs
	renderArgs
}

func (s *Server) handleStereoRenderDisparity(args json.RawMessage) (interface{}, error) {
	var a stereoRenderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	r, err := s.lookupResult(a.resultArgs)
	if err != nil {
		return nil, err
	}

	cfg := s.cfg
	cfg.Resolve(config.Flags{Colormap: a.Colormap, Format: a.Format})
	renderOpts, format, err := renderOptions(cfg, a.renderArgs)
	if err != nil {
		return nil, err
	}
	return imaging.EncodeDisparity(r.Disparity, r.Width, r.Height, renderOpts, format)
}
