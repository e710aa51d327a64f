// Package pipeline provides the core placement pipeline for Labelspread.
//
// This package implements the complete arrange → render pipeline shared by
// the CLI and the API. Centralizing it keeps override resolution and caching
// identical across entry points.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Arrange: Solve the placement problem for a label set
//  2. Render: Generate output in various formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
// Both stages cache by content hash: arrange keys on the set plus the
// placement overrides, render keys on the arranged result plus the render
// options.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Formats: []string{"svg"},
//	    Theme:   "dark",
//	}
//	result, err := runner.Execute(ctx, set, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Arrange only
//	res, err := runner.Arrange(ctx, set, opts)
//
//	// Render an existing result
//	artifacts, err := runner.Render(ctx, res, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labelspread/pkg/cache"
	"github.com/matzehuels/labelspread/pkg/labels"
	"github.com/matzehuels/labelspread/pkg/place"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default preview width in pixels.
	DefaultWidth = 480.0

	// DefaultHeight is the default preview height in pixels.
	DefaultHeight = 640.0

	// DefaultTheme is the default preview color scheme.
	DefaultTheme = "light"

	// DefaultPNGScale is the raster scale for PNG output. 2x keeps text
	// crisp on high-DPI displays.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidThemes is the set of supported preview themes.
var ValidThemes = map[string]bool{
	"light": true,
	"dark":  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the placement pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Arrange options. The pointer fields override the set's own values
	// when non-nil, so zero stays a usable override.
	Separation *int `json:"separation,omitempty"`
	MinPos     *int `json:"min,omitempty"`
	MaxPos     *int `json:"max,omitempty"`
	Unbounded  bool `json:"unbounded,omitempty"` // Drop the set's limits entirely
	Refresh    bool `json:"refresh,omitempty"`   // Bypass cache reads, still write

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Width     float64  `json:"width,omitempty"`
	Height    float64  `json:"height,omitempty"`
	Theme     string   `json:"theme,omitempty"`
	Title     string   `json:"title,omitempty"`
	NoLeaders bool     `json:"no_leaders,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Result is the arranged placement.
	Result *labels.Result

	// ResultHash is the content hash of the arranged placement.
	ResultHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LabelCount  int
	GroupCount  int
	ArrangeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ArrangeHit bool // Whether the arranged result came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTheme checks that a theme is valid.
func ValidateTheme(theme string) error {
	if !ValidThemes[theme] {
		return fmt.Errorf("invalid theme: %q (must be one of: light, dark)", theme)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. This method is idempotent - calling it multiple times has the
// same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForArrange(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	o.validated = true
	return nil
}

// ValidateForArrange checks the placement overrides. Violations surface the
// placement engine's sentinels so callers handle direct and pipelined
// placement uniformly.
func (o *Options) ValidateForArrange() error {
	if o.Separation != nil && *o.Separation < 0 {
		return place.ErrNegativeSeparation
	}
	if o.MinPos != nil && o.MaxPos != nil && *o.MinPos > *o.MaxPos {
		return place.ErrInvalidLimits
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateTheme(o.Theme)
}

// ShowLeaders returns whether leader strokes should be drawn.
func (o *Options) ShowLeaders() bool {
	return !o.NoLeaders
}

// ApplyTo returns a copy of the set with the placement overrides resolved.
// Unbounded drops the set's limits; otherwise MinPos/MaxPos replace the
// matching side of the set's limits. A one-sided override against a set
// without limits leaves the other side at zero, and validation catches the
// inversions that can produce.
func (o *Options) ApplyTo(s *labels.Set) *labels.Set {
	out := s.Clone()
	if o.Separation != nil {
		out.Separation = *o.Separation
	}
	if o.Unbounded {
		out.Limits = nil
		return out
	}
	if o.MinPos != nil || o.MaxPos != nil {
		lim := labels.Limits{}
		if out.Limits != nil {
			lim = *out.Limits
		}
		if o.MinPos != nil {
			lim.Min = *o.MinPos
		}
		if o.MaxPos != nil {
			lim.Max = *o.MaxPos
		}
		out.Limits = &lim
	}
	return out
}

// PlacementKeyOpts returns cache key options for the arrange stage.
func (o *Options) PlacementKeyOpts() cache.PlacementKeyOpts {
	return cache.PlacementKeyOpts{
		Separation: o.Separation,
		Min:        o.MinPos,
		Max:        o.MaxPos,
		Unbounded:  o.Unbounded,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:  format,
		Theme:   o.Theme,
		Width:   o.Width,
		Height:  o.Height,
		Title:   o.Title,
		Leaders: o.ShowLeaders(),
	}
}
