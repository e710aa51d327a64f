// Package cli implements the labelspread command-line interface.
//
// This package provides commands for arranging label sets, rendering them
// as previews, inspecting how labels pack into groups, experimenting
// interactively, and running the HTTP API. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - place: Arrange labels from a set file or bare anchors
//   - render: Generate SVG, PNG, PDF, or JSON artifacts
//   - explain: Show how labels pack into rigid groups
//   - demo: Adjust a placement interactively in the terminal
//   - serve: Run the HTTP API
//   - cache: Manage the placement cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// lives on the CLI struct and is handed to the pipeline runner so cache
// and placement activity shows up under -v.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labelspread/pkg/buildinfo"
	"github.com/matzehuels/labelspread/pkg/cache"
	"github.com/matzehuels/labelspread/pkg/labels"
	"github.com/matzehuels/labelspread/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "labelspread"

	// cacheDirEnv overrides the cache location, mainly for tests and CI.
	cacheDirEnv = "LABELSPREAD_CACHE_DIR"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "labelspread",
		Short:        "Labelspread places axis labels without overlap",
		Long:         `Labelspread spreads crowded chart labels along an axis so they keep a minimum separation while staying as close to their anchors as possible, and renders the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.explainCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cch, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cch, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory. LABELSPREAD_CACHE_DIR wins, then
// the XDG standard (~/.cache/labelspread/).
func cacheDir() (string, error) {
	if dir := os.Getenv(cacheDirEnv); dir != "" {
		return dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// placementFlags binds the placement override flags shared by render and
// explain. Only flags the user actually set become overrides, so zero
// values stay usable and unset flags leave the set file's values alone.
type placementFlags struct {
	separation int
	min        int
	max        int
	refresh    bool
}

func addPlacementFlags(cmd *cobra.Command, f *placementFlags) {
	cmd.Flags().IntVar(&f.separation, "separation", 0, "override the set's minimum separation")
	cmd.Flags().IntVar(&f.min, "min", 0, "override the lower placement limit")
	cmd.Flags().IntVar(&f.max, "max", 0, "override the upper placement limit")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

func (f *placementFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	if cmd.Flags().Changed("separation") {
		v := f.separation
		opts.Separation = &v
	}
	if cmd.Flags().Changed("min") {
		v := f.min
		opts.MinPos = &v
	}
	if cmd.Flags().Changed("max") {
		v := f.max
		opts.MaxPos = &v
	}
	opts.Refresh = f.refresh
}

// loadSetFile reads and validates a set file. The commands all need labels
// to work with, so a set without any is rejected here rather than arranged
// into an empty result.
func loadSetFile(path string) (*labels.Set, error) {
	set, err := labels.ReadSetFile(path)
	if err != nil {
		return nil, err
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("invalid set %s: %w", path, err)
	}
	if len(set.Labels) == 0 {
		return nil, fmt.Errorf("set %s has no labels", path)
	}
	return set, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// parseInts parses a comma-separated list of integers ("3,5,8").
func parseInts(s string) ([]int, error) {
	out := make([]int, 0, 4)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid anchor %q", part)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no anchors given")
	}
	return out, nil
}
