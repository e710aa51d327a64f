package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labelspread/pkg/pipeline"
)

// =============================================================================
// Command Definition
// =============================================================================

func (c *CLI) renderCommand() *cobra.Command {
	var (
		formats string
		output  string
		noCache bool
	)
	flags := &placementFlags{}
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [set.(toml|json)]",
		Short: "Arrange a set and render preview artifacts",
		Long: `Arrange a label set and render it as one or more artifacts. SVG is
generated directly; PNG and PDF conversion shells out to rsvg-convert,
and JSON writes the arranged result itself.

Output paths derive from the set file name unless -o is given:

  labelspread render timeline.toml
  labelspread render timeline.toml -f svg,png -o out/timeline
  labelspread render timeline.toml --theme dark --width 800 --no-leaders`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if opts.Theme != "" {
				if err := pipeline.ValidateTheme(opts.Theme); err != nil {
					return err
				}
			}
			flags.apply(cmd, &opts)
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	addPlacementFlags(cmd, flags)
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatSVG, "comma-separated output formats: svg, png, pdf, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (extension replaced per format)")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "preview width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "preview height in pixels")
	cmd.Flags().StringVar(&opts.Theme, "theme", "", "color scheme: light, dark")
	cmd.Flags().StringVar(&opts.Title, "title", "", "preview title (default the set name)")
	cmd.Flags().BoolVar(&opts.NoLeaders, "no-leaders", false, "omit anchor-to-label leader lines")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// =============================================================================
// Command Execution
// =============================================================================

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	set, err := loadSetFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Arranging %d labels...", len(set.Labels)))
	spinner.Start()

	result, err := runner.Execute(ctx, set, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths := outputPaths(output, input, opts.Formats)
	for i, format := range opts.Formats {
		if err := writeFileArtifact(paths[i], result.Artifacts[format]); err != nil {
			return err
		}
	}

	printSuccess("Rendered %s", set.Name)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.LabelCount, result.Stats.GroupCount, result.Result.MaxOffset,
		result.CacheInfo.ArrangeHit && result.CacheInfo.RenderHit)
	printNewline()
	printNextStep("Inspect the packing", "labelspread explain "+input)
	return nil
}

// =============================================================================
// Output Paths
// =============================================================================

// outputPaths derives one output path per format. A single format with an
// explicit -o writes exactly there; otherwise each format gets the base
// name plus its own extension.
func outputPaths(output, input string, formats []string) []string {
	if len(formats) == 1 && output != "" {
		return []string{output}
	}
	base := basePath(output, input)
	paths := make([]string, len(formats))
	for i, f := range formats {
		paths[i] = base + "." + f
	}
	return paths
}

// basePath strips a known format extension so "out/timeline.svg" and
// "out/timeline" both expand to "out/timeline.png" etc.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeFileArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// openOutput opens the output destination, stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
