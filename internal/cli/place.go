package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labelspread/pkg/labels"
	"github.com/matzehuels/labelspread/pkg/pipeline"
	"github.com/matzehuels/labelspread/pkg/place"
)

// =============================================================================
// Command Definition
// =============================================================================

func (c *CLI) placeCommand() *cobra.Command {
	var (
		at      string
		format  string
		output  string
		noCache bool
	)
	flags := &placementFlags{}

	cmd := &cobra.Command{
		Use:   "place [set.(toml|json)]",
		Short: "Arrange labels along an axis",
		Long: `Arrange labels so they keep the minimum separation while moving as
little as possible from their anchors.

Reads a set file, or takes bare anchor coordinates with --at:

  labelspread place timeline.toml
  labelspread place --at 3,5,8 --separation 2
  labelspread place --at 0,1,2 --separation 10 --min 0 --max 100
  labelspread place timeline.toml --format json -o placed.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := placeInput(cmd, args, at, flags)
			if err != nil {
				return err
			}
			opts := pipeline.Options{}
			flags.apply(cmd, &opts)
			return c.runPlace(cmd.Context(), set, opts, format, output, noCache)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "bare anchor coordinates (\"3,5,8\") instead of a set file")
	addPlacementFlags(cmd, flags)
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON output to a file (default stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// placeInput resolves the two input modes: a set file argument or bare
// anchors via --at. Anchors get ordinal IDs and take the separation and
// limit flags directly, since there is no file to override.
func placeInput(cmd *cobra.Command, args []string, at string, flags *placementFlags) (*labels.Set, error) {
	switch {
	case at != "" && len(args) > 0:
		return nil, fmt.Errorf("give a set file or --at, not both")
	case at != "":
		anchors, err := parseInts(at)
		if err != nil {
			return nil, err
		}
		var limits *labels.Limits
		if cmd.Flags().Changed("min") || cmd.Flags().Changed("max") {
			limits = &labels.Limits{Min: flags.min, Max: flags.max}
		}
		set := labels.FromAnchors(anchors, flags.separation, limits)
		if err := set.Validate(); err != nil {
			return nil, err
		}
		return set, nil
	case len(args) > 0:
		return loadSetFile(args[0])
	default:
		return nil, fmt.Errorf("give a set file or --at (see --help)")
	}
}

// =============================================================================
// Command Execution
// =============================================================================

func (c *CLI) runPlace(ctx context.Context, set *labels.Set, opts pipeline.Options, format, output string, noCache bool) error {
	if format != "table" && format != "json" {
		return fmt.Errorf("invalid format: %q (must be 'table' or 'json')", format)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	res, cached, err := runner.ArrangeWithCacheInfo(ctx, set, opts)
	if err != nil {
		return err
	}

	if format == "json" {
		out, err := openOutput(output)
		if err != nil {
			return err
		}
		defer out.Close()
		return labels.WriteResult(res, out)
	}

	fmt.Println(placementTable(res))
	groups := place.Groups(res.Positions(), res.Separation)
	printStats(len(res.Placements), len(groups), res.MaxOffset, cached)
	return nil
}

// =============================================================================
// Output
// =============================================================================

// placementTable renders an arranged result as a bordered table, one row
// per label in axis order. Shifted labels get highlighted offsets.
func placementTable(res *labels.Result) string {
	rows := make([][]string, len(res.Placements))
	for i, p := range res.Placements {
		rows[i] = []string{
			p.ID,
			strconv.Itoa(p.Anchor),
			strconv.Itoa(p.Position),
			fmtOffset(p.Offset),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Label", "Anchor", "Position", "Offset").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 {
				return base.Foreground(colorWhite)
			}
			if col == 3 && row < len(res.Placements) && res.Placements[row].Offset != 0 {
				return base.Foreground(colorCyan)
			}
			return base.Foreground(colorGray)
		})

	return t.Render()
}
