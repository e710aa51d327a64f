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
	"github.com/matzehuels/labelspread/pkg/render"
)

// =============================================================================
// Command Definition
// =============================================================================

func (c *CLI) explainCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	flags := &placementFlags{}

	cmd := &cobra.Command{
		Use:   "explain [set.(toml|json)]",
		Short: "Show how labels pack into rigid groups",
		Long: `Arrange a label set and break the result into its rigid groups: maximal
runs of labels pinned exactly one separation apart. Labels in the same
group move together; a larger separation merges groups, a smaller one
splits them.

  labelspread explain timeline.toml
  labelspread explain timeline.toml --separation 8
  labelspread explain timeline.toml -o groups.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{}
			flags.apply(cmd, &opts)
			return c.runExplain(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	addPlacementFlags(cmd, flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write a Graphviz diagram of the groups (SVG)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// =============================================================================
// Command Execution
// =============================================================================

func (c *CLI) runExplain(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
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

	res, cached, err := runner.ArrangeWithCacheInfo(ctx, set, opts)
	if err != nil {
		return err
	}

	groups := place.Groups(res.Positions(), res.Separation)

	fmt.Println(groupTable(res, groups))
	printStats(len(res.Placements), len(groups), res.MaxOffset, cached)

	if output == "" {
		return nil
	}

	spinner := newSpinnerWithContext(ctx, "Rendering group diagram...")
	spinner.Start()

	svg, err := render.GroupsSVG(ctx, render.GroupsDOT(res, groups))
	if err != nil {
		spinner.StopWithError("Diagram failed")
		return fmt.Errorf("render groups: %w", err)
	}
	spinner.StopWithSuccess("Diagram ready")

	if err := writeFileArtifact(output, svg); err != nil {
		return err
	}
	printFile(output)
	return nil
}

// =============================================================================
// Output
// =============================================================================

// groupTable renders one row per rigid group: which labels it spans, the
// positions it occupies, and how far its worst label moved.
func groupTable(res *labels.Result, groups []place.Group) string {
	rows := make([][]string, len(groups))
	for i, g := range groups {
		worst := 0
		for _, p := range res.Placements[g.First : g.Last+1] {
			if o := absInt(p.Offset); o > worst {
				worst = o
			}
		}

		span := res.Placements[g.First].ID
		if g.Size() > 1 {
			span += " .. " + res.Placements[g.Last].ID
		}

		rows[i] = []string{
			strconv.Itoa(i + 1),
			span,
			strconv.Itoa(g.Size()),
			fmt.Sprintf("%d..%d", g.Start, g.End),
			strconv.Itoa(worst),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Group", "Labels", "Size", "Positions", "Worst offset").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 1 {
				return base.Foreground(colorWhite)
			}
			return base.Foreground(colorGray)
		})

	return t.Render()
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
