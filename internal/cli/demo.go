package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labelspread/pkg/labels"
	"github.com/matzehuels/labelspread/pkg/place"
)

// =============================================================================
// Command Definition
// =============================================================================

func (c *CLI) demoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo [set.(toml|json)]",
		Short: "Adjust a placement interactively",
		Long: `Open an interactive view of a placement and watch it re-arrange live:
raise or lower the separation, toggle the limit window, and compare
placed positions against their anchors. Without a set file a built-in
sample is used.

Keys: ↑/k separation up, ↓/j separation down, m toggle limits,
a toggle anchors, q quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set := sampleSet()
			if len(args) > 0 {
				loaded, err := loadSetFile(args[0])
				if err != nil {
					return err
				}
				set = loaded
			}
			return runDemo(set)
		},
	}
	return cmd
}

func runDemo(set *labels.Set) error {
	p := tea.NewProgram(newDemoModel(set))
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	if m, ok := finalModel.(demoModel); ok && m.err != nil {
		return m.err
	}
	return nil
}

// sampleSet is the fallback demo problem: a release timeline with a burst
// of crowded milestones in the middle.
func sampleSet() *labels.Set {
	return &labels.Set{
		Name:       "release timeline",
		Separation: 4,
		Labels: []labels.Label{
			{ID: "kickoff", Anchor: 0},
			{ID: "alpha", Anchor: 18},
			{ID: "beta", Anchor: 22},
			{ID: "rc1", Anchor: 24},
			{ID: "rc2", Anchor: 25},
			{ID: "launch", Anchor: 27},
			{ID: "retro", Anchor: 44},
		},
	}
}

// =============================================================================
// Model
// =============================================================================

// demoModel drives the interactive placement view. Every change to the
// separation or the limit toggle re-arranges the set immediately; the
// solver is fast enough that there is no need to debounce.
type demoModel struct {
	set         *labels.Set
	res         *labels.Result
	err         error
	limits      labels.Limits
	limitsOn    bool
	showAnchors bool
	rows        int
}

func newDemoModel(set *labels.Set) demoModel {
	m := demoModel{
		set:         set.Clone(),
		showAnchors: true,
		rows:        21,
	}
	if set.Limits != nil {
		m.limits = *set.Limits
		m.limitsOn = true
	} else {
		m.limits = anchorWindow(set)
	}
	m.rearrange()
	return m
}

// anchorWindow derives a clamp window from the anchor extent so the limits
// toggle has something to show for sets authored without limits.
func anchorWindow(set *labels.Set) labels.Limits {
	if len(set.Labels) == 0 {
		return labels.Limits{}
	}
	lo, hi := set.Labels[0].Anchor, set.Labels[0].Anchor
	for _, l := range set.Labels[1:] {
		if l.Anchor < lo {
			lo = l.Anchor
		}
		if l.Anchor > hi {
			hi = l.Anchor
		}
	}
	return labels.Limits{Min: lo, Max: hi}
}

func (m *demoModel) rearrange() {
	s := m.set.Clone()
	if m.limitsOn {
		lim := m.limits
		s.Limits = &lim
	} else {
		s.Limits = nil
	}
	m.res, m.err = labels.Arrange(s)
}

func (m demoModel) Init() tea.Cmd {
	return nil
}

func (m demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.set.Separation++
			m.rearrange()
		case "down", "j":
			if m.set.Separation > 0 {
				m.set.Separation--
				m.rearrange()
			}
		case "m":
			m.limitsOn = !m.limitsOn
			m.rearrange()
		case "a":
			m.showAnchors = !m.showAnchors
		}

	case tea.WindowSizeMsg:
		m.rows = msg.Height - 7
		if m.rows < 9 {
			m.rows = 9
		}
		if m.rows > 29 {
			m.rows = 29
		}
	}
	return m, nil
}

// =============================================================================
// View
// =============================================================================

func (m demoModel) View() string {
	var b strings.Builder

	title := m.set.Name
	if title == "" {
		title = "labels"
	}
	b.WriteString(StyleTitle.Render("labelspread demo · " + title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ separation  m limits  a anchors  q quit"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(StyleWarning.Render("placement failed: " + m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.renderAxis())
	b.WriteString("\n")

	groups := place.Groups(m.res.Positions(), m.res.Separation)
	status := fmt.Sprintf("separation %d · worst offset %d · %d groups",
		m.res.Separation, m.res.MaxOffset, len(groups))
	if m.limitsOn {
		status += fmt.Sprintf(" · window %d..%d", m.limits.Min, m.limits.Max)
	}
	b.WriteString(StyleDim.Render(status))
	b.WriteString("\n")

	return b.String()
}

// renderAxis draws a vertical axis with one row per coordinate bucket.
// Labels sit at their placed positions, anchors show as dots, and the
// limit window's edges are marked when active.
func (m demoModel) renderAxis() string {
	lo, hi := m.extent()
	if hi == lo {
		hi = lo + 1
	}
	rows := m.rows
	scale := float64(rows-1) / float64(hi-lo)
	rowOf := func(v int) int {
		r := rows - 1 - int(math.Round(float64(v-lo)*scale))
		if r < 0 {
			r = 0
		}
		if r >= rows {
			r = rows - 1
		}
		return r
	}

	type rowMark struct {
		limit  bool
		anchor bool
		names  []string
		moved  bool
	}
	marks := make([]rowMark, rows)
	if m.limitsOn {
		marks[rowOf(m.limits.Min)].limit = true
		marks[rowOf(m.limits.Max)].limit = true
	}
	for _, p := range m.res.Placements {
		if m.showAnchors {
			marks[rowOf(p.Anchor)].anchor = true
		}
		mark := &marks[rowOf(p.Position)]
		mark.names = append(mark.names, p.ID)
		if p.Offset != 0 {
			mark.moved = true
		}
	}

	var b strings.Builder
	for i := 0; i < rows; i++ {
		mk := marks[i]

		axis := StyleDim.Render("│")
		if mk.limit {
			axis = StyleWarning.Render("┼")
		}
		b.WriteString("  ")
		b.WriteString(axis)

		if mk.anchor {
			b.WriteString(StyleDim.Render(" ·"))
		} else {
			b.WriteString("  ")
		}

		if len(mk.names) > 0 {
			style := StyleValue
			if mk.moved {
				style = StyleHighlight
			}
			b.WriteString(" ")
			b.WriteString(style.Render("─ " + strings.Join(mk.names, ", ")))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// extent is the coordinate range the axis must cover: every anchor, every
// placed position, and the limit window when shown.
func (m demoModel) extent() (int, int) {
	lo, hi := 0, 0
	first := true
	consider := func(v int) {
		if first {
			lo, hi = v, v
			first = false
			return
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	for _, p := range m.res.Placements {
		consider(p.Anchor)
		consider(p.Position)
	}
	if m.limitsOn {
		consider(m.limits.Min)
		consider(m.limits.Max)
	}
	return lo, hi
}
