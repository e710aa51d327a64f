package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/labelspread/pkg/labels"
	"github.com/matzehuels/labelspread/pkg/place"
)

// GroupsDOT converts a placement's packed groups to Graphviz DOT text.
// Each group becomes a box listing its members and span; consecutive
// groups are connected by an edge annotated with the free gap between
// them. The resulting DOT string can be rendered with [GroupsSVG].
func GroupsDOT(res *labels.Result, groups []place.Group) string {
	var buf bytes.Buffer
	buf.WriteString("digraph groups {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for i, g := range groups {
		fmt.Fprintf(&buf, "  g%d [label=%q];\n", i, fmtGroupLabel(res, g))
	}

	buf.WriteString("\n")
	for i := 1; i < len(groups); i++ {
		gap := groups[i].Start - groups[i-1].End
		fmt.Fprintf(&buf, "  g%d -> g%d [label=%q];\n", i-1, i, fmt.Sprintf("gap %d", gap))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtGroupLabel(res *labels.Result, g place.Group) string {
	lines := make([]string, 0, g.Size()+1)
	for i := g.First; i <= g.Last && i < len(res.Placements); i++ {
		p := res.Placements[i]
		lines = append(lines, fmt.Sprintf("%s @ %d", p.ID, p.Position))
	}
	if g.Size() > 1 {
		lines = append(lines, fmt.Sprintf("span %d..%d", g.Start, g.End))
	}
	return strings.Join(lines, "\n")
}

// GroupsSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [ToPDF] or [ToPNG].
func GroupsSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's SVG header so the view box starts at
// the origin, which embeds cleanly in web pages and converts predictably.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
