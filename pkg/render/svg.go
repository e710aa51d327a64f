package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/labelspread/pkg/labels"
)

const (
	defaultWidth  = 480.0
	defaultHeight = 640.0

	marginTop    = 56.0
	marginBottom = 48.0
	sideMargin   = 24.0
	anchorRadius = 3.5
	leaderGap    = 6.0
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width   float64
	height  float64
	theme   Theme
	title   string
	leaders bool
}

// WithSize sets the canvas dimensions in pixels. Non-positive values keep
// the defaults.
func WithSize(width, height float64) SVGOption {
	return func(r *svgRenderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// WithTheme sets the color scheme.
func WithTheme(t Theme) SVGOption { return func(r *svgRenderer) { r.theme = t } }

// WithTitle sets the heading text. When unset, the result name is used.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithoutLeaders suppresses the strokes between anchors and moved labels.
func WithoutLeaders() SVGOption { return func(r *svgRenderer) { r.leaders = false } }

// SVG renders an axis preview of a placement result. The axis runs
// vertically with larger coordinates toward the top; each anchor is a dot
// and each label is drawn at its placed position, connected by a leader
// stroke when the label was moved.
func SVG(res *labels.Result, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	if r.title == "" {
		r.title = res.Name
	}

	lo, hi := extent(res)
	plotTop := marginTop
	plotBottom := r.height - marginBottom
	scale := (plotBottom - plotTop) / float64(hi-lo)
	yOf := func(v int) float64 { return plotBottom - float64(v-lo)*scale }

	axisX := r.width * 0.32
	labelX := axisX + 28

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.theme.Background)

	if r.title != "" {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" fill="%s" font-family="%s" font-size="%.1f" font-weight="bold" text-anchor="middle">%s</text>`+"\n",
			r.width/2, marginTop/2, r.theme.Label, r.theme.FontFamily, r.theme.FontSize*1.3, escapeXML(r.title))
	}

	renderLimits(&buf, &r, res, yOf)
	fmt.Fprintf(&buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1.5"/>`+"\n",
		axisX, plotTop, axisX, plotBottom, r.theme.Axis)
	renderPlacements(&buf, &r, res, axisX, labelX, yOf)
	renderCaption(&buf, &r, res)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		width:   defaultWidth,
		height:  defaultHeight,
		theme:   Light(),
		leaders: true,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// extent returns the axis range the preview must cover, padded by one
// separation so dots never sit on the frame edge. The padding also keeps
// the scale finite when every coordinate coincides.
func extent(res *labels.Result) (lo, hi int) {
	first := true
	grow := func(v int) {
		if first {
			lo, hi = v, v
			first = false
			return
		}
		lo, hi = min(lo, v), max(hi, v)
	}
	for _, p := range res.Placements {
		grow(p.Anchor)
		grow(p.Position)
	}
	if res.Limits != nil {
		grow(res.Limits.Min)
		grow(res.Limits.Max)
	}
	if first {
		lo, hi = 0, 0
	}
	pad := max(res.Separation, 1)
	return lo - pad, hi + pad
}

func renderLimits(buf *bytes.Buffer, r *svgRenderer, res *labels.Result, yOf func(int) float64) {
	if res.Limits == nil {
		return
	}
	bounds := []struct {
		name  string
		value int
	}{
		{"min", res.Limits.Min},
		{"max", res.Limits.Max},
	}
	for _, b := range bounds {
		y := yOf(b.value)
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-dasharray="4 3"/>`+"\n",
			sideMargin, y, r.width-sideMargin, y, r.theme.Limit)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" fill="%s" font-family="%s" font-size="%.1f" text-anchor="end">%s %d</text>`+"\n",
			r.width-sideMargin, y-4, r.theme.Muted, r.theme.FontFamily, r.theme.FontSize*0.85, b.name, b.value)
	}
}

func renderPlacements(buf *bytes.Buffer, r *svgRenderer, res *labels.Result, axisX, labelX float64, yOf func(int) float64) {
	for _, p := range res.Placements {
		yAnchor := yOf(p.Anchor)
		yLabel := yOf(p.Position)
		if r.leaders && p.Offset != 0 {
			fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n",
				axisX, yAnchor, labelX-leaderGap, yLabel, r.theme.Leader)
		}
		fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
			axisX, yAnchor, anchorRadius, r.theme.Anchor)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" fill="%s" font-family="%s" font-size="%.1f" dominant-baseline="middle">%s</text>`+"\n",
			labelX, yLabel, r.theme.Label, r.theme.FontFamily, r.theme.FontSize, escapeXML(p.ID))
	}
}

func renderCaption(buf *bytes.Buffer, r *svgRenderer, res *labels.Result) {
	caption := fmt.Sprintf("%d labels, separation %d, worst offset %d",
		len(res.Placements), res.Separation, res.MaxOffset)
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" fill="%s" font-family="%s" font-size="%.1f" text-anchor="middle">%s</text>`+"\n",
		r.width/2, r.height-marginBottom/2, r.theme.Muted, r.theme.FontFamily, r.theme.FontSize*0.85, caption)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
