// Package render turns placement results into visual artifacts.
//
// # Overview
//
// The package provides three surfaces:
//
//   - [SVG]: a hand-written axis preview of a placement result, showing
//     anchors, placed labels, leader strokes, and limit lines
//   - [GroupsDOT] and [GroupsSVG]: a Graphviz diagnostic view of the
//     packed groups a placement produced
//   - [ToPNG] and [ToPDF]: raster and print conversion of any SVG bytes
//
// # Preview SVG
//
// [SVG] draws a vertical axis with one dot per anchor and the label text at
// its placed position. When a label was moved, a leader stroke connects the
// anchor to the text. Output is deterministic for a given result and
// options.
//
//	svg := render.SVG(res,
//	    render.WithSize(480, 640),
//	    render.WithTheme(render.Dark()),
//	    render.WithTitle("release timeline"),
//	)
//
// # SVG Options
//
//   - [WithSize]: canvas dimensions in pixels
//   - [WithTheme]: color scheme ([Light] or [Dark])
//   - [WithTitle]: heading text (defaults to the result name)
//   - [WithoutLeaders]: suppress anchor-to-label strokes
//
// # Groups Diagram
//
// [GroupsDOT] emits Graphviz DOT describing each packed group and the gap
// between consecutive groups. [GroupsSVG] renders that DOT via
// goccy/go-graphviz. The view exists for diagnosing crowded placements:
// a single giant group means the separation dominates the layout.
//
// # Conversion
//
// [ToPNG] and [ToPDF] convert SVG bytes using the external rsvg-convert
// tool (from librsvg) and return an instructive error when it is not
// installed.
//
//	svg := render.SVG(res)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
package render
