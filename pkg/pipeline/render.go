package pipeline

import (
	"fmt"

	"github.com/matzehuels/labelspread/pkg/labels"
	"github.com/matzehuels/labelspread/pkg/render"
)

// RenderArtifacts renders a result into each requested format without
// touching the cache. Most callers want [Runner.Render], which adds
// caching on top.
func RenderArtifacts(res *labels.Result, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()

	// PNG and PDF are conversions of the SVG, so render it once up front.
	var svg []byte
	if needsSVG(opts.Formats) {
		svg = render.SVG(res, svgOptions(opts)...)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svg
		case FormatPNG:
			data, err = render.ToPNG(svg, DefaultPNGScale)
		case FormatPDF:
			data, err = render.ToPDF(svg)
		case FormatJSON:
			data, err = labels.MarshalResult(res)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func needsSVG(formats []string) bool {
	for _, f := range formats {
		switch f {
		case FormatSVG, FormatPNG, FormatPDF:
			return true
		}
	}
	return false
}

// svgOptions converts pipeline options to renderer options.
func svgOptions(opts Options) []render.SVGOption {
	svgOpts := []render.SVGOption{
		render.WithSize(opts.Width, opts.Height),
		render.WithTheme(render.ThemeByName(opts.Theme)),
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, render.WithTitle(opts.Title))
	}
	if !opts.ShowLeaders() {
		svgOpts = append(svgOpts, render.WithoutLeaders())
	}
	return svgOpts
}
