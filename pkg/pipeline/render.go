package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/recipeflow/pkg/linkage"
	"github.com/matzehuels/recipeflow/pkg/render/nodelink"
	"github.com/matzehuels/recipeflow/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
//
// JSON and DOT do not depend on the visualization type. SVG, PDF and PNG
// draw flow ribbons for TypeFlow and a Graphviz diagram for TypeNodelink.
func Render(ctx context.Context, s sink.Scene, scores map[linkage.Link]linkage.Score, opts Options) (map[string][]byte, error) {
	if opts.IsFlow() {
		return renderFlow(ctx, s, scores, opts)
	}
	return renderNodelink(ctx, s, scores, opts)
}

// renderFlow generates flow outputs.
func renderFlow(ctx context.Context, s sink.Scene, scores map[linkage.Link]linkage.Score, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(s, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, s, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, s, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = renderJSON(s, scores, opts)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(s.Recipe, s.Links, nodelinkOptions(opts)))
		default:
			return nil, fmt.Errorf("unsupported flow format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderNodelink generates nodelink outputs. The DOT source is built once
// and shared by every Graphviz format.
func renderNodelink(ctx context.Context, s sink.Scene, scores map[linkage.Link]linkage.Score, opts Options) (map[string][]byte, error) {
	dot := nodelink.ToDOT(s.Recipe, s.Links, nodelinkOptions(opts))
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatJSON:
			data, err = renderJSON(s, scores, opts)
		case FormatDOT:
			data = []byte(dot)
		default:
			return nil, fmt.Errorf("unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func renderJSON(s sink.Scene, scores map[linkage.Link]linkage.Score, opts Options) ([]byte, error) {
	var jsonOpts []sink.JSONOption
	if scores != nil {
		jsonOpts = append(jsonOpts, sink.WithJSONScores(scores))
	}
	if opts.Compact {
		jsonOpts = append(jsonOpts, sink.WithJSONCompact())
	}
	return sink.RenderJSON(s, jsonOpts...)
}

// buildSVGOptions converts pipeline options to flow SVG options.
func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	if opts.NoTitle {
		svgOpts = append(svgOpts, sink.WithoutTitle())
	}
	if opts.NoDurations {
		svgOpts = append(svgOpts, sink.WithoutDurations())
	}
	return svgOpts
}

func nodelinkOptions(opts Options) nodelink.Options {
	return nodelink.Options{Detailed: opts.Detailed, HideUnused: opts.HideUnused}
}
