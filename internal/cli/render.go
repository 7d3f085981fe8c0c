package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recipeflow/pkg/layout"
	"github.com/matzehuels/recipeflow/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path (or base path for multiple outputs)
	formats  string // comma-separated formats
	sample   bool
	noCache  bool
	pipeline pipeline.Options
}

// renderCommand creates the render command for generating visualizations.
//
// Mode, width and apex length default to the config file's layout and flow
// sections; flags override them.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file|id]",
		Short: "Render a recipe as flow ribbons or a node-link diagram",
		Long: `Render analyzes a recipe and writes one file per requested format.

Flow output (the default type) draws ingredients and steps as two lists joined
by ribbons colored by step. Nodelink output draws the same links as a Graphviz
bipartite graph. JSON and DOT are available for both types.`,
		Example: `  recipeflow render --sample -f svg,json
  recipeflow render cookies.toml -t nodelink -f png --detailed
  recipeflow render cookies.toml --mode stacked --width 480 -o cookies-mobile.svg`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeRecipes,
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) > 0 {
				arg = args[0]
			}
			c.applyRenderConfig(cmd, &opts.pipeline)
			opts.pipeline.Formats = pipeline.ParseFormats(opts.formats)
			if err := opts.pipeline.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), arg, opts)
		},
	}

	p := &opts.pipeline
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "svg", "output format(s): svg, json, pdf, png, dot (comma-separated)")
	cmd.Flags().StringVarP(&p.Type, "type", "t", pipeline.TypeFlow, "visualization type: flow, nodelink")
	cmd.Flags().StringVar(&p.Mode, "mode", "", "flow layout: "+layout.ModeNames())
	cmd.Flags().Float64Var(&p.Width, "width", 0, "page width in pixels")
	cmd.Flags().Float64Var(&p.ApexLength, "apex", 0, "ribbon apex length")
	cmd.Flags().Float64Var(&p.Scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&p.Detailed, "detailed", false, "label nodes and edges with quantities and confidences (nodelink)")
	cmd.Flags().BoolVar(&p.HideUnused, "hide-unused", false, "omit ingredients without links (nodelink)")
	cmd.Flags().BoolVar(&p.Interactive, "interactive", false, "highlight ribbons on hover (flow SVG)")
	cmd.Flags().BoolVar(&p.NoTitle, "no-title", false, "omit the recipe name header (flow)")
	cmd.Flags().BoolVar(&p.NoDurations, "no-durations", false, "hide step duration badges (flow)")
	cmd.Flags().BoolVar(&p.Compact, "compact", false, "write JSON without indentation")
	cmd.Flags().BoolVar(&p.Explain, "explain", false, "include score breakdowns in JSON output")
	cmd.Flags().BoolVar(&p.Refresh, "refresh", false, "re-render even if cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.sample, "sample", false, "render the built-in sample recipe")

	return cmd
}

// applyRenderConfig fills options the user did not set on the command line
// from the loaded config.
func (c *CLI) applyRenderConfig(cmd *cobra.Command, o *pipeline.Options) {
	if !cmd.Flags().Changed("mode") {
		o.Mode = c.Config.Layout.Mode
	}
	if !cmd.Flags().Changed("width") {
		o.Width = c.Config.Layout.Width
	}
	if !cmd.Flags().Changed("apex") {
		o.ApexLength = c.Config.Flow.ApexLength
	}
	cfg := c.Config.Linkage
	o.Linkage = &cfg
}

func (c *CLI) runRender(ctx context.Context, arg string, opts renderOpts) error {
	rec, err := c.loadRecipe(ctx, arg, opts.sample)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.pipeline.Logger = c.Logger

	var spinner *Spinner
	if !c.verbose && opts.output != "-" {
		spinner = newSpinner(ctx, c.errOut, fmt.Sprintf("Rendering %s...", rec.Name))
		spinner.Start()
	}

	result, err := runner.Execute(ctx, rec, opts.pipeline)
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Render failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return err
	}

	if opts.output == "-" {
		if len(opts.pipeline.Formats) != 1 {
			return fmt.Errorf("stdout output needs exactly one format, got %d", len(opts.pipeline.Formats))
		}
		_, err := os.Stdout.Write(result.Artifacts[opts.pipeline.Formats[0]])
		return err
	}

	input := arg
	if input == "" || opts.sample || !looksLikeFile(input) {
		input = rec.ID
	}
	paths, err := writeArtifacts(result.Artifacts, opts.pipeline.Formats, input, opts.output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", rec.Name)
	printStats(result.Stats.Links, result.Stats.Unused, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	if arg != "" && looksLikeFile(arg) {
		printNextStep("Explore the links", "recipeflow browse "+arg)
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
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

// outputPaths maps each format to its file. A single format written to an
// explicit output path uses that path verbatim.
func outputPaths(formats []string, input, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes each artifact to its output path and returns the
// paths in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	paths := outputPaths(formats, input, output)
	written := make([]string, 0, len(formats))
	for _, f := range formats {
		path := paths[f]
		if err := writeFile(path, artifacts[f]); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
