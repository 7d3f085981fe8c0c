package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/recipeflow/pkg/flow"
	"github.com/matzehuels/recipeflow/pkg/linkage"
	"github.com/matzehuels/recipeflow/pkg/recipe"
)

const instructionColumnWidth = 48

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	sample    bool
	explain   bool
	jsonOut   bool
	threshold float64
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze [file|id]",
		Short: "Show which ingredients each step uses",
		Long: `Analyze scores every ingredient against every instruction step and prints
the links whose confidence clears the threshold.

Without an argument (or with --sample) the built-in cookie recipe is used.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeRecipes,
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) > 0 {
				arg = args[0]
			}
			if !cmd.Flags().Changed("threshold") {
				opts.threshold = c.Config.Linkage.Threshold
			}
			return c.runAnalyze(cmd.Context(), arg, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.sample, "sample", false, "analyze the built-in sample recipe")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "show the evidence behind each link")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print links as JSON")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", linkage.DefaultThreshold, "minimum confidence (exclusive)")

	return cmd
}

func (c *CLI) runAnalyze(ctx context.Context, arg string, opts analyzeOpts) error {
	rec, err := c.loadRecipe(ctx, arg, opts.sample)
	if err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	cfg := c.Config.Linkage
	cfg.Threshold = opts.threshold
	if err := cfg.Validate(); err != nil {
		return err
	}
	a := linkage.New(cfg)

	prog := newProgress(c.Logger)
	links := a.Analyze(rec.Ingredients, rec.Instructions)
	c.Logger.Debug("analyzed", "recipe", rec.ID, "links", len(links))

	if opts.jsonOut {
		return writeLinksJSON(os.Stdout, rec, links, a, opts.explain)
	}

	fmt.Println(StyleTitle.Render(rec.Name))
	fmt.Println(linkTable(rec, links, a, opts.explain).Render())

	unused := linkage.Unused(links, len(rec.Ingredients))
	printStats(len(links), len(unused), false)
	for _, i := range unused {
		printWarning("%s is not used by any step", rec.Ingredients[i].Display())
	}
	if c.verbose {
		prog.done("Analyzed " + rec.ID)
	}
	return nil
}

// linkRows returns one table row per link in instruction order: step,
// ingredient, confidence, instruction text and, with explain, the evidence.
func linkRows(rec *recipe.Recipe, links []linkage.Link, a *linkage.Analyzer, explain bool) [][]string {
	rows := make([][]string, 0, len(links))
	for _, l := range links {
		ins := rec.Instructions[l.InstructionIndex]
		ing := rec.Ingredients[l.IngredientIndex]
		row := []string{
			fmt.Sprintf("%d", ins.Step),
			ing.Name,
			fmt.Sprintf("%.2f", l.Confidence),
			truncate(ins.Description, instructionColumnWidth),
		}
		if explain {
			row = append(row, strings.Join(a.Score(ing, ins).Evidence, " "))
		}
		rows = append(rows, row)
	}
	return rows
}

// linkTable renders links as a bordered table, coloring the step column
// with each step's ribbon color.
func linkTable(rec *recipe.Recipe, links []linkage.Link, a *linkage.Analyzer, explain bool) *table.Table {
	headers := []string{"Step", "Ingredient", "Conf", "Instruction"}
	if explain {
		headers = append(headers, "Evidence")
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := linkRows(rec, links, a, explain)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(links) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				step := rec.StepAt(links[row].InstructionIndex)
				return base.Foreground(lipgloss.Color(flow.ColorForStep(step).Hex)).Bold(true)
			case 2:
				return base.Foreground(colorCyan)
			case 4:
				return base.Foreground(colorDim)
			}
			return base
		})
}

type linkJSON struct {
	linkage.Link
	Ingredient string         `json:"ingredient"`
	Step       int            `json:"step"`
	Score      *linkage.Score `json:"score,omitempty"`
}

// linksJSON annotates links with ingredient names and step numbers for
// JSON output. With explain, each carries its score breakdown.
func linksJSON(rec *recipe.Recipe, links []linkage.Link, a *linkage.Analyzer, explain bool) []linkJSON {
	out := make([]linkJSON, 0, len(links))
	for _, l := range links {
		lj := linkJSON{
			Link:       l,
			Ingredient: rec.Ingredients[l.IngredientIndex].Name,
			Step:       rec.StepAt(l.InstructionIndex),
		}
		if explain {
			s := a.Score(rec.Ingredients[l.IngredientIndex], rec.Instructions[l.InstructionIndex])
			lj.Score = &s
		}
		out = append(out, lj)
	}
	return out
}

func writeLinksJSON(w io.Writer, rec *recipe.Recipe, links []linkage.Link, a *linkage.Analyzer, explain bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(linksJSON(rec, links, a, explain))
}

// truncate shortens s to at most n runes, marking the cut with "…".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
