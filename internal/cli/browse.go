package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/recipeflow/pkg/linkage"
)

// browseCommand creates the interactive explorer command.
func (c *CLI) browseCommand() *cobra.Command {
	var sample bool

	cmd := &cobra.Command{
		Use:               "browse [file|id]",
		Short:             "Explore a recipe's links in the terminal",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeRecipes,
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) > 0 {
				arg = args[0]
			}
			return c.runBrowse(cmd.Context(), arg, sample)
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "browse the built-in sample recipe")
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, arg string, sample bool) error {
	rec, err := c.loadRecipe(ctx, arg, sample)
	if err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	links := linkage.New(c.Config.Linkage).Analyze(rec.Ingredients, rec.Instructions)
	c.Logger.Debug("browsing", "recipe", rec.ID, "links", len(links))

	p := tea.NewProgram(NewBrowseModel(rec, links), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
