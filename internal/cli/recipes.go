package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/recipeflow/pkg/errors"
	"github.com/matzehuels/recipeflow/pkg/recipe"
)

// recipesCommand creates the recipe store management command.
func (c *CLI) recipesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recipes",
		Aliases: []string{"recipe"},
		Short:   "List, show, export and import stored recipes",
		Long: `Recipes manages the configured recipe source.

Recipes are read from MongoDB when store.mongo_uri is set, otherwise from the
TOML/YAML/JSON files in store.dir. Without either only the built-in sample is
available. Import needs MongoDB.`,
	}

	cmd.AddCommand(c.recipesListCommand())
	cmd.AddCommand(c.recipesShowCommand())
	cmd.AddCommand(c.recipesExportCommand())
	cmd.AddCommand(c.recipesImportCommand())

	return cmd
}

func (c *CLI) recipesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, closeFn, err := c.openSource(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			list, err := src.List(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No recipes found")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), summaryTable(list).Render())
			return nil
		},
	}
}

// summaryTable renders recipe summaries as a bordered table.
func summaryTable(list []recipe.Summary) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		rows = append(rows, []string{
			s.ID,
			s.Name,
			strconv.Itoa(s.Ingredients),
			strconv.Itoa(s.Instructions),
			strings.Join(s.Tags, ", "),
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Ingredients", "Steps", "Tags").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				return base.Foreground(colorCyan)
			case 4:
				return base.Foreground(colorDim)
			}
			return base
		})
}

func (c *CLI) recipesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "show <id>",
		Short:             "Print a recipe's ingredients and steps",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeRecipes,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := c.loadRecipe(cmd.Context(), args[0], false)
			if err != nil {
				return err
			}
			printRecipe(rec)
			return nil
		},
	}
}

func printRecipe(rec *recipe.Recipe) {
	fmt.Println(StyleTitle.Render(rec.Name))
	if rec.Description != "" {
		fmt.Println(StyleDim.Render(rec.Description))
	}
	if rec.Servings > 0 {
		printKeyValue("Servings", strconv.Itoa(rec.Servings))
	}
	printKeyValue("ID", rec.ID)
	printNewline()

	fmt.Println(StyleHighlight.Render("Ingredients"))
	for _, ing := range rec.Ingredients {
		fmt.Printf("  • %s\n", ing.Display())
	}
	printNewline()

	fmt.Println(StyleHighlight.Render("Steps"))
	for _, ins := range rec.Instructions {
		line := fmt.Sprintf("  %s %s", stepSwatch(ins.Step), StyleNumber.Render(strconv.Itoa(ins.Step)+"."))
		if ins.HasDuration() {
			line += StyleDim.Render(" (" + ins.Duration + ")")
		}
		fmt.Println(line + " " + ins.Description)
	}
}

func (c *CLI) recipesExportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:               "export <id>",
		Short:             "Write a recipe as TOML, YAML or JSON",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeRecipes,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := recipe.Format(strings.ToLower(format))
			if f == "yml" {
				f = recipe.FormatYAML
			}
			rec, err := c.loadRecipe(cmd.Context(), args[0], false)
			if err != nil {
				return err
			}
			return recipe.Encode(cmd.OutOrStdout(), rec, f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(recipe.FormatTOML), "output encoding: toml, yaml, json")
	return cmd
}

func (c *CLI) recipesImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Store recipe files in the database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, closeFn, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			var failed int
			for _, path := range args {
				rec, err := recipe.Load(path)
				if err != nil {
					printError("%s: %s", path, errors.UserMessage(err))
					failed++
					continue
				}
				if rec.ID == "" {
					rec.ID = recipeID(rec)
				}
				if err := st.Put(ctx, rec); err != nil {
					return fmt.Errorf("store %s: %w", path, err)
				}
				printSuccess("Imported %s as %s", rec.Name, rec.ID)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be imported", failed, len(args))
			}
			return nil
		},
	}
}
