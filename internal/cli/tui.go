package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/recipeflow/pkg/flow"
	"github.com/matzehuels/recipeflow/pkg/layout"
	"github.com/matzehuels/recipeflow/pkg/linkage"
	"github.com/matzehuels/recipeflow/pkg/recipe"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	panelStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// browseView selects which list the cursor moves through.
type browseView int

const (
	viewSteps browseView = iota
	viewIngredients
)

const (
	listWidth   = 34
	barWidth    = 10
	minDetail   = 30
	defaultCols = 100
)

// =============================================================================
// BrowseModel - Interactive recipe explorer
// =============================================================================

// BrowseModel is the bubbletea model for `recipeflow browse`. The left
// panel lists steps (or ingredients); the right panel shows the selected
// row and everything linked to it.
type BrowseModel struct {
	Recipe     *recipe.Recipe
	Links      []linkage.Link
	ActiveView browseView
	Cursor     int
	Width      int
}

// NewBrowseModel creates a browse model positioned on the first step.
func NewBrowseModel(r *recipe.Recipe, links []linkage.Link) BrowseModel {
	return BrowseModel{Recipe: r, Links: links, Width: defaultCols}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < m.rows()-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(m.rows()-1, 0)
		case "tab":
			m.ActiveView = 1 - m.ActiveView
			m.Cursor = 0
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
	}
	return m, nil
}

func (m BrowseModel) rows() int {
	if m.ActiveView == viewIngredients {
		return len(m.Recipe.Ingredients)
	}
	return len(m.Recipe.Instructions)
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Recipe.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab steps/ingredients  q quit"))
	b.WriteString("\n\n")

	if m.rows() == 0 {
		b.WriteString(listDimStyle.Render("  (nothing to show)"))
		return b.String()
	}

	detailWidth := max(m.Width-listWidth-6, minDetail)
	var list, detail string
	if m.ActiveView == viewIngredients {
		list = m.ingredientList()
		detail = m.ingredientDetail(detailWidth)
	} else {
		list = m.stepList()
		detail = m.stepDetail(detailWidth)
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Width(listWidth).Render(list),
		panelStyle.Width(detailWidth).Render(detail),
	))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, m.rows())))
	return b.String()
}

func (m BrowseModel) stepList() string {
	var b strings.Builder
	for i, ins := range m.Recipe.Instructions {
		swatch := stepSwatch(ins.Step)
		line := fmt.Sprintf("Step %d  %s", ins.Step, truncate(ins.Description, listWidth-12))
		b.WriteString(cursorLine(i == m.Cursor, swatch, line))
	}
	return b.String()
}

func (m BrowseModel) ingredientList() string {
	var b strings.Builder
	for i, ing := range m.Recipe.Ingredients {
		swatch := listDimStyle.Render("○")
		if l, ok := linkage.Strongest(m.Links, i); ok {
			swatch = stepSwatch(m.Recipe.StepAt(l.InstructionIndex))
		}
		b.WriteString(cursorLine(i == m.Cursor, swatch, truncate(ing.Display(), listWidth-6)))
	}
	return b.String()
}

func (m BrowseModel) stepDetail(width int) string {
	ins := m.Recipe.Instructions[m.Cursor]
	color := flow.ColorForStep(ins.Step)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color.Hex)).
		Render(fmt.Sprintf("Step %d · %s", ins.Step, color.Name)))
	if ins.HasDuration() {
		b.WriteString(listDimStyle.Render("  " + ins.Duration))
	}
	b.WriteString("\n")
	for _, line := range layout.Wrap(ins.Description, width-2) {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	links := linkage.ForInstruction(m.Links, m.Cursor)
	if len(links) == 0 {
		b.WriteString(listDimStyle.Render("No ingredients linked"))
		return b.String()
	}
	b.WriteString(listDimStyle.Render("Uses") + "\n")
	for _, l := range links {
		ing := m.Recipe.Ingredients[l.IngredientIndex]
		fmt.Fprintf(&b, "%s %.2f  %s\n", confidenceBar(l.Confidence, color), l.Confidence, ing.Display())
	}
	return b.String()
}

func (m BrowseModel) ingredientDetail(width int) string {
	ing := m.Recipe.Ingredients[m.Cursor]

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(ing.Display()))
	b.WriteString("\n\n")

	links := linkage.ForIngredient(m.Links, m.Cursor)
	if len(links) == 0 {
		b.WriteString(StyleWarning.Render("Not used by any step"))
		return b.String()
	}
	b.WriteString(listDimStyle.Render("Used in") + "\n")
	for _, l := range links {
		ins := m.Recipe.Instructions[l.InstructionIndex]
		color := flow.ColorForStep(ins.Step)
		fmt.Fprintf(&b, "%s %.2f  Step %d  %s\n", confidenceBar(l.Confidence, color), l.Confidence,
			ins.Step, truncate(ins.Description, max(width-barWidth-16, 8)))
	}
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func cursorLine(selected bool, swatch, text string) string {
	if selected {
		return "▸ " + swatch + " " + listSelectedStyle.Render(text) + "\n"
	}
	return "  " + swatch + " " + listNormalStyle.Render(text) + "\n"
}

func stepSwatch(step int) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(flow.ColorForStep(step).Hex)).Render("●")
}

// confidenceBar draws c in [0, 1] as a bar of barWidth cells.
func confidenceBar(c float64, color flow.Color) string {
	filled := int(math.Round(c * barWidth))
	filled = min(max(filled, 0), barWidth)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color.Hex)).Render(strings.Repeat("█", filled)) +
		listDimStyle.Render(strings.Repeat("░", barWidth-filled))
}
