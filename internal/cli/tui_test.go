package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/recipeflow/pkg/flow"
	"github.com/matzehuels/recipeflow/pkg/linkage"
	"github.com/matzehuels/recipeflow/pkg/recipe"
)

func sampleBrowseModel() BrowseModel {
	rec := recipe.Sample()
	links := linkage.New(linkage.DefaultConfig()).Analyze(rec.Ingredients, rec.Instructions)
	return NewBrowseModel(rec, links)
}

func press(m BrowseModel, keys ...tea.KeyMsg) (BrowseModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(BrowseModel)
	}
	return m, cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestBrowseNavigation(t *testing.T) {
	m := sampleBrowseModel()
	steps := len(m.Recipe.Instructions)

	tests := []struct {
		name string
		keys []tea.KeyMsg
		want int
	}{
		{"down", []tea.KeyMsg{{Type: tea.KeyDown}}, 1},
		{"j twice", []tea.KeyMsg{runeKey('j'), runeKey('j')}, 2},
		{"up at top stays", []tea.KeyMsg{{Type: tea.KeyUp}}, 0},
		{"down then k", []tea.KeyMsg{runeKey('j'), runeKey('k')}, 0},
		{"end", []tea.KeyMsg{runeKey('G')}, steps - 1},
		{"down past end", []tea.KeyMsg{runeKey('G'), {Type: tea.KeyDown}}, steps - 1},
		{"end then home", []tea.KeyMsg{runeKey('G'), runeKey('g')}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := press(m, tt.keys...)
			if got.Cursor != tt.want {
				t.Errorf("Cursor = %d, want %d", got.Cursor, tt.want)
			}
		})
	}
}

func TestBrowseTabSwitchesView(t *testing.T) {
	m := sampleBrowseModel()
	m, _ = press(m, runeKey('j'), runeKey('j'), tea.KeyMsg{Type: tea.KeyTab})
	if m.ActiveView != viewIngredients || m.Cursor != 0 {
		t.Fatalf("after tab: View = %v, Cursor = %d", m.ActiveView, m.Cursor)
	}

	m, _ = press(m, runeKey('G'))
	if m.Cursor != len(m.Recipe.Ingredients)-1 {
		t.Errorf("end in ingredient view: Cursor = %d", m.Cursor)
	}
	if !strings.Contains(m.View(), m.Recipe.Ingredients[m.Cursor].Display()) {
		t.Error("ingredient detail not shown")
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.ActiveView != viewSteps {
		t.Errorf("second tab: View = %v, want steps", m.ActiveView)
	}
}

func TestBrowseQuit(t *testing.T) {
	for _, k := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := press(sampleBrowseModel(), k)
		if cmd == nil {
			t.Errorf("%q: expected quit command", k.String())
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%q: command is not tea.Quit", k.String())
		}
	}
}

func TestBrowseWindowSize(t *testing.T) {
	next, _ := sampleBrowseModel().Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	if got := next.(BrowseModel).Width; got != 160 {
		t.Errorf("Width = %d, want 160", got)
	}
}

func TestBrowseView(t *testing.T) {
	m := sampleBrowseModel()
	out := m.View()
	for _, want := range []string{m.Recipe.Name, "Step 1", "[1/8]"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	empty := NewBrowseModel(&recipe.Recipe{Name: "Nothing"}, nil)
	if !strings.Contains(empty.View(), "nothing to show") {
		t.Error("empty recipe view should say there is nothing to show")
	}
}

func TestConfidenceBar(t *testing.T) {
	tests := []struct {
		c      float64
		filled int
	}{
		{0, 0},
		{0.34, 3},
		{1, barWidth},
		{1.5, barWidth},
		{-0.2, 0},
	}
	for _, tt := range tests {
		bar := confidenceBar(tt.c, flow.ColorForStep(1))
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("confidenceBar(%v) filled = %d, want %d", tt.c, got, tt.filled)
		}
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != barWidth {
			t.Errorf("confidenceBar(%v) width = %d, want %d", tt.c, got, barWidth)
		}
	}
}
