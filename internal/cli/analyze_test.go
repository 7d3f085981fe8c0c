package cli

import (
	"bytes"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/matzehuels/recipeflow/pkg/linkage"
	"github.com/matzehuels/recipeflow/pkg/recipe"
)

func TestLinkRows(t *testing.T) {
	rec := recipe.Sample()
	a := linkage.New(linkage.DefaultConfig())
	links := a.Analyze(rec.Ingredients, rec.Instructions)
	if len(links) == 0 {
		t.Fatal("sample recipe produced no links")
	}

	rows := linkRows(rec, links, a, false)
	if len(rows) != len(links) {
		t.Fatalf("got %d rows, want %d", len(rows), len(links))
	}
	for i, row := range rows {
		if len(row) != 4 {
			t.Fatalf("row %d has %d columns, want 4", i, len(row))
		}
		l := links[i]
		if want := strconv.Itoa(rec.StepAt(l.InstructionIndex)); row[0] != want {
			t.Errorf("row %d step = %q, want %q", i, row[0], want)
		}
		if want := rec.Ingredients[l.IngredientIndex].Name; row[1] != want {
			t.Errorf("row %d ingredient = %q, want %q", i, row[1], want)
		}
		if len([]rune(row[3])) > instructionColumnWidth {
			t.Errorf("row %d instruction not truncated: %q", i, row[3])
		}
	}

	explained := linkRows(rec, links, a, true)
	for i, row := range explained {
		if len(row) != 5 {
			t.Errorf("explained row %d = %q, want an evidence column", i, row)
		}
	}
}

func TestWriteLinksJSON(t *testing.T) {
	rec := recipe.Sample()
	a := linkage.New(linkage.DefaultConfig())
	links := a.Analyze(rec.Ingredients, rec.Instructions)

	for _, explain := range []bool{false, true} {
		var buf bytes.Buffer
		if err := writeLinksJSON(&buf, rec, links, a, explain); err != nil {
			t.Fatal(err)
		}
		var got []map[string]any
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got) != len(links) {
			t.Fatalf("got %d links, want %d", len(got), len(links))
		}
		_, hasScore := got[0]["score"]
		if hasScore != explain {
			t.Errorf("explain=%v: score present = %v", explain, hasScore)
		}
		if got[0]["ingredient"] == "" {
			t.Error("ingredient name missing")
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"Preheat oven to 375°F.", 10, "Preheat o…"},
		{"375°F°F°F", 5, "375°…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.s, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}
