package recipe

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/recipeflow/pkg/errors"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(Sample())

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 1 || list[0].ID != SampleID {
		t.Fatalf("List() = %+v", list)
	}
	if list[0].Ingredients != 9 || list[0].Instructions != 8 {
		t.Errorf("summary counts = %d/%d, want 9/8", list[0].Ingredients, list[0].Instructions)
	}

	if err := s.Put(ctx, &Recipe{Name: "Apple Pie", Instructions: []Instruction{{Step: 1, Description: "Bake."}}}); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	got, err := s.Get(ctx, "apple-pie")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Name != "Apple Pie" {
		t.Errorf("Get() name = %q", got.Name)
	}

	list, _ = s.List(ctx)
	if len(list) != 2 || list[0].Name != "Apple Pie" {
		t.Errorf("List() should be sorted by name: %+v", list)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, errors.ErrCodeRecipeNotFound) {
		t.Errorf("Get(missing) error = %v", err)
	}

	if err := s.Put(ctx, &Recipe{Name: ""}); err == nil {
		t.Error("Put() should validate")
	}
}

func TestDirStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("pancakes.toml", tomlRecipe)
	write("flapjacks.json", jsonRecipe)
	write("notes.txt", "ignored")
	write("broken.json", "{")

	s, err := NewDirStore(dir)
	if err != nil {
		t.Fatalf("NewDirStore() error: %v", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() = %d entries, want 2: %+v", len(list), list)
	}

	r, err := s.Get(ctx, "flapjacks")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if r.ID != "flapjacks" {
		t.Errorf("ID should come from the file name, got %q", r.ID)
	}

	if _, err := s.Get(ctx, "waffles"); !errors.Is(err, errors.ErrCodeRecipeNotFound) {
		t.Errorf("Get(waffles) error = %v", err)
	}
	if _, err := s.Get(ctx, "../etc"); err == nil {
		t.Error("Get() should reject traversal ids")
	}

	if _, err := NewDirStore(filepath.Join(dir, "nope")); err == nil {
		t.Error("NewDirStore() should fail for a missing directory")
	}
}

func TestDirStoreExtensionPrecedence(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	bodies := map[string]string{
		"brunch.json": strings.Replace(jsonRecipe, `"name": "Pancakes"`, `"name": "JSON Pancakes"`, 1),
		"brunch.toml": strings.Replace(tomlRecipe, `name = "Pancakes"`, `name = "TOML Pancakes"`, 1),
	}
	for name, body := range bodies {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}

	s, err := NewDirStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		r, err := s.Get(ctx, "brunch")
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if r.Name != "TOML Pancakes" {
			t.Fatalf("Get() #%d served %q, want the .toml file", i, r.Name)
		}
	}
}
