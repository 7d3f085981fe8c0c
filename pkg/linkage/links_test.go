package linkage

import (
	"math"
	"testing"

	"github.com/matzehuels/recipeflow/pkg/recipe"
)

var sampleLinks = []Link{
	{IngredientIndex: 0, InstructionIndex: 0, Confidence: 0.5},
	{IngredientIndex: 1, InstructionIndex: 0, Confidence: 0.9},
	{IngredientIndex: 0, InstructionIndex: 2, Confidence: 0.8},
	{IngredientIndex: 0, InstructionIndex: 3, Confidence: 0.8},
}

func TestForInstruction(t *testing.T) {
	got := ForInstruction(sampleLinks, 0)
	if len(got) != 2 || got[0].IngredientIndex != 0 || got[1].IngredientIndex != 1 {
		t.Errorf("ForInstruction(0) = %v", got)
	}
	if got := ForInstruction(sampleLinks, 9); len(got) != 0 {
		t.Errorf("ForInstruction(9) = %v, want empty", got)
	}
}

func TestForIngredient(t *testing.T) {
	got := ForIngredient(sampleLinks, 0)
	if len(got) != 3 {
		t.Errorf("ForIngredient(0) = %v, want 3 links", got)
	}
}

func TestStrongest(t *testing.T) {
	got, ok := Strongest(sampleLinks, 0)
	if !ok {
		t.Fatal("Strongest(0) found nothing")
	}
	// 0.8 appears twice; the first one wins.
	if got.InstructionIndex != 2 {
		t.Errorf("Strongest(0) = %+v, want instruction 2", got)
	}

	if _, ok := Strongest(sampleLinks, 5); ok {
		t.Error("Strongest(5) should report no link")
	}
}

func TestUnused(t *testing.T) {
	got := Unused(sampleLinks, 4)
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("Unused() = %v, want [2 3]", got)
	}
}

func TestFingerprint(t *testing.T) {
	r := recipe.Sample()
	cfg := DefaultConfig()

	fingerprint := func(ings []recipe.Ingredient, steps []recipe.Instruction, c Config) string {
		t.Helper()
		fp, err := Fingerprint(ings, steps, c)
		if err != nil {
			t.Fatalf("Fingerprint: %v", err)
		}
		return fp
	}

	fp := fingerprint(r.Ingredients, r.Instructions, cfg)
	if len(fp) != 64 {
		t.Fatalf("fingerprint length = %d, want 64", len(fp))
	}
	if fp != fingerprint(r.Ingredients, r.Instructions, cfg) {
		t.Error("Fingerprint should be deterministic")
	}

	r2 := recipe.Sample()
	r2.Instructions[0].Description = "Preheat oven to 350°F."
	if fp == fingerprint(r2.Ingredients, r2.Instructions, cfg) {
		t.Error("changing an instruction should change the fingerprint")
	}

	cfg2 := DefaultConfig()
	cfg2.Threshold = 0.5
	if fp == fingerprint(r.Ingredients, r.Instructions, cfg2) {
		t.Error("changing the config should change the fingerprint")
	}
}

func TestFingerprintUnencodableConfig(t *testing.T) {
	r := recipe.Sample()
	cfg := DefaultConfig()
	cfg.Weights.Word = math.NaN()

	fp, err := Fingerprint(r.Ingredients, r.Instructions, cfg)
	if err == nil {
		t.Fatalf("Fingerprint with NaN weight = %q, want error", fp)
	}
	if cfg.Validate() == nil {
		t.Error("Validate should reject a NaN weight")
	}
}
