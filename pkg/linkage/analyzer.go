// Package linkage infers which ingredients each instruction step uses.
//
// # Overview
//
// The analyzer scores every (instruction, ingredient) pair with a cheap,
// explainable text heuristic and keeps the pairs whose confidence exceeds
// the threshold. It substitutes for real language understanding: the
// vocabulary table and weights are tuned for a demo recipe and exposed as
// [Config] so they can be retuned.
//
// # Scoring
//
// For each pair, after lowercasing both texts:
//
//  1. The ingredient name is split on spaces, commas and parentheses.
//  2. Every word longer than [Config.MinWordLength] adds Weights.Word when it
//     appears in the step, and Weights.Stem when the word minus its last
//     character appears.
//  3. Every (term, verb) pair from [Config.Terms] where the ingredient name
//     contains the term and the step contains the verb adds Weights.VerbPair.
//  4. Early steps add Weights.EarlyPrior for names containing an early term;
//     late steps add Weights.LatePrior for names containing a late term.
//  5. The total is clamped to 1.
//
// A [Link] is emitted iff the clamped confidence is strictly greater than
// [Config.Threshold].
//
// # Usage
//
//	links := linkage.Analyze(r.Ingredients, r.Instructions)
//	for _, l := range links {
//	    fmt.Println(l.IngredientIndex, l.InstructionIndex, l.Confidence)
//	}
//
// Every call recomputes from scratch. Inputs are not modified and an
// Analyzer may be shared between goroutines.
package linkage

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/recipeflow/pkg/recipe"
)

// Link is an inferred usage of an ingredient by an instruction step.
// Indices refer to positions in the slices passed to Analyze.
type Link struct {
	IngredientIndex  int     `json:"ingredient_index"`
	InstructionIndex int     `json:"instruction_index"`
	Confidence       float64 `json:"confidence"`
}

// Analyzer scores ingredient/instruction pairs with a fixed [Config].
type Analyzer struct {
	cfg Config
}

// New creates an analyzer. The config is copied; later changes to cfg's
// slices by the caller do not affect the analyzer.
func New(cfg Config) *Analyzer {
	c := cfg
	c.EarlyTerms = lowerAll(cfg.EarlyTerms)
	c.LateTerms = lowerAll(cfg.LateTerms)
	c.Terms = make([]Term, len(cfg.Terms))
	for i, t := range cfg.Terms {
		c.Terms[i] = Term{Ingredient: strings.ToLower(t.Ingredient), Verbs: lowerAll(t.Verbs)}
	}
	return &Analyzer{cfg: c}
}

// Config returns the analyzer's configuration.
func (a *Analyzer) Config() Config { return a.cfg }

var defaultAnalyzer = New(DefaultConfig())

// Analyze runs the default analyzer.
func Analyze(ingredients []recipe.Ingredient, instructions []recipe.Instruction) []Link {
	return defaultAnalyzer.Analyze(ingredients, instructions)
}

// Analyze evaluates the full cross product and returns the accepted links,
// ordered by instruction index and then ingredient index. Empty inputs yield
// an empty result.
func (a *Analyzer) Analyze(ingredients []recipe.Ingredient, instructions []recipe.Instruction) []Link {
	links := make([]Link, 0)
	if len(ingredients) == 0 || len(instructions) == 0 {
		return links
	}

	names := make([]string, len(ingredients))
	for i, ing := range ingredients {
		names[i] = normalize(ing.Name)
	}

	for insIdx, ins := range instructions {
		text := normalize(ins.Description)
		for ingIdx, name := range names {
			s := a.score(name, text, ins.Step)
			if s.Confidence > a.cfg.Threshold {
				links = append(links, Link{
					IngredientIndex:  ingIdx,
					InstructionIndex: insIdx,
					Confidence:       s.Confidence,
				})
			}
		}
	}
	return links
}

// Score is the per-component breakdown of a pair's confidence.
type Score struct {
	Word       float64  `json:"word"`
	Stem       float64  `json:"stem"`
	Verb       float64  `json:"verb"`
	Prior      float64  `json:"prior"`
	Raw        float64  `json:"raw"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence,omitempty"`
}

// Accepted reports whether the score would produce a Link under threshold.
func (s Score) Accepted(threshold float64) bool { return s.Confidence > threshold }

// Score explains the confidence of a single pair.
func (a *Analyzer) Score(ing recipe.Ingredient, ins recipe.Instruction) Score {
	return a.score(normalize(ing.Name), normalize(ins.Description), ins.Step)
}

func (a *Analyzer) score(name, text string, step int) Score {
	var s Score
	w := a.cfg.Weights

	for _, word := range splitWords(name) {
		if utf8.RuneCountInString(word) <= a.cfg.MinWordLength {
			continue
		}
		full := strings.Contains(text, word)
		if full {
			s.Word += w.Word
			s.Evidence = append(s.Evidence, "word:"+word)
		}
		if full && a.cfg.SeparateStemBonus {
			continue
		}
		if stem := trimLastRune(word); stem != "" && strings.Contains(text, stem) {
			s.Stem += w.Stem
			s.Evidence = append(s.Evidence, "stem:"+stem)
		}
	}

	for _, t := range a.cfg.Terms {
		if t.Ingredient == "" || !strings.Contains(name, t.Ingredient) {
			continue
		}
		for _, verb := range t.Verbs {
			if verb != "" && strings.Contains(text, verb) {
				s.Verb += w.VerbPair
				s.Evidence = append(s.Evidence, "verb:"+t.Ingredient+"/"+verb)
			}
		}
	}

	if step <= a.cfg.EarlyStepMax && containsAny(name, a.cfg.EarlyTerms) {
		s.Prior += w.EarlyPrior
		s.Evidence = append(s.Evidence, "prior:early")
	}
	if step >= a.cfg.LateStepMin && containsAny(name, a.cfg.LateTerms) {
		s.Prior += w.LatePrior
		s.Evidence = append(s.Evidence, "prior:late")
	}

	s.Raw = s.Word + s.Stem + s.Verb + s.Prior
	s.Confidence = clamp(s.Raw)
	return s
}

// normalize composes text to NFC and lowercases it so that precomposed and
// decomposed accents compare equal.
func normalize(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

func splitWords(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == ',' || r == '(' || r == ')'
	})
}

func trimLastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
