package linkage

import (
	"math"

	"github.com/matzehuels/recipeflow/pkg/errors"
)

// Weights are the confidence increments added by each kind of evidence.
type Weights struct {
	// Word is added when an ingredient word appears verbatim in the step.
	Word float64 `json:"word" toml:"word" mapstructure:"word"`
	// Stem is added when the word minus its last character appears.
	Stem float64 `json:"stem" toml:"stem" mapstructure:"stem"`
	// VerbPair is added per matching (ingredient term, verb) pair.
	VerbPair float64 `json:"verb_pair" toml:"verb_pair" mapstructure:"verb_pair"`
	// EarlyPrior is added for dry ingredients in early steps.
	EarlyPrior float64 `json:"early_prior" toml:"early_prior" mapstructure:"early_prior"`
	// LatePrior is added for final-assembly ingredients in late steps.
	LatePrior float64 `json:"late_prior" toml:"late_prior" mapstructure:"late_prior"`
}

// Term associates an ingredient-name substring with the verbs that suggest a
// step is using it.
type Term struct {
	Ingredient string   `json:"ingredient" toml:"ingredient" mapstructure:"ingredient"`
	Verbs      []string `json:"verbs" toml:"verbs" mapstructure:"verbs"`
}

// Config holds every tunable of the analyzer. The defaults were tuned on the
// chocolate chip cookie sample; other recipes may want different tables.
type Config struct {
	// Threshold is the exclusive lower bound a confidence must exceed to
	// produce a Link.
	Threshold float64 `json:"threshold" toml:"threshold" mapstructure:"threshold"`

	Weights Weights `json:"weights" toml:"weights" mapstructure:"weights"`

	// MinWordLength: ingredient words must be strictly longer than this
	// (in runes) to take part in word and stem matching.
	MinWordLength int `json:"min_word_length" toml:"min_word_length" mapstructure:"min_word_length"`

	// EarlyStepMax and EarlyTerms define the early-step prior: steps numbered
	// up to EarlyStepMax favour ingredients whose name contains an early term.
	EarlyStepMax int      `json:"early_step_max" toml:"early_step_max" mapstructure:"early_step_max"`
	EarlyTerms   []string `json:"early_terms" toml:"early_terms" mapstructure:"early_terms"`

	// LateStepMin and LateTerms define the late-step prior.
	LateStepMin int      `json:"late_step_min" toml:"late_step_min" mapstructure:"late_step_min"`
	LateTerms   []string `json:"late_terms" toml:"late_terms" mapstructure:"late_terms"`

	// Terms is the ingredient → verb lookup table.
	Terms []Term `json:"terms" toml:"terms" mapstructure:"terms"`

	// SeparateStemBonus only awards the stem bonus when the full word did not
	// match. The default (false) adds both, which double counts words whose
	// truncated form is also present.
	SeparateStemBonus bool `json:"separate_stem_bonus" toml:"separate_stem_bonus" mapstructure:"separate_stem_bonus"`
}

// Default tuning values.
const (
	DefaultThreshold     = 0.3
	DefaultMinWordLength = 3
	DefaultEarlyStepMax  = 3
	DefaultLateStepMin   = 6
)

// DefaultWeights returns the stock evidence weights.
func DefaultWeights() Weights {
	return Weights{
		Word:       0.4,
		Stem:       0.2,
		VerbPair:   0.3,
		EarlyPrior: 0.2,
		LatePrior:  0.3,
	}
}

// DefaultTerms returns the stock ingredient → verb table.
func DefaultTerms() []Term {
	return []Term{
		{Ingredient: "flour", Verbs: []string{"mix", "combine", "add", "sift"}},
		{Ingredient: "butter", Verbs: []string{"cream", "beat", "mix", "melt"}},
		{Ingredient: "sugar", Verbs: []string{"cream", "beat", "mix", "add"}},
		{Ingredient: "eggs", Verbs: []string{"beat", "add", "mix"}},
		{Ingredient: "chocolate", Verbs: []string{"fold", "add", "melt", "chips"}},
		{Ingredient: "vanilla", Verbs: []string{"add", "mix"}},
		{Ingredient: "salt", Verbs: []string{"add", "mix", "combine"}},
		{Ingredient: "baking soda", Verbs: []string{"mix", "combine", "add"}},
	}
}

// DefaultConfig returns a fresh copy of the stock configuration.
func DefaultConfig() Config {
	return Config{
		Threshold:     DefaultThreshold,
		Weights:       DefaultWeights(),
		MinWordLength: DefaultMinWordLength,
		EarlyStepMax:  DefaultEarlyStepMax,
		EarlyTerms:    []string{"flour", "salt", "baking"},
		LateStepMin:   DefaultLateStepMin,
		LateTerms:     []string{"chocolate"},
		Terms:         DefaultTerms(),
	}
}

// Validate checks that the configuration can produce confidences in [0, 1].
func (c Config) Validate() error {
	if !(c.Threshold >= 0 && c.Threshold <= 1) {
		return errors.New(errors.ErrCodeInvalidConfig, "linkage threshold %.2f outside [0, 1]", c.Threshold)
	}
	weights := map[string]float64{
		"word":        c.Weights.Word,
		"stem":        c.Weights.Stem,
		"verb_pair":   c.Weights.VerbPair,
		"early_prior": c.Weights.EarlyPrior,
		"late_prior":  c.Weights.LatePrior,
	}
	for name, w := range weights {
		if math.IsNaN(w) || w < 0 || w > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "linkage weight %s=%.2f outside [0, 1]", name, w)
		}
	}
	if c.MinWordLength < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min_word_length cannot be negative")
	}
	for i, t := range c.Terms {
		if t.Ingredient == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "term %d has an empty ingredient", i)
		}
	}
	return nil
}
