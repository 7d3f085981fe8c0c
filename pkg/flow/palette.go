package flow

// Color is a named palette entry.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Palette is the fixed set of step colors, indexed by (step-1) mod len.
var Palette = [...]Color{
	{"blue", "#007AFF"},
	{"purple", "#AF52DE"},
	{"green", "#34C759"},
	{"orange", "#FF9500"},
	{"red", "#FF3B30"},
	{"cyan", "#32ADE6"},
	{"mint", "#00C7BE"},
	{"pink", "#FF2D55"},
	{"indigo", "#5856D6"},
	{"teal", "#30B0C7"},
}

// ColorForStep returns the palette color for a 1-based step number. Steps
// below 1 wrap around instead of indexing out of range.
func ColorForStep(step int) Color {
	n := len(Palette)
	i := (step - 1) % n
	if i < 0 {
		i += n
	}
	return Palette[i]
}

// Opacity maps a link confidence in [0, 1] to a fill opacity in [0.4, 0.8].
func Opacity(confidence float64) float64 {
	return confidence*0.4 + 0.4
}
