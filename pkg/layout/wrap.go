package layout

import (
	"strings"
	"unicode/utf8"
)

// Wrap breaks text into lines of at most width runes, splitting on
// whitespace. A word longer than width gets a line of its own. Blank text
// yields no lines.
func Wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	width = max(1, width)

	var (
		lines []string
		cur   strings.Builder
		n     int
	)
	for _, w := range words {
		wl := utf8.RuneCountInString(w)
		if n > 0 && n+1+wl > width {
			lines = append(lines, cur.String())
			cur.Reset()
			n = 0
		}
		if n > 0 {
			cur.WriteByte(' ')
			n++
		}
		cur.WriteString(w)
		n += wl
	}
	return append(lines, cur.String())
}
