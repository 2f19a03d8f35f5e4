package caption

import (
	"strings"
	"unicode"

	"github.com/Meltonq/autopost/internal/text"
)

// MatchesSectionHeader reports whether line is a section header for label.
// Matching is case-insensitive, tolerates leading emoji/bullet glyphs before
// the label and accepts ":" or "." as the terminator; dash variants and the
// fullwidth colon are unified before comparison.
func MatchesSectionHeader(label, line string) bool {
	lab := text.NormalizeLoose(label)
	l := text.NormalizeLoose(text.StripMarkup(line))
	if lab == "" || l == "" {
		return false
	}

	// Drop any decoration before the first letter or digit.
	l = strings.TrimLeftFunc(l, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	lr := []rune(l)
	labr := []rune(lab)
	if len(lr) <= len(labr) {
		return false
	}
	if !strings.EqualFold(string(lr[:len(labr)]), lab) {
		return false
	}
	rest := strings.TrimSpace(string(lr[len(labr):]))
	return rest == ":" || rest == "."
}

// ContainsSection reports whether any line of body is a header for label.
func ContainsSection(label, body string) bool {
	for _, line := range strings.Split(body, "\n") {
		if MatchesSectionHeader(label, line) {
			return true
		}
	}
	return false
}
