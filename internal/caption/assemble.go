package caption

import (
	"regexp"
	"strings"

	"github.com/Meltonq/autopost/internal/text"
)

var trailingWSRe = regexp.MustCompile(`\s+\n`)

// Assemble builds the final caption: the title wrapped in the single allowed
// bold pair, a blank line, then the body. Both parts are stripped of any
// markup first, so the bold pair around the title is the only tag left.
func Assemble(title, body string) string {
	cleanTitle := text.CollapseSpaces(text.StripMarkup(title))
	cleanBody := strings.TrimSpace(trailingWSRe.ReplaceAllString(text.StripMarkup(body), "\n"))
	return strings.TrimSpace("<b>" + cleanTitle + "</b>\n\n" + cleanBody)
}
