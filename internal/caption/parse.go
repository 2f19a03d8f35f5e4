// Package caption turns raw model output into a channel-ready post: parsing
// the structured header, repairing mechanically fixable defects, validating
// against the theme's rule set and assembling the final text.
package caption

import (
	"regexp"
	"strings"
)

// Draft is one generation attempt's output, parsed but not yet repaired or
// validated. It lives for a single orchestrator iteration and is never
// persisted.
type Draft struct {
	Rubric string // rubric declared by the model, lowercased; empty if absent
	Title  string // title declared by the model; empty if absent
	Body   string // the remainder of the response
}

var (
	rubricHeaderRe = regexp.MustCompile(`(?i)^RUBRIC:\s*([a-z0-9_-]+)\s*$`)
	titleHeaderRe  = regexp.MustCompile(`(?i)^TITLE:\s*(.+?)\s*$`)
)

// ParseModelOutput splits a raw response into the expected two-line header
// ("RUBRIC: <id>" / "TITLE: <text>") and a free-text body. Missing header
// lines leave the corresponding field empty; the body always gets the rest.
func ParseModelOutput(raw string) Draft {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	var d Draft
	if len(lines) > 0 {
		if m := rubricHeaderRe.FindStringSubmatch(strings.TrimSpace(lines[0])); m != nil {
			d.Rubric = strings.ToLower(m[1])
		}
	}
	if len(lines) > 1 {
		if m := titleHeaderRe.FindStringSubmatch(strings.TrimSpace(lines[1])); m != nil {
			d.Title = m[1]
		}
	}
	if len(lines) > 2 {
		d.Body = strings.TrimSpace(strings.Join(lines[2:], "\n"))
	}
	return d
}
