package caption

import (
	"strings"
	"unicode"

	"github.com/Meltonq/autopost/internal/text"
	"github.com/Meltonq/autopost/internal/theme"
)

// Repair applies the model-free fixes for defects a language model
// predictably produces, in order: strip forbidden sections, insert missing
// mandatory sections, pad step lines to the configured minimum, dedupe
// adjacent identical lines, dedupe step lines by normalized content.
// Idempotent: running it twice yields the same output as running it once.
func Repair(body, cta string, rules theme.Validation) string {
	out := StripForbiddenSections(body, rules)

	prefixes := rules.StepPrefixes
	if len(prefixes) == 0 {
		prefixes = []string{theme.DefaultStepPrefix}
	}

	required := rules.Mandatory()
	if len(required) == 0 && rules.StepsMin <= 0 {
		// Nothing to enforce; still dedupe noisy model output.
		out = dedupeAdjacentLines(out)
		return dedupeStepLines(out, prefixes)
	}

	lines := text.Lines(text.StripMarkup(out))

	for _, sec := range required {
		if linesContainHeader(lines, sec.Label) {
			continue
		}
		insertAt := len(lines)
		if cta != "" {
			for i, l := range lines {
				if l == cta {
					insertAt = i
					break
				}
			}
		}
		p := prefixes[0]
		block := []string{sec.Label + ":", p, p}
		lines = append(lines[:insertAt], append(block, lines[insertAt:]...)...)
	}

	for countSteps(lines, prefixes) < rules.StepsMin {
		lines = append(lines, prefixes[0])
	}

	out = strings.Join(lines, "\n")
	out = dedupeAdjacentLines(out)
	return dedupeStepLines(out, prefixes)
}

// StripForbiddenSections removes every section the theme marks forbidden:
// the header line plus the step-prefixed lines that follow it, stopping at
// the first non-step, non-empty line. A no-op on its own output.
func StripForbiddenSections(body string, rules theme.Validation) string {
	if len(rules.ForbiddenSections) == 0 {
		return body
	}
	prefixes := rules.StepPrefixes
	if len(prefixes) == 0 {
		prefixes = []string{theme.DefaultStepPrefix}
	}

	isHeader := func(line string) bool {
		for _, label := range rules.ForbiddenSections {
			if MatchesSectionHeader(label, line) {
				return true
			}
		}
		return false
	}

	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	var out []string
	for i := 0; i < len(lines); i++ {
		if !isHeader(lines[i]) {
			out = append(out, lines[i])
			continue
		}
		for i+1 < len(lines) {
			next := text.NormalizeLoose(text.StripMarkup(lines[i+1]))
			if next == "" || !isStepLine(next, prefixes) {
				break
			}
			i++
		}
	}
	return strings.Join(out, "\n")
}

// RebuildTail strips every line equal to the call-to-action or starting with
// "#" and appends a fresh CTA line and hashtag line. Used when validation
// reports a hashtag or CTA defect.
func RebuildTail(body, cta, hashtagLine string) string {
	var out []string
	for _, line := range text.Lines(text.StripMarkup(body)) {
		if line == cta || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	out = append(out, cta, hashtagLine)
	return strings.Join(out, "\n")
}

// isStepLine compares after loose normalization on both sides, so an em-dash
// prefix still matches once dash variants have been unified to "-".
func isStepLine(trimmed string, prefixes []string) bool {
	norm := text.NormalizeLoose(trimmed)
	for _, p := range prefixes {
		if strings.HasPrefix(norm, text.NormalizeLoose(p)) {
			return true
		}
	}
	return false
}

func linesContainHeader(lines []string, label string) bool {
	for _, l := range lines {
		if MatchesSectionHeader(label, l) {
			return true
		}
	}
	return false
}

func countSteps(lines []string, prefixes []string) int {
	n := 0
	for _, l := range lines {
		if isStepLine(strings.TrimSpace(l), prefixes) {
			n++
		}
	}
	return n
}

// dedupeAdjacentLines drops a line when it equals the previous kept line,
// comparing with trailing whitespace removed.
func dedupeAdjacentLines(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	for _, line := range lines {
		cur := strings.TrimRightFunc(line, unicode.IsSpace)
		if len(out) > 0 && strings.TrimRightFunc(out[len(out)-1], unicode.IsSpace) == cur {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// dedupeStepLines keeps only the first step line with a given normalized
// content, regardless of adjacency. Non-step lines pass through untouched.
func dedupeStepLines(s string, prefixes []string) string {
	seen := make(map[string]struct{})
	lines := strings.Split(s, "\n")
	var out []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !isStepLine(trimmed, prefixes) {
			out = append(out, line)
			continue
		}
		key := text.NormalizeLoose(trimmed)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
