// Package text provides the canonical text normalization used by the whole
// caption pipeline: markup stripping, whitespace unification and emoji
// grapheme enumeration. Every function is pure and safe on empty input.
package text

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

var (
	boldTagRe = regexp.MustCompile(`(?i)</?b>`)
	anyTagRe  = regexp.MustCompile(`<[^>]*>`)
	spaceRe   = regexp.MustCompile(`[ \t]+`)
	allWSRe   = regexp.MustCompile(`\s+`)
)

// looseReplacer unifies the Unicode whitespace and dash variants language
// models like to emit into their plain ASCII counterparts.
var looseReplacer = strings.NewReplacer(
	" ", " ", // NBSP
	"‑", "-", // non-breaking hyphen
	"–", "-", // en dash
	"—", "-", // em dash
	"：", ":", // fullwidth colon
)

// StripMarkup removes every HTML-like tag, including the bold pair; bold is
// reintroduced only once, around the title, at final caption assembly.
func StripMarkup(s string) string {
	s = boldTagRe.ReplaceAllString(s, "")
	s = anyTagRe.ReplaceAllString(s, "")
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	return strings.TrimSpace(s)
}

// NormalizeLoose canonicalizes a single line or a multi-line block without
// touching newlines: NBSP to space, dash variants to hyphen, fullwidth colon
// to colon, space runs collapsed, ends trimmed.
func NormalizeLoose(s string) string {
	s = looseReplacer.Replace(s)
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CollapseSpaces folds every whitespace run, newlines included, into a single
// space.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(allWSRe.ReplaceAllString(s, " "))
}

// Lines splits s into its non-empty trimmed lines.
func Lines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// emojiTable approximates the Extended_Pictographic property for the symbol
// blocks that actually show up in channel posts. The stdlib unicode package
// does not export the property, so the ranges are spelled out here.
var emojiTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x203c, Hi: 0x203c, Stride: 1},
		{Lo: 0x2049, Hi: 0x2049, Stride: 1},
		{Lo: 0x231a, Hi: 0x231b, Stride: 1},
		{Lo: 0x23e9, Hi: 0x23fa, Stride: 1},
		{Lo: 0x25aa, Hi: 0x25ab, Stride: 1},
		{Lo: 0x25b6, Hi: 0x25b6, Stride: 1},
		{Lo: 0x25c0, Hi: 0x25c0, Stride: 1},
		{Lo: 0x25fb, Hi: 0x25fe, Stride: 1},
		{Lo: 0x2600, Hi: 0x27bf, Stride: 1},
		{Lo: 0x2934, Hi: 0x2935, Stride: 1},
		{Lo: 0x2b00, Hi: 0x2bff, Stride: 1},
		{Lo: 0x3030, Hi: 0x3030, Stride: 1},
		{Lo: 0x303d, Hi: 0x303d, Stride: 1},
		{Lo: 0x3297, Hi: 0x3297, Stride: 1},
		{Lo: 0x3299, Hi: 0x3299, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1f000, Hi: 0x1f0ff, Stride: 1},
		{Lo: 0x1f170, Hi: 0x1f251, Stride: 1},
		{Lo: 0x1f300, Hi: 0x1f5ff, Stride: 1},
		{Lo: 0x1f600, Hi: 0x1f64f, Stride: 1},
		{Lo: 0x1f680, Hi: 0x1f6ff, Stride: 1},
		{Lo: 0x1f700, Hi: 0x1f77f, Stride: 1},
		{Lo: 0x1f780, Hi: 0x1f7ff, Stride: 1},
		{Lo: 0x1f800, Hi: 0x1f8ff, Stride: 1},
		{Lo: 0x1f900, Hi: 0x1f9ff, Stride: 1},
		{Lo: 0x1fa00, Hi: 0x1faff, Stride: 1},
	},
}

func isEmojiGrapheme(g string) bool {
	for _, r := range g {
		if unicode.Is(emojiTable, r) {
			return true
		}
	}
	return false
}

// EmojiGraphemes enumerates the emoji grapheme clusters of s in order.
// Multi-rune clusters (skin tones, ZWJ sequences, flags) count as one.
func EmojiGraphemes(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		if g := gr.Str(); isEmojiGrapheme(g) {
			out = append(out, g)
		}
	}
	return out
}

// StartsWithEmoji reports whether the first grapheme cluster of s is an emoji.
func StartsWithEmoji(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	gr := uniseg.NewGraphemes(s)
	if !gr.Next() {
		return false
	}
	return isEmojiGrapheme(gr.Str())
}

// CountEmojis returns the number of emoji grapheme clusters in s.
func CountEmojis(s string) int {
	return len(EmojiGraphemes(s))
}

// StripEmojis removes every emoji grapheme cluster from s, keeping the rest
// of the text intact.
func StripEmojis(s string) string {
	var b strings.Builder
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		if g := gr.Str(); !isEmojiGrapheme(g) {
			b.WriteString(g)
		}
	}
	return b.String()
}
