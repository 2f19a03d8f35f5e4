package caption

import (
	"strings"

	"github.com/Meltonq/autopost/internal/text"
)

const (
	fallbackEmoji = "✨"
	fallbackTitle = "Небольшая пауза"
)

// FixTitle rebuilds a raw title as "<emoji> <text>", guaranteeing the
// single-leading-emoji invariant by construction: markup is stripped, the
// first emoji grapheme is kept (or the fallback glyph substituted) and the
// emoji-free remainder becomes the text (or the fallback phrase when empty).
func FixTitle(raw string) string {
	clean := text.CollapseSpaces(text.StripMarkup(raw))

	base := text.CollapseSpaces(text.StripEmojis(clean))
	if base == "" {
		base = fallbackTitle
	}

	emoji := fallbackEmoji
	if em := text.EmojiGraphemes(clean); len(em) > 0 {
		emoji = em[0]
	}

	return strings.TrimSpace(emoji + " " + base)
}
