package caption

import (
	"strings"
	"testing"
)

func TestParseModelOutputFullHeader(t *testing.T) {
	raw := "RUBRIC: Calm\nTITLE: ✨ Небольшая пауза\nПервый абзац.\n\nВторой абзац."
	d := ParseModelOutput(raw)
	if d.Rubric != "calm" {
		t.Fatalf("rubric = %q, want lowercased calm", d.Rubric)
	}
	if d.Title != "✨ Небольшая пауза" {
		t.Fatalf("title = %q", d.Title)
	}
	if !strings.HasPrefix(d.Body, "Первый абзац.") {
		t.Fatalf("body = %q", d.Body)
	}
}

func TestParseModelOutputCRLF(t *testing.T) {
	d := ParseModelOutput("RUBRIC: focus\r\nTITLE: 🎯 Фокус\r\nтело")
	if d.Rubric != "focus" || d.Title != "🎯 Фокус" || d.Body != "тело" {
		t.Fatalf("got %+v", d)
	}
}

func TestParseModelOutputMissingHeader(t *testing.T) {
	d := ParseModelOutput("просто текст без заголовков")
	if d.Rubric != "" || d.Title != "" {
		t.Fatalf("unexpected header fields: %+v", d)
	}
	if d.Body != "" {
		t.Fatalf("two-line input has no body remainder, got %q", d.Body)
	}
}

func TestParseModelOutputHeaderCaseInsensitive(t *testing.T) {
	d := ParseModelOutput("rubric: calm\ntitle: ✨ Пауза\nтело")
	if d.Rubric != "calm" || d.Title != "✨ Пауза" {
		t.Fatalf("got %+v", d)
	}
}

func TestFixTitleKeepsFirstEmoji(t *testing.T) {
	if got := FixTitle("Пауза ✨ дня 🌿"); got != "✨ Пауза дня" {
		t.Fatalf("got %q", got)
	}
}

func TestFixTitleFallbacks(t *testing.T) {
	if got := FixTitle(""); got != "✨ Небольшая пауза" {
		t.Fatalf("empty title: got %q", got)
	}
	if got := FixTitle("🌿"); got != "🌿 Небольшая пауза" {
		t.Fatalf("emoji-only title: got %q", got)
	}
	if got := FixTitle("Просто текст"); got != "✨ Просто текст" {
		t.Fatalf("plain title: got %q", got)
	}
}

func TestFixTitleStripsMarkup(t *testing.T) {
	if got := FixTitle("<b>✨ Пауза</b>"); got != "✨ Пауза" {
		t.Fatalf("got %q", got)
	}
}

func TestMatchesSectionHeader(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{"Практика:", true},
		{"практика:", true},
		{"🌿 Практика.", true},
		{"Практика：", true}, // fullwidth colon
		{"<b>Практика:</b>", true},
		{"Практика", false},
		{"Практика сегодня:", false},
		{"Другое:", false},
	}
	for _, c := range cases {
		if got := MatchesSectionHeader("Практика", c.line); got != c.want {
			t.Fatalf("MatchesSectionHeader(%q) = %v, want %v", c.line, got, c.want)
		}
	}
}
