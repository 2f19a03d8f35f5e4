package generate

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/Meltonq/autopost/internal/theme"
)

func promptTheme(mode string) *theme.Theme {
	return &theme.Theme{
		Name:     "test",
		Language: "ru",
		Audience: "тестовая аудитория",
		Rubrics:  []string{"calm"},
		Tones:    []string{"тёплый"},
		CTA:      []string{"Сохраните пост."},
		CaptionRules: theme.CaptionRules{
			Min: 500, Max: 900,
		},
		Validation: theme.Validation{
			StepsMin:     2,
			StepPrefixes: []string{"—"},
			RequiredSections: []theme.Section{
				{ID: "practice", Label: "Мини-практика", Required: true},
			},
		},
		Prompt: theme.Prompt{
			Mode:     mode,
			Template: "Рубрика {{rubric}}, тон {{tone}}.\n{{requiredBlock}}\n{{stepPrefix}} шаг ({{stepsMin}} минимум)\n{{cta}}",
		},
		Briefs:         []string{"общий бриф"},
		BriefsByRubric: map[string][]string{"calm": {"бриф про дыхание"}},
	}
}

func TestBuildPromptFullTemplate(t *testing.T) {
	th := promptTheme("fullTemplate")
	p := BuildPrompt(th, "calm", "тёплый", "Сохраните пост.", "бриф")

	for _, want := range []string{"Рубрика calm", "тон тёплый", "Мини-практика:", "— шаг (2 минимум)", "Сохраните пост."} {
		if !strings.Contains(p.User, want) {
			t.Fatalf("user prompt missing %q:\n%s", want, p.User)
		}
	}
	if strings.Contains(p.User, "{{") {
		t.Fatalf("unexpanded placeholder left:\n%s", p.User)
	}
	if !strings.Contains(p.System, "тёплый") {
		t.Fatalf("system prompt missing tone:\n%s", p.System)
	}
}

func TestBuildPromptBrief(t *testing.T) {
	th := promptTheme("brief")
	p := BuildPrompt(th, "calm", "тёплый", "Сохраните пост.", "бриф про дыхание")

	for _, want := range []string{"Rubric: calm", "бриф про дыхание", "500-900", "RUBRIC:", "TITLE:"} {
		if !strings.Contains(p.User, want) {
			t.Fatalf("user prompt missing %q:\n%s", want, p.User)
		}
	}
}

func TestPickBriefPrefersRubricPool(t *testing.T) {
	th := promptTheme("brief")
	rng := rand.New(rand.NewSource(7))
	if got := PickBrief(th, "calm", rng); got != "бриф про дыхание" {
		t.Fatalf("got %q", got)
	}
	if got := PickBrief(th, "other", rng); got != "общий бриф" {
		t.Fatalf("got %q", got)
	}
}

func TestPickBriefEmptyPools(t *testing.T) {
	th := promptTheme("brief")
	th.Briefs = nil
	th.BriefsByRubric = nil
	rng := rand.New(rand.NewSource(7))
	if got := PickBrief(th, "calm", rng); got == "" {
		t.Fatalf("expected built-in default brief")
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{}, Params{}); err == nil {
		t.Fatalf("expected error without API key")
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New(Config{Provider: "cohere", APIKey: "k"}, Params{}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestNewSelectsProviders(t *testing.T) {
	for _, provider := range []string{"", "openai", "anthropic"} {
		g, err := New(Config{Provider: provider, APIKey: "k"}, Params{Model: "m"})
		if err != nil {
			t.Fatalf("provider %q: %v", provider, err)
		}
		if g == nil {
			t.Fatalf("provider %q returned nil generator", provider)
		}
	}
}
