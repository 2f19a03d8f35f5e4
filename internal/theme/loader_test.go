package theme

import (
	"os"
	"path/filepath"
	"testing"
)

const minimalTheme = `
name: test
audience: "тестовая аудитория"
rubrics: [calm, focus]
tones: ["тёплый"]
cta: ["Сохраните пост."]
captionRules:
  min: 500
  max: 900
`

func writeTheme(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write theme: %v", err)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "test.yaml", minimalTheme)

	th, path, err := Load(dir, "test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if filepath.Base(path) != "test.yaml" {
		t.Fatalf("used %q", path)
	}
	if th.Language != "ru" {
		t.Fatalf("language default: %q", th.Language)
	}
	if th.CaptionRules.MaxTries != DefaultMaxTries {
		t.Fatalf("maxTries default: %d", th.CaptionRules.MaxTries)
	}
	if th.CaptionRules.SimilarityThreshold != DefaultSimilarityThreshold {
		t.Fatalf("similarity default: %v", th.CaptionRules.SimilarityThreshold)
	}
	if th.CaptionRules.MinSoft != 500 || th.CaptionRules.MaxSoft != 900 {
		t.Fatalf("soft band defaults: %d..%d", th.CaptionRules.MinSoft, th.CaptionRules.MaxSoft)
	}
	if th.Validation.MinLength != DefaultMinLength || th.Validation.MaxLength != DefaultMaxLength {
		t.Fatalf("validation length defaults: %d..%d", th.Validation.MinLength, th.Validation.MaxLength)
	}
	if len(th.Validation.StepPrefixes) != 1 || th.Validation.StepPrefixes[0] != DefaultStepPrefix {
		t.Fatalf("step prefix default: %#v", th.Validation.StepPrefixes)
	}
}

func TestLoadFallsBackToDefaultTheme(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "default.yaml", minimalTheme)

	_, path, err := Load(dir, "missing")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if filepath.Base(path) != "default.yaml" {
		t.Fatalf("used %q", path)
	}
}

func TestLoadMissingThemeDir(t *testing.T) {
	if _, _, err := Load(t.TempDir(), "nope"); err == nil {
		t.Fatalf("expected error for missing theme")
	}
}

func TestLoadRejectsInvalidThemes(t *testing.T) {
	bad := []string{
		"name: x\naudience: a\nrubrics: [r]\ntones: [t]\ncta: [c]\n", // no length window
		"audience: a\nrubrics: [r]\ntones: [t]\ncta: [c]\ncaptionRules: {min: 500, max: 900}\n",           // no name
		"name: x\naudience: a\nrubrics: [r]\ntones: [t]\ncta: [c]\ncaptionRules: {min: 900, max: 500}\n",  // inverted window
		minimalTheme + "schedule:\n  mode: weekly\n", // bad schedule mode
		"name: x\naudience: a\nrubrics: [r]\ntones: [t]\ncta: [c]\ncaptionRules: {min: 500, max: 900, similarityThreshold: 2}\n", // threshold out of range
	}
	for i, content := range bad {
		dir := t.TempDir()
		writeTheme(t, dir, "bad.yaml", content)
		if _, _, err := Load(dir, "bad"); err == nil {
			t.Fatalf("case %d accepted:\n%s", i, content)
		}
	}
}

func TestMandatorySections(t *testing.T) {
	v := Validation{RequiredSections: []Section{
		{ID: "a", Label: "Практика", Required: true},
		{ID: "b", Label: "", Required: true},
		{ID: "c", Label: "Опционально", Required: false},
	}}
	m := v.Mandatory()
	if len(m) != 1 || m[0].ID != "a" {
		t.Fatalf("got %#v", m)
	}
}
