package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default product-tuning constants. They are carried as configuration
// defaults, not hardcoded logic: any theme may override them.
const (
	DefaultMaxTries            = 4
	DefaultSimilarityThreshold = 0.45
	DefaultMinLength           = 500
	DefaultMaxLength           = 900
	DefaultStepPrefix          = "—"
)

var allowedScheduleModes = map[string]struct{}{
	"": {}, "hourly": {}, "daily": {}, "hours": {}, "off": {},
}

// Load reads the named theme from dir, falling back to default.yaml when the
// named file is absent. Returns the theme and the path actually used.
func Load(dir, name string) (*Theme, string, error) {
	if name == "" {
		name = "default"
	}
	candidates := []string{
		filepath.Join(dir, name+".yaml"),
		filepath.Join(dir, name+".yml"),
		filepath.Join(dir, "default.yaml"),
	}

	var raw []byte
	var used string
	for _, p := range candidates {
		b, err := os.ReadFile(p)
		if err == nil {
			raw, used = b, p
			break
		}
	}
	if used == "" {
		return nil, "", fmt.Errorf("theme not found, looked in %v", candidates)
	}

	var th Theme
	if err := yaml.Unmarshal(raw, &th); err != nil {
		return nil, "", fmt.Errorf("theme %s: %w", used, err)
	}
	th.applyDefaults()
	if err := th.validate(); err != nil {
		return nil, "", fmt.Errorf("theme %s: %w", used, err)
	}
	return &th, used, nil
}

func (t *Theme) applyDefaults() {
	if t.Language == "" {
		t.Language = "ru"
	}
	if t.CaptionRules.MaxTries <= 0 {
		t.CaptionRules.MaxTries = DefaultMaxTries
	}
	if t.CaptionRules.SimilarityThreshold == 0 {
		t.CaptionRules.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if t.CaptionRules.MinSoft == 0 {
		t.CaptionRules.MinSoft = t.CaptionRules.Min
	}
	if t.CaptionRules.MaxSoft == 0 {
		t.CaptionRules.MaxSoft = t.CaptionRules.Max
	}
	if t.Validation.MinLength == 0 {
		t.Validation.MinLength = DefaultMinLength
	}
	if t.Validation.MaxLength == 0 {
		t.Validation.MaxLength = DefaultMaxLength
	}
	if len(t.Validation.StepPrefixes) == 0 {
		t.Validation.StepPrefixes = []string{DefaultStepPrefix}
	}
	if t.Prompt.Temperature == 0 {
		t.Prompt.Temperature = 0.9
	}
	if t.Prompt.TopP == 0 {
		t.Prompt.TopP = 0.95
	}
	if t.Prompt.MaxTokens == 0 {
		t.Prompt.MaxTokens = 520
	}
}

func (t *Theme) validate() error {
	switch {
	case t.Name == "":
		return fmt.Errorf("name is required")
	case t.Audience == "":
		return fmt.Errorf("audience is required")
	case len(t.Rubrics) == 0:
		return fmt.Errorf("rubrics is required")
	case len(t.Tones) == 0:
		return fmt.Errorf("tones is required")
	case len(t.CTA) == 0:
		return fmt.Errorf("cta is required")
	}
	if t.CaptionRules.Min <= 0 || t.CaptionRules.Max <= 0 {
		return fmt.Errorf("captionRules.min and captionRules.max are required")
	}
	if t.CaptionRules.Min >= t.CaptionRules.Max {
		return fmt.Errorf("captionRules.min must be < max")
	}
	if st := t.CaptionRules.SimilarityThreshold; st < 0 || st > 1 {
		return fmt.Errorf("captionRules.similarityThreshold must be in [0,1]")
	}
	if _, ok := allowedScheduleModes[t.Schedule.Mode]; !ok {
		return fmt.Errorf("schedule.mode %q must be one of hourly, daily, hours, off", t.Schedule.Mode)
	}
	return nil
}
