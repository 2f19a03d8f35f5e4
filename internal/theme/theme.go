// Package theme holds the immutable content configuration of a posting
// stream: rubrics, tones, call-to-action rotation, caption rules, prompt
// templates and fallback posts. A Theme is loaded once at startup and shared
// read-only by every component.
package theme

// Section describes one named block the caption body may be required to
// contain, e.g. a "Мини-практика" header followed by step lines.
type Section struct {
	ID       string `yaml:"id"`
	Label    string `yaml:"label"`
	Required bool   `yaml:"required"`
}

// CaptionRules bounds the overall caption and the generation loop.
type CaptionRules struct {
	Min                 int     `yaml:"min"`
	Max                 int     `yaml:"max"`
	MinSoft             int     `yaml:"minSoft"`
	MaxSoft             int     `yaml:"maxSoft"`
	MaxTries            int     `yaml:"maxTries"`
	SimilarityThreshold float64 `yaml:"similarityThreshold"`
}

// Validation configures the structural checks applied to a caption body.
type Validation struct {
	MinLength         int       `yaml:"minLength"`
	MaxLength         int       `yaml:"maxLength"`
	StepsMin          int       `yaml:"stepsMin"`
	StepPrefixes      []string  `yaml:"stepPrefixes"`
	RequiredSections  []Section `yaml:"requiredSections"`
	ForbiddenSections []string  `yaml:"forbiddenSections"`
}

// Mandatory returns the required sections that carry a label.
func (v Validation) Mandatory() []Section {
	var out []Section
	for _, s := range v.RequiredSections {
		if s.Required && s.Label != "" {
			out = append(out, s)
		}
	}
	return out
}

// Prompt configures how the generation prompt is rendered and which model
// parameters accompany it.
type Prompt struct {
	Mode        string  `yaml:"mode"` // "fullTemplate" or "brief"
	Template    string  `yaml:"template"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	TopP        float32 `yaml:"topP"`
	MaxTokens   int     `yaml:"maxTokens"`
}

// Fallback is a statically valid title/body pair published when generation
// exhausts all retries.
type Fallback struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Hashtags supplies the pools the fallback hashtag line is drawn from.
type Hashtags struct {
	ByRubric map[string][]string `yaml:"byRubric"`
	Common   []string            `yaml:"common"`
}

// Unsplash maps rubrics to stock-photo search queries.
type Unsplash struct {
	QueryByRubric map[string]string `yaml:"queryByRubric"`
}

// Schedule is the theme's preferred posting calendar; the process config may
// override it.
type Schedule struct {
	Mode   string `yaml:"mode"` // hourly | daily | hours | off
	Time   string `yaml:"time"`
	Hours  string `yaml:"hours"`
	Minute int    `yaml:"minute"`
}

// Theme is the full content bundle for one posting stream.
type Theme struct {
	Name           string              `yaml:"name"`
	Language       string              `yaml:"language"`
	Audience       string              `yaml:"audience"`
	Rubrics        []string            `yaml:"rubrics"`
	Tones          []string            `yaml:"tones"`
	CTA            []string            `yaml:"cta"`
	CaptionRules   CaptionRules        `yaml:"captionRules"`
	Validation     Validation          `yaml:"validation"`
	Prompt         Prompt              `yaml:"prompt"`
	Briefs         []string            `yaml:"briefs"`
	BriefsByRubric map[string][]string `yaml:"briefsByRubric"`
	Hashtags       Hashtags            `yaml:"hashtags"`
	Unsplash       Unsplash            `yaml:"unsplash"`
	Fallbacks      map[string]Fallback `yaml:"fallbackTemplates"`
	Schedule       Schedule            `yaml:"schedule"`
}
