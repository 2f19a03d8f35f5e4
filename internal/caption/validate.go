package caption

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Meltonq/autopost/internal/text"
	"github.com/Meltonq/autopost/internal/theme"
)

// Structural floors independent of the theme's own length window.
const (
	titleMinRunes = 3
	titleMaxRunes = 80
	bodyMinRunes  = 200
)

// Failure reasons appended by Validate. Collected as data, never raised as
// errors; the orchestrator uses them to choose between repair and retry.
const (
	ReasonBadTitle        = "bad_title"
	ReasonTitleNoEmoji    = "title_missing_emoji"
	ReasonTitleEmojiCount = "title_emoji_count"
	ReasonShortBody       = "short_body"
	ReasonNotEnoughSteps  = "not_enough_steps"
	ReasonCTAMissing      = "cta_missing"
	ReasonCTAPosition     = "cta_position"
	ReasonBadHashtags     = "bad_hashtags"
	ReasonWrongRubric     = "wrong_rubric"
	ReasonBadLength       = "bad_length"
	ReasonLengthSoft      = "length_soft"
	ReasonBadMarkup       = "bad_markup"

	missingSectionPrefix = "missing_section:"
)

// MissingSectionReason names the failure for an absent mandatory section.
func MissingSectionReason(id string) string {
	if id == "" {
		id = "unknown"
	}
	return missingSectionPrefix + id
}

// Verdict is the outcome of validating one caption: a pass/fail flag, the
// ordered failure reasons, the measured combined length and the step count.
type Verdict struct {
	OK      bool
	Reasons []string
	Length  int
	Steps   int
}

// HasAny reports whether the verdict contains any of the given reasons.
func (v Verdict) HasAny(reasons ...string) bool {
	for _, want := range reasons {
		for _, have := range v.Reasons {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Input carries one caption's parts into Validate.
type Input struct {
	Rubric         string // rubric declared by the model
	ExpectedRubric string // rubric the orchestrator asked for
	Title          string
	Body           string
	CTA            string
}

var anyTagRe = regexp.MustCompile(`<[^>]*>`)
var boldTagRe = regexp.MustCompile(`(?i)^</?b>$`)

// Validate checks a caption against the theme's rule set. Every check runs
// and appends its reason on failure; nothing short-circuits, so the
// orchestrator can pick a targeted repair from the full reason set.
func Validate(in Input, th *theme.Theme) Verdict {
	v := th.Validation
	cleanTitle := text.StripMarkup(in.Title)
	cleanBody := text.NormalizeLoose(text.StripMarkup(in.Body))
	var reasons []string

	titleLen := utf8.RuneCountInString(cleanTitle)
	if cleanTitle == "" || titleLen < titleMinRunes || titleLen > titleMaxRunes {
		reasons = append(reasons, ReasonBadTitle)
	}
	if !text.StartsWithEmoji(cleanTitle) {
		reasons = append(reasons, ReasonTitleNoEmoji)
	}
	if text.CountEmojis(cleanTitle) != 1 {
		reasons = append(reasons, ReasonTitleEmojiCount)
	}

	if utf8.RuneCountInString(cleanBody) < bodyMinRunes {
		reasons = append(reasons, ReasonShortBody)
	}

	for _, sec := range v.Mandatory() {
		if !ContainsSection(sec.Label, cleanBody) {
			reasons = append(reasons, MissingSectionReason(sec.ID))
		}
	}

	var lines []string
	for _, raw := range strings.Split(in.Body, "\n") {
		if l := text.NormalizeLoose(text.StripMarkup(raw)); l != "" {
			lines = append(lines, l)
		}
	}

	steps := countSteps(lines, v.StepPrefixes)
	if steps < v.StepsMin {
		reasons = append(reasons, ReasonNotEnoughSteps)
	}

	ctaNorm := text.NormalizeLoose(in.CTA)
	if in.CTA != "" {
		found := false
		for _, l := range lines {
			if l == ctaNorm {
				found = true
				break
			}
		}
		if !found {
			reasons = append(reasons, ReasonCTAMissing)
		}
	}

	last := ""
	if len(lines) > 0 {
		last = lines[len(lines)-1]
	}
	if n := CountHashtags(last); n < 2 || n > 6 {
		reasons = append(reasons, ReasonBadHashtags)
	}

	if in.ExpectedRubric != "" && in.Rubric != "" && in.Rubric != in.ExpectedRubric {
		reasons = append(reasons, ReasonWrongRubric)
	}

	var parts []string
	for _, p := range []string{cleanTitle, text.StripMarkup(in.Body), in.CTA} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	combined := text.NormalizeLoose(strings.Join(parts, "\n\n"))
	length := utf8.RuneCountInString(combined)
	if length < v.MinLength || length > v.MaxLength {
		reasons = append(reasons, ReasonBadLength)
	}

	if th.Prompt.Mode == "fullTemplate" {
		reasons = append(reasons, fullTemplateReasons(in, th, lines, ctaNorm, length)...)
	}

	return Verdict{OK: len(reasons) == 0, Reasons: reasons, Length: length, Steps: steps}
}

// fullTemplateReasons applies the stricter checks of full-template themes:
// a tighter character band, only the bold pair allowed as inline markup, and
// the CTA line sitting immediately before the hashtag line.
func fullTemplateReasons(in Input, th *theme.Theme, lines []string, ctaNorm string, length int) []string {
	var reasons []string

	rules := th.CaptionRules
	if length < rules.MinSoft || length > rules.MaxSoft {
		reasons = append(reasons, ReasonLengthSoft)
	}

	for _, tag := range anyTagRe.FindAllString(in.Title+"\n"+in.Body, -1) {
		if !boldTagRe.MatchString(tag) {
			reasons = append(reasons, ReasonBadMarkup)
			break
		}
	}

	if in.CTA != "" && len(lines) >= 2 && lines[len(lines)-2] != ctaNorm {
		reasons = append(reasons, ReasonCTAPosition)
	}

	return reasons
}
