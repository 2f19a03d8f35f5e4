package generate

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/Meltonq/autopost/internal/theme"
)

// BuildPrompt renders the generation prompt for one attempt. Full-template
// themes substitute the selection into the theme's literal template; brief
// themes compose the instruction from the rubric, a topical brief and the
// length window.
func BuildPrompt(th *theme.Theme, rubric, tone, cta, brief string) Prompt {
	system := strings.Join([]string{
		"You are a senior Telegram content writer.",
		fmt.Sprintf("Audience: %s.", th.Audience),
		fmt.Sprintf("Primary language: %s.", th.Language),
		fmt.Sprintf("Use tone: %s.", tone),
		"Write naturally, without mentioning AI or system prompts.",
		"Avoid markdown headings unless explicitly requested.",
	}, " ")

	if th.Prompt.Mode == "fullTemplate" {
		return Prompt{System: system, User: expand(th.Prompt.Template, templateVars(th, rubric, tone, cta))}
	}

	rules := th.CaptionRules
	user := strings.Join([]string{
		fmt.Sprintf("Rubric: %s.", rubric),
		fmt.Sprintf("Short brief: %s.", brief),
		fmt.Sprintf("Call to action (append as a separate last line, verbatim): %s.", cta),
		fmt.Sprintf("Target length: %d-%d characters (including CTA).", rules.Min, rules.Max),
		"Start the reply with two header lines: 'RUBRIC: <rubric id>' and 'TITLE: <emoji + short title>'.",
		"Output only the headers and the post text. No extra labels.",
	}, "\n")

	return Prompt{System: system, User: user}
}

// PickBrief selects a topical brief for the rubric from the theme's pools.
func PickBrief(th *theme.Theme, rubric string, rng *rand.Rand) string {
	if pool := th.BriefsByRubric[rubric]; len(pool) > 0 {
		return pool[rng.Intn(len(pool))]
	}
	if len(th.Briefs) > 0 {
		return th.Briefs[rng.Intn(len(th.Briefs))]
	}
	return "Give a practical insight with a gentle example."
}

func templateVars(th *theme.Theme, rubric, tone, cta string) map[string]string {
	requiredBlock := ""
	if mandatory := th.Validation.Mandatory(); len(mandatory) > 0 {
		requiredBlock = mandatory[0].Label + ":"
	}
	stepPrefix := theme.DefaultStepPrefix
	if len(th.Validation.StepPrefixes) > 0 {
		stepPrefix = th.Validation.StepPrefixes[0]
	}
	return map[string]string{
		"rubric":        rubric,
		"tone":          tone,
		"cta":           cta,
		"requiredBlock": requiredBlock,
		"stepPrefix":    stepPrefix,
		"stepsMin":      fmt.Sprintf("%d", th.Validation.StepsMin),
	}
}

func expand(tmpl string, vars map[string]string) string {
	out := tmpl
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	return out
}
