package caption

import (
	"math/rand"
	"regexp"
	"strings"

	"github.com/Meltonq/autopost/internal/theme"
)

var (
	// hashtagRe finds hashtag substrings inside a line (validator side).
	hashtagRe = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	// hashtagTokenRe matches a whole well-formed hashtag (generator side).
	hashtagTokenRe = regexp.MustCompile(`^#[\p{L}\p{N}_-]+$`)
)

// CountHashtags returns the number of hashtag substrings in line.
func CountHashtags(line string) int {
	return len(hashtagRe.FindAllString(line, -1))
}

// ValidHashtagLine reports whether line is acceptable as a generated hashtag
// tail: 2 to 4 whitespace-separated tokens, each a well-formed hashtag.
func ValidHashtagLine(line string) bool {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) < 2 || len(fields) > 4 {
		return false
	}
	for _, f := range fields {
		if !hashtagTokenRe.MatchString(f) {
			return false
		}
	}
	return true
}

// FallbackHashtags builds a 2-4 tag line from the theme's per-rubric and
// common pools, shuffled with the injected randomness source.
func FallbackHashtags(th *theme.Theme, rubric string, rng *rand.Rand) string {
	pool := th.Hashtags.ByRubric[rubric]
	if len(pool) == 0 && len(th.Rubrics) > 0 {
		pool = th.Hashtags.ByRubric[th.Rubrics[0]]
	}
	shuffled := shuffledCopy(pool, rng)
	common := shuffledCopy(th.Hashtags.Common, rng)

	count := min(4, 2+rng.Intn(3))
	base := shuffled[:min(len(shuffled), max(1, count-1))]
	extra := common[:min(len(common), max(1, count-len(base)))]

	tags := append(append([]string{}, base...), extra...)
	if len(tags) > count {
		tags = tags[:count]
	}
	return strings.Join(tags, " ")
}

func shuffledCopy(in []string, rng *rand.Rand) []string {
	out := append([]string{}, in...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
