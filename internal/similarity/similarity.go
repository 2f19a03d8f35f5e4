// Package similarity scores two texts for near-duplicate content. Unigram
// overlap alone is fooled by reordered sentences and bigram overlap alone is
// too strict against paraphrase, so the score blends both Jaccard indexes.
package similarity

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// stopWords holds the pronouns and fillers of the channel language plus a few
// English fillers; they carry no duplicate signal.
var stopWords = map[string]struct{}{
	"это": {}, "как": {}, "что": {}, "чтобы": {}, "когда": {},
	"тогда": {}, "есть": {}, "еще": {}, "ещё": {}, "вот": {},
	"тут": {}, "там": {}, "про": {}, "при": {}, "для": {},
	"без": {}, "или": {}, "она": {}, "оно": {}, "они": {},
	"ты": {}, "вы": {}, "мы": {}, "он": {}, "тот": {},
	"эта": {}, "эти": {},
	"your": {}, "the": {}, "and": {}, "with": {}, "from": {},
}

var urlRe = regexp.MustCompile(`https?://\S+`)

func normalize(s string) string {
	s = strings.ToLower(s)
	s = urlRe.ReplaceAllString(s, "")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// tokens returns the qualifying words of s: longer than three runes and not a
// stop-word.
func tokens(s string) []string {
	var out []string
	for _, w := range strings.Fields(normalize(s)) {
		if utf8.RuneCountInString(w) <= 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func bigramSet(words []string) map[string]struct{} {
	set := make(map[string]struct{})
	for i := 0; i+1 < len(words); i++ {
		set[words[i]+"_"+words[i+1]] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		union = 1
	}
	return float64(inter) / float64(union)
}

// Score estimates duplicate content between a and b as a value in [0,1]:
// 0.6 times the unigram Jaccard plus 0.4 times the adjacent-bigram Jaccard.
// Symmetric and pure.
func Score(a, b string) float64 {
	ta, tb := tokens(a), tokens(b)
	words := jaccard(wordSet(ta), wordSet(tb))
	bigrams := jaccard(bigramSet(ta), bigramSet(tb))
	return words*0.6 + bigrams*0.4
}
