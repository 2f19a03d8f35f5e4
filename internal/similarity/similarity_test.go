package similarity

import "testing"

const sample = "Сделайте медленный вдох и заметьте, где в теле живёт напряжение. Практика занимает всего пару минут."

func TestScoreIdenticalTexts(t *testing.T) {
	if got := Score(sample, sample); got != 1.0 {
		t.Fatalf("identical texts scored %v, want 1.0", got)
	}
}

func TestScoreUnrelatedTexts(t *testing.T) {
	other := "Квартальный отчёт компании показал рост выручки на двенадцать процентов."
	if got := Score(sample, other); got > 0.1 {
		t.Fatalf("unrelated texts scored %v", got)
	}
}

func TestScoreSymmetric(t *testing.T) {
	other := "Сделайте медленный вдох, затем длинный выдох и вернитесь к делам."
	if Score(sample, other) != Score(other, sample) {
		t.Fatalf("score is not symmetric")
	}
}

func TestScoreEmptyInputs(t *testing.T) {
	if got := Score("", ""); got != 0 {
		t.Fatalf("empty inputs scored %v, want 0", got)
	}
	if got := Score(sample, ""); got != 0 {
		t.Fatalf("one empty input scored %v, want 0", got)
	}
}

func TestScoreIgnoresURLsAndPunctuation(t *testing.T) {
	a := "практика дыхания помогает вернуться"
	b := "практика, дыхания!! помогает... вернуться https://example.com/page"
	if got := Score(a, b); got != 1.0 {
		t.Fatalf("got %v, want 1.0 after url/punctuation stripping", got)
	}
}

func TestScoreDropsShortAndStopWords(t *testing.T) {
	// Every word is three runes or shorter, or a stop-word: no tokens remain
	// and the score must be 0, not NaN.
	if got := Score("это как что для", "вот тут там про"); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestTokensKeepNonStopPronouns(t *testing.T) {
	// Only the fixed stop-word list is filtered; other pronouns and fillers
	// longer than three runes stay as tokens.
	got := tokens("когда тебя здесь снова")
	if len(got) != 3 || got[0] != "тебя" || got[1] != "здесь" || got[2] != "снова" {
		t.Fatalf("tokens = %v", got)
	}
}

func TestScoreReorderedSentencesStayHigh(t *testing.T) {
	a := "утренняя практика дыхания возвращает спокойствие телу"
	b := "возвращает спокойствие телу утренняя практика дыхания"
	if got := Score(a, b); got < 0.6 {
		t.Fatalf("reordered text scored %v, want >= 0.6 from unigram overlap", got)
	}
}
