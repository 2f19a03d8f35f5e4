package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/Meltonq/autopost/internal/caption"
)

const hashtagSystem = "Ты помощник, который пишет хэштеги для Telegram-канала."

// GenerateHashtags asks the model for a single 2-4 hashtag line for the
// given rubric and title. Malformed output is an error; the caller falls
// back to the theme's configured hashtag pools.
func GenerateHashtags(ctx context.Context, g Generator, rubric, title string) (string, error) {
	if rubric == "" {
		rubric = "общая тема"
	}
	if title == "" {
		title = "Без заголовка"
	}
	user := strings.Join([]string{
		"Сгенерируй строку из 2-4 хэштегов на русском.",
		fmt.Sprintf("Тема: %s.", rubric),
		fmt.Sprintf("Заголовок: %s.", title),
		"Требования:",
		"- Только хэштеги, в одной строке",
		"- Между хэштегами пробел",
		"- Без эмодзи и без текста кроме хэштегов",
		"- Каждый хэштег начинается с #",
	}, "\n")

	raw, err := g.Generate(ctx, Prompt{System: hashtagSystem, User: user})
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(strings.SplitN(raw, "\n", 2)[0])
	if !caption.ValidHashtagLine(line) {
		return "", fmt.Errorf("malformed hashtag line %q", line)
	}
	return line, nil
}
