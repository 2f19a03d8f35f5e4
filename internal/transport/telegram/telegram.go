// Package telegram publishes posts to a Telegram channel.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Meltonq/autopost/internal/media"
)

// Channel sends posts to one Telegram channel, addressed either by @username
// or by numeric chat id.
type Channel struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	username string
}

// New creates the channel transport. channel is "@name" or a numeric id
// (including the -100... supergroup form).
func New(token, channel string) (*Channel, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	c := &Channel{bot: bot}
	if strings.HasPrefix(channel, "@") {
		c.username = channel
	} else {
		id, err := strconv.ParseInt(channel, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("telegram channel %q is neither @username nor chat id", channel)
		}
		c.chatID = id
	}
	return c, nil
}

// SendText sends a plain post with HTML formatting and no link preview.
func (c *Channel) SendText(_ context.Context, text string) error {
	var msg tgbotapi.MessageConfig
	if c.username != "" {
		msg = tgbotapi.NewMessageToChannel(c.username, text)
	} else {
		msg = tgbotapi.NewMessage(c.chatID, text)
	}
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send message: %w", err)
	}
	return nil
}

// SendPhoto uploads the image with the caption attached.
func (c *Channel) SendPhoto(_ context.Context, img *media.Image, caption string) error {
	var file tgbotapi.RequestFileData
	if img.Bytes != nil {
		file = tgbotapi.FileBytes{Name: img.Filename, Bytes: img.Bytes}
	} else {
		r, err := img.Open()
		if err != nil {
			return fmt.Errorf("open image %s: %w", img.Filename, err)
		}
		defer r.Close()
		file = tgbotapi.FileReader{Name: img.Filename, Reader: r}
	}

	var photo tgbotapi.PhotoConfig
	if c.username != "" {
		photo = tgbotapi.NewPhotoToChannel(c.username, file)
	} else {
		photo = tgbotapi.NewPhoto(c.chatID, file)
	}
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML

	if _, err := c.bot.Send(photo); err != nil {
		return fmt.Errorf("telegram send photo: %w", err)
	}
	return nil
}
