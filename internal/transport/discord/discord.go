// Package discord publishes posts to a Discord channel.
package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Meltonq/autopost/internal/media"
)

// Channel sends posts to one Discord channel.
type Channel struct {
	session   *discordgo.Session
	channelID string
}

func New(token, channelID string) (*Channel, error) {
	if token == "" {
		return nil, fmt.Errorf("discord bot token is required")
	}
	if channelID == "" {
		return nil, fmt.Errorf("discord channel id is required")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &Channel{session: session, channelID: channelID}, nil
}

// toMarkdown rewrites the caption's single bold pair into Discord markdown.
func toMarkdown(caption string) string {
	r := strings.NewReplacer("<b>", "**", "</b>", "**", "<B>", "**", "</B>", "**")
	return r.Replace(caption)
}

func (c *Channel) SendText(ctx context.Context, text string) error {
	_, err := c.session.ChannelMessageSend(c.channelID, toMarkdown(text), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord send message: %w", err)
	}
	return nil
}

func (c *Channel) SendPhoto(ctx context.Context, img *media.Image, caption string) error {
	r, err := img.Open()
	if err != nil {
		return fmt.Errorf("open image %s: %w", img.Filename, err)
	}
	defer r.Close()

	_, err = c.session.ChannelMessageSendComplex(c.channelID, &discordgo.MessageSend{
		Content: toMarkdown(caption),
		Files: []*discordgo.File{{
			Name:        img.Filename,
			ContentType: img.ContentType,
			Reader:      r,
		}},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord send photo: %w", err)
	}
	return nil
}
