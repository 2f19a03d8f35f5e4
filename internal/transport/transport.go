// Package transport defines the narrow contract the orchestrator needs from
// a messaging channel: send text, send photo with caption. Captions arrive
// with the single <b> pair around the title; each platform adapter maps that
// to its own formatting.
package transport

import (
	"context"

	"github.com/Meltonq/autopost/internal/media"
)

// Transport publishes posts to one channel.
type Transport interface {
	SendText(ctx context.Context, text string) error
	SendPhoto(ctx context.Context, img *media.Image, caption string) error
}
