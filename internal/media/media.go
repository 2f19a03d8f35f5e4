// Package media sources the image attached to a post. Providers return an
// opaque Image handle; failures are non-fatal and degrade the post to
// text-only at the publish step.
package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrNoImage marks every provider failure the orchestrator should degrade
// on rather than abort.
var ErrNoImage = errors.New("no image available")

// Image is a publishable asset: either an in-memory buffer (remote sources)
// or a local file opened lazily by the transport.
type Image struct {
	Filename    string
	ContentType string
	Bytes       []byte // set for remote assets
	Path        string // set for local assets
}

// Open returns a reader over the image content.
func (img *Image) Open() (io.ReadCloser, error) {
	if img.Bytes != nil {
		return io.NopCloser(bytes.NewReader(img.Bytes)), nil
	}
	return os.Open(img.Path)
}

// Provider picks an image for a rubric.
type Provider interface {
	Pick(ctx context.Context, rubric string) (*Image, error)
}

// Chain tries providers in order and returns the first success.
type Chain []Provider

func (c Chain) Pick(ctx context.Context, rubric string) (*Image, error) {
	var lastErr error = ErrNoImage
	for _, p := range c {
		img, err := p.Pick(ctx, rubric)
		if err == nil {
			return img, nil
		}
		log.Debug().Err(err).Str("rubric", rubric).Msg("image provider failed, trying next")
		lastErr = err
	}
	return nil, lastErr
}

// ContentTypeFromPath maps an image file extension to its MIME type.
func ContentTypeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
