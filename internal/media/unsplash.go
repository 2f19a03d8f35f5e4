package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Meltonq/autopost/internal/store"
	"github.com/Meltonq/autopost/internal/theme"
)

const unsplashAPI = "https://api.unsplash.com/photos/random"

// UnsplashConfig configures the stock-photo provider.
type UnsplashConfig struct {
	AccessKey     string
	AppName       string
	Orientation   string // default "portrait"
	ContentFilter string // default "high"
	MaxBytes      int64  // transport upload cap; default 1900000
	Width         int    // default 1280
	Quality       int    // default 80
	DefaultQuery  string
	Retries       int // default 3
}

func (c *UnsplashConfig) applyDefaults() {
	if c.Orientation == "" {
		c.Orientation = "portrait"
	}
	if c.ContentFilter == "" {
		c.ContentFilter = "high"
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 1900000
	}
	if c.Width <= 0 {
		c.Width = 1280
	}
	if c.Quality <= 0 {
		c.Quality = 80
	}
	if c.DefaultQuery == "" {
		c.DefaultQuery = "minimal calm"
	}
	if c.Retries <= 0 {
		c.Retries = 3
	}
	if c.AppName == "" {
		c.AppName = "autopost"
	}
}

// Unsplash picks a random stock photo for the rubric's configured query,
// suppressing ids that were already posted and keeping the download under
// the transport's byte cap.
type Unsplash struct {
	cfg    UnsplashConfig
	th     *theme.Theme
	used   *store.UsedPhotos
	rng    *rand.Rand
	client *http.Client
}

func NewUnsplash(cfg UnsplashConfig, th *theme.Theme, used *store.UsedPhotos, rng *rand.Rand) *Unsplash {
	cfg.applyDefaults()
	return &Unsplash{
		cfg:    cfg,
		th:     th,
		used:   used,
		rng:    rng,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type unsplashPhoto struct {
	ID    string `json:"id"`
	Links struct {
		DownloadLocation string `json:"download_location"`
	} `json:"links"`
}

func (u *Unsplash) Pick(ctx context.Context, rubric string) (*Image, error) {
	if u.cfg.AccessKey == "" {
		return nil, fmt.Errorf("%w: unsplash access key not configured", ErrNoImage)
	}

	query := u.th.Unsplash.QueryByRubric[rubric]
	if query == "" {
		query = u.th.Unsplash.QueryByRubric["default"]
	}
	if query == "" {
		query = u.cfg.DefaultQuery
	}

	for i := 0; i < 5; i++ {
		photo, err := u.randomPhoto(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoImage, err)
		}
		if photo.ID == "" || photo.Links.DownloadLocation == "" {
			continue
		}
		if u.used.Seen(photo.ID) {
			continue
		}

		fileURL, err := u.trackDownload(ctx, photo.Links.DownloadLocation)
		if err != nil || fileURL == "" {
			continue
		}

		buf, contentType, err := u.fetchSized(ctx, fileURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoImage, err)
		}

		if err := u.used.Add(photo.ID); err != nil {
			log.Warn().Err(err).Msg("used-photos store write failed")
		}
		return &Image{
			Filename:    "unsplash_" + photo.ID + ".jpg",
			ContentType: contentType,
			Bytes:       buf,
		}, nil
	}
	return nil, fmt.Errorf("%w: unsplash candidates exhausted (repeats or API errors)", ErrNoImage)
}

func (u *Unsplash) randomPhoto(ctx context.Context, query string) (unsplashPhoto, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("orientation", u.cfg.Orientation)
	q.Set("content_filter", u.cfg.ContentFilter)

	var photo unsplashPhoto
	body, err := u.getWithRetry(ctx, unsplashAPI+"?"+q.Encode(), true)
	if err != nil {
		return photo, err
	}
	err = json.Unmarshal(body, &photo)
	return photo, err
}

func (u *Unsplash) trackDownload(ctx context.Context, location string) (string, error) {
	body, err := u.getWithRetry(ctx, location, true)
	if err != nil {
		return "", err
	}
	var out struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// fetchSized downloads the image, trying descending width/quality variants
// until one fits under the byte cap.
func (u *Unsplash) fetchSized(ctx context.Context, fileURL string) ([]byte, string, error) {
	type variant struct{ w, q int }
	variants := []variant{
		{u.cfg.Width, u.cfg.Quality},
		{u.cfg.Width * 8 / 10, max(60, u.cfg.Quality-10)},
		{u.cfg.Width * 65 / 100, max(55, u.cfg.Quality-15)},
	}

	for _, v := range variants {
		sized, err := withSizeParams(fileURL, v.w, v.q)
		if err != nil {
			continue
		}
		buf, contentType, err := u.download(ctx, sized)
		if err != nil {
			continue
		}
		if int64(len(buf)) > u.cfg.MaxBytes {
			continue
		}
		return buf, contentType, nil
	}

	buf, contentType, err := u.download(ctx, fileURL)
	if err != nil {
		return nil, "", err
	}
	if int64(len(buf)) > u.cfg.MaxBytes {
		return nil, "", fmt.Errorf("image too large: %d bytes (limit %d)", len(buf), u.cfg.MaxBytes)
	}
	return buf, contentType, nil
}

func withSizeParams(raw string, w, q int) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	values := parsed.Query()
	values.Set("w", strconv.Itoa(w))
	values.Set("q", strconv.Itoa(q))
	values.Set("fm", "jpg")
	values.Set("fit", "max")
	parsed.RawQuery = values.Encode()
	return parsed.String(), nil
}

func (u *Unsplash) download(ctx context.Context, rawURL string) ([]byte, string, error) {
	body, contentType, err := u.get(ctx, rawURL, false)
	if err != nil {
		return nil, "", err
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return body, contentType, nil
}

func (u *Unsplash) getWithRetry(ctx context.Context, rawURL string, authed bool) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= u.cfg.Retries; attempt++ {
		body, _, err := u.get(ctx, rawURL, authed)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable(err) || attempt == u.cfg.Retries {
			break
		}
		delay := 500*time.Millisecond<<attempt + time.Duration(u.rng.Intn(250))*time.Millisecond
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// statusError lets the retry loop distinguish 429/5xx from everything else.
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.status)
}

func retryable(err error) bool {
	if se, ok := err.(*statusError); ok {
		switch se.status {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	// Transport-level errors (reset, timeout, DNS) are worth retrying.
	return true
}

func (u *Unsplash) get(ctx context.Context, rawURL string, authed bool) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	if authed {
		req.Header.Set("Authorization", "Client-ID "+u.cfg.AccessKey)
		req.Header.Set("Accept-Version", "v1")
	}
	req.Header.Set("User-Agent", "tg-bot/"+u.cfg.AppName)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, "", &statusError{status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return body, resp.Header.Get("Content-Type"), nil
}
