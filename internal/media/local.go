package media

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog/log"

	"github.com/Meltonq/autopost/internal/store"
)

var imageExtRe = regexp.MustCompile(`(?i)\.(jpe?g|png|webp)$`)

// Local rotates through the images of a per-rubric subdirectory (falling
// back to the base directory), never reusing a file until the rubric's pool
// is exhausted.
type Local struct {
	dir      string
	maxBytes int64
	used     *store.UsedImages
	rng      *rand.Rand
}

func NewLocal(dir string, maxBytes int64, used *store.UsedImages, rng *rand.Rand) *Local {
	return &Local{dir: dir, maxBytes: maxBytes, used: used, rng: rng}
}

func (l *Local) Pick(_ context.Context, rubric string) (*Image, error) {
	key := rubric
	if key == "" {
		key = "default"
	}

	dir := filepath.Join(l.dir, key)
	files := listImages(dir)
	if len(files) == 0 {
		dir = l.dir
		files = listImages(dir)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files under %s", ErrNoImage, filepath.Join(l.dir, key))
	}

	used := make(map[string]struct{})
	for _, f := range l.used.Used(key) {
		used[f] = struct{}{}
	}
	pool := make([]string, 0, len(files))
	for _, f := range files {
		if _, ok := used[f]; !ok {
			pool = append(pool, f)
		}
	}
	if len(pool) == 0 {
		pool = files
	}

	// Random pick, skipping files over the transport's byte cap.
	for range pool {
		name := pool[l.rng.Intn(len(pool))]
		path := filepath.Join(dir, name)
		if l.maxBytes > 0 {
			st, err := os.Stat(path)
			if err != nil || st.Size() > l.maxBytes {
				continue
			}
		}
		if err := l.used.Record(key, name, len(files)); err != nil {
			log.Warn().Err(err).Msg("used-images store write failed")
		}
		return &Image{
			Filename:    name,
			ContentType: ContentTypeFromPath(name),
			Path:        path,
		}, nil
	}
	return nil, fmt.Errorf("%w: every candidate in %s exceeds %d bytes", ErrNoImage, dir, l.maxBytes)
}

func listImages(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && imageExtRe.MatchString(e.Name()) {
			out = append(out, e.Name())
		}
	}
	return out
}
