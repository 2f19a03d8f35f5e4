package cmd

import (
	"database/sql"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Meltonq/autopost/internal/config"
	"github.com/Meltonq/autopost/internal/generate"
	"github.com/Meltonq/autopost/internal/media"
	"github.com/Meltonq/autopost/internal/post"
	"github.com/Meltonq/autopost/internal/schedule"
	"github.com/Meltonq/autopost/internal/store"
	"github.com/Meltonq/autopost/internal/theme"
	"github.com/Meltonq/autopost/internal/transport"
	"github.com/Meltonq/autopost/internal/transport/discord"
	"github.com/Meltonq/autopost/internal/transport/telegram"
)

// app is the wired process: config, theme, stores and (when the command
// publishes) the poster with its generator and transport.
type app struct {
	cfg     *config.Config
	th      *theme.Theme
	loc     *time.Location
	history *store.History
	stats   *store.Stats
	poster  *post.Poster
	db      *sql.DB // non-nil for the sqlite backend
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Warn().Err(err).Msg("database close failed")
		}
	}
}

// loadApp wires everything the read-only commands need. publish additionally
// builds the generator, transport and image providers.
func loadApp(publish bool) (*app, error) {
	cfg, err := config.LoadFromPath(cfgPath)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	th, themePath, err := theme.Load(cfg.ThemesDir, cfg.Theme)
	if err != nil {
		return nil, err
	}
	log.Info().Str("theme", th.Name).Str("path", themePath).Msg("theme loaded")

	a := &app{cfg: cfg, th: th, loc: loc}

	docs, err := a.openStores()
	if err != nil {
		return nil, err
	}
	a.history = store.NewHistory(docs["history"])
	a.stats = store.NewStats(docs["stats"])

	if !publish {
		return a, nil
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	gen, err := generate.New(generate.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
		Model:    cfg.LLM.Model,
		Timeout:  cfg.LLM.Timeout,
	}, generate.Params{
		Model:       th.Prompt.Model,
		Temperature: th.Prompt.Temperature,
		TopP:        th.Prompt.TopP,
		MaxTokens:   th.Prompt.MaxTokens,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	tr, err := buildTransport(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.poster = post.New(post.Deps{
		Theme: th,
		Config: post.Config{
			ActiveHoursStart: cfg.ActiveHoursStart,
			ActiveHoursEnd:   cfg.ActiveHoursEnd,
			Location:         loc,
		},
		Generator: gen,
		Transport: tr,
		Images:    buildImages(cfg, th, docs, rng),
		History:   a.history,
		Stats:     a.stats,
		Rand:      rng,
	})
	return a, nil
}

// openStores builds the per-document backends for the configured store.
func (a *app) openStores() (map[string]store.DocStore, error) {
	keys := []string{"history", "stats", "used_images", "used_photos"}
	docs := make(map[string]store.DocStore, len(keys))

	if a.cfg.StoreBackend == "sqlite" {
		db, err := store.OpenSQLite(filepath.Join(a.cfg.DataDir, "autopost.db"))
		if err != nil {
			return nil, err
		}
		a.db = db
		for _, k := range keys {
			docs[k] = store.NewSQLiteStore(db, k)
		}
		return docs, nil
	}

	for _, k := range keys {
		fs, err := store.NewFileStore(filepath.Join(a.cfg.DataDir, k+".json"))
		if err != nil {
			return nil, err
		}
		docs[k] = fs
	}
	return docs, nil
}

func buildTransport(cfg *config.Config) (transport.Transport, error) {
	switch cfg.Transport {
	case "discord":
		return discord.New(cfg.Discord.BotToken, cfg.Discord.ChannelID)
	default:
		return telegram.New(cfg.Telegram.BotToken, cfg.Telegram.Channel)
	}
}

// buildImages assembles the provider chain: local directory first, Unsplash
// second. Either may be absent; with neither configured posts go text-only.
func buildImages(cfg *config.Config, th *theme.Theme, docs map[string]store.DocStore, rng *rand.Rand) media.Provider {
	var chain media.Chain
	if cfg.ImagesDir != "" {
		chain = append(chain, media.NewLocal(
			cfg.ImagesDir, cfg.MaxPhotoBytes, store.NewUsedImages(docs["used_images"]), rng))
	}
	if cfg.Unsplash.AccessKey != "" {
		chain = append(chain, media.NewUnsplash(media.UnsplashConfig{
			AccessKey:     cfg.Unsplash.AccessKey,
			AppName:       cfg.Unsplash.AppName,
			Orientation:   cfg.Unsplash.Orientation,
			ContentFilter: cfg.Unsplash.ContentFilter,
			MaxBytes:      cfg.MaxPhotoBytes,
			Width:         cfg.Unsplash.Width,
			Quality:       cfg.Unsplash.Quality,
			DefaultQuery:  cfg.Unsplash.DefaultQuery,
		}, th, store.NewUsedPhotos(docs["used_photos"]), rng))
	}
	if len(chain) == 0 {
		return nil
	}
	return chain
}

// scheduleSpec merges the config override over the theme's own calendar.
func scheduleSpec(cfg *config.Config, th *theme.Theme) schedule.Spec {
	s := th.Schedule
	if cfg.Schedule.Mode != "" {
		s = theme.Schedule(cfg.Schedule)
	}
	return schedule.Spec{Mode: s.Mode, Time: s.Time, Hours: s.Hours, Minute: s.Minute}
}
