// Package post runs the publishing cycle: pick a rubric, generate a caption,
// repair and validate it, suppress near-duplicates, and publish with a
// bounded retry loop that always ends in a post.
package post

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Meltonq/autopost/internal/caption"
	"github.com/Meltonq/autopost/internal/generate"
	"github.com/Meltonq/autopost/internal/media"
	"github.com/Meltonq/autopost/internal/similarity"
	"github.com/Meltonq/autopost/internal/store"
	"github.com/Meltonq/autopost/internal/text"
	"github.com/Meltonq/autopost/internal/theme"
	"github.com/Meltonq/autopost/internal/transport"
)

// captionSanityMin is the absolute floor for anything we publish, below the
// theme's own window. A caption shorter than this is broken output.
const captionSanityMin = 220

// Config carries the orchestrator's process-level settings.
type Config struct {
	ActiveHoursStart int // inclusive
	ActiveHoursEnd   int // exclusive
	Location         *time.Location
}

// Deps are the collaborators one Poster drives. Rand, Now and Sleep are
// injectable for tests; New fills them with production defaults.
type Deps struct {
	Theme     *theme.Theme
	Config    Config
	Generator generate.Generator
	Transport transport.Transport
	Images    media.Provider // nil disables image attachment
	History   *store.History
	Stats     *store.Stats
	Rand      *rand.Rand
	Now       func() time.Time
	Sleep     func(time.Duration)
}

// Poster runs post cycles. Callers serialize Run themselves; the scheduler
// does so via its skip-if-still-running chain.
type Poster struct {
	d Deps
}

func New(d Deps) *Poster {
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Sleep == nil {
		d.Sleep = time.Sleep
	}
	if d.Config.Location == nil {
		d.Config.Location = time.UTC
	}
	return &Poster{d: d}
}

// Run executes one cycle. Scheduled runs are skipped outside active hours;
// force bypasses the guard for manual and test posts. The only error paths
// are transport failures; generation trouble degrades to the fallback post.
func (p *Poster) Run(ctx context.Context, reason string, force bool) error {
	now := p.d.Now().In(p.d.Config.Location)
	if !force && !p.activeHour(now.Hour()) {
		log.Info().Str("reason", reason).Int("hour", now.Hour()).Msg("outside active hours, skipping")
		return nil
	}

	var lastRubric string
	if last, ok := p.d.History.Last(); ok {
		lastRubric = last.Rubric
	}

	logger := log.With().Str("reason", reason).Logger()
	logger.Info().Msg("post cycle started")

	th := p.d.Theme
	tries := th.CaptionRules.MaxTries

	for i := 0; i < tries; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		// A fresh selection every attempt, so a rubric the model keeps
		// failing on rotates away within the cycle.
		rubric, tone, cta := p.pickSelection()
		alog := logger.With().Int("attempt", i+1).Str("rubric", rubric).Logger()

		brief := generate.PickBrief(th, rubric, p.d.Rand)
		raw, err := p.d.Generator.Generate(ctx, generate.BuildPrompt(th, rubric, tone, cta, brief))
		if err != nil {
			alog.Warn().Err(err).Msg("generation failed")
			p.backoff(i, tries)
			continue
		}

		draft := caption.ParseModelOutput(raw)
		if draft.Body == "" {
			// No recognizable header; treat the whole response as body.
			draft.Body = raw
		}
		if draft.Rubric != "" && draft.Rubric != rubric && draft.Rubric == lastRubric {
			alog.Info().Str("declared", draft.Rubric).Msg("model repeated previous rubric, discarding")
			continue
		}

		cand, verdict := p.prepare(ctx, draft, rubric, cta)
		if err := p.d.Stats.RecordAttempt(verdict.Reasons); err != nil {
			alog.Warn().Err(err).Msg("stats write failed")
		}
		if !verdict.OK {
			alog.Info().Strs("reasons", verdict.Reasons).
				Int("length", verdict.Length).Msg("caption rejected")
			continue
		}

		if prev, ok := p.tooSimilar(cand.plain); ok {
			alog.Info().Str("previous", prev).Msg("caption too similar to recent post, discarding")
			continue
		}

		if err := p.publish(ctx, alog, rubric, tone, cta, cand.full, cand.plain); err != nil {
			return err
		}
		alog.Info().Int("length", verdict.Length).Msg("post published")
		return nil
	}

	logger.Warn().Int("tries", tries).Msg("retries exhausted, publishing fallback")
	rubric, tone, cta := p.pickSelection()
	return p.publishFallback(ctx, logger, rubric, tone, cta)
}

// prepared is one candidate caption in both shapes the cycle needs.
type prepared struct {
	full  string // with the bold title pair, ready to send
	plain string // markup-free, for similarity and history
}

// prepare turns a parsed draft into a validated candidate: fix the title,
// run the mechanical repairs, validate, and rebuild the tail once if only the
// CTA or hashtag line is off.
func (p *Poster) prepare(ctx context.Context, draft caption.Draft, rubric, cta string) (prepared, caption.Verdict) {
	th := p.d.Theme

	title := caption.FixTitle(draft.Title)
	body := caption.Repair(draft.Body, cta, th.Validation)

	verdict := p.validate(draft.Rubric, rubric, title, body, cta)
	if !verdict.OK && verdict.HasAny(caption.ReasonBadHashtags, caption.ReasonCTAMissing, caption.ReasonCTAPosition) {
		body = caption.Repair(caption.RebuildTail(body, cta, p.hashtagLine(ctx, rubric, title)), cta, th.Validation)
		verdict = p.validate(draft.Rubric, rubric, title, body, cta)
	}

	full := caption.Assemble(title, body)
	if verdict.OK && utf8.RuneCountInString(full) < captionSanityMin {
		verdict.OK = false
		verdict.Reasons = append(verdict.Reasons, caption.ReasonBadLength)
	}
	return prepared{full: full, plain: text.StripMarkup(full)}, verdict
}

func (p *Poster) validate(declaredRubric, rubric, title, body, cta string) caption.Verdict {
	return caption.Validate(caption.Input{
		Rubric:         declaredRubric,
		ExpectedRubric: rubric,
		Title:          title,
		Body:           body,
		CTA:            cta,
	}, p.d.Theme)
}

// hashtagLine asks the model for a fresh hashtag tail and falls back to the
// theme pools when the model's line is malformed.
func (p *Poster) hashtagLine(ctx context.Context, rubric, title string) string {
	line, err := generate.GenerateHashtags(ctx, p.d.Generator, rubric, title)
	if err != nil {
		log.Debug().Err(err).Msg("hashtag generation failed, using theme pools")
		return caption.FallbackHashtags(p.d.Theme, rubric, p.d.Rand)
	}
	return line
}

// tooSimilar reports whether the candidate exceeds the similarity threshold
// against any retained history entry, returning the offending entry's id.
func (p *Poster) tooSimilar(plain string) (string, bool) {
	threshold := p.d.Theme.CaptionRules.SimilarityThreshold
	for _, e := range p.d.History.Entries() {
		if similarity.Score(plain, e.Text) > threshold {
			return e.ID, true
		}
	}
	return "", false
}

// publish sends the caption, preferably with an image. A photo-send failure
// gets one text-only retry; if that also fails nothing is recorded, so the
// duplicate-suppression window never contains unpublished text.
func (p *Poster) publish(ctx context.Context, logger zerolog.Logger, rubric, tone, cta, full, plain string) error {
	sent := false
	if p.d.Images != nil {
		img, err := p.d.Images.Pick(ctx, rubric)
		switch {
		case err == nil:
			if err := p.d.Transport.SendPhoto(ctx, img, full); err != nil {
				logger.Warn().Err(err).Msg("photo send failed, retrying as text")
			} else {
				sent = true
			}
		case errors.Is(err, media.ErrNoImage):
			logger.Debug().Err(err).Msg("no image for rubric, posting text only")
		default:
			logger.Warn().Err(err).Msg("image pick failed, posting text only")
		}
	}
	if !sent {
		if err := p.d.Transport.SendText(ctx, full); err != nil {
			return fmt.Errorf("publish post: %w", err)
		}
	}

	p.record(logger, rubric, tone, cta, plain)
	return nil
}

// publishFallback posts the theme's static caption for the rubric as plain
// text, without an image. It skips generation and similarity entirely; the
// channel gets a post no matter how the model behaved.
func (p *Poster) publishFallback(ctx context.Context, logger zerolog.Logger, rubric, tone, cta string) error {
	full := p.FallbackCaption(rubric, cta)
	if err := p.d.Transport.SendText(ctx, full); err != nil {
		return fmt.Errorf("publish fallback: %w", err)
	}
	p.record(logger, rubric, tone, cta, text.StripMarkup(full))
	return nil
}

func (p *Poster) record(logger zerolog.Logger, rubric, tone, cta, plain string) {
	if err := p.d.History.Append(store.Entry{
		TS:     p.d.Now(),
		Rubric: rubric,
		Tone:   tone,
		CTA:    cta,
		Text:   plain,
	}); err != nil {
		logger.Warn().Err(err).Msg("history write failed")
	}
}

// FallbackCaption renders the static post for a rubric: fixed title, theme
// body, CTA line and a pool-drawn hashtag line.
func (p *Poster) FallbackCaption(rubric, cta string) string {
	th := p.d.Theme
	fb, ok := th.Fallbacks[rubric]
	if !ok {
		for _, r := range th.Rubrics {
			if f, found := th.Fallbacks[r]; found {
				fb = f
				break
			}
		}
	}

	title := caption.FixTitle(fb.Title)
	body := fb.Body
	if cta != "" {
		body += "\n\n" + cta
	}
	body += "\n\n" + caption.FallbackHashtags(th, rubric, p.d.Rand)
	return caption.Assemble(title, body)
}

// pickSelection chooses rubric, tone and CTA, avoiding the previous post's
// rubric and CTA when the pools allow it.
func (p *Poster) pickSelection() (rubric, tone, cta string) {
	th := p.d.Theme
	var lastRubric, lastCTA string
	if last, ok := p.d.History.Last(); ok {
		lastRubric, lastCTA = last.Rubric, last.CTA
	}
	rubric = p.pickOther(th.Rubrics, lastRubric)
	tone = p.pick(th.Tones)
	cta = p.pickOther(th.CTA, lastCTA)
	return rubric, tone, cta
}

func (p *Poster) pick(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[p.d.Rand.Intn(len(pool))]
}

// pickOther picks uniformly from pool with avoid filtered out; a pool that
// holds nothing else falls back to the full pool.
func (p *Poster) pickOther(pool []string, avoid string) string {
	if len(pool) == 0 {
		return ""
	}
	rest := make([]string, 0, len(pool))
	for _, v := range pool {
		if v != avoid {
			rest = append(rest, v)
		}
	}
	if len(rest) == 0 {
		rest = pool
	}
	return rest[p.d.Rand.Intn(len(rest))]
}

// activeHour applies the posting window, handling windows that wrap past
// midnight (start > end).
func (p *Poster) activeHour(h int) bool {
	start, end := p.d.Config.ActiveHoursStart, p.d.Config.ActiveHoursEnd
	if start == end {
		return true
	}
	if start < end {
		return h >= start && h < end
	}
	return h >= start || h < end
}

// backoff pauses between attempts, skipping the pause after the final one.
func (p *Poster) backoff(attempt, tries int) {
	if attempt >= tries-1 {
		return
	}
	p.d.Sleep(time.Second + time.Duration(attempt)*600*time.Millisecond)
}
