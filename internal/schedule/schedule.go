// Package schedule fires post cycles on the configured calendar. All three
// modes compile to cron expressions on a timezone-aware runner; a cycle
// still in flight is never overlapped, it is skipped and the slot retried at
// the next tick.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Spec describes one posting calendar.
type Spec struct {
	Mode   string // hourly (default) | daily | hours | off
	Time   string // "HH:MM", daily mode
	Hours  string // "8,12,18", hours mode
	Minute int    // minute within the hour, hours mode
}

// Runner owns the cron scheduler.
type Runner struct {
	cron *cron.Cron
}

// New creates a runner evaluating schedules in loc. SkipIfStillRunning keeps
// post cycles strictly sequential per stream.
func New(loc *time.Location) *Runner {
	return &Runner{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}
}

// Add registers fn under the spec. Mode "off" registers nothing.
func (r *Runner) Add(s Spec, fn func()) error {
	expr, err := cronExpr(s)
	if err != nil {
		return err
	}
	if expr == "" {
		return nil
	}
	if _, err := r.cron.AddFunc(expr, fn); err != nil {
		return fmt.Errorf("schedule %q: %w", expr, err)
	}
	return nil
}

func (r *Runner) Start() { r.cron.Start() }

// Stop halts scheduling and waits for a running cycle to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func cronExpr(s Spec) (string, error) {
	switch strings.ToLower(s.Mode) {
	case "off":
		return "", nil
	case "", "hourly":
		return "0 * * * *", nil
	case "daily":
		hour, minute, err := ParseHHMM(s.Time)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d %d * * *", minute, hour), nil
	case "hours":
		hours := ParseHoursList(s.Hours)
		if len(hours) == 0 {
			return "", fmt.Errorf("no valid hours in %q", s.Hours)
		}
		minute := s.Minute
		if minute < 0 {
			minute = 0
		}
		if minute > 59 {
			minute = 59
		}
		parts := make([]string, len(hours))
		for i, h := range hours {
			parts[i] = fmt.Sprintf("%d", h)
		}
		return fmt.Sprintf("%d %s * * *", minute, strings.Join(parts, ",")), nil
	}
	return "", fmt.Errorf("unknown schedule mode %q (hourly|daily|hours|off)", s.Mode)
}
