package store

import (
	"fmt"
	"sort"
	"strings"
)

// StatsData counts generation attempts and validation failures by reason.
// Monotonically growing, never trimmed; observability only.
type StatsData struct {
	TotalAttempts  int            `json:"totalAttempts"`
	FailedAttempts int            `json:"failedAttempts"`
	Reasons        map[string]int `json:"reasons"`
}

// TopReasons formats the n most frequent failure reasons as "reason:count".
func (d StatsData) TopReasons(n int) string {
	type rc struct {
		reason string
		count  int
	}
	entries := make([]rc, 0, len(d.Reasons))
	for r, c := range d.Reasons {
		entries = append(entries, rc{r, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].reason < entries[j].reason
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s:%d", e.reason, e.count)
	}
	return strings.Join(parts, ", ")
}

// Stats persists the validation failure counters.
type Stats struct {
	doc *JSON[StatsData]
}

func NewStats(s DocStore) *Stats {
	return &Stats{doc: NewJSON(s, func() StatsData { return StatsData{} })}
}

// RecordAttempt counts one generation attempt; a non-empty reason list marks
// it failed and increments each reason's counter.
func (s *Stats) RecordAttempt(reasons []string) error {
	_, err := s.doc.Update(func(d StatsData) StatsData {
		d.TotalAttempts++
		if len(reasons) > 0 {
			d.FailedAttempts++
			if d.Reasons == nil {
				d.Reasons = make(map[string]int)
			}
			for _, r := range reasons {
				d.Reasons[r]++
			}
		}
		return d
	})
	return err
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() StatsData {
	return s.doc.Read()
}
