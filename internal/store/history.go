package store

import (
	"time"

	"github.com/google/uuid"
)

// HistoryWindow bounds the post history: the store never holds more than
// this many of the most recent entries.
const HistoryWindow = 40

// Entry is one published post, appended only after a successful publish.
type Entry struct {
	ID     string    `json:"id"`
	TS     time.Time `json:"ts"`
	Rubric string    `json:"rubric"`
	Tone   string    `json:"tone,omitempty"`
	CTA    string    `json:"cta"`
	Text   string    `json:"text"`
}

// History is the bounded, append-only record of recent posts.
type History struct {
	doc *JSON[[]Entry]
}

func NewHistory(s DocStore) *History {
	return &History{doc: NewJSON(s, func() []Entry { return nil })}
}

// Entries returns the retained window, oldest first.
func (h *History) Entries() []Entry {
	return h.doc.Read()
}

// Last returns the most recent entry, if any.
func (h *History) Last() (Entry, bool) {
	entries := h.doc.Read()
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[len(entries)-1], true
}

// Append records a published post and evicts the oldest entries beyond the
// retained window.
func (h *History) Append(e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	entries := append(h.doc.Read(), e)
	if len(entries) > HistoryWindow {
		entries = entries[len(entries)-HistoryWindow:]
	}
	return h.doc.Write(entries)
}
