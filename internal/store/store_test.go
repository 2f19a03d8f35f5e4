package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

// memStore is an in-memory DocStore for tests.
type memStore struct {
	data []byte
	ok   bool
	err  error
}

func (m *memStore) Load() ([]byte, bool, error) { return m.data, m.ok, m.err }
func (m *memStore) Save(data []byte) error {
	m.data, m.ok = data, true
	return nil
}

func TestFileStoreMissingFile(t *testing.T) {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "sub", "doc.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	_, ok, err := fs.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatalf("missing file reported as present")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "doc.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := fs.Save([]byte(`{"a":1}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, ok, err := fs.Load()
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if string(b) != `{"a":1}` {
		t.Fatalf("got %q", b)
	}
}

func TestJSONCorruptDocumentStartsFresh(t *testing.T) {
	doc := NewJSON(&memStore{data: []byte("{not json"), ok: true}, func() int { return 42 })
	if got := doc.Read(); got != 42 {
		t.Fatalf("got %d, want the empty value", got)
	}
}

func TestJSONReadErrorStartsFresh(t *testing.T) {
	doc := NewJSON(&memStore{err: fmt.Errorf("disk gone")}, func() string { return "fresh" })
	if got := doc.Read(); got != "fresh" {
		t.Fatalf("got %q", got)
	}
}

func TestHistoryAppendAssignsIDAndTrims(t *testing.T) {
	h := NewHistory(&memStore{})
	for i := 0; i < HistoryWindow+5; i++ {
		err := h.Append(Entry{TS: time.Now(), Rubric: "calm", Text: fmt.Sprintf("post %d", i)})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	entries := h.Entries()
	if len(entries) != HistoryWindow {
		t.Fatalf("retained %d entries, want %d", len(entries), HistoryWindow)
	}
	if entries[0].Text != "post 5" {
		t.Fatalf("oldest retained entry is %q, want post 5", entries[0].Text)
	}
	if entries[0].ID == "" {
		t.Fatalf("entry ID not assigned")
	}
	last, ok := h.Last()
	if !ok || last.Text != fmt.Sprintf("post %d", HistoryWindow+4) {
		t.Fatalf("Last = %+v ok=%v", last, ok)
	}
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory(&memStore{})
	if _, ok := h.Last(); ok {
		t.Fatalf("empty history reported a last entry")
	}
	if len(h.Entries()) != 0 {
		t.Fatalf("empty history has entries")
	}
}

func TestStatsRecordAttempt(t *testing.T) {
	s := NewStats(&memStore{})
	if err := s.RecordAttempt(nil); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if err := s.RecordAttempt([]string{"short_body", "bad_hashtags"}); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if err := s.RecordAttempt([]string{"short_body"}); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}

	d := s.Snapshot()
	if d.TotalAttempts != 3 || d.FailedAttempts != 2 {
		t.Fatalf("counts: %+v", d)
	}
	if d.Reasons["short_body"] != 2 || d.Reasons["bad_hashtags"] != 1 {
		t.Fatalf("reasons: %+v", d.Reasons)
	}
	if got := d.TopReasons(1); got != "short_body:2" {
		t.Fatalf("TopReasons = %q", got)
	}
}

func TestUsedImagesResetOnExhaustedPool(t *testing.T) {
	u := NewUsedImages(&memStore{})
	if err := u.Record("calm", "a.jpg", 2); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got := u.Used("calm"); len(got) != 1 || got[0] != "a.jpg" {
		t.Fatalf("Used = %#v", got)
	}
	if err := u.Record("calm", "b.jpg", 2); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got := u.Used("calm"); len(got) != 0 {
		t.Fatalf("pool not reset after exhaustion: %#v", got)
	}
}

func TestUsedPhotosWindow(t *testing.T) {
	u := NewUsedPhotos(&memStore{})
	for i := 0; i < usedPhotosMax+1; i++ {
		if err := u.Add(fmt.Sprintf("id%d", i)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if u.Seen("id0") {
		t.Fatalf("oldest id survived the trim")
	}
	if !u.Seen(fmt.Sprintf("id%d", usedPhotosMax)) {
		t.Fatalf("newest id missing")
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "docs.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	s := NewSQLiteStore(db, "history")
	if _, ok, err := s.Load(); err != nil || ok {
		t.Fatalf("empty table: ok=%v err=%v", ok, err)
	}
	if err := s.Save([]byte(`[1,2]`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save([]byte(`[1,2,3]`)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	b, ok, err := s.Load()
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if string(b) != `[1,2,3]` {
		t.Fatalf("got %q", b)
	}

	// A second key must not collide.
	other := NewSQLiteStore(db, "stats")
	if _, ok, _ := other.Load(); ok {
		t.Fatalf("keys collided")
	}
}
