package media

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Meltonq/autopost/internal/store"
	"github.com/Meltonq/autopost/internal/theme"
)

func newUnsplash() *Unsplash {
	return NewUnsplash(UnsplashConfig{AccessKey: "key", MaxBytes: 10},
		&theme.Theme{}, store.NewUsedPhotos(&memStore{}), rand.New(rand.NewSource(1)))
}

func TestWithSizeParams(t *testing.T) {
	got, err := withSizeParams("https://images.example/photo?ixid=abc", 1280, 80)
	if err != nil {
		t.Fatalf("withSizeParams: %v", err)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	if q.Get("w") != "1280" || q.Get("q") != "80" || q.Get("fm") != "jpg" || q.Get("fit") != "max" {
		t.Fatalf("query: %v", q)
	}
	if q.Get("ixid") != "abc" {
		t.Fatalf("original params lost: %v", q)
	}
}

func TestRetryable(t *testing.T) {
	cases := map[int]bool{
		http.StatusTooManyRequests:     true,
		http.StatusInternalServerError: true,
		http.StatusBadGateway:          true,
		http.StatusNotFound:            false,
		http.StatusForbidden:           false,
	}
	for status, want := range cases {
		if got := retryable(&statusError{status: status}); got != want {
			t.Fatalf("retryable(%d) = %v, want %v", status, got, want)
		}
	}
	if !retryable(fmt.Errorf("connection reset")) {
		t.Fatalf("transport error must be retryable")
	}
}

func TestGetWithRetryRecoversFromServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "payload")
	}))
	defer srv.Close()

	u := newUnsplash()
	body, err := u.getWithRetry(context.Background(), srv.URL, true)
	if err != nil {
		t.Fatalf("getWithRetry: %v", err)
	}
	if string(body) != "payload" {
		t.Fatalf("body: %q", body)
	}
	if calls != 3 {
		t.Fatalf("made %d calls", calls)
	}
}

func TestGetWithRetryStopsOnClientError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	u := newUnsplash()
	if _, err := u.getWithRetry(context.Background(), srv.URL, true); err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("client error retried %d times", calls)
	}
}

func TestGetSendsAuthHeaders(t *testing.T) {
	var gotAuth, gotVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Accept-Version")
		fmt.Fprint(w, "{}")
	}))
	defer srv.Close()

	u := newUnsplash()
	if _, _, err := u.get(context.Background(), srv.URL, true); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "Client-ID key" || gotVersion != "v1" {
		t.Fatalf("headers: %q %q", gotAuth, gotVersion)
	}
}

func TestFetchSizedRejectsOversizedImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, strings.Repeat("x", 100))
	}))
	defer srv.Close()

	u := newUnsplash() // MaxBytes 10
	if _, _, err := u.fetchSized(context.Background(), srv.URL); err == nil {
		t.Fatalf("oversized image accepted")
	}
}

func TestFetchSizedAcceptsFittingVariant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		fmt.Fprint(w, "tiny")
	}))
	defer srv.Close()

	u := newUnsplash()
	buf, contentType, err := u.fetchSized(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetchSized: %v", err)
	}
	if string(buf) != "tiny" || contentType != "image/jpeg" {
		t.Fatalf("got %q %q", buf, contentType)
	}
}
