package feed

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/castfetch/castfetch/internal/cache"
	httpclient "github.com/castfetch/castfetch/internal/http"
)

// countingStore records how often the validator mapping is persisted.
type countingStore struct {
	validators map[string]cache.Validator
	saves      int
}

func (s *countingStore) Load() (map[string]cache.Validator, error) {
	out := make(map[string]cache.Validator, len(s.validators))
	for k, v := range s.validators {
		out[k] = v
	}
	return out, nil
}

func (s *countingStore) Save(validators map[string]cache.Validator) error {
	s.saves++
	s.validators = make(map[string]cache.Validator, len(validators))
	for k, v := range validators {
		s.validators[k] = v
	}
	return nil
}

func newFeedServer(t *testing.T, etag string) (*httptest.Server, *int) {
	t.Helper()

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if etag != "" && r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		if etag != "" {
			w.Header().Set("ETag", etag)
		}
		w.Header().Set("Last-Modified", "Mon, 03 Jul 2023 12:00:00 GMT")
		w.Write([]byte(testFeedXML))
	}))
	t.Cleanup(server.Close)

	return server, &requests
}

func TestFetcher_FetchIfChanged_FirstFetch(t *testing.T) {
	server, _ := newFeedServer(t, `"v1"`)

	store := &countingStore{}
	fetcher := NewFetcher(httpclient.NewClient("", 0), cache.New(store))

	show, changed, err := fetcher.FetchIfChanged(t.Context(), server.URL)
	if err != nil {
		t.Fatalf("FetchIfChanged failed: %v", err)
	}
	if !changed {
		t.Error("first fetch should report changed content")
	}
	if show == nil || show.Title != "Go Time" {
		t.Fatalf("show not parsed: %+v", show)
	}

	v := store.validators[server.URL]
	if v.ETag != `"v1"` {
		t.Errorf("stored etag = %q, want %q", v.ETag, `"v1"`)
	}
	if v.LastModified != "Mon, 03 Jul 2023 12:00:00 GMT" {
		t.Errorf("stored last-modified = %q", v.LastModified)
	}
	if store.saves != 1 {
		t.Errorf("store saved %d times, want 1", store.saves)
	}
}

func TestFetcher_FetchIfChanged_NotModified(t *testing.T) {
	server, requests := newFeedServer(t, `"v1"`)

	store := &countingStore{}
	fetcher := NewFetcher(httpclient.NewClient("", 0), cache.New(store))

	if _, _, err := fetcher.FetchIfChanged(t.Context(), server.URL); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}

	show, changed, err := fetcher.FetchIfChanged(t.Context(), server.URL)
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	if changed {
		t.Error("304 response should report unchanged content")
	}
	if show != nil {
		t.Error("304 response should carry no show")
	}
	if *requests != 2 {
		t.Errorf("server saw %d requests, want 2", *requests)
	}
	if store.saves != 1 {
		t.Errorf("store saved %d times, want 1; a 304 must not rewrite the cache", store.saves)
	}
}

func TestFetcher_FetchIfChanged_ParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"broken"`)
		w.Write([]byte("this is not XML"))
	}))
	t.Cleanup(server.Close)

	store := &countingStore{}
	fetcher := NewFetcher(httpclient.NewClient("", 0), cache.New(store))

	_, changed, err := fetcher.FetchIfChanged(t.Context(), server.URL)
	if err == nil {
		t.Fatal("malformed body should fail")
	}
	if !changed {
		t.Error("a served body is changed content even when it fails to parse")
	}
	if store.validators[server.URL].ETag != `"broken"` {
		t.Error("validators should be recorded before parsing")
	}
}

func TestFetcher_FetchIfChanged_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	store := &countingStore{}
	fetcher := NewFetcher(httpclient.NewClient("", 0), cache.New(store))

	if _, _, err := fetcher.FetchIfChanged(t.Context(), server.URL); err == nil {
		t.Fatal("server error should fail")
	}
	if store.saves != 0 {
		t.Error("failed fetch should not touch the store")
	}
}
