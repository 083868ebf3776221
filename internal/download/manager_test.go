package download

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bogem/id3v2"

	"github.com/castfetch/castfetch/internal/config"
)

const testFeedTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
  <channel>
    <title>Test Show</title>
    <link>https://example.com/show</link>
    <itunes:author>The Hosts</itunes:author>
    <image>
      <url>%s/cover.jpg</url>
      <title>Test Show</title>
      <link>https://example.com/show</link>
    </image>
    <item>
      <title>Ep One</title>
      <link>https://example.com/show/1</link>
      <guid>show-ep-1</guid>
      <description>First episode</description>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <enclosure url="%s/ep1.mp3" type="audio/mpeg" length="15"/>
    </item>
    <item>
      <title>Ep Two</title>
      <guid>show-ep-2</guid>
      <description>No audio yet</description>
    </item>
  </channel>
</rss>`

// testOrigin is a stand-in podcast host serving one feed, one audio
// file, and one cover image.
type testOrigin struct {
	baseURL   string
	etag      string
	feedHits  int32
	audioHits int32
}

func newTestOrigin(t *testing.T, etag string) *testOrigin {
	t.Helper()

	origin := &testOrigin{etag: etag}

	mux := http.NewServeMux()
	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&origin.feedHits, 1)
		if origin.etag != "" {
			if r.Header.Get("If-None-Match") == origin.etag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			w.Header().Set("ETag", origin.etag)
		}
		fmt.Fprintf(w, testFeedTemplate, origin.baseURL, origin.baseURL)
	})
	mux.HandleFunc("/ep1.mp3", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&origin.audioHits, 1)
		w.Write([]byte("mp3 payload one"))
	})
	mux.HandleFunc("/cover.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("cover bytes"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	origin.baseURL = server.URL

	return origin
}

func testSettings(t *testing.T, origin *testOrigin) *config.Settings {
	t.Helper()

	settings := config.DefaultSettings()
	settings.RSSURL = origin.baseURL + "/feed.xml"
	settings.OutputDir = t.TempDir()
	// Keep the raw fixture bytes; the image pipeline has its own tests.
	settings.ResizeCoverArt = false
	settings.ConvertCoverToJPEG = false
	return settings
}

func TestManager_Run(t *testing.T) {
	origin := newTestOrigin(t, `"v1"`)
	settings := testSettings(t, origin)
	manager := NewManager(settings)

	if err := manager.Initialize(t.Context()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if manager.Unchanged() {
		t.Fatal("first run should not be unchanged")
	}
	if got := manager.ShowTitle(); got != "Test Show" {
		t.Errorf("show title = %q", got)
	}
	if len(manager.Picks()) != 1 {
		t.Fatalf("got %d picks, want 1", len(manager.Picks()))
	}
	if skips := manager.Skips(); len(skips) != 1 || skips[0].Reason != SkipNoAudio {
		t.Errorf("skips = %+v, want one %q", skips, SkipNoAudio)
	}

	if err := manager.StartDownloads(t.Context()); err != nil {
		t.Fatalf("StartDownloads failed: %v", err)
	}

	path := filepath.Join(settings.OutputDir, "Test Show", "Ep One.mp3")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("episode file missing: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open tags: %v", err)
	}
	defer tag.Close()

	if tag.Title() != "Ep One" {
		t.Errorf("title = %q, want Ep One", tag.Title())
	}
	if tag.Artist() != "The Hosts" {
		t.Errorf("artist = %q, want the show author", tag.Artist())
	}
	if tag.Album() != "Test Show" {
		t.Errorf("album = %q, want the show title", tag.Album())
	}
	if got := tag.GetTextFrame("TDRC").Text; got != "2023-07-03" {
		t.Errorf("TDRC = %q", got)
	}
	pictures := tag.GetFrames(tag.CommonID("Attached picture"))
	if len(pictures) != 1 {
		t.Errorf("got %d picture frames, want 1", len(pictures))
	}

	received, total, files, filesTotal := manager.GetProgress()
	if files != 1 || filesTotal != 1 {
		t.Errorf("file progress = %d/%d, want 1/1", files, filesTotal)
	}
	if received != 15 || total != 15 {
		t.Errorf("byte progress = %d/%d, want 15/15", received, total)
	}
}

func TestManager_Run_Idempotent(t *testing.T) {
	// No validators from the origin, so the second run refetches the
	// feed and must dedup against the files on disk.
	origin := newTestOrigin(t, "")
	settings := testSettings(t, origin)

	first := NewManager(settings)
	if err := first.Initialize(t.Context()); err != nil {
		t.Fatalf("first Initialize failed: %v", err)
	}
	if err := first.StartDownloads(t.Context()); err != nil {
		t.Fatalf("first StartDownloads failed: %v", err)
	}

	second := NewManager(settings)
	if err := second.Initialize(t.Context()); err != nil {
		t.Fatalf("second Initialize failed: %v", err)
	}
	if err := second.StartDownloads(t.Context()); err != nil {
		t.Fatalf("second StartDownloads failed: %v", err)
	}

	if len(second.Picks()) != 0 {
		t.Errorf("second run picked %d episodes, want 0", len(second.Picks()))
	}
	if skips := second.Skips(); len(skips) != 2 || skips[0].Reason != SkipExists {
		t.Errorf("second run skips = %+v, want the downloaded file skipped as existing", skips)
	}
	if hits := atomic.LoadInt32(&origin.audioHits); hits != 1 {
		t.Errorf("audio fetched %d times across two runs, want 1", hits)
	}
}

func TestManager_Run_UnchangedFeed(t *testing.T) {
	origin := newTestOrigin(t, `"v7"`)
	settings := testSettings(t, origin)

	first := NewManager(settings)
	if err := first.Initialize(t.Context()); err != nil {
		t.Fatalf("first Initialize failed: %v", err)
	}
	if err := first.StartDownloads(t.Context()); err != nil {
		t.Fatalf("first StartDownloads failed: %v", err)
	}

	second := NewManager(settings)
	if err := second.Initialize(t.Context()); err != nil {
		t.Fatalf("second Initialize failed: %v", err)
	}
	if !second.Unchanged() {
		t.Fatal("second run should see an unchanged feed")
	}
	if err := second.StartDownloads(t.Context()); err != nil {
		t.Fatalf("second StartDownloads failed: %v", err)
	}

	if hits := atomic.LoadInt32(&origin.feedHits); hits != 2 {
		t.Errorf("feed fetched %d times, want 2", hits)
	}
	if hits := atomic.LoadInt32(&origin.audioHits); hits != 1 {
		t.Errorf("audio fetched %d times, want 1", hits)
	}
}

func TestManager_Run_DownloadFailureContinues(t *testing.T) {
	feed := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Flaky Show</title>
    <item>
      <title>Broken</title>
      <guid>flaky-1</guid>
      <enclosure url="%s/bad.mp3" type="audio/mpeg" length="10"/>
    </item>
    <item>
      <title>Working</title>
      <guid>flaky-2</guid>
      <enclosure url="%s/good.mp3" type="audio/mpeg" length="16"/>
    </item>
  </channel>
</rss>`

	var baseURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, feed, baseURL, baseURL)
	})
	mux.HandleFunc("/bad.mp3", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	mux.HandleFunc("/good.mp3", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mp3 payload good"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	baseURL = server.URL

	settings := config.DefaultSettings()
	settings.RSSURL = baseURL + "/feed.xml"
	settings.OutputDir = t.TempDir()

	manager := NewManager(settings)
	if err := manager.Initialize(t.Context()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := manager.StartDownloads(t.Context()); err != nil {
		t.Fatalf("a single failed episode must not fail the run: %v", err)
	}

	showDir := filepath.Join(settings.OutputDir, "Flaky Show")
	if _, err := os.Stat(filepath.Join(showDir, "Working.mp3")); err != nil {
		t.Errorf("surviving episode missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(showDir, "Broken.mp3")); !os.IsNotExist(err) {
		t.Errorf("failed episode should leave no file, stat err = %v", err)
	}

	_, _, files, filesTotal := manager.GetProgress()
	if files != 1 || filesTotal != 2 {
		t.Errorf("file progress = %d/%d, want 1/2", files, filesTotal)
	}
}

func TestManager_Run_FeedUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	settings := config.DefaultSettings()
	settings.RSSURL = url + "/feed.xml"
	settings.OutputDir = t.TempDir()

	manager := NewManager(settings)
	if err := manager.Initialize(t.Context()); err != nil {
		t.Fatalf("unreachable feed must not fail the run: %v", err)
	}
	if len(manager.Picks()) != 0 {
		t.Errorf("got %d picks from an unreachable feed", len(manager.Picks()))
	}
	if err := manager.StartDownloads(t.Context()); err != nil {
		t.Fatalf("StartDownloads failed: %v", err)
	}
}

func TestManager_Run_SupplementedOutputs(t *testing.T) {
	origin := newTestOrigin(t, "")
	settings := testSettings(t, origin)
	settings.CreatePlaylist = true
	settings.SaveCoverInFolder = true

	manager := NewManager(settings)
	if err := manager.Initialize(t.Context()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := manager.StartDownloads(t.Context()); err != nil {
		t.Fatalf("StartDownloads failed: %v", err)
	}

	showDir := filepath.Join(settings.OutputDir, "Test Show")

	playlist, err := os.ReadFile(filepath.Join(showDir, "Test Show.m3u"))
	if err != nil {
		t.Fatalf("playlist missing: %v", err)
	}
	if !strings.HasPrefix(string(playlist), "#EXTM3U") {
		t.Error("playlist should use the extended M3U header by default")
	}
	if !strings.Contains(string(playlist), "Ep One.mp3") {
		t.Error("playlist should list the downloaded episode")
	}
	if strings.Contains(string(playlist), "Ep Two") {
		t.Error("playlist should only list episodes on disk")
	}

	cover, err := os.ReadFile(filepath.Join(showDir, "cover.jpg"))
	if err != nil {
		t.Fatalf("cover file missing: %v", err)
	}
	if string(cover) != "cover bytes" {
		t.Errorf("cover content = %q", cover)
	}
}
