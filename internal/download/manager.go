package download

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/castfetch/castfetch/internal/audio"
	"github.com/castfetch/castfetch/internal/cache"
	"github.com/castfetch/castfetch/internal/config"
	"github.com/castfetch/castfetch/internal/feed"
	"github.com/castfetch/castfetch/internal/http"
	ioutils "github.com/castfetch/castfetch/internal/io"
	"github.com/castfetch/castfetch/internal/model"
)

// coverFileName is the artwork file written into the show directory
// when save_cover_in_folder is enabled.
const coverFileName = "cover.jpg"

// Manager coordinates one feed's download run.
//
// The run has two phases: Initialize fetches the feed (conditionally,
// against the validator cache) and selects the episodes to download;
// StartDownloads then works through the selection sequentially,
// tagging each file after its download completes. GetProgress may be
// polled from another goroutine while StartDownloads runs.
type Manager struct {
	settings     *config.Settings
	httpClient   *http.Client
	fetcher      *feed.Fetcher
	selector     *Selector
	tagger       *audio.Tagger
	playlist     *audio.PlaylistCreator
	imageService *ioutils.ImageService

	show      *model.Show
	picks     []Pick
	skips     []Skip
	unchanged bool

	totalBytes      int64
	receivedBytes   int64
	totalFiles      int32
	downloadedFiles int32

	// artworkCache holds processed cover bytes per image URL so shared
	// show art is fetched once per run. Failed URLs are cached as nil.
	artworkCache map[string][]byte
}

// NewManager creates a new download Manager.
//
// With disable_cache set the validator store lives in memory and the
// run fetches the feed unconditionally.
func NewManager(settings *config.Settings) *Manager {
	client := http.NewClient(settings.UserAgent, settings.Timeout())

	var store cache.Store
	if settings.DisableCache {
		store = cache.NewMemoryStore()
	} else {
		store = cache.NewFileStore(settings.CachePath())
	}

	return &Manager{
		settings:     settings,
		httpClient:   client,
		fetcher:      feed.NewFetcher(client, cache.New(store)),
		selector:     NewSelector(settings.OutputDir, settings.MaxEpisodes),
		tagger:       audio.NewTagger(settings.ToTagConfig()),
		playlist:     settings.ToPlaylistCreator(),
		imageService: ioutils.NewImageService(),
		artworkCache: make(map[string][]byte),
	}
}

// Initialize fetches the feed and selects the episodes to download.
//
// A feed that cannot be fetched or parsed is logged and yields an
// empty run with zero episodes, not an error; an unchanged feed (304)
// short-circuits the whole run. The returned error is reserved for
// cancellation and for a show directory that cannot be created.
func (m *Manager) Initialize(ctx context.Context) error {
	show, changed, err := m.fetcher.FetchIfChanged(ctx, m.settings.RSSURL)
	switch {
	case err != nil:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithError(err).Errorf("failed to read feed %s", m.settings.RSSURL)
		show = &model.Show{}
	case !changed:
		m.unchanged = true
		log.Info("feed not modified since last run")
		return nil
	default:
		log.Infof("feed %q has %d entries", show.Title, len(show.Episodes))
	}

	m.show = show

	picks, skips, err := m.selector.Select(show)
	if err != nil {
		return err
	}
	m.picks, m.skips = picks, skips

	for _, pick := range picks {
		m.totalFiles++
		m.totalBytes += pick.Episode.AudioLength
	}

	log.Infof("%d episodes to download, %d skipped", len(picks), len(skips))
	return nil
}

// StartDownloads downloads, tags, and post-processes the selected
// episodes in feed order. A failed episode is logged and the loop
// moves on; only cancellation stops the run early.
func (m *Manager) StartDownloads(ctx context.Context) error {
	if m.unchanged || m.show == nil {
		return nil
	}

	showDir := m.selector.ShowDir(m.show)

	if m.settings.SaveCoverInFolder && m.show.ImageURL != "" {
		m.saveCoverInFolder(ctx, showDir)
	}

	for _, pick := range m.picks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.downloadEpisode(ctx, pick); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.WithError(err).Errorf("failed to download %q", pick.Episode.DisplayName())
		}
	}

	if m.settings.CreatePlaylist {
		m.writePlaylist(showDir)
	}

	downloaded := atomic.LoadInt32(&m.downloadedFiles)
	if failed := int32(len(m.picks)) - downloaded; failed > 0 {
		log.Warnf("finished: %d downloaded, %d failed, %d skipped", downloaded, failed, len(m.skips))
	} else {
		log.Infof("finished: %d downloaded, %d skipped", downloaded, len(m.skips))
	}

	return nil
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (received, total int64, filesReceived, filesTotal int32) {
	return atomic.LoadInt64(&m.receivedBytes), m.totalBytes,
		atomic.LoadInt32(&m.downloadedFiles), m.totalFiles
}

// ShowTitle returns the fetched show's title, empty before Initialize
// or when the feed was unreadable.
func (m *Manager) ShowTitle() string {
	if m.show == nil {
		return ""
	}
	return m.show.Title
}

// Unchanged reports whether the feed answered 304 and the run has
// nothing to do.
func (m *Manager) Unchanged() bool {
	return m.unchanged
}

// Picks returns the episodes selected for download.
func (m *Manager) Picks() []Pick {
	return m.picks
}

// Skips returns the entries excluded from the run with their reasons.
func (m *Manager) Skips() []Skip {
	return m.skips
}

func (m *Manager) downloadEpisode(ctx context.Context, pick Pick) error {
	episode := pick.Episode
	log.Infof("downloading %q", episode.DisplayName())

	// DownloadFile reports cumulative bytes per call; fold the deltas
	// into the run-wide counter.
	var prev int64
	err := m.httpClient.DownloadFile(ctx, episode.AudioURL, pick.Path, func(written, total int64) {
		atomic.AddInt64(&m.receivedBytes, written-prev)
		prev = written
	})
	if err != nil {
		return err
	}
	atomic.AddInt32(&m.downloadedFiles, 1)

	var artwork []byte
	if m.settings.EmbedCoverArt {
		artwork = m.artworkFor(ctx, episode.ImageURL)
	}

	if m.settings.ModifyTags || artwork != nil {
		meta := &audio.Metadata{
			Title:       episode.Title,
			Artist:      episode.Author,
			Album:       m.show.Title,
			Date:        episode.Published,
			Description: episode.Description,
			Link:        episode.Link,
		}
		if err := m.tagger.SaveTags(pick.Path, meta, artwork); err != nil {
			log.WithError(err).Warnf("failed to tag %s", filepath.Base(pick.Path))
		}
	}

	log.Infof("downloaded %s", filepath.Base(pick.Path))
	return nil
}

// artworkFor returns processed cover bytes for the URL, fetching at
// most once per run. A broken image URL warns once, then resolves to
// nil for the rest of the run; cover failures never fail an episode.
func (m *Manager) artworkFor(ctx context.Context, imageURL string) []byte {
	if imageURL == "" {
		return nil
	}
	if artwork, ok := m.artworkCache[imageURL]; ok {
		return artwork
	}

	artwork := m.fetchArtwork(ctx, imageURL)
	m.artworkCache[imageURL] = artwork
	return artwork
}

func (m *Manager) fetchArtwork(ctx context.Context, imageURL string) []byte {
	data, err := m.httpClient.Get(ctx, imageURL)
	if err != nil {
		log.WithError(err).Warnf("failed to fetch cover art %s", imageURL)
		return nil
	}

	if m.settings.ResizeCoverArt {
		resized, err := m.imageService.ResizeImage(ctx, data, m.settings.CoverArtMaxSize, m.settings.CoverArtMaxSize)
		if err != nil {
			log.WithError(err).Warn("failed to resize cover art")
		} else {
			data = resized
		}
	}

	if m.settings.ConvertCoverToJPEG {
		converted, err := m.imageService.ConvertToJPEG(ctx, data)
		if err != nil {
			log.WithError(err).Warn("failed to convert cover art")
		} else {
			data = converted
		}
	}

	return data
}

func (m *Manager) saveCoverInFolder(ctx context.Context, showDir string) {
	artwork := m.artworkFor(ctx, m.show.ImageURL)
	if artwork == nil {
		return
	}

	coverPath := filepath.Join(showDir, coverFileName)
	if err := os.WriteFile(coverPath, artwork, 0644); err != nil {
		log.WithError(err).Warn("failed to save cover art")
		return
	}
	log.Debugf("saved cover art to %s", coverPath)
}

// writePlaylist renders every episode of the feed currently on disk
// into a playlist file next to the episode files.
func (m *Manager) writePlaylist(showDir string) {
	var onDisk []*model.Episode
	for _, episode := range m.show.Episodes {
		name := episode.FileName()
		if name == "" || !ioutils.FileExists(filepath.Join(showDir, name)) {
			continue
		}
		onDisk = append(onDisk, episode)
	}
	if len(onDisk) == 0 {
		return
	}

	name := m.show.DirName()
	if name == "" {
		name = "playlist"
	}
	path := filepath.Join(showDir, name+m.playlist.Extension())

	if err := os.WriteFile(path, []byte(m.playlist.CreatePlaylist(onDisk)), 0644); err != nil {
		log.WithError(err).Warn("failed to write playlist")
		return
	}
	log.Infof("wrote playlist %s", path)
}
