package download

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	ioutils "github.com/castfetch/castfetch/internal/io"
	"github.com/castfetch/castfetch/internal/model"
)

// Skip reasons recorded during selection.
const (
	SkipNoAudio = "no audio link"
	SkipNoName  = "no usable name"
	SkipExists  = "already exists"
)

// Pick pairs an episode with the file path it will be downloaded to.
type Pick struct {
	Episode *model.Episode
	Path    string
}

// Skip records an episode excluded from the download list and why.
type Skip struct {
	Episode *model.Episode
	Reason  string
}

// Selector decides which episodes of a feed snapshot to download.
//
// Selection never touches the network: it works from the parsed feed
// and the state of the output directory alone.
type Selector struct {
	outputDir   string
	maxEpisodes int
}

// NewSelector creates a Selector rooted at outputDir. maxEpisodes
// limits how many feed entries are considered; 0 means all of them.
func NewSelector(outputDir string, maxEpisodes int) *Selector {
	return &Selector{
		outputDir:   outputDir,
		maxEpisodes: maxEpisodes,
	}
}

// ShowDir returns the directory a show's episodes are stored in. An
// empty show title collapses to the output root.
func (s *Selector) ShowDir(show *model.Show) string {
	return filepath.Join(s.outputDir, show.DirName())
}

// Select walks the feed entries in order and produces the episodes to
// download, each paired with its target path, plus a record of every
// skipped entry with its reason.
//
// When a maximum episode count is configured only the first N entries
// as delivered by the feed are considered; feeds conventionally list
// newest first, but no re-sorting is applied.
//
// An entry is skipped when it has no audio enclosure ("no audio
// link"), when neither its title nor its id survives sanitization ("no
// usable name"), or when the target file already exists ("already
// exists"). Existing files are never re-downloaded or re-tagged.
//
// The show directory is created here; failure to create it is the one
// fatal selection error.
func (s *Selector) Select(show *model.Show) ([]Pick, []Skip, error) {
	showDir := s.ShowDir(show)
	if err := ioutils.EnsureDir(showDir); err != nil {
		return nil, nil, fmt.Errorf("failed to create show directory %s: %w", showDir, err)
	}

	episodes := show.Episodes
	if s.maxEpisodes > 0 && len(episodes) > s.maxEpisodes {
		episodes = episodes[:s.maxEpisodes]
	}

	var picks []Pick
	var skips []Skip
	for _, episode := range episodes {
		if !episode.HasAudio() {
			skips = append(skips, Skip{Episode: episode, Reason: SkipNoAudio})
			log.Debugf("skipping %q: %s", episode.DisplayName(), SkipNoAudio)
			continue
		}

		name := episode.FileName()
		if name == "" {
			skips = append(skips, Skip{Episode: episode, Reason: SkipNoName})
			log.Debugf("skipping %q: %s", episode.DisplayName(), SkipNoName)
			continue
		}

		path := filepath.Join(showDir, name)
		if ioutils.FileExists(path) {
			skips = append(skips, Skip{Episode: episode, Reason: SkipExists})
			log.Debugf("skipping %q: %s", episode.DisplayName(), SkipExists)
			continue
		}

		picks = append(picks, Pick{Episode: episode, Path: path})
	}

	return picks, skips, nil
}
