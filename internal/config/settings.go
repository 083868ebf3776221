package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/castfetch/castfetch/internal/audio"
)

// cacheFileName is the default validator store file, placed inside the
// output directory when no explicit cache file is configured.
const cacheFileName = ".castfetch-cache.json"

// Settings holds all configuration options.
type Settings struct {
	// Feed settings
	RSSURL      string `yaml:"rss_url"`
	OutputDir   string `yaml:"output_dir"`
	MaxEpisodes int    `yaml:"max_episodes"` // 0 = all

	// Cache settings
	CacheFile    string `yaml:"cache_file"` // empty = <output_dir>/.castfetch-cache.json
	DisableCache bool   `yaml:"disable_cache"`

	// HTTP settings
	UserAgent      string `yaml:"user_agent"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`

	// Tag settings
	ModifyTags    bool `yaml:"modify_tags"`
	EmbedCoverArt bool `yaml:"embed_cover_art"`

	// Cover art settings
	SaveCoverInFolder  bool `yaml:"save_cover_in_folder"`
	ResizeCoverArt     bool `yaml:"resize_cover_art"`
	CoverArtMaxSize    int  `yaml:"cover_art_max_size"`
	ConvertCoverToJPEG bool `yaml:"convert_cover_to_jpeg"`

	// Playlist settings
	CreatePlaylist bool   `yaml:"create_playlist"`
	PlaylistFormat string `yaml:"playlist_format"` // m3u, pls
	M3UExtended    bool   `yaml:"m3u_extended"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		OutputDir:   "podcasts",
		MaxEpisodes: 0,

		TimeoutSeconds: 30,

		ModifyTags:    true,
		EmbedCoverArt: true,

		SaveCoverInFolder:  false,
		ResizeCoverArt:     true,
		CoverArtMaxSize:    1000,
		ConvertCoverToJPEG: true,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,
	}
}

// Load reads settings from a YAML file.
//
// A missing file yields the defaults; fields absent from the file keep
// their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a YAML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// CachePath resolves the validator store location: the configured
// cache file, or a dotfile inside the output directory when unset.
func (s *Settings) CachePath() string {
	if s.CacheFile != "" {
		return s.CacheFile
	}
	return filepath.Join(s.OutputDir, cacheFileName)
}

// Timeout returns the per-request HTTP timeout.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// ToTagConfig converts settings to the tagger's TagConfig.
func (s *Settings) ToTagConfig() *audio.TagConfig {
	cfg := audio.DefaultTagConfig()
	cfg.ModifyTags = s.ModifyTags
	return cfg
}

// ToPlaylistCreator builds a playlist creator for the configured
// format.
func (s *Settings) ToPlaylistCreator() *audio.PlaylistCreator {
	return audio.NewPlaylistCreator(audio.ParsePlaylistFormat(s.PlaylistFormat), s.M3UExtended)
}
