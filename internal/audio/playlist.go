package audio

import (
	"fmt"
	"strings"

	"github.com/castfetch/castfetch/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
//
// Each format has different features and compatibility:
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for duration/title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	// INI-style format with file, title, and length info.
	FormatPLS
)

// ParsePlaylistFormat maps a settings-file format name onto a
// PlaylistFormat. Unrecognized names fall back to M3U.
func ParsePlaylistFormat(name string) PlaylistFormat {
	if strings.EqualFold(name, "pls") {
		return FormatPLS
	}
	return FormatM3U
}

// PlaylistCreator generates playlist files for a show's episodes.
//
// The output is a string that can be written to a file next to the
// episode files.
//
// Example:
//
//	// Create M3U playlist with extended info
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist(episodes)
//	os.WriteFile(playlistPath, []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:1800,Host - Episode Title
//	// Episode Title.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines with duration/title
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// Parameters:
//   - format: The playlist format to generate
//   - extended: For M3U format, whether to include #EXTINF lines
//     (ignored for other formats)
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Extension returns the file extension for the configured format,
// including the leading dot.
func (p *PlaylistCreator) Extension() string {
	if p.format == FormatPLS {
		return ".pls"
	}
	return ".m3u"
}

// CreatePlaylist generates playlist content for the given episodes.
//
// Returns the playlist as a string, ready to be written to a file.
// Episode paths in the playlist are relative (just the filename),
// assuming the playlist file is in the same directory as the episodes.
func (p *PlaylistCreator) CreatePlaylist(episodes []*model.Episode) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(episodes)
	default:
		return p.createM3U(episodes)
	}
}

// createM3U generates an M3U playlist.
//
// Standard M3U format:
//
//	filename1.mp3
//	filename2.mp3
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#EXTINF:1800,Host - Episode Title
//	filename1.mp3
//
// A zero episode duration is written as -1, the conventional marker
// for an unknown length.
func (p *PlaylistCreator) createM3U(episodes []*model.Episode) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, episode := range episodes {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s - %s\n", playlistDuration(episode), episode.Author, episode.DisplayName()))
		}
		sb.WriteString(episode.FileName() + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
// PLS format is an INI-style text file:
//
//	[playlist]
//	File1=filename1.mp3
//	Title1=Episode Title
//	Length1=1800
//	NumberOfEntries=2
//	Version=2
func (p *PlaylistCreator) createPLS(episodes []*model.Episode) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, episode := range episodes {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, episode.FileName()))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, episode.DisplayName()))
		sb.WriteString(fmt.Sprintf("Length%d=%d\n", idx, playlistDuration(episode)))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(episodes)))
	sb.WriteString("Version=2\n")

	return sb.String()
}

func playlistDuration(episode *model.Episode) int {
	if episode.Duration <= 0 {
		return -1
	}
	return episode.Duration
}
