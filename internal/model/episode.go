package model

import "time"

// Episode represents a single feed entry.
//
// All optional fields are resolved once at parse time: Author falls
// back to the show author, ImageURL to the show image. Code reading an
// Episode never has to re-apply those defaults.
//
// AudioURL is empty when the entry carries no enclosure of MIME type
// audio/mpeg; such entries are skipped by the selector.
type Episode struct {
	// Title is the episode title. May be empty.
	Title string

	// GUID is the feed-native episode identifier, used as the fallback
	// file name when the sanitized title is empty.
	GUID string

	// Author is the episode author, already defaulted to the show
	// author when the entry declares none.
	Author string

	// Description is the episode summary, written to the comment tag.
	Description string

	// Link is the episode's canonical page URL, written to the
	// official audio source tag.
	Link string

	// ImageURL is the episode cover image URL, already defaulted to
	// the show image when the entry declares none.
	ImageURL string

	// AudioURL is the URL of the audio/mpeg enclosure, or empty.
	AudioURL string

	// AudioLength is the enclosure's declared byte length, 0 when the
	// feed omits or mangles it.
	AudioLength int64

	// Duration is the declared episode length in seconds (from
	// itunes:duration), 0 when unknown.
	Duration int

	// Published is the parsed publish date. The zero value means the
	// feed's date was absent or unparseable.
	Published time.Time
}

// HasAudio reports whether the entry carries a downloadable audio
// enclosure.
func (e *Episode) HasAudio() bool {
	return e.AudioURL != ""
}

// FileName returns the target file name for the episode, including the
// .mp3 extension.
//
// The name is the sanitized title; when that is empty the sanitized
// GUID is used instead. An empty return value means the episode has no
// usable name and cannot be materialized.
//
// Example:
//
//	(&Episode{Title: "Ep One"}).FileName()          // "Ep One.mp3"
//	(&Episode{GUID: "ep-42"}).FileName()            // "ep-42.mp3"
//	(&Episode{Title: "???", GUID: ""}).FileName()   // ""
func (e *Episode) FileName() string {
	name := SanitizeFileName(e.Title)
	if name == "" {
		name = SanitizeFileName(e.GUID)
	}
	if name == "" {
		return ""
	}
	return name + ".mp3"
}

// DisplayName returns a human-readable identifier for log lines: the
// title, falling back to the GUID, falling back to the audio URL.
func (e *Episode) DisplayName() string {
	if e.Title != "" {
		return e.Title
	}
	if e.GUID != "" {
		return e.GUID
	}
	return e.AudioURL
}
