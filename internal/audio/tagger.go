package audio

import (
	"os"
	"time"

	"github.com/bogem/id3v2"
)

// unknownDate is written to the recording-date frame when an episode
// carries no parseable publish date.
const unknownDate = "unknown"

// TagEditAction defines how to handle individual ID3 tags.
//
// Each tag field can be configured independently to determine whether
// it should be modified, cleared, or left unchanged.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the value from the feed.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
//
// This allows fine-grained control over which tags are modified
// when processing downloaded MP3 files.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags: true,
//	    Title:      TagModify,      // Episode title
//	    Artist:     TagModify,      // Episode author
//	    Album:      TagModify,      // Show title
//	    Date:       TagModify,      // Publish date
//	    Comment:    TagModify,      // Episode description
//	    SourceURL:  TagDoNotModify, // Keep an existing link frame
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, no text frames are
	// modified (cover art embedding is controlled separately).
	ModifyTags bool

	// Title controls the TIT2 (Title) frame.
	Title TagEditAction

	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// Album controls the TALB (Album title) frame.
	Album TagEditAction

	// Date controls the TDRC (Recording time) frame (ID3v2.4).
	Date TagEditAction

	// Comment controls the COMM (Comments) frame.
	Comment TagEditAction

	// SourceURL controls the WOAS (Official audio source) frame.
	SourceURL TagEditAction
}

// DefaultTagConfig returns the default tag configuration.
//
// By default every frame is set to TagModify, filling the tag from
// feed data.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags: true,
		Title:      TagModify,
		Artist:     TagModify,
		Album:      TagModify,
		Date:       TagModify,
		Comment:    TagModify,
		SourceURL:  TagModify,
	}
}

// Metadata carries the feed-derived values written into one file's
// tag container.
type Metadata struct {
	// Title is the episode title (TIT2).
	Title string

	// Artist is the episode author, falling back to the show author
	// (TPE1).
	Artist string

	// Album is the show title (TALB).
	Album string

	// Date is the publish date (TDRC). The zero time writes the
	// "unknown" sentinel instead of a formatted date.
	Date time.Time

	// Description is the episode description (COMM). Empty skips the
	// frame.
	Description string

	// Link is the episode web page (WOAS). Empty skips the frame.
	Link string
}

// Tagger writes ID3 tags to MP3 files.
//
// Tagger uses the id3v2 library to modify MP3 file metadata including:
//   - Title, Artist, Album
//   - Recording date
//   - Comment (episode description) and source URL (episode link)
//   - Cover Art (attached picture)
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//
//	// After downloading an episode
//	err := tagger.SaveTags(path, meta, artworkBytes)
//	if err != nil {
//	    log.Printf("Failed to tag %s: %v", path, err)
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes ID3 tags to the MP3 file at path.
//
// This method:
//  1. Opens the existing MP3 file (or creates empty tags if none exist)
//  2. Updates text frames based on TagConfig settings
//  3. Embeds cover art if artwork bytes are provided
//  4. Saves the modified tags to the file in place
//
// Parameters:
//   - path: The MP3 file to tag
//   - meta: Feed-derived frame values
//   - artwork: JPEG image bytes for cover art (nil to skip artwork)
//
// Returns an error if the file cannot be opened or saved.
func (t *Tagger) SaveTags(path string, meta *Metadata, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		// If file doesn't have tags, create new
		if os.IsNotExist(err) {
			tag = id3v2.NewEmptyTag()
		} else {
			return err
		}
	}
	defer tag.Close()

	if t.config.ModifyTags {
		t.updateTextFrames(tag, meta)
	}

	if artwork != nil {
		t.updateArtwork(tag, artwork)
	}

	return tag.Save()
}

// updateTextFrames updates text-based ID3 frames based on configuration.
func (t *Tagger) updateTextFrames(tag *id3v2.Tag, meta *Metadata) {
	// Title (TIT2)
	switch t.config.Title {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(meta.Title)
	}

	// Artist (TPE1)
	switch t.config.Artist {
	case TagEmpty:
		tag.SetArtist("")
	case TagModify:
		tag.SetArtist(meta.Artist)
	}

	// Album (TALB)
	switch t.config.Album {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		tag.SetAlbum(meta.Album)
	}

	// Date (TDRC) - ID3v2.4
	switch t.config.Date {
	case TagEmpty:
		tag.DeleteFrames("TDRC")
	case TagModify:
		tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, formatDate(meta.Date))
	}

	// Comment (COMM)
	switch t.config.Comment {
	case TagEmpty:
		tag.DeleteFrames(tag.CommonID("Comments"))
	case TagModify:
		if meta.Description != "" {
			comment := id3v2.CommentFrame{
				Encoding:    id3v2.EncodingUTF8,
				Language:    "eng",
				Description: "",
				Text:        meta.Description,
			}
			tag.AddCommentFrame(comment)
		}
	}

	// Official audio source (WOAS). URL frames carry a raw latin-1 URL
	// with no encoding byte, so the frame body is written directly.
	switch t.config.SourceURL {
	case TagEmpty:
		tag.DeleteFrames("WOAS")
	case TagModify:
		if meta.Link != "" {
			tag.DeleteFrames("WOAS")
			tag.AddFrame("WOAS", id3v2.UnknownFrame{Body: []byte(meta.Link)})
		}
	}
}

// updateArtwork embeds cover art as an attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	// Remove any existing cover pictures
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	// Add new artwork as front cover (APIC frame)
	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}

func formatDate(date time.Time) string {
	if date.IsZero() {
		return unknownDate
	}
	return date.Format("2006-01-02")
}
