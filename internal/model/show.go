package model

import "regexp"

// Show represents a podcast feed at a point in time.
//
// Show carries the channel-level metadata and the ordered list of
// episodes as delivered by the feed (typically newest first). It is
// rebuilt on every fetch; nothing in it is persisted between runs.
//
// Example:
//
//	show, _ := parser.Parse(feedXML)
//	fmt.Printf("%s by %s (%d episodes)\n", show.Title, show.Author, len(show.Episodes))
type Show struct {
	// Title is the channel title, used as the download directory name.
	Title string

	// Author is the channel author, used as the fallback episode artist.
	Author string

	// Description is the channel summary.
	Description string

	// Link is the channel's canonical website URL.
	Link string

	// ImageURL is the channel cover image URL.
	// Empty string means the feed declares no image.
	ImageURL string

	// Episodes are the feed entries in feed order.
	Episodes []*Episode
}

// DirName returns the sanitized directory name for the show.
//
// An empty result (untitled feed, or a title consisting solely of
// invalid characters) collapses the show directory into the output
// root.
func (s *Show) DirName() string {
	return SanitizeFileName(s.Title)
}

// invalidFileNameChars matches the characters rejected by common
// filesystems: \ / * ? : " < > |
var invalidFileNameChars = regexp.MustCompile(`[\\/*?:"<>|]`)

// SanitizeFileName strips characters that are illegal in file and
// directory names. Stripped characters are removed, not replaced;
// everything else, including spaces and non-ASCII text, is preserved.
//
// Example:
//
//	SanitizeFileName("A/B:C") // Returns "ABC"
func SanitizeFileName(name string) string {
	return invalidFileNameChars.ReplaceAllString(name, "")
}
