// Package model defines the core data structures used throughout
// castfetch.
//
// # Show
//
// Show is the parsed feed: channel metadata plus episodes in feed
// order.
//
//	show, _ := parser.Parse(feedXML)
//	fmt.Println(show.DirName()) // sanitized download directory name
//
// # Episode
//
// Episode is one feed entry with its optional fields already defaulted
// (author from the show, image from the show). The file name an
// episode will be saved under is deterministic:
//
//	name := episode.FileName() // "Ep One.mp3", "ep-42.mp3", or "" when unusable
//
// # Sanitization
//
// SanitizeFileName strips the characters \ / * ? : " < > | from a name
// and keeps everything else. Both the show directory and the episode
// file name go through it.
package model
