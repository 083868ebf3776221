// Package audio writes episode metadata into downloaded MP3 files and
// generates playlist files.
//
// The Tagger fills the ID3v2 container in place after a download
// completes: title, artist, album, recording date, an optional comment
// holding the episode description, an optional source-URL frame
// holding the episode link, and optional front-cover art. Which frames
// are touched is controlled per frame through TagConfig.
//
// The PlaylistCreator renders a show's downloaded episodes as an M3U
// (plain or extended) or PLS playlist meant to sit next to the episode
// files.
package audio
