package model

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file", "normal-file"},
		{"A/B:C", "ABC"},
		{`a\b/c*d?e:f"g<h>i|j`, "abcdefghij"},
		{"What's New? Episode 12", "What's New Episode 12"},
		{"  spaces  stay  ", "  spaces  stay  "},
		{"über épisode ünïcode", "über épisode ünïcode"},
		{"trailing dots...", "trailing dots..."},
		{`\/*?:"<>|`, ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEpisode_FileName(t *testing.T) {
	tests := []struct {
		name    string
		episode Episode
		want    string
	}{
		{
			name:    "title used when present",
			episode: Episode{Title: "Ep One", GUID: "guid-1"},
			want:    "Ep One.mp3",
		},
		{
			name:    "title sanitized",
			episode: Episode{Title: "Ep 2: The/Return"},
			want:    "Ep 2 TheReturn.mp3",
		},
		{
			name:    "guid fallback on empty title",
			episode: Episode{Title: "", GUID: "ep-42"},
			want:    "ep-42.mp3",
		},
		{
			name:    "guid fallback when title sanitizes to nothing",
			episode: Episode{Title: `???`, GUID: "ep-42"},
			want:    "ep-42.mp3",
		},
		{
			name:    "no usable name",
			episode: Episode{Title: "", GUID: ""},
			want:    "",
		},
		{
			name:    "guid sanitized too",
			episode: Episode{GUID: "https://example.com/ep/42"},
			want:    "httpsexample.comep42.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.episode.FileName()
			if got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEpisode_HasAudio(t *testing.T) {
	with := Episode{AudioURL: "https://example.com/a.mp3"}
	if !with.HasAudio() {
		t.Error("HasAudio() should return true when AudioURL is set")
	}

	without := Episode{}
	if without.HasAudio() {
		t.Error("HasAudio() should return false when AudioURL is empty")
	}
}

func TestEpisode_DisplayName(t *testing.T) {
	tests := []struct {
		name    string
		episode Episode
		want    string
	}{
		{"title", Episode{Title: "Ep One", GUID: "g", AudioURL: "u"}, "Ep One"},
		{"guid fallback", Episode{GUID: "ep-42", AudioURL: "u"}, "ep-42"},
		{"url fallback", Episode{AudioURL: "https://example.com/a.mp3"}, "https://example.com/a.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.episode.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShow_DirName(t *testing.T) {
	show := Show{Title: `My Show: "Extended" Edition`}
	if got, want := show.DirName(), "My Show Extended Edition"; got != want {
		t.Errorf("DirName() = %q, want %q", got, want)
	}

	empty := Show{Title: "?*"}
	if got := empty.DirName(); got != "" {
		t.Errorf("DirName() = %q, want empty", got)
	}
}
