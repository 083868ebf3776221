package download

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/castfetch/castfetch/internal/model"
)

func testShow(episodes ...*model.Episode) *model.Show {
	return &model.Show{
		Title:    "Go Time",
		Episodes: episodes,
	}
}

func TestSelector_Select(t *testing.T) {
	outputDir := t.TempDir()
	selector := NewSelector(outputDir, 0)

	show := testShow(
		&model.Episode{Title: "Ep One", AudioURL: "https://cdn.example.com/1.mp3"},
		&model.Episode{Title: "No Audio Here"},
		&model.Episode{Title: `\/*?:"<>|`, GUID: `\/*?:"<>|`, AudioURL: "https://cdn.example.com/3.mp3"},
	)

	picks, skips, err := selector.Select(show)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if len(picks) != 1 {
		t.Fatalf("got %d picks, want 1", len(picks))
	}
	wantPath := filepath.Join(outputDir, "Go Time", "Ep One.mp3")
	if picks[0].Path != wantPath {
		t.Errorf("pick path = %q, want %q", picks[0].Path, wantPath)
	}

	if len(skips) != 2 {
		t.Fatalf("got %d skips, want 2", len(skips))
	}
	if skips[0].Reason != SkipNoAudio {
		t.Errorf("skip reason = %q, want %q", skips[0].Reason, SkipNoAudio)
	}
	if skips[1].Reason != SkipNoName {
		t.Errorf("skip reason = %q, want %q", skips[1].Reason, SkipNoName)
	}
}

func TestSelector_Select_CreatesShowDir(t *testing.T) {
	outputDir := t.TempDir()
	selector := NewSelector(outputDir, 0)

	if _, _, err := selector.Select(testShow()); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(outputDir, "Go Time"))
	if err != nil || !info.IsDir() {
		t.Errorf("show directory not created: %v", err)
	}
}

func TestSelector_Select_ExistingFile(t *testing.T) {
	outputDir := t.TempDir()
	selector := NewSelector(outputDir, 0)

	showDir := filepath.Join(outputDir, "Go Time")
	if err := os.MkdirAll(showDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(showDir, "Ep One.mp3"), []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	show := testShow(
		&model.Episode{Title: "Ep One", AudioURL: "https://cdn.example.com/1.mp3"},
		&model.Episode{Title: "Ep Two", AudioURL: "https://cdn.example.com/2.mp3"},
	)

	picks, skips, err := selector.Select(show)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if len(picks) != 1 || picks[0].Episode.Title != "Ep Two" {
		t.Errorf("picks = %+v, want only Ep Two", picks)
	}
	if len(skips) != 1 || skips[0].Reason != SkipExists {
		t.Errorf("skips = %+v, want one %q", skips, SkipExists)
	}
}

func TestSelector_Select_Truncation(t *testing.T) {
	outputDir := t.TempDir()
	selector := NewSelector(outputDir, 2)

	show := testShow(
		&model.Episode{Title: "First", AudioURL: "https://cdn.example.com/1.mp3"},
		&model.Episode{Title: "Second"},
		&model.Episode{Title: "Third", AudioURL: "https://cdn.example.com/3.mp3"},
		&model.Episode{Title: "Fourth", AudioURL: "https://cdn.example.com/4.mp3"},
	)

	picks, skips, err := selector.Select(show)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	// Only the first two entries are considered at all.
	if len(picks) != 1 || picks[0].Episode.Title != "First" {
		t.Errorf("picks = %+v, want only First", picks)
	}
	if len(skips) != 1 || skips[0].Episode.Title != "Second" {
		t.Errorf("skips = %+v, want only Second", skips)
	}
}

func TestSelector_Select_GUIDFallbackName(t *testing.T) {
	outputDir := t.TempDir()
	selector := NewSelector(outputDir, 0)

	show := testShow(
		&model.Episode{Title: `::`, GUID: "ep-42", AudioURL: "https://cdn.example.com/42.mp3"},
	)

	picks, _, err := selector.Select(show)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(picks) != 1 {
		t.Fatalf("got %d picks, want 1", len(picks))
	}
	if got := filepath.Base(picks[0].Path); got != "ep-42.mp3" {
		t.Errorf("file name = %q, want ep-42.mp3", got)
	}
}

func TestSelector_Select_EmptyShowTitle(t *testing.T) {
	outputDir := t.TempDir()
	selector := NewSelector(outputDir, 0)

	show := &model.Show{
		Episodes: []*model.Episode{
			{Title: "Orphan", AudioURL: "https://cdn.example.com/1.mp3"},
		},
	}

	picks, _, err := selector.Select(show)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(picks) != 1 {
		t.Fatalf("got %d picks, want 1", len(picks))
	}

	// No show title collapses the target into the output root.
	if want := filepath.Join(outputDir, "Orphan.mp3"); picks[0].Path != want {
		t.Errorf("pick path = %q, want %q", picks[0].Path, want)
	}
}

func TestSelector_ShowDir_Sanitized(t *testing.T) {
	selector := NewSelector("out", 0)

	show := &model.Show{Title: `My/Show:Name?`}
	if got := selector.ShowDir(show); got != filepath.Join("out", "MyShowName") {
		t.Errorf("show dir = %q", got)
	}
}
