// Package tui provides a Bubble Tea terminal user interface for castfetch.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/castfetch/castfetch/internal/config"
	"github.com/castfetch/castfetch/internal/download"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	showStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxVisibleLogs bounds the log pane.
const maxVisibleLogs = 10

// episodePresets are the values ctrl+n cycles through; 0 means all.
var episodePresets = []int{0, 5, 10, 25}

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   log.Level
}

// LogCapture is a logrus hook that buffers entries for the UI.
//
// While the TUI owns the terminal, pipeline logs cannot go to stderr
// without corrupting the screen; the hook collects them and the model
// drains the buffer on every tick.
type LogCapture struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewLogCapture creates an empty LogCapture.
func NewLogCapture() *LogCapture {
	return &LogCapture{}
}

// Levels implements logrus.Hook.
func (c *LogCapture) Levels() []log.Level {
	return log.AllLevels
}

// Fire implements logrus.Hook.
func (c *LogCapture) Fire(entry *log.Entry) error {
	message := entry.Message
	if err, ok := entry.Data[log.ErrorKey]; ok {
		message = fmt.Sprintf("%s: %v", message, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, LogEntry{Message: message, Level: entry.Level})
	return nil
}

// Drain returns the buffered entries and clears the buffer.
func (c *LogCapture) Drain() []LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.entries
	c.entries = nil
	return entries
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	capture   *LogCapture
	logs      []LogEntry
	err       error

	// Feed summary from initialization
	showTitle string
	pickCount int
	skipCount int
	unchanged bool

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	// Download manager reference
	manager *download.Manager

	// Download progress
	totalFiles      int32
	downloadedFiles int32
	totalBytes      int64
	receivedBytes   int64

	// Options
	coverArt   bool
	playlist   bool
	verbose    bool
	episodeCap int

	width  int
	height int
}

// NewModel creates a new TUI model over the given settings. Pipeline
// log entries are read from capture.
func NewModel(settings *config.Settings, capture *LogCapture) Model {
	ti := textinput.New()
	ti.Placeholder = "https://example.com/podcast/feed.xml"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:      StateInput,
		textInput:  ti,
		spinner:    sp,
		progress:   prog,
		settings:   settings,
		capture:    capture,
		logs:       make([]LogEntry, 0),
		ctx:        ctx,
		cancel:     cancel,
		coverArt:   settings.EmbedCoverArt,
		playlist:   settings.CreatePlaylist,
		episodeCap: settings.MaxEpisodes,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// InitDoneMsg is sent when feed fetch and selection complete.
	InitDoneMsg struct {
		Manager   *download.Manager
		ShowTitle string
		Picks     int
		Skips     int
		Unchanged bool
		Err       error
	}

	// DownloadDoneMsg is sent when all downloads complete.
	DownloadDoneMsg struct {
		Received int64
		Total    int64
		Files    int32
		TotalF   int32
		Err      error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading || m.state == StateInitializing {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.state = StateInitializing
				return m, tea.Batch(m.initializeDownload(), m.spinner.Tick)
			}

		// Option toggles use ctrl chords; bare letters would land in
		// the focused URL input.
		case "ctrl+g":
			if m.state == StateInput {
				m.coverArt = !m.coverArt
			}

		case "ctrl+p":
			if m.state == StateInput {
				m.playlist = !m.playlist
			}

		case "ctrl+l":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "ctrl+n":
			if m.state == StateInput {
				m.episodeCap = nextEpisodePreset(m.episodeCap)
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for another feed
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.showTitle = ""
				m.pickCount = 0
				m.skipCount = 0
				m.unchanged = false
				m.downloadedFiles = 0
				m.totalFiles = 0
				m.receivedBytes = 0
				m.totalBytes = 0
				m.manager = nil
				m.capture.Drain()
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if m.state == StateInitializing {
			m.appendLogs(m.capture.Drain())
		}

	case InitDoneMsg:
		m.appendLogs(m.capture.Drain())
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else if msg.Unchanged {
			m.manager = msg.Manager
			m.unchanged = true
			m.state = StateComplete
		} else {
			m.manager = msg.Manager
			m.showTitle = msg.ShowTitle
			m.pickCount = msg.Picks
			m.skipCount = msg.Skips
			m.state = StateDownloading
			// Start the actual download and tick for progress updates
			cmds = append(cmds, m.startDownload(), m.tickProgress())
		}

	case DownloadDoneMsg:
		m.appendLogs(m.capture.Drain())
		m.receivedBytes = msg.Received
		m.totalBytes = msg.Total
		m.downloadedFiles = msg.Files
		m.totalFiles = msg.TotalF
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		// Update progress from manager
		if m.manager != nil && m.state == StateDownloading {
			received, total, files, totalFiles := m.manager.GetProgress()
			m.receivedBytes = received
			m.totalBytes = total
			m.downloadedFiles = files
			m.totalFiles = totalFiles
			m.appendLogs(m.capture.Drain())

			var percent float64
			if totalFiles > 0 {
				percent = float64(files) / float64(totalFiles)
			}
			progressCmd := m.progress.SetPercent(percent)
			cmds = append(cmds, progressCmd, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// appendLogs adds drained entries to the log pane, honoring the
// verbose toggle and the pane size.
func (m *Model) appendLogs(entries []LogEntry) {
	for _, entry := range entries {
		if entry.Level == log.DebugLevel && !m.verbose {
			continue
		}
		m.logs = append(m.logs, entry)
	}
	if len(m.logs) > maxVisibleLogs {
		m.logs = m.logs[len(m.logs)-maxVisibleLogs:]
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎙 castfetch"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download podcast episodes from an RSS feed"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter podcast RSS URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Embed cover art (ctrl+g)\n", checkbox(m.coverArt)))
	b.WriteString(fmt.Sprintf("  %s Write playlist (ctrl+p)\n", checkbox(m.playlist)))
	b.WriteString(fmt.Sprintf("  %s Verbose log (ctrl+l)\n", checkbox(m.verbose)))
	b.WriteString(fmt.Sprintf("  Episodes per run: %s (ctrl+n)\n", episodeCapLabel(m.episodeCap)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output dir: %s", m.settings.OutputDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Fetching feed..."))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	if m.showTitle != "" {
		b.WriteString(showStyle.Render(fmt.Sprintf("♪ %s", m.showTitle)))
		b.WriteString("\n")
	}
	b.WriteString(successStyle.Render(fmt.Sprintf("%d new episodes, %d skipped", m.pickCount, m.skipCount)))
	b.WriteString("\n\n")

	// Progress bar
	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.downloadedFiles) / float64(m.totalFiles)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Episodes: %d/%d | Downloaded: %.2f MB",
		m.downloadedFiles,
		m.totalFiles,
		float64(m.receivedBytes)/1024/1024,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	if m.unchanged {
		return boxStyle.Render("Feed unchanged\n\nNo new episodes since the last run.")
	}

	return boxStyle.Render(fmt.Sprintf(
		"✨ Download complete!\n\n"+
			"Show: %s\n"+
			"Episodes: %d\n"+
			"Size: %.2f MB",
		m.showTitle,
		m.downloadedFiles,
		float64(m.receivedBytes)/1024/1024,
	))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, entry := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch entry.Level {
		case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
			style = errorStyle
			prefix = "✗"
		case log.WarnLevel:
			style = warningStyle
			prefix = "!"
		case log.InfoLevel:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + entry.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • ctrl+g: cover art • ctrl+p: playlist • ctrl+l: verbose • ctrl+n: episode limit • esc: quit"
	case StateInitializing, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: another feed • q: quit"
	}
	return ""
}

// initializeDownload fetches the feed and selects episodes.
func (m *Model) initializeDownload() tea.Cmd {
	return func() tea.Msg {
		settings := *m.settings
		settings.RSSURL = strings.TrimSpace(m.textInput.Value())
		settings.EmbedCoverArt = m.coverArt
		settings.CreatePlaylist = m.playlist
		settings.MaxEpisodes = m.episodeCap

		manager := download.NewManager(&settings)
		if err := manager.Initialize(m.ctx); err != nil {
			return InitDoneMsg{Err: err}
		}

		return InitDoneMsg{
			Manager:   manager,
			ShowTitle: manager.ShowTitle(),
			Picks:     len(manager.Picks()),
			Skips:     len(manager.Skips()),
			Unchanged: manager.Unchanged(),
		}
	}
}

// startDownload runs the download loop in the background.
func (m *Model) startDownload() tea.Cmd {
	return func() tea.Msg {
		if m.manager == nil {
			return DownloadDoneMsg{Err: fmt.Errorf("no manager")}
		}

		err := m.manager.StartDownloads(m.ctx)
		received, total, files, totalFiles := m.manager.GetProgress()

		return DownloadDoneMsg{
			Received: received,
			Total:    total,
			Files:    files,
			TotalF:   totalFiles,
			Err:      err,
		}
	}
}

func checkbox(checked bool) string {
	if checked {
		return "[×]"
	}
	return "[ ]"
}

func episodeCapLabel(limit int) string {
	if limit == 0 {
		return "all"
	}
	return fmt.Sprintf("%d", limit)
}

// nextEpisodePreset cycles through the episode-limit presets, passing
// through any value configured outside the preset list.
func nextEpisodePreset(current int) int {
	for i, preset := range episodePresets {
		if preset == current {
			return episodePresets[(i+1)%len(episodePresets)]
		}
	}
	return episodePresets[0]
}

// Run starts the TUI application.
//
// Pipeline logging is redirected away from the terminal for the whole
// program lifetime: logrus writes to io.Discard at debug level and the
// capture hook feeds the log pane instead.
func Run(settings *config.Settings) error {
	capture := NewLogCapture()
	log.SetOutput(io.Discard)
	log.SetLevel(log.DebugLevel)
	log.AddHook(capture)

	p := tea.NewProgram(NewModel(settings, capture), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
