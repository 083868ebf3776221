package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"

	"github.com/castfetch/castfetch/internal/config"
	"github.com/castfetch/castfetch/internal/download"
)

// Options holds the command line flags. A value left at its zero value
// defers to the settings file, or to the built-in defaults.
type Options struct {
	RSSURL      string `long:"rss-url" env:"CASTFETCH_RSS_URL" required:"true" description:"Podcast RSS feed URL"`
	OutputDir   string `long:"output-dir" description:"Output directory (default: podcasts)"`
	MaxEpisodes int    `long:"max-episodes" description:"Only consider the first N feed entries, 0 = all"`
	CacheFile   string `long:"cache-file" description:"Feed cache location (default: <output-dir>/.castfetch-cache.json)"`
	NoCache     bool   `long:"no-cache" description:"Run without reading or persisting the feed cache"`
	Config      string `long:"config" description:"Path to a YAML settings file"`
	UserAgent   string `long:"user-agent" description:"User agent string for HTTP requests"`
	Timeout     int    `long:"timeout" description:"HTTP timeout in seconds (default: 30)"`
	NoCoverArt  bool   `long:"no-cover-art" description:"Do not embed cover art"`
	NoTags      bool   `long:"no-tags" description:"Do not write ID3 tags"`
	Playlist    bool   `long:"playlist" description:"Write a playlist file after the run"`
	DryRun      bool   `long:"dry-run" description:"Select episodes without downloading"`
	Verbose     bool   `short:"v" long:"verbose" description:"Enable debug logging"`
}

func main() {
	var opts Options

	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		// flags.Default already printed the error
		os.Exit(1)
	}

	if opts.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	settings := config.DefaultSettings()
	if opts.Config != "" {
		var err error
		settings, err = config.Load(opts.Config)
		if err != nil {
			log.WithError(err).Fatalf("failed to load config %s", opts.Config)
		}
	}

	// Flags override file values
	settings.RSSURL = opts.RSSURL
	if opts.OutputDir != "" {
		settings.OutputDir = opts.OutputDir
	}
	if opts.MaxEpisodes > 0 {
		settings.MaxEpisodes = opts.MaxEpisodes
	}
	if opts.CacheFile != "" {
		settings.CacheFile = opts.CacheFile
	}
	if opts.NoCache {
		settings.DisableCache = true
	}
	if opts.UserAgent != "" {
		settings.UserAgent = opts.UserAgent
	}
	if opts.Timeout > 0 {
		settings.TimeoutSeconds = opts.Timeout
	}
	if opts.NoCoverArt {
		settings.EmbedCoverArt = false
	}
	if opts.NoTags {
		settings.ModifyTags = false
	}
	if opts.Playlist {
		settings.CreatePlaylist = true
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("interrupted, cancelling")
		cancel()
	}()

	manager := download.NewManager(settings)

	if err := manager.Initialize(ctx); err != nil {
		if ctx.Err() != nil {
			os.Exit(130)
		}
		log.WithError(err).Fatal("failed to initialize download")
	}

	if manager.Unchanged() {
		return
	}

	if opts.DryRun {
		for _, pick := range manager.Picks() {
			fmt.Printf("  + %s\n", pick.Episode.DisplayName())
		}
		for _, skip := range manager.Skips() {
			fmt.Printf("  - %s (%s)\n", skip.Episode.DisplayName(), skip.Reason)
		}
		fmt.Println("[Dry run - not downloading]")
		return
	}

	if err := manager.StartDownloads(ctx); err != nil {
		if ctx.Err() != nil {
			os.Exit(130)
		}
		log.WithError(err).Fatal("download failed")
	}

	received, total, filesReceived, filesTotal := manager.GetProgress()
	fmt.Printf("✨ Complete! Downloaded %d/%d episodes (%.2f MB)\n", filesReceived, filesTotal, float64(received)/1024/1024)
	if total > 0 && received < total {
		fmt.Printf("   (%.2f MB expected)\n", float64(total)/1024/1024)
	}
}
