package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/castfetch/castfetch/internal/config"
	"github.com/castfetch/castfetch/internal/tui"
)

// Options holds the command line flags for the interactive UI. The
// feed URL is entered in the UI itself.
type Options struct {
	OutputDir string `long:"output-dir" description:"Output directory (default: podcasts)"`
	Config    string `long:"config" description:"Path to a YAML settings file"`
}

func main() {
	var opts Options

	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		os.Exit(1)
	}

	settings := config.DefaultSettings()
	if opts.Config != "" {
		var err error
		settings, err = config.Load(opts.Config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if opts.OutputDir != "" {
		settings.OutputDir = opts.OutputDir
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
