// Package main is the entry point for the scribe editor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/scribe-editor/scribe/internal/app"
	"github.com/scribe-editor/scribe/internal/renderer/backend"
)

func main() {
	os.Exit(run())
}

func run() int {
	var opts app.Options

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Scribe - styled text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scribe [options] file\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() > 0 {
		opts.File = flag.Arg(0)
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Printf("-- %v\n", err)
		return 1
	}

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	runErr := application.Run(term)
	term.Shutdown()
	if runErr != nil && !errors.Is(runErr, app.ErrQuit) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		return 1
	}
	return 0
}
