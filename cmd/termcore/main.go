// Command termcore drives the termcore library against a real PTY and shell
// from the command line: it exists to exercise the library end to end and to
// host ref-test recording/replay, not as a rendering frontend.
package main

import (
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"
)

// parseVerbose scans for -v/--verbose with its own pflag.FlagSet, tolerating
// every other flag as unknown, so it can take effect before the logger is
// wired into Terminal options without disturbing cobra's own parse of
// os.Args for the chosen subcommand.
func parseVerbose(args []string) bool {
	fs := flag.NewFlagSet("termcore-pre", flag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	verbose := fs.BoolP("verbose", "v", false, "enable debug logging to stderr")
	_ = fs.Parse(args)
	return *verbose
}

func main() {
	if parseVerbose(os.Args[1:]) {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
