package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/terassyi/coredump/internal/errors"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		noColor := noColorFlag || !isatty.IsTerminal(os.Stderr.Fd())
		printError(os.Stderr, err, errorFormat, noColor)
		os.Exit(1)
	}
}

// printError writes err to w as colored text or, for the json format, as a
// JSON object.
func printError(w io.Writer, err error, format string, noColor bool) {
	formatter := errors.NewFormatter(w, noColor)
	if format == outputJSON {
		if b, jerr := formatter.FormatJSON(err); jerr == nil {
			_, _ = w.Write(append(b, '\n'))
			return
		}
	}
	formatter.Print(err)
}
