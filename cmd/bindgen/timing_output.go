package main

import (
	"fmt"
	"io"
	"os"

	"fortio.org/safecast"
	"golang.org/x/term"

	"bindgen/internal/driver"
)

func printTimings(out io.Writer, results []*driver.Result, format string) error {
	if format == "json" {
		return driver.WriteTimings(out, results)
	}
	for _, res := range results {
		if res == nil {
			continue
		}
		label := res.Path
		if res.Cached {
			label += " (cached)"
		}
		if _, err := fmt.Fprintf(out, "%s\n%s", label, res.Timing.Summary()); err != nil {
			return err
		}
	}
	return nil
}

// terminalWidth returns the column count of w when it is a terminal, 0
// otherwise.
func terminalWidth(w io.Writer) uint16 {
	f, ok := w.(*os.File)
	if !ok || !isTerminal(f) {
		return 0
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	width, err := safecast.Conv[uint16](cols)
	if err != nil {
		return 0
	}
	return width
}
