package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

type goldenDiagnostic struct {
	Severity string
	Code     string
	File     string
	Item     string
	Message  string
}

// FormatGoldenDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation suitable for golden files. File paths are reduced to their base
// name so that snapshots do not depend on the checkout location.
func FormatGoldenDiagnostics(diags []Diagnostic, includeNotes bool) string {
	return formatDiagnostics(diags, includeNotes, true)
}

// FormatShortDiagnostics renders diagnostics one per line for CLI short output,
// keeping file paths as given.
func FormatShortDiagnostics(diags []Diagnostic, includeNotes bool) string {
	return formatDiagnostics(diags, includeNotes, false)
}

func formatDiagnostics(diags []Diagnostic, includeNotes, baseNames bool) string {
	if len(diags) == 0 {
		return ""
	}

	rendered := make([]goldenDiagnostic, 0, len(diags))
	for i := range diags {
		rendered = appendDiagnostic(rendered, &diags[i], includeNotes, baseNames)
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.File != dj.File {
			return di.File < dj.File
		}
		if di.Item != dj.Item {
			return di.Item < dj.Item
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s %s", d.Severity, d.Code, location(d.File, d.Item), d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendDiagnostic(out []goldenDiagnostic, d *Diagnostic, includeNotes, baseNames bool) []goldenDiagnostic {
	file := d.Primary.File
	if baseNames && file != "" {
		file = filepath.Base(file)
	}
	out = append(out, goldenDiagnostic{
		Severity: severityLabel(d.Severity),
		Code:     d.Code.ID(),
		File:     file,
		Item:     d.Primary.Item,
		Message:  sanitizeMessage(d.Message),
	})

	if includeNotes {
		for _, note := range d.Notes {
			nfile := note.Subject.File
			if baseNames && nfile != "" {
				nfile = filepath.Base(nfile)
			}
			out = append(out, goldenDiagnostic{
				Severity: "note",
				Code:     d.Code.ID(),
				File:     nfile,
				Item:     note.Subject.Item,
				Message:  sanitizeMessage(note.Msg),
			})
		}
	}
	return out
}

func location(file, item string) string {
	switch {
	case file == "" && item == "":
		return "-"
	case file == "":
		return item
	case item == "":
		return file
	}
	return file + ":" + item
}

func severityLabel(sev Severity) string {
	return strings.ToLower(sev.String())
}

func sanitizeMessage(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
