package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"bindgen/internal/diag"
)

type palette struct {
	err, warn, info, code, loc, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan, color.Bold),
		code: color.New(color.Bold),
		loc:  color.New(color.FgBlue),
		note: color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.loc, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
//
//	<sev>[<CODE>]: <Message>
//	  --> <path>: <item>
//	  = note: ...
//
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	p := newPalette(opts.Color)
	var b strings.Builder
	for i := range bag.Items() {
		d := &bag.Items()[i]
		sev := strings.ToLower(d.Severity.String())
		msg := clip(d.Message, opts.Width, runewidth.StringWidth(sev)+runewidth.StringWidth(d.Code.ID())+4)
		fmt.Fprintf(&b, "%s%s %s\n",
			p.severity(d.Severity).Sprint(sev),
			p.code.Sprintf("[%s]:", d.Code.ID()),
			msg)
		if loc := subject(d.Primary, opts.PathMode, opts.BaseDir); loc != "" {
			fmt.Fprintf(&b, "  %s %s\n", p.loc.Sprint("-->"), loc)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				line := n.Msg
				if loc := subject(n.Subject, opts.PathMode, opts.BaseDir); loc != "" {
					line = loc + ": " + line
				}
				fmt.Fprintf(&b, "  %s %s\n", p.note.Sprint("= note:"), clip(line, opts.Width, 10))
			}
			fmt.Fprintf(&b, "  %s %s\n", p.note.Sprint("= help:"), d.Code.Title())
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(&b, "%s\n", p.info.Sprintf("... %d more diagnostics not shown", dropped))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Summary returns a one-line count such as "2 errors, 1 warning".
func Summary(bag *diag.Bag) string {
	if bag == nil {
		return ""
	}
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	parts := make([]string, 0, 2)
	if errs > 0 {
		parts = append(parts, plural(errs, "error"))
	}
	if warns > 0 {
		parts = append(parts, plural(warns, "warning"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func subject(s diag.Subject, mode PathMode, base string) string {
	file := formatPath(s.File, mode, base)
	switch {
	case file == "" && s.Item == "":
		return ""
	case file == "":
		return s.Item
	case s.Item == "":
		return file
	}
	return file + ": " + s.Item
}

// clip truncates msg so that a line with indent columns before it fits width.
func clip(msg string, width uint16, indent int) string {
	if width == 0 {
		return msg
	}
	room := int(width) - indent
	if room <= 1 || runewidth.StringWidth(msg) <= room {
		return msg
	}
	return runewidth.Truncate(msg, room, "…")
}
