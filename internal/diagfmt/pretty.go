package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"dashlint/internal/diag"
	"dashlint/internal/source"
)

type palette struct {
	err, warn, info, path, gutter, caret, fix, dim *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		path:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
		fix:    mk(color.FgMagenta),
		dim:    mk(color.Faint),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty renders diagnostics for humans. Items are printed in bag order
// (call bag.Sort() first). For each diagnostic:
//
//	<path>:<line>:<col>: <SEV> <CODE> <message> [rule]
//	   3 | const s = "a\u2014b";
//	     |              ^
//
// followed by notes and numbered fixes when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, p, d, fs, opts)
	}
}

func prettyOne(w io.Writer, p palette, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	f := fs.Get(d.Primary.File)
	if f == nil {
		fmt.Fprintf(w, "%s %s %s\n", p.severity(d.Severity).Sprint(d.Severity), d.Code.ID(), d.Message)
		return
	}
	start, end := fs.Resolve(d.Primary)
	path := formatPath(fs, f, opts.PathMode)

	fmt.Fprintf(w, "%s: %s %s %s",
		p.path.Sprintf("%s:%d:%d", path, start.Line, start.Col),
		p.severity(d.Severity).Sprint(d.Severity),
		d.Code.ID(),
		d.Message)
	if d.Rule != "" {
		fmt.Fprintf(w, " %s", p.dim.Sprintf("[%s]", d.Rule))
	}
	fmt.Fprintln(w)

	gutterWidth := len(fmt.Sprint(start.Line))
	first := start.Line
	if opts.Context > 0 && uint32(opts.Context) < first {
		first -= uint32(opts.Context)
	} else if opts.Context > 0 {
		first = 1
	}
	for ln := first; ln <= start.Line; ln++ {
		line := f.GetLine(ln)
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth+2, ln), clip(expandTabs(line), opts.Width))
	}

	line := f.GetLine(start.Line)
	caretCol := int(start.Col) - 1
	if caretCol > len(line) {
		caretCol = len(line)
	}
	pad := runewidth.StringWidth(expandTabs(line[:caretCol]))
	endCol := len(line)
	if end.Line == start.Line && int(end.Col)-1 <= len(line) {
		endCol = int(end.Col) - 1
	}
	marks := max(1, runewidth.StringWidth(line[caretCol:max(caretCol, endCol)]))
	fmt.Fprintf(w, "%s %s%s\n",
		p.gutter.Sprintf("%*s |", gutterWidth+2, ""),
		strings.Repeat(" ", pad),
		p.caret.Sprint("^"+strings.Repeat("~", marks-1)))

	if opts.ShowNotes {
		for _, n := range d.Notes {
			ns, _ := fs.Resolve(n.Span)
			nf := fs.Get(n.Span.File)
			if nf == nil {
				continue
			}
			fmt.Fprintf(w, "  note: %s:%d:%d: %s\n", formatPath(fs, nf, opts.PathMode), ns.Line, ns.Col, n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, fx := range d.Fixes {
			fmt.Fprintf(w, "  %s %s", p.fix.Sprintf("fix #%d:", i+1), fx.Title)
			fmt.Fprintf(w, " %s", p.dim.Sprintf("(id=%s, %s)", fx.ID, fx.Applicability))
			for _, e := range fx.Edits {
				fmt.Fprintf(w, " apply=%q", e.NewText)
			}
			fmt.Fprintln(w)
			if !opts.ShowPreview {
				continue
			}
			for _, e := range fx.Edits {
				before, after, ok := editPreview(fs, e)
				if !ok {
					continue
				}
				fmt.Fprintln(w, "    preview:")
				for _, l := range before {
					fmt.Fprintf(w, "      %s\n", p.err.Sprint("- "+l))
				}
				for _, l := range after {
					fmt.Fprintf(w, "      %s\n", p.caret.Sprint("+ "+l))
				}
			}
		}
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// clip truncates s to width display cells; 0 means no limit.
func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "...")
}
