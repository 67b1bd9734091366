package diagfmt

import (
	"encoding/json"
	"io"

	"dashlint/internal/diag"
	"dashlint/internal/source"
)

// LocationJSON is a file location in JSON output.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON is an attached note.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON is one edit of a fix.
type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

// FixJSON is a fix suggestion.
type FixJSON struct {
	ID            string        `json:"id,omitempty"`
	Title         string        `json:"title"`
	Kind          string        `json:"kind"`
	Applicability string        `json:"applicability"`
	IsPreferred   bool          `json:"is_preferred,omitempty"`
	Edits         []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON is one diagnostic.
type DiagnosticJSON struct {
	Severity  string            `json:"severity"`
	Code      string            `json:"code"`
	Rule      string            `json:"rule,omitempty"`
	MessageID string            `json:"message_id,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
	Message   string            `json:"message"`
	Location  LocationJSON      `json:"location"`
	Notes     []NoteJSON        `json:"notes,omitempty"`
	Fixes     []FixJSON         `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON document.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// jsonBuilder converts diagnostics with a fixed set of options.
type jsonBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (jb jsonBuilder) location(span source.Span) LocationJSON {
	loc := LocationJSON{StartByte: span.Start, EndByte: span.End}
	f := jb.fs.Get(span.File)
	if f == nil {
		return loc
	}
	loc.File = formatPath(jb.fs, f, jb.opts.PathMode)
	if jb.opts.IncludePositions {
		start, end := jb.fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (jb jsonBuilder) diagnostic(d *diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity:  d.Severity.Label(),
		Code:      d.Code.ID(),
		Rule:      d.Rule,
		MessageID: d.MessageID,
		Data:      d.Data,
		Message:   d.Message,
		Location:  jb.location(d.Primary),
	}
	// timing reports carry their numbers in notes
	if jb.opts.IncludeNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, NoteJSON{Message: n.Msg, Location: jb.location(n.Span)})
		}
	}
	if jb.opts.IncludeFixes {
		for _, f := range d.Fixes {
			out.Fixes = append(out.Fixes, jb.fix(f))
		}
	}
	return out
}

func (jb jsonBuilder) fix(f diag.Fix) FixJSON {
	out := FixJSON{
		ID:            f.ID,
		Title:         f.Title,
		Kind:          f.Kind.String(),
		Applicability: f.Applicability.String(),
		IsPreferred:   f.IsPreferred,
		Edits:         make([]FixEditJSON, 0, len(f.Edits)),
	}
	for _, e := range f.Edits {
		ej := FixEditJSON{Location: jb.location(e.Span), NewText: e.NewText, OldText: e.OldText}
		if jb.opts.IncludePreviews {
			if before, after, ok := editPreview(jb.fs, e); ok {
				ej.BeforeLines, ej.AfterLines = before, after
			}
		}
		out.Edits = append(out.Edits, ej)
	}
	return out
}

// BuildDiagnosticsOutput builds the JSON document without serialising it.
// Fixes keep the order the rule produced them in.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	jb := jsonBuilder{fs: fs, opts: opts}
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(items))}
	for i := range items {
		out.Diagnostics = append(out.Diagnostics, jb.diagnostic(&items[i]))
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes diagnostics as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
