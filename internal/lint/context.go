package lint

import (
	"fmt"
	"regexp"

	"dashlint/internal/diag"
	"dashlint/internal/estree"
	"dashlint/internal/fix"
	"dashlint/internal/source"
)

// Descriptor is what a rule hands to Context.Report.
type Descriptor struct {
	// Span is the exact reported range [Start, End).
	Span      source.Span
	MessageID string
	Data      map[string]string
	Suggest   []Suggestion
}

// Suggestion is an opt-in fix offered with a report.
type Suggestion struct {
	// Key identifies the suggestion among its siblings ("hyphen"); it becomes
	// the last segment of the fix id. Defaults to the 1-based position.
	Key       string
	MessageID string
	Data      map[string]string
	Edits     []diag.TextEdit
}

// Context is the per-file, per-rule view handed to Rule.Visit and Rule.Exit.
type Context struct {
	fs       *source.FileSet
	prog     *estree.Program
	meta     Meta
	severity diag.Severity
	out      diag.Reporter
}

// NewContext builds the context a rule sees for prog. The Runner creates one
// per enabled rule; editors and tests may call rules directly with it.
func NewContext(fs *source.FileSet, prog *estree.Program, rule Rule, level Level, out diag.Reporter) *Context {
	return &Context{
		fs:       fs,
		prog:     prog,
		meta:     rule.Meta(),
		severity: level.Severity(),
		out:      out,
	}
}

// File returns the file being linted.
func (c *Context) File() *source.File {
	return c.prog.File
}

// Comments returns every comment of the file in document order.
func (c *Context) Comments() []estree.Comment {
	return c.prog.Comments
}

// Position converts an absolute byte offset into a 1-based line/column.
func (c *Context) Position(off uint32) source.LineCol {
	return c.fs.Position(c.prog.File.ID, off)
}

// Valid reports whether sp lies inside the file being linted.
func (c *Context) Valid(sp source.Span) bool {
	return sp.File == c.prog.File.ID && c.fs.Valid(sp)
}

// Report interpolates the message and suggestions and emits one diagnostic.
func (c *Context) Report(d Descriptor) {
	msg := Interpolate(c.meta.Messages[d.MessageID], d.Data)
	b := diag.NewReportBuilder(c.out, c.severity, c.meta.Code, d.Span, msg).
		WithRule(c.meta.ID()).
		WithMessage(d.MessageID, d.Data).
		WithLocation(diag.Location{Start: c.Position(d.Span.Start), End: c.Position(d.Span.End)})

	for i, s := range d.Suggest {
		key := s.Key
		if key == "" {
			key = fmt.Sprint(i + 1)
		}
		b.WithFixSuggestion(fix.New(
			Interpolate(c.meta.Messages[s.MessageID], s.Data),
			s.Edits,
			fix.WithID(FixID(c.meta.Name, d.Span.Start, key)),
			fix.WithApplicability(diag.FixApplicabilityManualReview),
		))
	}
	b.Emit()
}

// FixID builds the stable id of a suggestion: "<rule>:<offset>:<key>".
func FixID(rule string, start uint32, key string) string {
	return fmt.Sprintf("%s:%d:%s", rule, start, key)
}

var placeholder = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// Interpolate replaces {{name}} with data[name]; unknown names stay as-is.
func Interpolate(tmpl string, data map[string]string) string {
	if len(data) == 0 {
		return tmpl
	}
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		if v, ok := data[name]; ok {
			return v
		}
		return m
	})
}
