package diag

import (
	"dashlint/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Location is the resolved line/column form of a diagnostic's primary span.
// Columns are 1-based byte columns; zero means unresolved.
type Location struct {
	Start source.LineCol
	End   source.LineCol
}

// IsZero reports whether the location was never resolved.
func (l Location) IsZero() bool {
	return l.Start.Line == 0
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	// Rule is the qualified rule id ("em-dash-checker/no-em-dash"); empty for lexer and
	// driver diagnostics.
	Rule string
	// MessageID names the message template; Data holds its placeholders.
	MessageID string
	Data      map[string]string
	Message   string
	Primary   source.Span
	Loc       Location
	Notes     []Note
	Fixes     []Fix
}
