package lint

import (
	"fmt"

	"dashlint/internal/diag"
	"dashlint/internal/estree"
)

// Meta describes a rule the way rule listings and SARIF output need it.
type Meta struct {
	Name   string // "no-em-dash"
	Plugin string // "em-dash-checker"
	// Type is "problem", "suggestion" or "layout".
	Type           string
	Description    string
	URL            string
	Recommended    bool
	HasSuggestions bool
	// Messages maps message ids to templates with {{placeholders}}.
	Messages map[string]string
	Code     diag.Code
}

// ID is the qualified rule id used in configs and directives.
func (m Meta) ID() string {
	if m.Plugin == "" {
		return m.Name
	}
	return m.Plugin + "/" + m.Name
}

// Rule inspects nodes and reports through ctx. Implementations keep no state
// between calls; everything file-specific lives in the Context.
type Rule interface {
	Meta() Meta
	Visit(ctx *Context, n estree.Node)
	// Exit runs once after the last node of the file.
	Exit(ctx *Context)
}

// Level is a configured rule level. Rules never pick their own level.
type Level uint8

const (
	LevelOff Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "unknown"
}

// Severity maps an enabled level to a diagnostic severity.
func (l Level) Severity() diag.Severity {
	if l == LevelError {
		return diag.SevError
	}
	return diag.SevWarning
}

// ParseLevel accepts "off"/"0" plus everything diag.ParseSeverity accepts
// except "info".
func ParseLevel(s string) (Level, error) {
	if s == "off" || s == "0" {
		return LevelOff, nil
	}
	sev, err := diag.ParseSeverity(s)
	if err != nil || sev == diag.SevInfo {
		return LevelOff, fmt.Errorf("invalid rule level %q (want off, warn or error)", s)
	}
	if sev == diag.SevError {
		return LevelError, nil
	}
	return LevelWarn, nil
}
