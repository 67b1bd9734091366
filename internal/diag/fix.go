package diag

import "dashlint/internal/source"

// FixKind classifies the nature of a fix suggestion.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRefactor
	FixKindRewrite
	FixKindSourceAction
)

func (k FixKind) String() string {
	switch k {
	case FixKindQuickFix:
		return "quickfix"
	case FixKindRefactor:
		return "refactor"
	case FixKindRewrite:
		return "rewrite"
	case FixKindSourceAction:
		return "source"
	}
	return "unknown"
}

// FixApplicability is the confidence level of a fix.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

// TextEdit replaces Span with NewText. When OldText is non-empty the fix engine
// refuses to apply the edit unless the current text under Span matches it.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// Fix is a suggested correction. Fixes are data only; nothing applies them
// unless a caller selects one explicitly.
type Fix struct {
	ID            string
	Title         string
	Kind          FixKind
	Applicability FixApplicability
	IsPreferred   bool
	Edits         []TextEdit
}

// Span returns the union of all edit spans, or an empty span for a fix
// without edits.
func (f Fix) Span() source.Span {
	if len(f.Edits) == 0 {
		return source.Span{}
	}
	sp := f.Edits[0].Span
	for _, e := range f.Edits[1:] {
		sp = sp.Cover(e.Span)
	}
	return sp
}
