package diagfmt

import (
	"dashlint/internal/diag"
	"dashlint/internal/source"
)

const ruleID = "em-dash-checker/no-em-dash"

// emDashFixture is one file with a single em-dash in a string literal at
// byte 12 and a matching warning carrying two fixes.
func emDashFixture() (*source.FileSet, *diag.Bag) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("src/a.js", []byte("let x = 1;\nconst s = \"a\u2014b\";\n"))

	span := source.Span{File: id, Start: 23, End: 26}
	d := diag.New(diag.SevWarning, diag.RuleNoEmDash, span, "Em-dash character found in string literal")
	d.Rule = ruleID
	d.MessageID = "foundEmDash"
	d.Data = map[string]string{"location": "string literal"}
	d = d.WithNote(span, "U+2014 EM DASH")
	d = d.WithFixSuggestion(diag.Fix{
		ID:            ruleID + ":23:hyphen",
		Title:         "Replace em-dash with hyphen (-)",
		Applicability: diag.FixApplicabilityManualReview,
		Edits:         []diag.TextEdit{{Span: span, NewText: "-", OldText: "\u2014"}},
	})
	d = d.WithFixSuggestion(diag.Fix{
		ID:            ruleID + ":23:remove",
		Title:         "Remove em-dash",
		Applicability: diag.FixApplicabilityManualReview,
		Edits:         []diag.TextEdit{{Span: span, NewText: "", OldText: "\u2014"}},
	})

	bag := diag.NewBag(10)
	bag.Add(d)
	return fs, bag
}
