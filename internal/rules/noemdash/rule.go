package noemdash

import (
	"fmt"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/runenames"

	"dashlint/internal/diag"
	"dashlint/internal/estree"
	"dashlint/internal/lint"
	"dashlint/internal/source"
)

const (
	Name   = "no-em-dash"
	Plugin = "em-dash-checker"

	MsgFound   = "foundEmDash"
	MsgReplace = "replaceWith"
)

// Rule reports em-dash characters. The zero value is ready to use.
type Rule struct{}

var _ lint.Rule = Rule{}

// New returns the rule.
func New() Rule { return Rule{} }

func (Rule) Meta() lint.Meta {
	return lint.Meta{
		Name:           Name,
		Plugin:         Plugin,
		Type:           "suggestion",
		Description:    fmt.Sprintf("Disallow em-dash characters (U+%04X %s) in code", EmDash, runenames.Name(EmDash)),
		URL:            "https://github.com/bnap00/eslint-plugin-em-dash-checker/blob/main/docs/rules/no-em-dash.md",
		Recommended:    true,
		HasSuggestions: true,
		Messages: map[string]string{
			MsgFound:   "Em-dash character (\u2014) found in {{context}}. Consider using a standard hyphen or double-hyphen instead.",
			MsgReplace: `Replace em-dash with "{{replacement}}"`,
		},
		Code: diag.RuleNoEmDash,
	}
}

// Visit handles literals, template literals and JSX text. Comments wait for Exit.
func (Rule) Visit(ctx *lint.Context, n estree.Node) {
	switch n := n.(type) {
	case *estree.Literal:
		if r, ok := StringRegion(n); ok {
			report(ctx, r)
		}
	case *estree.TemplateLiteral:
		for _, r := range TemplateRegions(n, ctx.File().Content) {
			report(ctx, r)
		}
	case *estree.JSXText:
		report(ctx, MarkupRegion(n))
	}
}

// Exit scans every comment of the file in document order.
func (Rule) Exit(ctx *lint.Context) {
	comments := ctx.Comments()
	for i := range comments {
		report(ctx, CommentRegion(&comments[i]))
	}
}

// report emits one diagnostic per em-dash in r. Regions without a usable
// position are skipped.
func report(ctx *lint.Context, r Region) {
	if !r.fits() || !ctx.Valid(r.Span) {
		return
	}
	for idx := range Occurrences(r.Text) {
		off, err := safecast.Conv[uint32](idx)
		if err != nil {
			return
		}
		start := r.Base + off
		sp := source.Span{File: r.Span.File, Start: start, End: start + Width}
		ctx.Report(lint.Descriptor{
			Span:      sp,
			MessageID: MsgFound,
			Data:      map[string]string{"context": r.Label},
			Suggest:   suggestions(sp),
		})
	}
}

func suggestions(sp source.Span) []lint.Suggestion {
	out := make([]lint.Suggestion, 0, len(replacementOptions))
	for _, o := range replacementOptions {
		out = append(out, lint.Suggestion{
			Key:       o.Name,
			MessageID: MsgReplace,
			Data:      map[string]string{"replacement": o.Label()},
			Edits:     []diag.TextEdit{{Span: sp, NewText: o.Replacement, OldText: string(EmDash)}},
		})
	}
	return out
}
