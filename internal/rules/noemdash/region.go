package noemdash

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"dashlint/internal/estree"
	"dashlint/internal/source"
)

// Region is a piece of source text to scan. Label names the construct in
// messages; Base is the absolute offset of Text[0] in the file and Span is
// the node the text belongs to.
type Region struct {
	Label string
	Text  string
	Base  uint32
	Span  source.Span
}

// fits reports whether Text lies inside Span when placed at Base.
func (r Region) fits() bool {
	if r.Span.Empty() || r.Base < r.Span.Start {
		return false
	}
	n, err := safecast.Conv[uint32](len(r.Text))
	if err != nil {
		return false
	}
	return r.Base <= r.Span.End && n <= r.Span.End-r.Base
}

// StringRegion scans the raw literal including its quotes. Non-string
// literals have no region.
func StringRegion(lit *estree.Literal) (Region, bool) {
	if lit == nil || !lit.IsString() {
		return Region{}, false
	}
	text := lit.Raw
	if text == "" {
		text = jsonQuote(lit.Value)
	}
	return Region{Label: "string literal", Text: text, Base: lit.Span.Start, Span: lit.Span}, true
}

// TemplateRegions returns one region per chunk. A chunk span starts at its
// one-byte delimiter, so the text begins one byte later; src is the file
// content used to check that delimiter.
func TemplateRegions(tl *estree.TemplateLiteral, src []byte) []Region {
	if tl == nil {
		return nil
	}
	out := make([]Region, 0, len(tl.Quasis))
	for _, q := range tl.Quasis {
		if int(q.Span.Start) >= len(src) {
			continue
		}
		if d := src[q.Span.Start]; d != '`' && d != '}' {
			continue
		}
		out = append(out, Region{
				Label: "template literal",
			Text:  q.Raw,
			Base:  q.Span.Start + 1,
			Span:  q.Span,
		})
	}
	return out
}

// MarkupRegion scans JSX text as written; it has no delimiters.
func MarkupRegion(t *estree.JSXText) Region {
	return Region{Label: "JSX text", Text: t.Value, Base: t.Span.Start, Span: t.Span}
}

// CommentRegion scans the comment body. "//", "/*" and "#!" are all two bytes.
func CommentRegion(c *estree.Comment) Region {
	return Region{
		Label: fmt.Sprintf("%s comment", cases.Lower(language.Und).String(c.Kind.String())),
		Text:  c.Value,
		Base:  c.Span.Start + 2,
		Span:  c.Span,
	}
}

// jsonQuote matches JSON.stringify: no HTML escaping, no trailing newline.
func jsonQuote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
