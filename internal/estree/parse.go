package estree

import (
	"errors"
	"fmt"
	"strings"

	"dashlint/internal/diag"
	"dashlint/internal/lexer"
	"dashlint/internal/source"
	"dashlint/internal/token"
)

type Options struct {
	JSX        bool
	TypeScript bool
	// Reporter additionally receives every parse error as a diagnostic.
	Reporter diag.Reporter
}

// OptionsForPath picks the dialect from the file extension.
func OptionsForPath(path string) Options {
	lo := lexer.OptionsForPath(path)
	return Options{JSX: lo.JSX, TypeScript: lo.TypeScript}
}

// ParseError is a lexical or structural error. A program with parse errors
// is still returned but should not be linted.
type ParseError struct {
	Code    diag.Code
	Span    source.Span
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Code.ID(), e.Span, e.Message)
}

// Parse lexes file and collects literal, template, JSX text and comment
// nodes in source order.
func Parse(file *source.File, opts Options) (*Program, []ParseError) {
	var errs []ParseError
	collect := diag.ReporterFunc(func(d diag.Diagnostic) {
		errs = append(errs, ParseError{Code: d.Code, Span: d.Primary, Message: d.Message})
	})
	rep := diag.MultiReporter{collect, opts.Reporter}

	b := &builder{
		prog: &Program{File: file},
		rep:  rep,
	}
	lx := lexer.New(file, lexer.Options{Reporter: rep, JSX: opts.JSX, TypeScript: opts.TypeScript})
	for {
		tok := lx.Next()
		b.comments(tok.Leading)
		if tok.Kind == token.EOF {
			if lx.Errors() == 0 {
				b.finish(tok.Span)
			}
			break
		}
		b.token(tok)
	}
	return b.prog, errs
}

type builder struct {
	prog   *Program
	rep    diag.Reporter
	open   []*TemplateLiteral // templates whose tail has not been seen yet
	delims []token.Token      // unclosed ( [ { and template heads
	broken bool               // a delimiter error was reported; stop checking
}

func (b *builder) comments(trivia []token.Trivia) {
	for _, tr := range trivia {
		var kind CommentKind
		switch tr.Kind {
		case token.TriviaLineComment:
			kind = CommentLine
		case token.TriviaBlockComment:
			kind = CommentBlock
		case token.TriviaShebang:
			kind = CommentShebang
		default:
			continue
		}
		value := tr.Text[2:]
		if kind == CommentBlock && len(tr.Text) >= 4 && strings.HasSuffix(tr.Text, "*/") {
			value = tr.Text[2 : len(tr.Text)-2]
		}
		b.prog.Comments = append(b.prog.Comments, Comment{Kind: kind, Value: value, Span: tr.Span})
	}
}

func (b *builder) token(tok token.Token) {
	b.balance(tok)

	switch tok.Kind {
	case token.String:
		if tok.Unterminated() {
			return
		}
		b.stringLiteral(tok)
	case token.Number:
		b.literal(LitNumber, tok)
	case token.BigInt:
		b.literal(LitBigInt, tok)
	case token.RegExp:
		if !tok.Unterminated() {
			b.literal(LitRegExp, tok)
		}
	case token.Keyword:
		switch tok.Text {
		case "true", "false":
			b.literal(LitBoolean, tok)
		case "null":
			b.literal(LitNull, tok)
		}
	case token.NoSubstitutionTemplate:
		b.prog.Body = append(b.prog.Body, &TemplateLiteral{
			Quasis: []TemplateElement{b.quasi(tok, true)},
			Span:   tok.Span,
		})
	case token.TemplateHead:
		tl := &TemplateLiteral{
			Quasis: []TemplateElement{b.quasi(tok, false)},
			Span:   tok.Span,
		}
		b.prog.Body = append(b.prog.Body, tl)
		b.open = append(b.open, tl)
	case token.TemplateMiddle, token.TemplateTail:
		if len(b.open) == 0 {
			return
		}
		tl := b.open[len(b.open)-1]
		tail := tok.Kind == token.TemplateTail
		tl.Quasis = append(tl.Quasis, b.quasi(tok, tail))
		tl.Span = tl.Span.Cover(tok.Span)
		if tail {
			b.open = b.open[:len(b.open)-1]
		}
	case token.JSXText:
		b.prog.Body = append(b.prog.Body, &JSXText{Value: tok.Text, Span: tok.Span})
	}
}

func (b *builder) literal(kind LiteralKind, tok token.Token) {
	b.prog.Body = append(b.prog.Body, &Literal{Kind: kind, Value: tok.Text, Raw: tok.Text, Span: tok.Span})
}

func (b *builder) stringLiteral(tok token.Token) {
	body := tok.Text[1 : len(tok.Text)-1]
	value := body
	if tok.Flags&token.FlagJSXAttr == 0 {
		decoded, err := DecodeString(body)
		if err != nil {
			b.escapeError(tok, err)
			return
		}
		value = decoded
	}
	b.prog.Body = append(b.prog.Body, &Literal{Kind: LitString, Value: value, Raw: tok.Text, Span: tok.Span})
}

func (b *builder) escapeError(tok token.Token, err error) {
	sp := tok.Span
	var ee *EscapeError
	if errors.As(err, &ee) {
		start := tok.Span.Start + 1 + uint32(ee.Offset)
		sp = source.Span{File: sp.File, Start: start, End: min(start+uint32(len(ee.Seq)), tok.Span.End)}
	}
	diag.ReportError(b.rep, diag.LexBadEscape, sp, err.Error()).Emit()
}

// quasi strips the chunk delimiters: one byte in front ('`' or '}') and
// "${" or '`' behind, unless the chunk is unterminated.
func (b *builder) quasi(tok token.Token, tail bool) TemplateElement {
	raw := tok.Text[1:]
	switch {
	case tok.Unterminated():
	case tail:
		raw = raw[:len(raw)-1]
	default:
		raw = raw[:len(raw)-2]
	}
	cooked, err := DecodeTemplate(raw)
	return TemplateElement{
		Raw:      raw,
		Cooked:   cooked,
		CookedOK: err == nil,
		Tail:     tail,
		Span:     tok.Span,
	}
}

var closerOf = map[string]string{"(": ")", "[": "]", "{": "}"}

// balance tracks ( [ { and ${ } nesting and reports the first mismatch.
func (b *builder) balance(tok token.Token) {
	if b.broken {
		return
	}
	switch {
	case tok.Kind == token.TemplateHead:
		b.delims = append(b.delims, tok)
	case tok.Kind == token.TemplateMiddle:
		b.closeDelim(tok, "${")
		b.delims = append(b.delims, tok)
	case tok.Kind == token.TemplateTail:
		b.closeDelim(tok, "${")
	case tok.Kind != token.Punct:
	case tok.Text == "(" || tok.Text == "[" || tok.Text == "{":
		b.delims = append(b.delims, tok)
	case tok.Text == ")" || tok.Text == "]" || tok.Text == "}":
		b.closeDelim(tok, tok.Text)
	}
}

func (b *builder) closeDelim(tok token.Token, closer string) {
	if len(b.delims) == 0 {
		b.broken = true
		diag.ReportError(b.rep, diag.SynUnbalanced, tok.Span, "unexpected '"+closerText(closer)+"'").Emit()
		return
	}
	open := b.delims[len(b.delims)-1]
	b.delims = b.delims[:len(b.delims)-1]
	want := "${"
	if open.Kind == token.Punct {
		want = closerOf[open.Text]
	}
	if want != closer {
		b.broken = true
		diag.ReportError(b.rep, diag.SynUnbalanced, tok.Span,
			fmt.Sprintf("expected '%s' to close %s", closerText(want), open.Span)).
			WithNote(open.Span, "opened here").
			Emit()
	}
}

func closerText(c string) string {
	if c == "${" {
		return "}"
	}
	return c
}

func (b *builder) finish(eof source.Span) {
	if b.broken || len(b.delims) == 0 {
		return
	}
	open := b.delims[len(b.delims)-1]
	want := "}"
	if open.Kind == token.Punct {
		want = closerOf[open.Text]
	}
	diag.ReportError(b.rep, diag.SynUnbalanced, eof, "missing '"+want+"' before end of file").
		WithNote(open.Span, "opened here").
		Emit()
}
