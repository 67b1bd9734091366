package lexer

import (
	"dashlint/internal/source"
	"dashlint/internal/token"
)

type ctxKind uint8

const (
	ctxBrace       ctxKind = iota // '{' in code
	ctxTemplate                   // "${" inside a template literal
	ctxJSXExpr                    // '{' inside a JSX tag or between children
	ctxJSXTag                     // between '<' and '>'
	ctxJSXChildren                // between an opening tag and its closing tag
)

type frame struct {
	kind ctxKind
	// ctxJSXTag only.
	named       bool
	closing     bool
	selfClosing bool
}

// Lexer turns a file into significant tokens. Whitespace and comments are
// attached to the following token as Leading trivia; trailing comments end up
// on EOF.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // one-token lookahead
	hold   []token.Trivia // pending leading trivia
	prev   token.Token    // last significant token, drives regex/JSX decisions
	stack  []frame
	errs   int
	// parens records, per open '(', whether it starts the condition of
	// if/while/for/with; condClosed is that flag for the last ')'.
	parens     []bool
	condClosed bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Errors returns the number of lexical errors seen so far.
func (lx *Lexer) Errors() int {
	return lx.errs
}

// Next returns the next significant token with its Leading trivia attached.
// After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	var tok token.Token
	switch lx.top() {
	case ctxJSXChildren:
		// whitespace between children is text, not trivia
		tok = lx.nextJSXChild()
	case ctxJSXTag:
		lx.collectLeadingTrivia()
		tok = lx.nextJSXTag()
	default:
		lx.collectLeadingTrivia()
		tok = lx.nextCode()
	}

	tok.Leading = lx.hold
	lx.hold = nil
	if tok.Kind != token.EOF {
		lx.trackParens(tok)
		lx.prev = tok
	}
	return tok
}

func (lx *Lexer) trackParens(tok token.Token) {
	if tok.Kind != token.Punct {
		return
	}
	switch tok.Text {
	case "(":
		cond := false
		if lx.prev.Kind == token.Keyword {
			switch lx.prev.Text {
			case "if", "while", "for", "with":
				cond = true
			}
		}
		lx.parens = append(lx.parens, cond)
	case ")":
		lx.condClosed = false
		if n := len(lx.parens); n > 0 {
			lx.condClosed = lx.parens[n-1]
			lx.parens = lx.parens[:n-1]
		}
	}
}

// operandEnded reports whether a '/' or '<' at the cursor continues an
// expression. A ')' closing a statement condition starts a new statement.
func (lx *Lexer) operandEnded() bool {
	if lx.prev.Kind == token.Punct && lx.prev.Text == ")" && lx.condClosed {
		return false
	}
	return lx.prev.EndsExpr()
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) nextCode() token.Token {
	if lx.cursor.EOF() {
		return lx.eof()
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch) || ch == '\\':
		return lx.scanIdentOrKeyword()
	case ch >= utf8RuneSelf:
		return lx.scanIdentOrKeyword()
	case isDec(ch), ch == '.' && lx.isNumberAfterDot():
		return lx.scanNumber()
	case ch == '"' || ch == '\'':
		return lx.scanString(ch)
	case ch == '`':
		return lx.scanTemplate(true)
	case ch == '}' && lx.top() == ctxTemplate:
		return lx.scanTemplate(false)
	case ch == '#':
		return lx.scanPrivateName()
	case ch == '/' && !lx.operandEnded():
		return lx.scanRegExp()
	case ch == '<' && lx.opts.JSX && !lx.operandEnded() && lx.jsxStartAhead():
		return lx.openJSXTag()
	default:
		return lx.scanPunct()
	}
}

func (lx *Lexer) eof() token.Token {
	return token.Token{
		Kind: token.EOF,
		Span: lx.emptySpan(),
		Text: "",
	}
}

func (lx *Lexer) top() ctxKind {
	if len(lx.stack) == 0 {
		return ctxBrace
	}
	return lx.stack[len(lx.stack)-1].kind
}

func (lx *Lexer) push(k ctxKind) {
	lx.stack = append(lx.stack, frame{kind: k})
}

func (lx *Lexer) pop() frame {
	if len(lx.stack) == 0 {
		return frame{}
	}
	f := lx.stack[len(lx.stack)-1]
	lx.stack = lx.stack[:len(lx.stack)-1]
	return f
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) tokenFrom(m Mark, k token.Kind) token.Token {
	sp := lx.cursor.SpanFrom(m)
	return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
