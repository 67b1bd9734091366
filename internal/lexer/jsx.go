package lexer

import (
	"dashlint/internal/diag"
	"dashlint/internal/token"
)

// jsxStartAhead reports whether the '<' under the cursor opens an element
// ("<div", "<Foo.Bar", "<ns:tag") or a fragment ("<>").
func (lx *Lexer) jsxStartAhead() bool {
	b := lx.cursor.PeekAt(1)
	if !(b == '>' || isIdentStartByte(b) || b >= utf8RuneSelf) {
		return false
	}
	return !lx.opts.TypeScript || !lx.typeParamsAhead()
}

// typeParamsAhead recognises the two TSX spellings of a generic arrow
// function, "<T,>" and "<T extends U>", which are never valid JSX.
func (lx *Lexer) typeParamsAhead() bool {
	i := lx.skipBlanks(1)
	name := i
	for {
		b := lx.cursor.PeekAt(i)
		if !isIdentContinueByte(b) && b < utf8RuneSelf {
			break
		}
		i++
	}
	if i == name {
		return false
	}
	i = lx.skipBlanks(i)
	if lx.cursor.PeekAt(i) == ',' {
		return true
	}
	const kw = "extends"
	for j := range uint32(len(kw)) {
		if lx.cursor.PeekAt(i+j) != kw[j] {
			return false
		}
	}
	after := lx.cursor.PeekAt(i + uint32(len(kw)))
	return after == ' ' || after == '\t' || after == '\n' || after == '\r'
}

func (lx *Lexer) skipBlanks(i uint32) uint32 {
	for {
		switch lx.cursor.PeekAt(i) {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
}

func (lx *Lexer) openJSXTag() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '<'
	lx.push(ctxJSXTag)
	return lx.tokenFrom(start, token.Punct)
}

// nextJSXTag lexes inside "<...>": names, '=', attribute strings, '{' for
// expression containers, '/' and the closing '>'.
func (lx *Lexer) nextJSXTag() token.Token {
	if lx.cursor.EOF() {
		lx.errLex(diag.LexUnterminatedJSX, lx.emptySpan(), "unterminated JSX tag")
		lx.stack = lx.stack[:0]
		return lx.eof()
	}

	start := lx.cursor.Mark()
	fr := &lx.stack[len(lx.stack)-1]
	switch b := lx.cursor.Peek(); {
	case b == '/':
		lx.cursor.Bump()
		if !fr.named && !fr.closing {
			fr.closing = true
		} else {
			fr.selfClosing = true
		}
		return lx.tokenFrom(start, token.Punct)
	case b == '>':
		lx.cursor.Bump()
		lx.closeJSXTag()
		return lx.tokenFrom(start, token.Punct)
	case b == '{':
		lx.cursor.Bump()
		lx.push(ctxJSXExpr)
		return lx.tokenFrom(start, token.Punct)
	case b == '=':
		lx.cursor.Bump()
		return lx.tokenFrom(start, token.Punct)
	case b == '"' || b == '\'':
		return lx.scanJSXString(b)
	case isIdentStartByte(b) || b >= utf8RuneSelf:
		fr.named = true
		return lx.scanJSXIdent()
	default:
		return lx.unknownChar(start)
	}
}

// closeJSXTag pops the tag frame at '>'. An opening tag starts a children
// frame; a closing tag also ends the children frame it closes.
func (lx *Lexer) closeJSXTag() {
	fr := lx.pop()
	switch {
	case fr.closing:
		if lx.top() == ctxJSXChildren && len(lx.stack) > 0 {
			lx.pop()
		}
	case fr.selfClosing:
	default:
		lx.push(ctxJSXChildren)
	}
}

// nextJSXChild returns '<', '{' or a JSXText run up to the next of them.
func (lx *Lexer) nextJSXChild() token.Token {
	if lx.cursor.EOF() {
		lx.errLex(diag.LexUnterminatedJSX, lx.emptySpan(), "unterminated JSX contents")
		lx.stack = lx.stack[:0]
		return lx.eof()
	}

	start := lx.cursor.Mark()
	switch lx.cursor.Peek() {
	case '<':
		return lx.openJSXTag()
	case '{':
		lx.cursor.Bump()
		lx.push(ctxJSXExpr)
		return lx.tokenFrom(start, token.Punct)
	}
	for !lx.cursor.EOF() {
		if b := lx.cursor.Peek(); b == '<' || b == '{' {
			break
		}
		lx.cursor.Bump()
	}
	return lx.tokenFrom(start, token.JSXText)
}

// JSX names allow '-' inside ("data-id") and ':' / '.' as separators.
func (lx *Lexer) scanJSXIdent() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) && b != '-' && b != ':' && b != '.' {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r, _ := lx.peekRune()
		if !isIdentContinueRune(r) {
			break
		}
		lx.bumpRune()
	}
	if lx.cursor.Mark() == start {
		return lx.unknownChar(start)
	}
	return lx.tokenFrom(start, token.JSXIdent)
}

// Attribute strings have no escapes and may span lines.
func (lx *Lexer) scanJSXString(quote byte) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() == quote {
			tok := lx.tokenFrom(start, token.String)
			tok.Flags |= token.FlagJSXAttr
			return tok
		}
	}
	tok := lx.tokenFrom(start, token.String)
	tok.Flags |= token.FlagUnterminated | token.FlagJSXAttr
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated JSX attribute string")
	return tok
}
