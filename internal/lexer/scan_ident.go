package lexer

import (
	"dashlint/internal/diag"
	"dashlint/internal/token"
)

// scanIdentOrKeyword scans an identifier and classifies it with LookupKeyword.
// Keywords are case-sensitive and never contain escapes: "if" is an
// identifier. Token.Text is the exact source slice.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	escaped := false

	r, sz := lx.peekRune()
	switch {
	case sz == 0:
		return lx.tokenFrom(start, token.Invalid)
	case r == '\\':
		if !lx.scanIdentEscape() {
			return lx.unknownChar(start)
		}
		escaped = true
	case r < utf8RuneSelf && isIdentStartByte(byte(r)):
		lx.cursor.Bump()
	case r >= utf8RuneSelf && isIdentStartRune(r):
		lx.bumpRune()
	default:
		return lx.unknownChar(start)
	}

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if b == '\\' {
				if !lx.scanIdentEscape() {
					break
				}
				escaped = true
				continue
			}
			if !isIdentContinueByte(b) {
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

	tok := lx.tokenFrom(start, token.Ident)
	if !escaped && token.LookupKeyword(tok.Text) {
		tok.Kind = token.Keyword
	}
	return tok
}

// scanIdentEscape consumes "\uXXXX" or "\u{X...}". On malformed input the
// cursor is restored and false is returned.
func (lx *Lexer) scanIdentEscape() bool {
	m := lx.cursor.Mark()
	if !lx.cursor.Eat('\\') || !lx.cursor.Eat('u') {
		lx.cursor.Reset(m)
		return false
	}
	if lx.cursor.Eat('{') {
		n := 0
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			n++
		}
		if n == 0 || !lx.cursor.Eat('}') {
			lx.cursor.Reset(m)
			return false
		}
		return true
	}
	for range 4 {
		if !isHex(lx.cursor.Peek()) {
			lx.cursor.Reset(m)
			return false
		}
		lx.cursor.Bump()
	}
	return true
}

// scanPrivateName handles "#name" class members.
func (lx *Lexer) scanPrivateName() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	r, sz := lx.peekRune()
	if sz == 0 || !(isIdentStartRune(r) || r == '\\') {
		lx.cursor.Reset(start)
		return lx.unknownChar(start)
	}
	id := lx.scanIdentOrKeyword()
	if id.Kind == token.Invalid {
		return id
	}
	return lx.tokenFrom(start, token.PrivateName)
}

// unknownChar consumes one rune and reports it.
func (lx *Lexer) unknownChar(start Mark) token.Token {
	lx.cursor.Reset(start)
	lx.bumpRune()
	tok := lx.tokenFrom(start, token.Invalid)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unexpected character "+quoteRune(tok.Text))
	return tok
}
