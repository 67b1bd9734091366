package lexer

import (
	"dashlint/internal/diag"
	"dashlint/internal/token"
)

// scanRegExp scans /body/flags. Called only where an expression may start,
// so '/' cannot be division here. A '/' inside a [...] class does not close
// the literal.
func (lx *Lexer) scanRegExp() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	inClass := false
	for {
		if lx.cursor.EOF() {
			return lx.unterminatedRegExp(start)
		}
		b := lx.cursor.Peek()
		switch {
		case b == '\n' || b == '\r':
			return lx.unterminatedRegExp(start)
		case b == '\\':
			lx.cursor.Bump()
			if n := lx.cursor.Peek(); n != '\n' && n != '\r' {
				lx.cursor.Bump()
			}
			continue
		case b == '[':
			inClass = true
		case b == ']':
			inClass = false
		case b == '/' && !inClass:
			lx.cursor.Bump()
			for isIdentContinueByte(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			return lx.tokenFrom(start, token.RegExp)
		}
		lx.cursor.Bump()
	}
}

func (lx *Lexer) unterminatedRegExp(start Mark) token.Token {
	tok := lx.tokenFrom(start, token.RegExp)
	tok.Flags |= token.FlagUnterminated
	lx.errLex(diag.LexUnterminatedRegExp, tok.Span, "unterminated regular expression")
	return tok
}
