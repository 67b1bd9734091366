package lexer

import (
	"strconv"

	"dashlint/internal/diag"
	"dashlint/internal/token"
)

// scanString scans a '...' or "..." literal. Escapes are only skipped here;
// decoding happens in the node builder. A raw line break ends the literal
// with an error (a backslash-newline pair is a line continuation).
func (lx *Lexer) scanString(quote byte) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case quote:
			lx.cursor.Bump()
			return lx.tokenFrom(start, token.String)
		case '\\':
			lx.cursor.Bump()
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
			continue
		case '\n', '\r':
			tok := lx.tokenFrom(start, token.String)
			tok.Flags |= token.FlagUnterminated
			lx.errLex(diag.LexUnterminatedString, tok.Span, "newline in string literal")
			return tok
		}
		lx.cursor.Bump()
	}
	tok := lx.tokenFrom(start, token.String)
	tok.Flags |= token.FlagUnterminated
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

// scanTemplate scans one template chunk. opening is true at the '`' that
// starts the literal and false at the '}' closing a substitution.
//
//	`...`   NoSubstitutionTemplate
//	`...${  TemplateHead      (pushes ctxTemplate)
//	}...${  TemplateMiddle
//	}...`   TemplateTail      (pops ctxTemplate)
func (lx *Lexer) scanTemplate(opening bool) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '`' or '}'

	endKind, contKind := token.TemplateTail, token.TemplateMiddle
	if opening {
		endKind, contKind = token.NoSubstitutionTemplate, token.TemplateHead
	}

	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == '`':
			lx.cursor.Bump()
			if !opening {
				lx.pop()
			}
			return lx.tokenFrom(start, endKind)
		case b == '\\':
			lx.cursor.Bump()
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
		case b == '$' && lx.cursor.PeekAt(1) == '{':
			lx.cursor.BumpN(2)
			if opening {
				lx.push(ctxTemplate)
			}
			return lx.tokenFrom(start, contKind)
		default:
			lx.cursor.Bump()
		}
	}

	if !opening {
		lx.pop()
	}
	tok := lx.tokenFrom(start, endKind)
	tok.Flags |= token.FlagUnterminated
	lx.errLex(diag.LexUnterminatedTemplate, tok.Span, "unterminated template literal")
	return tok
}

func quoteRune(s string) string {
	return strconv.Quote(s)
}
