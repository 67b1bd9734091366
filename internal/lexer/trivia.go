package lexer

import (
	"unicode"
	"unicode/utf8"

	"dashlint/internal/diag"
	"dashlint/internal/token"
)

// collectLeadingTrivia gathers the trivia run before a significant token.
//   - horizontal whitespace (including Unicode spaces and BOM) coalesces into one TriviaSpace
//   - consecutive line terminators coalesce into one TriviaNewline
//   - "#!" at offset 0 -> TriviaShebang up to the end of the line
//   - //... up to \n -> TriviaLineComment
//   - /* ... */ -> TriviaBlockComment (not nested; an unterminated one is reported and ends at EOF)
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	if lx.cursor.Off == 0 && lx.cursor.HasPrefix("#!") {
		start := lx.cursor.Mark()
		lx.skipToLineEnd()
		lx.pushTrivia(token.TriviaShebang, start)
	}
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()

		if lx.skipSpaces() {
			lx.pushTrivia(token.TriviaSpace, start)
			continue
		}
		if lx.skipNewlines() {
			lx.pushTrivia(token.TriviaNewline, start)
			continue
		}
		if lx.cursor.Peek() == '/' && lx.scanCommentIntoHold() {
			continue
		}
		break
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}

func (lx *Lexer) skipSpaces() bool {
	moved := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == ' ' || b == '\t' || b == '\v' || b == '\f' {
			lx.cursor.Bump()
			moved = true
			continue
		}
		if b < utf8.RuneSelf {
			break
		}
		r, _ := lx.peekRune()
		if r == '\u2028' || r == '\u2029' || !(unicode.IsSpace(r) || r == '\uFEFF') {
			break
		}
		lx.bumpRune()
		moved = true
	}
	return moved
}

func (lx *Lexer) skipNewlines() bool {
	moved := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || b == '\r' {
			lx.cursor.Bump()
			moved = true
			continue
		}
		if b < utf8.RuneSelf {
			break
		}
		if r, _ := lx.peekRune(); r != '\u2028' && r != '\u2029' {
			break
		}
		lx.bumpRune()
		moved = true
	}
	return moved
}

func (lx *Lexer) skipToLineEnd() {
	for !lx.cursor.EOF() {
		if b := lx.cursor.Peek(); b == '\n' || b == '\r' {
			return
		}
		lx.cursor.Bump()
	}
}

// scanCommentIntoHold consumes "//..." or "/*...*/". It leaves the cursor
// untouched and returns false when '/' starts something else.
func (lx *Lexer) scanCommentIntoHold() bool {
	start := lx.cursor.Mark()
	if !lx.cursor.Eat('/') {
		return false
	}
	switch lx.cursor.Peek() {
	case '/':
		lx.cursor.Bump()
		lx.skipToLineEnd()
		lx.pushTrivia(token.TriviaLineComment, start)
		return true

	case '*':
		lx.cursor.Bump()
		closed := false
		for !lx.cursor.EOF() {
			if lx.cursor.HasPrefix("*/") {
				lx.cursor.BumpN(2)
				closed = true
				break
			}
			lx.cursor.Bump()
		}
		if !closed {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
		lx.pushTrivia(token.TriviaBlockComment, start)
		return true

	default:
		// not a comment; rewind and let it scan as '/'
		lx.cursor.Reset(start)
		return false
	}
}
