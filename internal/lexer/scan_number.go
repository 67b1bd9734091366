package lexer

import (
	"dashlint/internal/diag"
	"dashlint/internal/token"
)

// Accepts 0, 123, 1_000, .5, 1., 1e-3, 0b..., 0o..., 0x..., 10n.
// Legacy octal (0777) lexes as a decimal; the value is never needed.
// Malformed numbers are reported to opts.Reporter and the token is still closed.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' {
		var digit func(byte) bool
		switch b1 {
		case 'x', 'X':
			digit = isHex
		case 'o', 'O':
			digit = isOct
		case 'b', 'B':
			digit = isBin
		}
		if digit != nil {
			lx.cursor.BumpN(2)
			if lx.scanDigits(digit) == 0 {
				lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "missing digits after radix prefix")
			}
			return lx.finishNumber(start)
		}
	}

	lx.scanDigits(isDec)
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		lx.scanDigits(isDec)
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if lx.scanDigits(isDec) == 0 {
			lx.cursor.Reset(m)
			lx.cursor.Bump()
			lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "missing exponent digits")
		}
	}
	return lx.finishNumber(start)
}

// scanDigits consumes digits and '_' separators, returning the digit count.
func (lx *Lexer) scanDigits(digit func(byte) bool) int {
	n := 0
	for {
		b := lx.cursor.Peek()
		switch {
		case digit(b):
			n++
		case b == '_' && n > 0:
		default:
			return n
		}
		lx.cursor.Bump()
	}
}

func (lx *Lexer) finishNumber(start Mark) token.Token {
	if lx.cursor.Eat('n') {
		return lx.tokenFrom(start, token.BigInt)
	}
	return lx.tokenFrom(start, token.Number)
}
