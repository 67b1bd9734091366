package lexer

import (
	"dashlint/internal/token"
)

// punctuators ordered longest first so the first prefix match is maximal munch.
var punctuators = []string{
	">>>=",
	"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "<<", ">>",
	"{", "}", "(", ")", "[", "]", ";", ",", "<", ">", "+", "-", "*", "/",
	"%", "&", "|", "^", "!", "~", "?", ":", "=", ".", "@",
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	for _, p := range punctuators {
		if !lx.cursor.HasPrefix(p) {
			continue
		}
		// "a?.5:b" is a conditional, not optional chaining
		if p == "?." && isDec(lx.cursor.PeekAt(2)) {
			continue
		}
		lx.cursor.BumpN(len(p))
		switch p {
		case "{":
			lx.push(ctxBrace)
		case "}":
			if k := lx.top(); len(lx.stack) > 0 && (k == ctxBrace || k == ctxJSXExpr) {
				lx.pop()
			}
		}
		return lx.tokenFrom(start, token.Punct)
	}
	return lx.unknownChar(start)
}
