package token

import (
	"dashlint/internal/source"
)

// Flags carries per-token lexical facts.
type Flags uint8

const (
	// FlagUnterminated marks a string, template, regex or JSX construct that
	// reached EOF (or a newline for strings) without its closing delimiter.
	FlagUnterminated Flags = 1 << iota
	// FlagJSXAttr marks a JSX attribute string: no escape sequences apply.
	FlagJSXAttr
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Flags   Flags
	Leading []Trivia
}

// Is reports whether the token is the punctuator or keyword spelled text.
func (t Token) Is(text string) bool {
	return (t.Kind == Punct || t.Kind == Keyword) && t.Text == text
}

// Unterminated reports whether the token lacks its closing delimiter.
func (t Token) Unterminated() bool {
	return t.Flags&FlagUnterminated != 0
}

// IsLiteral reports whether the token is a literal value in ESTree terms.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, BigInt, String, RegExp:
		return true
	case Keyword:
		return t.Text == "null" || t.Text == "true" || t.Text == "false"
	default:
		return false
	}
}

// EndsExpr reports whether a '/' or '<' following this token is an operator
// rather than the start of a regular expression or JSX element.
func (t Token) EndsExpr() bool {
	switch t.Kind {
	case Ident, PrivateName, Number, BigInt, String, RegExp, NoSubstitutionTemplate, TemplateTail, JSXText:
		return true
	case Keyword:
		return !KeywordStartsExpr(t.Text)
	case Punct:
		switch t.Text {
		case ")", "]", "}", "++", "--":
			return true
		}
	}
	return false
}
