package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	Keyword
	// PrivateName is a class private member such as #count.
	PrivateName

	Number
	BigInt
	String
	RegExp

	// NoSubstitutionTemplate is a template literal without ${} parts.
	NoSubstitutionTemplate
	TemplateHead
	TemplateMiddle
	TemplateTail

	// Punct is any punctuator or operator; Text carries the exact spelling.
	Punct

	JSXText
	// JSXIdent is a JSX tag or attribute name (may contain '-', '.', ':').
	JSXIdent
)

var kindNames = [...]string{
	Invalid:                "Invalid",
	EOF:                    "EOF",
	Ident:                  "Ident",
	Keyword:                "Keyword",
	PrivateName:            "PrivateName",
	Number:                 "Number",
	BigInt:                 "BigInt",
	String:                 "String",
	RegExp:                 "RegExp",
	NoSubstitutionTemplate: "NoSubstitutionTemplate",
	TemplateHead:           "TemplateHead",
	TemplateMiddle:         "TemplateMiddle",
	TemplateTail:           "TemplateTail",
	Punct:                  "Punct",
	JSXText:                "JSXText",
	JSXIdent:               "JSXIdent",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsTemplate reports whether k is one of the four template chunk kinds.
func (k Kind) IsTemplate() bool {
	switch k {
	case NoSubstitutionTemplate, TemplateHead, TemplateMiddle, TemplateTail:
		return true
	}
	return false
}

// Keywords after which an expression (and therefore a regular expression or a
// JSX element) may start.
var exprKeywords = map[string]struct{}{
	"await": {}, "case": {}, "delete": {}, "do": {}, "else": {}, "export": {},
	"extends": {}, "in": {}, "instanceof": {}, "new": {}, "of": {}, "return": {},
	"throw": {}, "typeof": {}, "void": {}, "yield": {}, "default": {},
}

// Reserved words that are lexed as Keyword rather than Ident.
var keywords = map[string]struct{}{
	"break": {}, "case": {}, "catch": {}, "class": {}, "const": {}, "continue": {},
	"debugger": {}, "default": {}, "delete": {}, "do": {}, "else": {}, "export": {},
	"extends": {}, "finally": {}, "for": {}, "function": {}, "if": {}, "import": {},
	"in": {}, "instanceof": {}, "new": {}, "return": {}, "super": {}, "switch": {},
	"this": {}, "throw": {}, "try": {}, "typeof": {}, "var": {}, "void": {},
	"while": {}, "with": {}, "yield": {}, "let": {}, "static": {}, "await": {},
	"of": {}, "null": {}, "true": {}, "false": {},
}

// LookupKeyword reports whether ident is a reserved word.
func LookupKeyword(ident string) bool {
	_, ok := keywords[ident]
	return ok
}

// KeywordStartsExpr reports whether an expression may directly follow kw.
func KeywordStartsExpr(kw string) bool {
	_, ok := exprKeywords[kw]
	return ok
}
