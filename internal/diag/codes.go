package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedTemplate     Code = 1005
	LexUnterminatedRegExp       Code = 1006
	LexUnterminatedJSX          Code = 1007
	LexBadEscape                Code = 1008

	// Parsing
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynUnbalanced      Code = 2002

	// Rules
	RuleInfo     Code = 3000
	RuleNoEmDash Code = 3001

	// I/O
	IOLoadFileError Code = 4000
	IOCacheError    Code = 4001

	// Configuration
	CfgInfo          Code = 5000
	CfgUnknownRule   Code = 5001
	CfgUnknownBundle Code = 5002

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number literal",
		LexUnterminatedTemplate:     "Unterminated template literal",
		LexUnterminatedRegExp:       "Unterminated regular expression",
		LexUnterminatedJSX:          "Unterminated JSX element",
		LexBadEscape:                "Invalid escape sequence",
		SynInfo:                     "Parsing information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnbalanced:               "Unbalanced delimiter",
		RuleInfo:                    "Rule information",
		RuleNoEmDash:                "Em-dash character found",
		IOLoadFileError:             "I/O load file error",
		IOCacheError:                "Result cache error",
		CfgInfo:                     "Configuration information",
		CfgUnknownRule:              "Unknown rule in configuration",
		CfgUnknownBundle:            "Unknown configuration bundle",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RUL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
