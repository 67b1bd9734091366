package token

import "dashlint/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	// TriviaShebang is a "#!" interpreter line at the very start of a file.
	TriviaShebang
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	case TriviaShebang:
		return "Shebang"
	}
	return "Trivia(?)"
}

// IsComment reports whether the trivia is a comment of any kind.
func (k TriviaKind) IsComment() bool {
	return k == TriviaLineComment || k == TriviaBlockComment || k == TriviaShebang
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
