package estree

import (
	"fmt"

	"dashlint/internal/source"

	"fortio.org/safecast"
)

// Node is implemented by every node kind a rule may visit.
type Node interface {
	NodeSpan() source.Span
	node()
}

type LiteralKind uint8

const (
	LitString LiteralKind = iota
	LitNumber
	LitBigInt
	LitRegExp
	LitBoolean
	LitNull
)

func (k LiteralKind) String() string {
	switch k {
	case LitString:
		return "string"
	case LitNumber:
		return "number"
	case LitBigInt:
		return "bigint"
	case LitRegExp:
		return "regexp"
	case LitBoolean:
		return "boolean"
	case LitNull:
		return "null"
	}
	return "unknown"
}

// Literal is a primitive literal. Value is the decoded string for LitString
// and the source spelling for every other kind.
type Literal struct {
	Kind  LiteralKind
	Value string
	Raw   string
	Span  source.Span
}

func (l *Literal) NodeSpan() source.Span { return l.Span }
func (*Literal) node()                   {}

// IsString reports whether the literal's value is a string.
func (l *Literal) IsString() bool { return l.Kind == LitString }

type TemplateElement struct {
	Raw    string
	Cooked string
	// CookedOK is false when Raw has an escape that is invalid outside a
	// tagged template.
	CookedOK bool
	Tail     bool
	Span     source.Span
}

func (e *TemplateElement) NodeSpan() source.Span { return e.Span }
func (*TemplateElement) node()                   {}

type TemplateLiteral struct {
	Quasis []TemplateElement
	Span   source.Span
}

func (t *TemplateLiteral) NodeSpan() source.Span { return t.Span }
func (*TemplateLiteral) node()                   {}

// JSXText is literal text between JSX tags. Value is the raw source text;
// HTML entities are not decoded.
type JSXText struct {
	Value string
	Span  source.Span
}

func (j *JSXText) NodeSpan() source.Span { return j.Span }
func (*JSXText) node()                   {}

type CommentKind uint8

const (
	CommentLine CommentKind = iota
	CommentBlock
	CommentShebang
)

func (k CommentKind) String() string {
	switch k {
	case CommentLine:
		return "Line"
	case CommentBlock:
		return "Block"
	case CommentShebang:
		return "Shebang"
	}
	return "Unknown"
}

type Comment struct {
	Kind  CommentKind
	Value string
	Span  source.Span
}

func (c *Comment) NodeSpan() source.Span { return c.Span }
func (*Comment) node()                   {}

// Program is the root for one file. Body holds nodes ordered by their start
// offset; a template literal precedes the nodes inside its substitutions.
type Program struct {
	File     *source.File
	Body     []Node
	Comments []Comment
}

func (p *Program) NodeSpan() source.Span {
	if p.File == nil {
		return source.Span{}
	}
	end, err := safecast.Conv[uint32](len(p.File.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return source.Span{File: p.File.ID, Start: 0, End: end}
}
func (*Program) node() {}
