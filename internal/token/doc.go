// Package token defines lexical token kinds and trivia for ECMAScript sources
// (JavaScript, TypeScript, JSX).
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Template tokens include their delimiters: a TemplateHead spans from the
//     opening '`' through "${", a TemplateMiddle from '}' through "${", a
//     TemplateTail from '}' through the closing '`'.
//   - Comments never appear in the main token stream; they are attached as
//     leading Trivia of the next significant token (or of EOF).
//   - JSX text between tags is a single JSXText token, whitespace included.
package token
