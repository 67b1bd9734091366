// Package estree builds the subset of the ESTree node model that text-level
// lint rules consume: literals, template literals with their quasis, JSX text
// and the comment list. It is fed by internal/lexer and does not build a full
// syntax tree; expressions and statements are not represented.
//
// All spans are byte ranges into the normalised file content:
//   - Literal.Span and Literal.Raw include the quotes.
//   - TemplateElement.Span covers the opening '`' or '}' through the closing
//     '`' or "${"; Raw is the text between them.
//   - Comment.Span covers the "//", "/*" or "#!" opener; Value excludes it
//     (and the closing "*/").
package estree
