package lexer

import (
	"path/filepath"
	"strings"

	"dashlint/internal/diag"
	"dashlint/internal/source"
)

type Options struct {
	// Reporter receives lexical errors. May be nil: errors are then only
	// counted and lexing continues.
	Reporter diag.Reporter
	// JSX enables elements, fragments, attributes and text children.
	JSX bool
	// TypeScript makes "<T," and "<T extends" open a type parameter list
	// rather than a JSX element.
	TypeScript bool
}

// OptionsForPath enables JSX for every extension except plain TypeScript,
// where "<T>" is a type assertion or type argument list.
func OptionsForPath(path string) Options {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return Options{TypeScript: true}
	case ".tsx":
		return Options{JSX: true, TypeScript: true}
	}
	return Options{JSX: true}
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	lx.errs++
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}
