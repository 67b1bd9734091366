package diagfmt

import (
	"strings"

	"dashlint/internal/diag"
	"dashlint/internal/source"
)

// editPreview returns the whole lines touched by edit, before and after it is
// applied. ok is false when the edit does not lie inside a known file.
func editPreview(fs *source.FileSet, edit diag.TextEdit) (before, after []string, ok bool) {
	if fs == nil || !fs.Valid(edit.Span) {
		return nil, nil, false
	}
	f := fs.Get(edit.Span.File)
	start, end := fs.Resolve(edit.Span)
	from := f.LineStart(start.Line)
	to := f.LineStart(end.Line + 1)

	block := string(f.Content[from:to])
	patched := block[:edit.Span.Start-from] + edit.NewText + block[edit.Span.End-from:]
	return previewLines(block), previewLines(patched), true
}

func previewLines(s string) []string {
	if s == "" {
		return nil
	}
	// one trailing newline ends the block; it is not an extra blank line
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
