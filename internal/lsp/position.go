package lsp

import (
	"sort"
	"strings"
	"unicode/utf16"

	"fortio.org/safecast"

	"dashlint/internal/source"
)

// LSP positions count UTF-16 code units within a line; dashlint works in
// byte offsets. Invalid UTF-8 bytes count as one unit each.

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if w := utf16.RuneLen(r); w > 0 {
			n += w
		} else {
			n++
		}
	}
	return n
}

// utf16Prefix returns the byte length of the longest prefix of line that
// fits in units code units. It never splits a rune.
func utf16Prefix(line string, units int) int {
	for i, r := range line {
		w := utf16.RuneLen(r)
		if w < 0 {
			w = 1
		}
		if units < w {
			return i
		}
		units -= w
	}
	return len(line)
}

// offsetAt maps pos onto a byte offset in text. Positions past the end of a
// line clamp to the line end, past the last line to len(text).
func offsetAt(text string, pos position) int {
	start := 0
	for range max(pos.Line, 0) {
		i := strings.IndexByte(text[start:], '\n')
		if i < 0 {
			return len(text)
		}
		start += i + 1
	}
	line := text[start:]
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return start + utf16Prefix(line, max(pos.Character, 0))
}

func toOffset(n int) uint32 {
	v, err := safecast.Conv[uint32](max(n, 0))
	if err != nil {
		return ^uint32(0)
	}
	return v
}

// fileOffset is offsetAt over a linted file.
func fileOffset(f *source.File, pos position) uint32 {
	if f == nil {
		return 0
	}
	return toOffset(offsetAt(string(f.Content), pos))
}

// filePosition maps a byte offset of f onto an LSP position.
func filePosition(f *source.File, off uint32) position {
	if f == nil {
		return position{}
	}
	off = min(off, toOffset(len(f.Content)))
	line := sort.Search(len(f.LineIdx), func(i int) bool { return f.LineIdx[i] >= off })
	lineStart := min(f.LineStart(toOffset(line+1)), off)
	return position{Line: line, Character: utf16Len(string(f.Content[lineStart:off]))}
}

func spanRange(f *source.File, sp source.Span) lspRange {
	return lspRange{Start: filePosition(f, sp.Start), End: filePosition(f, sp.End)}
}

// applyChanges replays didChange events in order. A change without a range
// replaces the whole document.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, ch := range changes {
		if ch.Range == nil {
			text = ch.Text
			continue
		}
		start := offsetAt(text, ch.Range.Start)
		end := max(offsetAt(text, ch.Range.End), start)
		text = text[:start] + ch.Text + text[end:]
	}
	return text
}
