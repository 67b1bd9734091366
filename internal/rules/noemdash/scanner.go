package noemdash

import (
	"iter"
	"strings"
)

const (
	// EmDash is the only character the rule looks for.
	EmDash = '\u2014'
	// Width is the UTF-8 length of EmDash in bytes.
	Width = 3
)

// Occurrences yields the byte index of every EmDash in text, ascending.
// Each call starts from the beginning of text.
func Occurrences(text string) iter.Seq[int] {
	return func(yield func(int) bool) {
		off := 0
		for {
			i := strings.IndexRune(text[off:], EmDash)
			if i < 0 {
				return
			}
			if !yield(off + i) {
				return
			}
			off += i + Width
		}
	}
}
