package estree

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ErrBadEscape is wrapped by every escape decoding failure.
var ErrBadEscape = errors.New("invalid escape sequence")

// EscapeError locates a malformed escape inside the decoded body.
type EscapeError struct {
	Offset int // byte offset of the backslash within the body
	Seq    string
}

func (e *EscapeError) Error() string {
	return fmt.Sprintf("%s %q at offset %d", ErrBadEscape.Error(), e.Seq, e.Offset)
}

func (e *EscapeError) Unwrap() error { return ErrBadEscape }

// DecodeString decodes the body of a quoted string literal (without the
// quotes), including legacy octal escapes and line continuations.
func DecodeString(body string) (string, error) {
	return decodeEscapes(body, false)
}

// DecodeTemplate decodes a template chunk. Legacy octal escapes are errors
// here.
func DecodeTemplate(raw string) (string, error) {
	return decodeEscapes(raw, true)
}

func decodeEscapes(body string, template bool) (string, error) {
	if strings.IndexByte(body, '\\') < 0 {
		return body, nil
	}
	var b strings.Builder
	b.Grow(len(body))
	var pending []uint16 // UTF-16 units from \u escapes, joined into pairs

	flush := func() {
		if len(pending) > 0 {
			for _, r := range utf16.Decode(pending) {
				b.WriteRune(r)
			}
			pending = pending[:0]
		}
	}

	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			flush()
			_, sz := utf8.DecodeRuneInString(body[i:])
			b.WriteString(body[i : i+sz])
			i += sz
			continue
		}
		start := i
		i++
		if i >= len(body) {
			return "", &EscapeError{Offset: start, Seq: "\\"}
		}
		c = body[i]
		if c != 'u' {
			flush()
		}
		switch c {
		case 'n':
			b.WriteByte('\n')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 'b':
			b.WriteByte('\b')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 'v':
			b.WriteByte('\v')
			i++
		case '\r':
			i++
			if i < len(body) && body[i] == '\n' {
				i++
			}
		case '\n':
			i++
		case 'x':
			if i+3 > len(body) {
				return "", &EscapeError{Offset: start, Seq: body[start:]}
			}
			v, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err != nil {
				return "", &EscapeError{Offset: start, Seq: body[start : i+3]}
			}
			b.WriteRune(rune(v))
			i += 3
		case 'u':
			v, next, ok := readUnicodeEscape(body, i+1)
			if !ok {
				return "", &EscapeError{Offset: start, Seq: body[start:min(next, len(body))]}
			}
			i = next
			if v <= 0xFFFF {
				pending = append(pending, uint16(v))
				continue
			}
			flush()
			b.WriteRune(rune(v))
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(body) && j-i < 3 && isOctDigit(body[j]) {
				j++
			}
			if c == '0' && j == i+1 && (j >= len(body) || !isDecDigit(body[j])) {
				b.WriteByte(0)
				i++
				break
			}
			if template {
				return "", &EscapeError{Offset: start, Seq: body[start:j]}
			}
			v, _ := strconv.ParseUint(body[i:j], 8, 16)
			if v > 0377 {
				j--
				v >>= 3
			}
			b.WriteRune(rune(v))
			i = j
		case '8', '9':
			if template {
				return "", &EscapeError{Offset: start, Seq: body[start : i+1]}
			}
			b.WriteByte(c)
			i++
		default:
			// LS or PS after a backslash is a line continuation
			r, sz := utf8.DecodeRuneInString(body[i:])
			if r == '\u2028' || r == '\u2029' {
				i += sz
				break
			}
			b.WriteString(body[i : i+sz])
			i += sz
		}
	}
	flush()
	return b.String(), nil
}

// readUnicodeEscape parses the part after "\u": XXXX or {X...}.
func readUnicodeEscape(s string, i int) (v uint32, next int, ok bool) {
	if i < len(s) && s[i] == '{' {
		end := strings.IndexByte(s[i:], '}')
		if end <= 1 {
			return 0, i + 1, false
		}
		n, err := strconv.ParseUint(s[i+1:i+end], 16, 32)
		if err != nil || n > utf8.MaxRune {
			return 0, i + end + 1, false
		}
		return uint32(n), i + end + 1, true
	}
	if i+4 > len(s) {
		return 0, len(s), false
	}
	n, err := strconv.ParseUint(s[i:i+4], 16, 16)
	if err != nil {
		return 0, i + 4, false
	}
	return uint32(n), i + 4, true
}

func isOctDigit(b byte) bool { return b >= '0' && b <= '7' }
func isDecDigit(b byte) bool { return b >= '0' && b <= '9' }
