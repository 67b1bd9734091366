package lint

import (
	"regexp"
	"strings"
	"unicode"

	"dashlint/internal/estree"
	"dashlint/internal/source"
)

// DirectivePrefixes are the accepted comment prefixes for inline directives.
var DirectivePrefixes = []string{"eslint-", "dashlint-"}

type directiveKind uint8

const (
	dirDisable directiveKind = iota + 1
	dirEnable
	dirDisableLine
	dirDisableNextLine
)

type directive struct {
	kind  directiveKind
	start uint32   // comment start offset
	line  uint32   // line the directive applies to (line kinds only)
	rules []string // nil means every rule
}

// Directives is the inline configuration of one file.
type Directives struct {
	ranges []directive            // disable / enable in document order
	lines  map[uint32][]directive // per affected line
}

// description separator: "eslint-disable no-em-dash -- reason"
var descSep = regexp.MustCompile(`\s-{2,}\s`)

// ParseDirectives extracts inline directives from the comments of prog.
// Range directives (disable / enable) are honoured only in block comments.
func ParseDirectives(fs *source.FileSet, prog *estree.Program) *Directives {
	d := &Directives{lines: make(map[uint32][]directive)}
	for i := range prog.Comments {
		c := &prog.Comments[i]
		if c.Kind == estree.CommentShebang {
			continue
		}
		kind, rules, ok := parseDirective(c.Value)
		if !ok {
			continue
		}
		dir := directive{kind: kind, start: c.Span.Start, rules: rules}
		switch kind {
		case dirDisable, dirEnable:
			if c.Kind != estree.CommentBlock {
				continue
			}
			d.ranges = append(d.ranges, dir)
		case dirDisableLine:
			dir.line = fs.Position(c.Span.File, c.Span.Start).Line
			d.lines[dir.line] = append(d.lines[dir.line], dir)
		case dirDisableNextLine:
			dir.line = fs.Position(c.Span.File, c.Span.End).Line + 1
			d.lines[dir.line] = append(d.lines[dir.line], dir)
		}
	}
	return d
}

func parseDirective(text string) (directiveKind, []string, bool) {
	text = strings.TrimSpace(text)
	if loc := descSep.FindStringIndex(text); loc != nil {
		text = strings.TrimSpace(text[:loc[0]])
	}

	var body string
	found := false
	for _, p := range DirectivePrefixes {
		if rest, ok := strings.CutPrefix(text, p); ok {
			body, found = rest, true
			break
		}
	}
	if !found {
		return 0, nil, false
	}

	name, args := body, ""
	if i := strings.IndexFunc(body, unicode.IsSpace); i >= 0 {
		name, args = body[:i], body[i:]
	}

	var kind directiveKind
	switch name {
	case "disable":
		kind = dirDisable
	case "enable":
		kind = dirEnable
	case "disable-line":
		kind = dirDisableLine
	case "disable-next-line":
		kind = dirDisableNextLine
	default:
		return 0, nil, false
	}

	var rules []string
	for r := range strings.SplitSeq(args, ",") {
		if r = strings.TrimSpace(r); r != "" {
			rules = append(rules, r)
		}
	}
	return kind, rules, true
}

// Suppressed reports whether a diagnostic of rule starting at off on line is
// silenced by a directive.
func (d *Directives) Suppressed(rule string, off, line uint32) bool {
	if d == nil {
		return false
	}
	for _, dir := range d.lines[line] {
		if dir.matches(rule) {
			return true
		}
	}

	all := false
	disabled := map[string]bool{}
	except := map[string]bool{}
	for _, dir := range d.ranges {
		if dir.start > off {
			break
		}
		switch {
		case dir.kind == dirDisable && dir.rules == nil:
			all = true
			clear(disabled)
			clear(except)
		case dir.kind == dirDisable:
			for _, r := range dir.rules {
				if all {
					delete(except, r)
				} else {
					disabled[r] = true
				}
			}
		case dir.kind == dirEnable && dir.rules == nil:
			all = false
			clear(disabled)
			clear(except)
		case dir.kind == dirEnable:
			for _, r := range dir.rules {
				if all {
					except[r] = true
				} else {
					delete(disabled, r)
				}
			}
		}
	}
	return (all && !except[rule]) || disabled[rule]
}

// Len returns the number of directives found.
func (d *Directives) Len() int {
	n := len(d.ranges)
	for _, l := range d.lines {
		n += len(l)
	}
	return n
}

func (dir directive) matches(rule string) bool {
	if dir.rules == nil {
		return true
	}
	for _, r := range dir.rules {
		if r == rule {
			return true
		}
	}
	return false
}
