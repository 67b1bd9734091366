package fix

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"dashlint/internal/diag"
	"dashlint/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes. There is no "apply
// everything" mode: a fix is only applied when the caller names it.
type ApplyMode uint8

const (
	// ApplyModeID applies the single fix whose ID equals TargetID.
	ApplyModeID ApplyMode = iota
	// ApplyModeOption applies, for every diagnostic, the fix whose ID ends in
	// ":"+TargetID, e.g. "hyphen".
	ApplyModeOption
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// Patched is the new content of one file. Content has the file's original
// BOM and line endings restored; the file on disk is never touched.
type Patched struct {
	FileID    source.FileID
	Path      string
	Content   []byte
	EditCount int
}

// ApplyResult aggregates applied fixes, skipped ones, and patched files.
type ApplyResult struct {
	Applied []AppliedFix
	Skipped []SkippedFix
	Files   []Patched
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to opts,
// and applies them to in-memory copies of the affected files.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied: make([]AppliedFix, 0),
		Skipped: make([]SkippedFix, 0),
		Files:   make([]Patched, 0),
	}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, buildSkips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, buildSkips...)

	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	sortCandidates(candidates)

	selected, selectionSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)

	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	applied, skippedDuringApply, files := applyCandidates(fs, selected)
	result.Applied = append(result.Applied, applied...)
	result.Skipped = append(result.Skipped, skippedDuringApply...)
	result.Files = append(result.Files, files...)

	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// gatherCandidates flattens the fixes of every diagnostic. Fixes without
// edits and repeated IDs are skipped; a missing ID is synthesised from the
// diagnostic code, file, start offset and fix index.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	cands := make([]candidate, 0)
	skips := make([]SkippedFix, 0)
	seen := make(map[string]struct{})

	order := 0
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			if _, dup := seen[f.ID]; dup {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[f.ID] = struct{}{}
			cands = append(cands, candidate{diag: d, fix: f, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders candidates by primary span. Fixes of the same span
// keep the order the rule offered them in.
func sortCandidates(candidates []candidate) {
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		pa, pb := a.diag.Primary, b.diag.Primary
		return cmp.Or(
			cmp.Compare(pa.File, pb.File),
			cmp.Compare(pa.Start, pb.Start),
			cmp.Compare(pa.End, pb.End),
			cmp.Compare(a.order, b.order),
		)
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.fix.ID == opts.TargetID {
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
	case ApplyModeOption:
		suffix := ":" + opts.TargetID
		selected := make([]candidate, 0)
		for _, cand := range candidates {
			if strings.HasSuffix(cand.fix.ID, suffix) {
				selected = append(selected, cand)
			}
		}
		if len(selected) == 0 {
			return nil, []SkippedFix{{ID: opts.TargetID, Reason: "no fix offers this option"}}
		}
		return selected, nil
	default:
		return nil, nil
	}
}

// plan holds the edits accepted so far for one file. Every edit is checked
// against the original content, so offsets never shift while planning.
type plan struct {
	file  *source.File
	edits []diag.TextEdit
}

func applyCandidates(fs *source.FileSet, selected []candidate) ([]AppliedFix, []SkippedFix, []Patched) {
	plans := make(map[source.FileID]*plan)
	applied := make([]AppliedFix, 0, len(selected))
	skipped := make([]SkippedFix, 0)

	for _, cand := range selected {
		if reason := accept(fs, plans, cand.fix.Edits); reason != "" {
			skipped = append(skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: reason})
			continue
		}
		applied = append(applied, AppliedFix{
			ID:            cand.fix.ID,
			Title:         cand.fix.Title,
			Code:          cand.diag.Code,
			Message:       cand.diag.Message,
			Applicability: cand.fix.Applicability,
			PrimaryPath:   formatFilePath(fs, cand.diag.Primary.File),
			EditCount:     len(cand.fix.Edits),
		})
	}

	files := make([]Patched, 0, len(plans))
	for id, p := range plans {
		files = append(files, Patched{
			FileID:    id,
			Path:      p.file.Path,
			Content:   source.Restore(splice(p.file.Content, p.edits), p.file.Flags),
			EditCount: len(p.edits),
		})
	}
	slices.SortStableFunc(files, func(a, b Patched) int { return cmp.Compare(a.Path, b.Path) })
	return applied, skipped, files
}

// accept validates every edit of one fix and, only if all of them pass,
// records them in plans. It returns the reason for rejecting the fix.
func accept(fs *source.FileSet, plans map[source.FileID]*plan, edits []diag.TextEdit) string {
	for i, edit := range edits {
		file := fs.Get(edit.Span.File)
		if file == nil {
			return "unknown file"
		}
		if !fs.Valid(edit.Span) {
			return "edit span out of range"
		}
		if edit.OldText != "" && file.Text(edit.Span) != edit.OldText {
			return "existing text does not match expected content"
		}
		if p := plans[edit.Span.File]; p != nil {
			for _, prev := range p.edits {
				if spansConflict(prev, edit) {
					return fmt.Sprintf("conflicts with previously applied edits in %s", file.FormatPath("auto", fs.BaseDir()))
				}
			}
		}
		for _, other := range edits[:i] {
			if other.Span.File == edit.Span.File && spansConflict(other, edit) {
				return "fix contains overlapping edits"
			}
		}
	}
	for _, edit := range edits {
		p := plans[edit.Span.File]
		if p == nil {
			p = &plan{file: fs.Get(edit.Span.File)}
			plans[edit.Span.File] = p
		}
		p.edits = append(p.edits, edit)
	}
	return ""
}

// splice rebuilds content with edits applied. Edits must not overlap;
// insertions at the same offset keep their acceptance order.
func splice(content []byte, edits []diag.TextEdit) []byte {
	ordered := slices.Clone(edits)
	slices.SortStableFunc(ordered, func(a, b diag.TextEdit) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})
	var out bytes.Buffer
	out.Grow(len(content))
	var pos uint32
	for _, edit := range ordered {
		out.Write(content[pos:edit.Span.Start])
		out.WriteString(edit.NewText)
		pos = edit.Span.End
	}
	out.Write(content[pos:])
	return out.Bytes()
}

// spansConflict reports whether two text edits' spans overlap.
// Spans are half-open [Start, End). Two zero-length edits never conflict; a
// zero-length edit conflicts with a span that strictly contains its position.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func formatFilePath(fs *source.FileSet, fileID source.FileID) string {
	file := fs.Get(fileID)
	if file == nil {
		return ""
	}
	return file.FormatPath("auto", fs.BaseDir())
}
