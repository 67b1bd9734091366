package fix

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashlint/internal/diag"
	"dashlint/internal/source"
)

const em = "\u2014"

// emDashDiag mimics what the em-dash rule reports at [start, start+3).
func emDashDiag(file source.FileID, start uint32) diag.Diagnostic {
	sp := source.Span{File: file, Start: start, End: start + 3}
	mk := func(key, repl string) diag.Fix {
		return ReplaceSpan("replace with "+repl, sp, repl, em,
			WithID("no-em-dash:"+strconv.FormatUint(uint64(start), 10)+":"+key),
			WithApplicability(diag.FixApplicabilityManualReview))
	}
	return diag.Diagnostic{
		Code:    diag.RuleNoEmDash,
		Primary: sp,
		Fixes:   []diag.Fix{mk("hyphen", "-"), mk("double-hyphen", "--"), mk("remove", "")},
	}
}

func TestGatherCandidatesSkipsDuplicateFixIDs(t *testing.T) {
	span := source.Span{File: 0, Start: 0, End: 0}
	diagnostics := []diag.Diagnostic{{
		Code:    diag.RuleNoEmDash,
		Message: "x",
		Primary: span,
		Fixes: []diag.Fix{
			{ID: "fix-duplicate", Title: "first", Edits: []diag.TextEdit{{Span: span, NewText: ";"}}},
			{ID: "fix-duplicate", Title: "second", Edits: []diag.TextEdit{{Span: span, NewText: ";"}}},
			{ID: "empty", Title: "no edits"},
		},
	}}

	candidates, skips := gatherCandidates(diagnostics)
	require.Len(t, candidates, 1)
	require.Len(t, skips, 2)
	assert.Equal(t, "duplicate fix id", skips[0].Reason)
	assert.Equal(t, "fix has no edits", skips[1].Reason)
}

func TestApplyByID(t *testing.T) {
	fs := source.NewFileSet()
	src := "'a" + em + "b" + em + "c'"
	id := fs.AddVirtual("a.js", []byte(src))
	diags := []diag.Diagnostic{emDashDiag(id, 2), emDashDiag(id, 6)}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeID, TargetID: "no-em-dash:6:double-hyphen"})
	require.NoError(t, err)
	require.Len(t, res.Applied, 1)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "'a"+em+"b--c'", string(res.Files[0].Content))
	assert.Equal(t, src, string(fs.Get(id).Content), "file set content must not change")
}

func TestApplyByOption(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.js", []byte("'a"+em+em+"b' // "+em))
	diags := []diag.Diagnostic{emDashDiag(id, 2), emDashDiag(id, 5), emDashDiag(id, 14)}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeOption, TargetID: "double-hyphen"})
	require.NoError(t, err)
	assert.Len(t, res.Applied, 3)
	assert.Equal(t, "'a----b' // --", string(res.Files[0].Content))
	assert.Equal(t, 3, res.Files[0].EditCount)

	res, err = Apply(fs, diags, ApplyOptions{Mode: ApplyModeOption, TargetID: "remove"})
	require.NoError(t, err)
	assert.Equal(t, "'ab' // ", string(res.Files[0].Content))
}

func TestApplyRestoresLineEndings(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.js", []byte("\xEF\xBB\xBF// "+em+"\r\nx;\r\n"))
	res, err := Apply(fs, []diag.Diagnostic{emDashDiag(id, 3)}, ApplyOptions{Mode: ApplyModeOption, TargetID: "hyphen"})
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBF// -\r\nx;\r\n", string(res.Files[0].Content))
}

func TestApplyErrors(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.js", []byte("'"+em+"'"))

	_, err := Apply(fs, nil, ApplyOptions{Mode: ApplyModeID, TargetID: "x"})
	assert.True(t, errors.Is(err, ErrNoFixes))

	res, err := Apply(fs, []diag.Diagnostic{emDashDiag(id, 1)}, ApplyOptions{Mode: ApplyModeID, TargetID: "no-em-dash:1:nope"})
	assert.ErrorIs(t, err, ErrNoFixes)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "fix id not found", res.Skipped[0].Reason)

	// stale diagnostic: the guard text no longer matches
	res, err = Apply(fs, []diag.Diagnostic{emDashDiag(id, 0)}, ApplyOptions{Mode: ApplyModeOption, TargetID: "hyphen"})
	assert.ErrorIs(t, err, ErrNoFixes)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "existing text does not match expected content", res.Skipped[0].Reason)

	_, err = Apply(nil, nil, ApplyOptions{})
	assert.Error(t, err)
}

func TestApplyRejectsOverlap(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.js", []byte("abcdef"))
	sp := func(s, e uint32) source.Span { return source.Span{File: id, Start: s, End: e} }
	diags := []diag.Diagnostic{
		{Primary: sp(0, 3), Fixes: []diag.Fix{ReplaceSpan("a", sp(0, 3), "X", "", WithID("p:0:k"))}},
		{Primary: sp(2, 5), Fixes: []diag.Fix{ReplaceSpan("b", sp(2, 5), "Y", "", WithID("p:2:k"))}},
		{Primary: sp(5, 6), Fixes: []diag.Fix{ReplaceSpan("c", sp(5, 6), "ZZ", "f", WithID("p:5:k"))}},
	}
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeOption, TargetID: "k"})
	require.NoError(t, err)
	assert.Len(t, res.Applied, 2)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "p:2:k", res.Skipped[0].ID)
	assert.Equal(t, "XdeZZ", string(res.Files[0].Content))
}

func TestSpansConflict(t *testing.T) {
	e := func(s, en uint32) diag.TextEdit { return diag.TextEdit{Span: source.Span{Start: s, End: en}} }
	assert.False(t, spansConflict(e(1, 1), e(1, 1)))
	assert.True(t, spansConflict(e(2, 2), e(1, 3)))
	assert.False(t, spansConflict(e(3, 3), e(1, 3)))
	assert.True(t, spansConflict(e(0, 2), e(1, 3)))
	assert.False(t, spansConflict(e(0, 1), e(1, 3)))
}

func TestApplyMultiEditFix(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.js", []byte("abcdef"))
	sp := func(s, e uint32) source.Span { return source.Span{File: id, Start: s, End: e} }
	edits := []diag.TextEdit{
		{Span: sp(4, 5), NewText: "E", OldText: "e"},
		{Span: sp(0, 0), NewText: ">"},
		{Span: sp(1, 2), NewText: "", OldText: "b"},
	}
	diags := []diag.Diagnostic{{Primary: sp(0, 6), Fixes: []diag.Fix{New("wrap", edits, WithID("m:0:k"))}}}
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeID, TargetID: "m:0:k"})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, ">acdEf", string(res.Files[0].Content))
	assert.Equal(t, 3, res.Files[0].EditCount)
}

func TestApplyRejectsSelfOverlappingFix(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("o.js", []byte("abcdef"))
	sp := func(s, e uint32) source.Span { return source.Span{File: id, Start: s, End: e} }
	edits := []diag.TextEdit{{Span: sp(0, 3), NewText: "x"}, {Span: sp(2, 4), NewText: "y"}}
	diags := []diag.Diagnostic{{Primary: sp(0, 4), Fixes: []diag.Fix{New("bad", edits, WithID("o:0:k"))}}}
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeID, TargetID: "o:0:k"})
	assert.ErrorIs(t, err, ErrNoFixes)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "fix contains overlapping edits", res.Skipped[0].Reason)
	assert.Empty(t, res.Files)
}
