package lsp

import (
	"encoding/json"
	"strings"

	"dashlint/internal/diag"
)

const kindQuickFix = "quickfix"

// handleCodeAction offers one action per fix of every diagnostic touching the
// requested range, in the order the rule listed them.
func (s *Server) handleCodeAction(msg *rpcMessage) error {
	var params codeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	uri := canonicalURI(params.TextDocument.URI)

	s.mu.Lock()
	var snap document
	doc := s.docs[uri]
	if doc != nil {
		snap = *doc
	}
	s.mu.Unlock()

	actions := []codeAction{}
	if snap.fs == nil || !wantsKind(params.Context.Only, kindQuickFix) {
		return s.sendResponse(msg.ID, actions)
	}
	file := snap.fs.Get(snap.id)
	start := fileOffset(file, params.Range.Start)
	end := fileOffset(file, params.Range.End)

	for _, d := range snap.diags {
		if d.Primary.End < start || d.Primary.Start > end {
			continue
		}
		ld := s.toLSPDiagnostic(file, d)
		for _, fx := range d.Fixes {
			edits := make([]textEdit, 0, len(fx.Edits))
			for _, e := range fx.Edits {
				edits = append(edits, textEdit{Range: spanRange(file, e.Span), NewText: e.NewText})
			}
			actions = append(actions, codeAction{
				Title:       fx.Title,
				Kind:        lspActionKind(fx.Kind),
				Diagnostics: []lspDiagnostic{ld},
				IsPreferred: fx.IsPreferred,
				Edit:        &workspaceEdit{Changes: map[string][]textEdit{uri: edits}},
			})
		}
	}
	return s.sendResponse(msg.ID, actions)
}

// wantsKind applies the client's "only" filter, where a requested kind also
// matches its sub-kinds.
func wantsKind(only []string, kind string) bool {
	if len(only) == 0 {
		return true
	}
	for _, k := range only {
		if k == kind || strings.HasPrefix(kind, k+".") {
			return true
		}
	}
	return false
}

func lspActionKind(k diag.FixKind) string {
	switch k {
	case diag.FixKindRefactor:
		return "refactor"
	case diag.FixKindRewrite:
		return "refactor.rewrite"
	case diag.FixKindSourceAction:
		return "source"
	}
	return kindQuickFix
}
