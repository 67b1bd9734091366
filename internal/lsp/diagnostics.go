package lsp

import (
	"time"

	"dashlint/internal/diag"
	"dashlint/internal/source"
)

const lspSource = "dashlint"

func (s *Server) scheduleLint(uri string) {
	if s.debounce <= 0 {
		s.lintDocument(uri)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.timers[uri]; t != nil {
		t.Stop()
	}
	s.timers[uri] = time.AfterFunc(s.debounce, func() {
		s.lintDocument(uri)
	})
}

func (s *Server) relintAll() {
	s.mu.Lock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	s.mu.Unlock()
	for _, uri := range uris {
		s.lintDocument(uri)
	}
}

// lintDocument lints the current text of uri and publishes the result unless
// the document changed in the meantime.
func (s *Server) lintDocument(uri string) {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		s.mu.Unlock()
		return
	}
	text, version, gen := doc.text, doc.version, doc.gen
	settings := s.settings
	ctx := s.baseCtx
	s.mu.Unlock()

	path := uriToPath(uri)
	if path == "" {
		path = uri
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(text))
	var diags []diag.Diagnostic
	if settings.enabled {
		diags = s.runner.Run(ctx, fs, id).Diagnostics
	}

	s.mu.Lock()
	cur, ok := s.docs[uri]
	if !ok || cur.gen != gen {
		s.mu.Unlock()
		return
	}
	cur.fs, cur.id, cur.diags = fs, id, diags
	s.mu.Unlock()

	if settings.trace {
		s.logf("lint: uri=%s version=%d diagnostics=%d", uri, version, len(diags))
	}
	list := make([]lspDiagnostic, 0, len(diags))
	file := fs.Get(id)
	for _, d := range diags {
		list = append(list, s.toLSPDiagnostic(file, d))
	}
	if err := s.sendPublish(uri, &version, list); err != nil {
		s.logf("failed to publish diagnostics: %v", err)
	}
}

func (s *Server) toLSPDiagnostic(file *source.File, d diag.Diagnostic) lspDiagnostic {
	out := lspDiagnostic{
		Range:    spanRange(file, d.Primary),
		Severity: lspSeverity(d.Severity),
		Code:     d.Code.ID(),
		Source:   lspSource,
		Message:  d.Message,
	}
	if d.Rule != "" {
		out.Code = d.Rule
		if url := s.ruleURLs[d.Rule]; url != "" {
			out.CodeDescription = &codeDescription{Href: url}
		}
	}
	return out
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	default:
		return 3
	}
}
