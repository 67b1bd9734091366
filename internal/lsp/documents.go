package lsp

import "encoding/json"

// docParams decodes the params of a document notification and returns them
// with the canonical document URI. An empty URI means the notification
// should be ignored.
func docParams[T any](msg *rpcMessage, uriOf func(*T) string) (T, string, error) {
	var params T
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return params, "", err
	}
	return params, canonicalURI(uriOf(&params)), nil
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	params, uri, err := docParams(msg, func(p *didOpenTextDocumentParams) string { return p.TextDocument.URI })
	if err != nil || uri == "" {
		return err
	}
	item := params.TextDocument
	s.mu.Lock()
	s.docs[uri] = &document{version: item.Version, text: item.Text, gen: 1}
	s.mu.Unlock()
	s.lintDocument(uri)
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	params, uri, err := docParams(msg, func(p *didChangeTextDocumentParams) string { return p.TextDocument.URI })
	if err != nil || uri == "" {
		return err
	}
	s.mu.Lock()
	doc := s.docs[uri]
	if doc == nil {
		s.mu.Unlock()
		return nil
	}
	doc.text = applyChanges(doc.text, params.ContentChanges)
	doc.version = params.TextDocument.Version
	doc.gen++
	verbose := s.settings.trace
	s.mu.Unlock()

	if verbose {
		s.logf("didChange: uri=%s version=%d", uri, params.TextDocument.Version)
	}
	s.scheduleLint(uri)
	return nil
}

// handleDidSave relints immediately, taking the saved text when the client
// sends it.
func (s *Server) handleDidSave(msg *rpcMessage) error {
	params, uri, err := docParams(msg, func(p *didSaveTextDocumentParams) string { return p.TextDocument.URI })
	if err != nil || uri == "" {
		return err
	}
	s.mu.Lock()
	doc := s.docs[uri]
	if doc != nil && params.Text != nil && *params.Text != doc.text {
		doc.text = *params.Text
		doc.gen++
	}
	s.mu.Unlock()
	if doc != nil {
		s.lintDocument(uri)
	}
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	_, uri, err := docParams(msg, func(p *didCloseTextDocumentParams) string { return p.TextDocument.URI })
	if err != nil || uri == "" {
		return err
	}
	s.mu.Lock()
	doc := s.docs[uri]
	delete(s.docs, uri)
	if t, ok := s.timers[uri]; ok {
		t.Stop()
		delete(s.timers, uri)
	}
	s.mu.Unlock()
	if doc != nil && len(doc.diags) > 0 {
		s.clearDiagnostics(uri)
	}
	return nil
}
