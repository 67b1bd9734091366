package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashlint/internal/config"
	"dashlint/internal/lint"
	"dashlint/internal/rules"
)

func testRunner(t *testing.T) *lint.Runner {
	t.Helper()
	levels, err := config.Default().Levels()
	require.NoError(t, err)
	enabled, err := rules.NewRegistry().Resolve(levels)
	require.NoError(t, err)
	return lint.NewRunner(lint.RunnerConfig{Rules: enabled})
}

type session struct {
	t   *testing.T
	buf bytes.Buffer
	seq int
}

func (s *session) request(method string, params any) int {
	s.seq++
	s.write(map[string]any{"jsonrpc": "2.0", "id": s.seq, "method": method, "params": params})
	return s.seq
}

func (s *session) notify(method string, params any) {
	s.write(map[string]any{"jsonrpc": "2.0", "method": method, "params": params})
}

func (s *session) write(msg any) {
	payload, err := json.Marshal(msg)
	require.NoError(s.t, err)
	require.NoError(s.t, writeMessage(&s.buf, payload))
}

// run feeds the session to a fresh server and returns every message it sent.
func (s *session) run() ([]rpcMessage, error) {
	var out bytes.Buffer
	srv := NewServer(&s.buf, &out, ServerOptions{Runner: testRunner(s.t), Log: io.Discard})
	runErr := srv.Run(context.Background())

	var msgs []rpcMessage
	r := bufio.NewReader(&out)
	for {
		payload, err := readMessage(r)
		if err != nil {
			break
		}
		var m rpcMessage
		require.NoError(s.t, json.Unmarshal(payload, &m))
		msgs = append(msgs, m)
	}
	return msgs, runErr
}

func responseFor(t *testing.T, msgs []rpcMessage, id int) rpcMessage {
	t.Helper()
	want, _ := json.Marshal(id)
	for _, m := range msgs {
		if m.Method == "" && bytes.Equal(m.ID, want) {
			return m
		}
	}
	t.Fatalf("no response for id %d", id)
	return rpcMessage{}
}

func publishes(t *testing.T, msgs []rpcMessage) []publishDiagnosticsParams {
	t.Helper()
	var out []publishDiagnosticsParams
	for _, m := range msgs {
		if m.Method != "textDocument/publishDiagnostics" {
			continue
		}
		var p publishDiagnosticsParams
		require.NoError(t, json.Unmarshal(m.Params, &p))
		out = append(out, p)
	}
	return out
}

func docURI(t *testing.T) string {
	return pathToURI(filepath.Join(t.TempDir(), "doc.js"))
}

func TestSessionPublishAndCodeActions(t *testing.T) {
	uri := docURI(t)
	s := &session{t: t}
	initID := s.request("initialize", map[string]any{"rootUri": pathToURI(t.TempDir())})
	s.notify("initialized", map[string]any{})
	s.notify("textDocument/didOpen", didOpenTextDocumentParams{TextDocument: textDocumentItem{
		URI: uri, LanguageID: "javascript", Version: 1,
		Text: "const s = 'a\u2014b';\n// \U0001F642 \u2014\n",
	}})
	actionID := s.request("textDocument/codeAction", codeActionParams{
		TextDocument: textDocumentIdentifier{URI: uri},
		Range:        lspRange{Start: position{Line: 0, Character: 12}, End: position{Line: 0, Character: 12}},
	})
	filteredID := s.request("textDocument/codeAction", codeActionParams{
		TextDocument: textDocumentIdentifier{URI: uri},
		Range:        lspRange{Start: position{Line: 0, Character: 12}, End: position{Line: 0, Character: 12}},
		Context:      codeActionContext{Only: []string{"refactor"}},
	})
	shutdownID := s.request("shutdown", nil)
	s.notify("exit", nil)

	msgs, err := s.run()
	require.ErrorIs(t, err, ErrExit)

	var init initializeResult
	require.NoError(t, json.Unmarshal(responseFor(t, msgs, initID).Result, &init))
	assert.Equal(t, 2, init.Capabilities.TextDocumentSync.Change)
	require.NotNil(t, init.Capabilities.CodeActionProvider)
	assert.Equal(t, []string{"quickfix"}, init.Capabilities.CodeActionProvider.CodeActionKinds)

	pubs := publishes(t, msgs)
	require.Len(t, pubs, 2, "open publishes, shutdown clears")
	first := pubs[0]
	assert.Equal(t, uri, first.URI)
	require.NotNil(t, first.Version)
	assert.Equal(t, 1, *first.Version)
	require.Len(t, first.Diagnostics, 2)

	d0 := first.Diagnostics[0]
	assert.Equal(t, lspRange{Start: position{0, 12}, End: position{0, 13}}, d0.Range)
	assert.Equal(t, 2, d0.Severity)
	assert.Equal(t, "em-dash-checker/no-em-dash", d0.Code)
	assert.Equal(t, "dashlint", d0.Source)
	require.NotNil(t, d0.CodeDescription)

	// the emoji is a surrogate pair: "// " + 2 units + " "
	d1 := first.Diagnostics[1]
	assert.Equal(t, lspRange{Start: position{1, 6}, End: position{1, 7}}, d1.Range)

	assert.Empty(t, pubs[1].Diagnostics)

	var actions []codeAction
	require.NoError(t, json.Unmarshal(responseFor(t, msgs, actionID).Result, &actions))
	require.Len(t, actions, 5)
	assert.Equal(t, `Replace em-dash with "-"`, actions[0].Title)
	assert.Equal(t, "quickfix", actions[0].Kind)
	edits := actions[0].Edit.Changes[uri]
	require.Len(t, edits, 1)
	assert.Equal(t, textEdit{Range: d0.Range, NewText: "-"}, edits[0])
	assert.Equal(t, "", actions[4].Edit.Changes[uri][0].NewText)

	var filtered []codeAction
	require.NoError(t, json.Unmarshal(responseFor(t, msgs, filteredID).Result, &filtered))
	assert.Empty(t, filtered)

	shut := responseFor(t, msgs, shutdownID)
	assert.Nil(t, shut.Error)
	assert.Contains(t, []string{"", "null"}, string(shut.Result))
}

func TestSessionIncrementalChangeClearsDiagnostics(t *testing.T) {
	uri := docURI(t)
	s := &session{t: t}
	s.notify("textDocument/didOpen", didOpenTextDocumentParams{TextDocument: textDocumentItem{
		URI: uri, Version: 1, Text: "let a = `x\u2014y`;\n",
	}})
	s.notify("textDocument/didChange", didChangeTextDocumentParams{
		TextDocument: versionedTextDocumentIdentifier{URI: uri, Version: 2},
		ContentChanges: []textDocumentContentChangeEvent{{
			Range: &lspRange{Start: position{0, 10}, End: position{0, 11}},
			Text:  "-",
		}},
	})
	s.notify("textDocument/didClose", didCloseTextDocumentParams{TextDocument: textDocumentIdentifier{URI: uri}})

	msgs, err := s.run()
	require.NoError(t, err)

	pubs := publishes(t, msgs)
	require.Len(t, pubs, 2)
	assert.Len(t, pubs[0].Diagnostics, 1)
	assert.Equal(t, 2, *pubs[1].Version)
	assert.Empty(t, pubs[1].Diagnostics)
}

func TestSessionParseErrorAndSettings(t *testing.T) {
	uri := docURI(t)
	s := &session{t: t}
	s.notify("textDocument/didOpen", didOpenTextDocumentParams{TextDocument: textDocumentItem{
		URI: uri, Version: 1, Text: "const s = 'oops\n",
	}})
	s.notify("workspace/didChangeConfiguration", map[string]any{
		"settings": map[string]any{"dashlint": map[string]any{"enable": false}},
	})

	msgs, err := s.run()
	require.NoError(t, err)

	pubs := publishes(t, msgs)
	require.Len(t, pubs, 2)
	require.NotEmpty(t, pubs[0].Diagnostics)
	assert.Equal(t, 1, pubs[0].Diagnostics[0].Severity)
	assert.Empty(t, pubs[1].Diagnostics, "disabled server publishes nothing")
}

func TestSessionProtocolErrors(t *testing.T) {
	s := &session{t: t}
	unknownID := s.request("textDocument/hover", map[string]any{})
	s.notify("$/cancelRequest", map[string]any{"id": 1})
	s.notify("exit", nil)

	msgs, err := s.run()
	require.ErrorIs(t, err, ErrExitWithoutShutdown)

	resp := responseFor(t, msgs, unknownID)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeMethodNotFound, resp.Error.Code)
}

func TestRequestsAfterShutdownAreRejected(t *testing.T) {
	s := &session{t: t}
	s.request("shutdown", nil)
	lateID := s.request("textDocument/codeAction", codeActionParams{})

	msgs, err := s.run()
	require.NoError(t, err)
	resp := responseFor(t, msgs, lateID)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeInvalidRequest, resp.Error.Code)
}

func TestWantsKind(t *testing.T) {
	assert.True(t, wantsKind(nil, "quickfix"))
	assert.True(t, wantsKind([]string{"quickfix"}, "quickfix"))
	assert.True(t, wantsKind([]string{"refactor"}, "refactor.rewrite"))
	assert.False(t, wantsKind([]string{"refactor"}, "quickfix"))
	assert.False(t, wantsKind([]string{"quick"}, "quickfix"))
}

func TestRunWithoutRunner(t *testing.T) {
	srv := NewServer(bytes.NewReader(nil), io.Discard, ServerOptions{})
	require.Error(t, srv.Run(context.Background()))
}
