package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"dashlint/internal/diag"
	"dashlint/internal/lint"
	"dashlint/internal/source"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	Runner *lint.Runner
	// Debounce delays linting after didChange; zero lints immediately.
	Debounce time.Duration
	Version  string
	// Log receives server messages; defaults to stderr.
	Log io.Writer
}

// document is one open editor buffer and its latest lint result.
type document struct {
	version int
	text    string
	// gen changes with every edit so stale results can be dropped.
	gen   uint64
	fs    *source.FileSet
	id    source.FileID
	diags []diag.Diagnostic
}

// Server speaks LSP over a pair of streams. Incoming messages are handled one
// at a time; lint runs and debounce timers may publish concurrently, so every
// write goes through sendMu and all shared state through mu.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	log    io.Writer
	sendMu sync.Mutex
	mu     sync.Mutex

	docs     map[string]*document
	timers   map[string]*time.Timer
	runner   *lint.Runner
	ruleURLs map[string]string
	debounce time.Duration
	version  string

	workspaceRoot     string
	shutdownRequested bool
	settings          serverSettings
	baseCtx           context.Context
}

type handlerFunc func(*Server, *rpcMessage) error

var handlers = map[string]handlerFunc{
	"initialize":                       (*Server).handleInitialize,
	"initialized":                      ignore,
	"shutdown":                         (*Server).handleShutdown,
	"workspace/didChangeConfiguration": (*Server).handleDidChangeConfiguration,
	"textDocument/didOpen":             (*Server).handleDidOpen,
	"textDocument/didChange":           (*Server).handleDidChange,
	"textDocument/didSave":             (*Server).handleDidSave,
	"textDocument/didClose":            (*Server).handleDidClose,
	"textDocument/codeAction":          (*Server).handleCodeAction,
}

func ignore(*Server, *rpcMessage) error { return nil }

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	s := &Server{
		in:       bufio.NewReader(in),
		out:      bufio.NewWriter(out),
		log:      opts.Log,
		docs:     make(map[string]*document),
		timers:   make(map[string]*time.Timer),
		runner:   opts.Runner,
		ruleURLs: make(map[string]string),
		debounce: opts.Debounce,
		version:  opts.Version,
		settings: defaultSettings(),
		baseCtx:  context.Background(),
	}
	if s.log == nil {
		s.log = os.Stderr
	}
	if s.runner != nil {
		for _, en := range s.runner.Rules() {
			meta := en.Rule.Meta()
			s.ruleURLs[meta.ID()] = meta.URL
		}
	}
	return s
}

// Run serves LSP requests until exit or EOF. A clean exit returns ErrExit.
func (s *Server) Run(ctx context.Context) error {
	if s.runner == nil {
		return errors.New("lsp: no runner")
	}
	s.baseCtx = ctx
	defer s.stopTimers()
	for {
		payload, err := readMessage(s.in)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("dropping malformed message: %v", err)
			continue
		}
		// responses to our own requests carry no method
		if msg.Method == "" {
			continue
		}
		if err := s.dispatch(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) dispatch(msg *rpcMessage) error {
	isRequest := len(msg.ID) > 0
	s.mu.Lock()
	closing := s.shutdownRequested
	s.mu.Unlock()

	if msg.Method == "exit" {
		if closing {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	}
	if closing {
		if isRequest {
			return s.sendError(msg.ID, codeInvalidRequest, "server is shutting down")
		}
		return nil
	}
	h, ok := handlers[msg.Method]
	if !ok {
		if isRequest {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
	return h(s, msg)
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	root := workspaceRoot(params)
	s.mu.Lock()
	s.workspaceRoot = root
	s.mu.Unlock()
	s.applySettings(params.InitializationOptions)

	caps := serverCapabilities{
		TextDocumentSync: textDocumentSyncOptions{
			OpenClose: true,
			Change:    2, // incremental
			Save:      saveOptions{IncludeText: true},
		},
		CodeActionProvider: &codeActionOptions{CodeActionKinds: []string{kindQuickFix}},
	}
	return s.sendResponse(msg.ID, initializeResult{
		Capabilities: caps,
		ServerInfo:   &serverInfo{Name: "dashlint", Version: s.version},
	})
}

// workspaceRoot picks the first of rootUri, rootPath and the first
// workspace folder that is set, made absolute when possible.
func workspaceRoot(params initializeParams) string {
	var root string
	switch {
	case params.RootURI != "":
		root = uriToPath(params.RootURI)
	case params.RootPath != "":
		root = params.RootPath
	case len(params.WorkspaceFolders) > 0:
		root = uriToPath(params.WorkspaceFolders[0].URI)
	}
	if root == "" {
		return ""
	}
	if abs, err := filepath.Abs(root); err == nil {
		return abs
	}
	return root
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	var published []string
	for uri, doc := range s.docs {
		if len(doc.diags) > 0 {
			published = append(published, uri)
		}
	}
	s.mu.Unlock()
	s.stopTimers()
	for _, uri := range published {
		s.clearDiagnostics(uri)
	}
	return s.sendResponse(msg.ID, nil)
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result"`
}

type rpcErrorResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Error   rpcError        `json:"error"`
}

type rpcNotification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	return s.send(rpcResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	return s.send(rpcErrorResponse{JSONRPC: "2.0", ID: id, Error: rpcError{Code: code, Message: message}})
}

func (s *Server) sendPublish(uri string, version *int, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	return s.send(rpcNotification{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params:  publishDiagnosticsParams{URI: uri, Version: version, Diagnostics: list},
	})
}

// clearDiagnostics publishes an empty list for uri.
func (s *Server) clearDiagnostics(uri string) {
	if err := s.sendPublish(uri, nil, nil); err != nil {
		s.logf("clearing diagnostics for %s: %v", uri, err)
	}
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("lsp: encode: %w", err)
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(s.log, "lsp: "+format+"\n", args...)
}

func (s *Server) stopTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for uri, t := range s.timers {
		t.Stop()
		delete(s.timers, uri)
	}
}
