package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/w84us/solidity/internal/compiler"
	"github.com/w84us/solidity/internal/diag"
	"github.com/w84us/solidity/internal/query"
	"github.com/w84us/solidity/internal/refs"
	"github.com/w84us/solidity/internal/syntax"
	"github.com/w84us/solidity/internal/text"
	"github.com/w84us/solidity/internal/vfs"
)

// lifecycleState tracks where the server sits in the LSP handshake, per
// the initialize/initialized/shutdown/exit sequence.
type lifecycleState uint8

const (
	stateStarting lifecycleState = iota
	stateInitialized
	stateRunning
	stateShutdownRequested
	stateExited
)

// Logger is the narrow logging callback the server accepts: a single
// formatted line, with no assumption about the backing sink. Library
// code never writes to stderr/stdout directly; it calls through this
// field so callers (and tests) can capture or discard output.
type Logger func(string)

// Server is the solidity LSP core: it owns the VFS, the Compile Gate and
// the Semantic Query Engine, and dispatches JSON-RPC requests into them.
type Server struct {
	vfs   *vfs.VFS
	comp  *compiler.Compiler
	query *query.Engine
	log   Logger

	mu       sync.Mutex
	state    lifecycleState
	settings json.RawMessage
	exitCode int
}

// NewServer creates a new LSP server instance that discards its log output.
func NewServer() *Server {
	return NewServerWithLogger(nil)
}

// NewServerWithLogger creates a new LSP server instance that reports
// lifecycle events and recovered handler panics through logger. A nil
// logger discards log output.
func NewServerWithLogger(logger Logger) *Server {
	v := vfs.New(vfs.DefaultNameCanonicalizer)
	comp := compiler.New(v)
	return &Server{
		vfs:   v,
		comp:  comp,
		query: query.New(comp, v),
		log:   logger,
	}
}

func (s *Server) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log(fmt.Sprintf(format, args...))
}

// VFS returns the backing virtual file system (primarily for tests).
func (s *Server) VFS() *vfs.VFS { return s.vfs }

// Run serves JSON-RPC/LSP messages using Content-Length framing.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if s == nil {
		return errors.New("nil Server")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	br := bufio.NewReader(in)
	bw := bufio.NewWriter(out)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		body, err := readFramedMessage(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			_ = s.writeErrorResponse(bw, nil, jsonRPCParseError, err.Error())
			_ = bw.Flush()
			continue
		}
		if len(body) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(body, &req); err != nil {
			_ = s.writeErrorResponse(bw, nil, jsonRPCParseError, err.Error())
			_ = bw.Flush()
			continue
		}
		if req.JSONRPC != "" && req.JSONRPC != JSONRPCVersion {
			_ = s.writeErrorResponse(bw, req.ID, jsonRPCInvalidRequest, "unsupported jsonrpc version")
			_ = bw.Flush()
			continue
		}
		if req.Method == "" {
			// Ignore client responses/unknown envelopes.
			continue
		}

		if err := s.dispatch(ctx, bw, req); err != nil {
			if errors.Is(err, ErrShutdownRequested) {
				return nil
			}
			return err
		}
		if err := bw.Flush(); err != nil {
			return err
		}
	}
}

//nolint:funcorder // dispatch is kept near Run for readability of request flow.
func (s *Server) dispatch(ctx context.Context, w *bufio.Writer, req Request) (err error) {
	isRequest := len(req.ID) != 0

	writeResp := func(result any) error {
		if !isRequest {
			return nil
		}
		return s.writeResponse(w, Response{JSONRPC: JSONRPCVersion, ID: req.ID, Result: result})
	}
	writeErr := func(code int, msg string) error {
		if !isRequest {
			return nil
		}
		return s.writeErrorResponse(w, req.ID, code, msg)
	}

	// An uncaught panic in a handler is logged and swallowed rather than
	// killing the loop: one malformed document must not take down the
	// server for every other open document.
	defer func() {
		if r := recover(); r != nil {
			s.logf("recovered from panic handling %s: %v", req.Method, r)
			err = writeErr(jsonRPCInternalError, "internal error")
		}
	}()

	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	if state == stateStarting && req.Method != "initialize" && req.Method != "exit" {
		return writeErr(lspErrorServerNotInitialized, ErrNotInitialized.Error())
	}
	if state == stateShutdownRequested && req.Method != "exit" {
		return writeErr(jsonRPCInvalidRequest, "server is shutting down, only exit is accepted")
	}

	switch req.Method {
	case "initialize":
		var p InitializeParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &p); err != nil {
				return writeErr(jsonRPCInvalidParams, err.Error())
			}
		}
		res, err := s.Initialize(ctx, p)
		if err != nil {
			return writeErr(jsonRPCInternalError, err.Error())
		}
		return writeResp(res)
	case "initialized":
		s.mu.Lock()
		if s.state == stateInitialized {
			s.state = stateRunning
		}
		s.mu.Unlock()
		return nil
	case "shutdown":
		if err := s.Shutdown(ctx); err != nil {
			return writeErr(jsonRPCInternalError, err.Error())
		}
		return writeResp(struct{}{})
	case "exit":
		s.Exit()
		return ErrShutdownRequested
	case "$/cancelRequest":
		return nil // cancellation is advisory; every handler here runs to completion.
	case "workspace/didChangeConfiguration":
		var p DidChangeConfigurationParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		s.mu.Lock()
		s.settings = p.Settings
		s.mu.Unlock()
		return nil
	case "textDocument/didOpen":
		var p DidOpenParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		notif, err := s.DidOpen(ctx, p)
		if err != nil {
			return writeErr(jsonRPCInternalError, err.Error())
		}
		return s.writeNotification(w, "textDocument/publishDiagnostics", notif)
	case "textDocument/didChange":
		var p DidChangeParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		notif, err := s.DidChange(ctx, p)
		if err != nil {
			code := jsonRPCInternalError
			switch {
			case errors.Is(err, ErrStaleVersion):
				code = lspErrorContentModified
			case errors.Is(err, context.Canceled):
				code = lspErrorRequestCancelled
			case errors.Is(err, ErrDocumentNotOpen):
				code = jsonRPCInvalidParams
			}
			return writeErr(code, err.Error())
		}
		return s.writeNotification(w, "textDocument/publishDiagnostics", notif)
	case "textDocument/didClose":
		var p DidCloseParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		if err := s.DidClose(ctx, p); err != nil {
			return writeErr(jsonRPCInternalError, err.Error())
		}
		return nil
	case "textDocument/definition":
		var p DefinitionParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		locs, err := s.Definition(ctx, p.TextDocumentPositionParams)
		if err != nil {
			return writeErr(jsonRPCInternalError, err.Error())
		}
		return writeResp(locs)
	case "textDocument/implementation":
		var p ImplementationParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		locs, err := s.Definition(ctx, p.TextDocumentPositionParams)
		if err != nil {
			return writeErr(jsonRPCInternalError, err.Error())
		}
		return writeResp(locs)
	case "textDocument/references":
		var p ReferencesParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		locs, err := s.References(ctx, p)
		if err != nil {
			return writeErr(jsonRPCInternalError, err.Error())
		}
		return writeResp(locs)
	case "textDocument/documentHighlight":
		var p DocumentHighlightParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		hs, err := s.DocumentHighlight(ctx, p)
		if err != nil {
			return writeErr(jsonRPCInternalError, err.Error())
		}
		return writeResp(hs)
	case "textDocument/hover":
		var p HoverParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		h, err := s.Hover(ctx, p)
		if err != nil {
			return writeErr(jsonRPCInternalError, err.Error())
		}
		return writeResp(h)
	default:
		return writeErr(jsonRPCMethodNotFound, "method not found")
	}
}

// Initialize handles the LSP initialize request. initializationOptions,
// like workspace/didChangeConfiguration's settings, is stored verbatim
// and never interpreted by the core.
func (s *Server) Initialize(ctx context.Context, p InitializeParams) (InitializeResult, error) {
	_ = ctx
	s.logf("initialize received")
	s.mu.Lock()
	if len(p.InitializationOptions) > 0 {
		s.settings = p.InitializationOptions
	}
	if s.state == stateStarting {
		s.state = stateInitialized
	}
	s.mu.Unlock()
	return InitializeResult{
		Capabilities: DefaultServerCapabilities(),
		ServerInfo:   &ServerInfo{Name: "solidity-ls", Version: "0.1.0"},
	}, nil
}

// Shutdown handles the LSP shutdown request. It is idempotent.
func (s *Server) Shutdown(ctx context.Context) error {
	_ = ctx
	if s == nil {
		return errors.New("nil Server")
	}
	s.logf("shutdown requested")
	s.mu.Lock()
	s.state = stateShutdownRequested
	s.mu.Unlock()
	return nil
}

// Exit handles the LSP exit notification. It records the process exit
// code implied by the handshake: 0 if shutdown was requested first,
// 1 otherwise, per the spec's exit-without-shutdown-is-an-error rule.
func (s *Server) Exit() {
	if s == nil {
		return
	}
	s.logf("exit received")
	s.mu.Lock()
	if s.state == stateShutdownRequested {
		s.exitCode = 0
	} else {
		s.exitCode = 1
	}
	s.state = stateExited
	s.mu.Unlock()
}

// ExitCode reports the process exit code implied by the most recent
// exit notification. It is meaningful only after Exit has run.
func (s *Server) ExitCode() int {
	if s == nil {
		return 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitCode
}

// DidOpen stores the opened document and returns the diagnostics to publish.
func (s *Server) DidOpen(ctx context.Context, p DidOpenParams) (PublishDiagnosticsParams, error) {
	_ = ctx
	uri := p.TextDocument.URI
	if err := s.vfs.SetSource(uri, p.TextDocument.Version, []byte(p.TextDocument.Text)); err != nil {
		return PublishDiagnosticsParams{}, err
	}
	return s.compileAndPublish(uri, p.TextDocument.Version)
}

// DidChange applies incremental text edits, reparses, and returns the
// diagnostics to publish.
func (s *Server) DidChange(ctx context.Context, p DidChangeParams) (PublishDiagnosticsParams, error) {
	_ = ctx
	uri := p.TextDocument.URI
	cur, ok := s.vfs.GetSource(uri)
	if !ok {
		return PublishDiagnosticsParams{}, ErrDocumentNotOpen
	}
	if p.TextDocument.Version <= mustVersion(s.vfs, uri) {
		return PublishDiagnosticsParams{}, ErrStaleVersion
	}

	next, err := applyContentChanges(cur, p.ContentChanges)
	if err != nil {
		return PublishDiagnosticsParams{}, err
	}
	if err := s.vfs.SetSource(uri, p.TextDocument.Version, next); err != nil {
		return PublishDiagnosticsParams{}, err
	}
	return s.compileAndPublish(uri, p.TextDocument.Version)
}

// DidClose is a no-op against the VFS: closed documents stay available
// so cross-file queries against units the client no longer has open
// keep working.
func (s *Server) DidClose(ctx context.Context, p DidCloseParams) error {
	_, _ = ctx, p
	return nil
}

// Definition answers textDocument/definition and, with the identical
// handler, textDocument/implementation.
func (s *Server) Definition(ctx context.Context, p TextDocumentPositionParams) ([]Location, error) {
	_ = ctx
	tree, offset, ok := s.resolvePosition(p)
	if !ok {
		return nil, nil
	}
	locs := s.query.Definition(s.comp.MainSourceUnitName(), offset)
	return s.convertLocations(tree, locs), nil
}

// References answers textDocument/references.
func (s *Server) References(ctx context.Context, p ReferencesParams) ([]Location, error) {
	_ = ctx
	tree, offset, ok := s.resolvePosition(p.TextDocumentPositionParams)
	if !ok {
		return nil, nil
	}
	locs := s.query.References(s.comp.MainSourceUnitName(), offset, p.Context.IncludeDeclaration)
	return s.convertLocations(tree, locs), nil
}

// DocumentHighlight answers textDocument/documentHighlight.
func (s *Server) DocumentHighlight(ctx context.Context, p DocumentHighlightParams) ([]DocumentHighlight, error) {
	_ = ctx
	tree, offset, ok := s.resolvePosition(p.TextDocumentPositionParams)
	if !ok {
		return nil, nil
	}
	hs := s.query.DocumentHighlight(s.comp.MainSourceUnitName(), offset)
	out := make([]DocumentHighlight, 0, len(hs))
	for _, h := range hs {
		out = append(out, DocumentHighlight{
			Range: spanToRange(tree, h.Span),
			Kind:  convertHighlightKind(h.Kind),
		})
	}
	return out, nil
}

// Hover answers textDocument/hover.
func (s *Server) Hover(ctx context.Context, p HoverParams) (*Hover, error) {
	_ = ctx
	tree, offset, ok := s.resolvePosition(p.TextDocumentPositionParams)
	if !ok {
		return nil, nil
	}
	h, ok := s.query.Hover(s.comp.MainSourceUnitName(), offset)
	if !ok {
		return nil, nil
	}
	rng := spanToRange(tree, h.Span)
	return &Hover{Contents: MarkupContent{Kind: "markdown", Value: h.Markdown}, Range: &rng}, nil
}

// resolvePosition recompiles the document and converts a wire position
// into a byte offset into its freshly compiled tree.
func (s *Server) resolvePosition(p TextDocumentPositionParams) (*syntax.Tree, text.ByteOffset, bool) {
	uri := p.TextDocument.URI
	if !s.comp.Compile(uri) {
		return nil, 0, false
	}
	tree, ok := s.comp.AST(s.comp.MainSourceUnitName())
	if !ok || tree.LineIndex == nil {
		return nil, 0, false
	}
	off, err := tree.LineIndex.PositionToOffset(text.Position{Line: p.Position.Line, Character: p.Position.Character})
	if err != nil {
		return nil, 0, false
	}
	return tree, off, true
}

func (s *Server) compileAndPublish(uri string, version int32) (PublishDiagnosticsParams, error) {
	if !s.comp.Compile(uri) {
		return PublishDiagnosticsParams{}, nil
	}
	tree, ok := s.comp.AST(s.comp.MainSourceUnitName())
	if !ok {
		return PublishDiagnosticsParams{}, nil
	}
	v := version
	return convertDiagnosticsParams(diag.Publish(tree, uri, &v)), nil
}

func convertDiagnosticsParams(p diag.Params) PublishDiagnosticsParams {
	out := PublishDiagnosticsParams{URI: p.URI, Version: p.Version}
	out.Diagnostics = make([]Diagnostic, 0, len(p.Diagnostics))
	for _, d := range p.Diagnostics {
		wire := Diagnostic{
			Range:    convertPositionRange(d.Range),
			Severity: d.Severity,
			Code:     d.Code,
			Source:   d.Source,
			Message:  d.Message,
		}
		for _, r := range d.Related {
			wire.RelatedInformation = append(wire.RelatedInformation, DiagnosticRelatedInfo{
				Location: Location{URI: r.URI, Range: convertPositionRange(r.Range)},
				Message:  r.Message,
			})
		}
		out.Diagnostics = append(out.Diagnostics, wire)
	}
	return out
}

func convertPositionRange(r text.PositionRange) Range {
	return Range{
		Start: Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   Position{Line: r.End.Line, Character: r.End.Character},
	}
}

func (s *Server) convertLocations(tree *syntax.Tree, locs []query.Location) []Location {
	out := make([]Location, 0, len(locs))
	for _, l := range locs {
		if l.URI != "" && l.URI != tree.URI {
			out = append(out, Location{URI: l.URI, Range: Range{}})
			continue
		}
		out = append(out, Location{URI: tree.URI, Range: spanToRange(tree, l.Span)})
	}
	return out
}

func spanToRange(tree *syntax.Tree, sp text.Span) Range {
	if tree == nil || tree.LineIndex == nil {
		return Range{}
	}
	start, err := tree.LineIndex.OffsetToPosition(sp.Start)
	if err != nil {
		start = text.Position{}
	}
	end, err := tree.LineIndex.OffsetToPosition(sp.End)
	if err != nil {
		end = start
	}
	start, end = start.Clamp(), end.Clamp()
	return Range{
		Start: Position{Line: start.Line, Character: start.Character},
		End:   Position{Line: end.Line, Character: end.Character},
	}
}

func convertHighlightKind(k refs.HighlightKind) DocumentHighlightKind {
	switch k {
	case refs.HighlightRead:
		return DocumentHighlightRead
	case refs.HighlightWrite:
		return DocumentHighlightWrite
	default:
		return DocumentHighlightText
	}
}

func mustVersion(v *vfs.VFS, uri string) int32 {
	n, _ := v.Version(uri)
	return n
}

// applyContentChanges replays a didChange notification's edits against
// src, applying whole-document replacement (Range == nil) or each
// incremental range edit in turn, rebuilding the line index after every
// edit since later ranges are expressed against the updated text.
func applyContentChanges(src []byte, changes []TextDocumentContentChangeEvent) ([]byte, error) {
	cur := src
	for _, ch := range changes {
		if ch.Range == nil {
			cur = []byte(ch.Text)
			continue
		}
		li := text.NewLineIndex(cur)
		rng := text.PositionRange{
			Start: text.Position{Line: ch.Range.Start.Line, Character: ch.Range.Start.Character},
			End:   text.Position{Line: ch.Range.End.Line, Character: ch.Range.End.Character},
		}
		next, err := text.ApplyPositionEdit(li, cur, rng, []byte(ch.Text))
		if err != nil {
			return nil, fmt.Errorf("apply content change: %w", err)
		}
		cur = next
	}
	return cur, nil
}

func (s *Server) writeResponse(w *bufio.Writer, resp Response) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return writeFramedMessage(w, body)
}

func (s *Server) writeErrorResponse(w *bufio.Writer, id json.RawMessage, code int, msg string) error {
	return s.writeResponse(w, Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &ResponseError{Code: code, Message: msg},
	})
}

func (s *Server) writeNotification(w *bufio.Writer, method string, params any) error {
	body, err := json.Marshal(struct {
		JSONRPC string `json:"jsonrpc"`
		Method  string `json:"method"`
		Params  any    `json:"params"`
	}{JSONRPC: JSONRPCVersion, Method: method, Params: params})
	if err != nil {
		return err
	}
	return writeFramedMessage(w, body)
}

func readFramedMessage(r *bufio.Reader) ([]byte, error) {
	contentLen := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		if line == "\r\n" || line == "\n" {
			break
		}
		line = strings.TrimRight(line, "\r\n")
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header line %q", line)
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			var n int
			if _, err := fmt.Sscanf(strings.TrimSpace(value), "%d", &n); err != nil || n < 0 {
				return nil, fmt.Errorf("invalid Content-Length %q", value)
			}
			contentLen = n
		}
	}
	if contentLen < 0 {
		return nil, errors.New("missing Content-Length")
	}
	body := make([]byte, contentLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

func writeFramedMessage(w io.Writer, body []byte) error {
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}
