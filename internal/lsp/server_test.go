package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/w84us/solidity/internal/compiler"
)

func TestInitializeAdvertisesCapabilitiesAndServerInfo(t *testing.T) {
	t.Parallel()

	s := NewServer()
	res, err := s.Initialize(context.Background(), InitializeParams{})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	got := res.Capabilities
	if !got.TextDocumentSync.OpenClose || got.TextDocumentSync.Change != TextDocumentSyncKindIncremental {
		t.Fatalf("unexpected textDocumentSync: %+v", got.TextDocumentSync)
	}
	if !got.HoverProvider || !got.DefinitionProvider || !got.ImplementationProvider || !got.ReferencesProvider || !got.DocumentHighlightProvider {
		t.Fatalf("unexpected capabilities: %+v", got)
	}
	if res.ServerInfo == nil || res.ServerInfo.Name == "" {
		t.Fatalf("expected non-empty ServerInfo, got %+v", res.ServerInfo)
	}
}

func TestServerRunInitializeShutdownExit(t *testing.T) {
	t.Parallel()

	var in bytes.Buffer
	writeReqFrame(t, &in, Request{JSONRPC: JSONRPCVersion, ID: json.RawMessage(`1`), Method: "initialize", Params: json.RawMessage(`{}`)})
	writeReqFrame(t, &in, Request{JSONRPC: JSONRPCVersion, ID: json.RawMessage(`2`), Method: "shutdown"})
	writeReqFrame(t, &in, Request{JSONRPC: JSONRPCVersion, Method: "exit"})

	var out bytes.Buffer
	s := NewServer()
	if err := s.Run(context.Background(), &in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	br := bufio.NewReader(bytes.NewReader(out.Bytes()))
	resp1 := readRespFrame(t, br)
	resp2 := readRespFrame(t, br)
	if _, err := readFramedMessage(br); err == nil {
		t.Fatal("expected exactly two responses")
	}
	if resp1.Error != nil || string(resp1.ID) != "1" {
		t.Fatalf("unexpected initialize response: %+v", resp1)
	}
	if resp2.Error != nil || string(resp2.ID) != "2" {
		t.Fatalf("unexpected shutdown response: %+v", resp2)
	}
	if got := s.ExitCode(); got != 0 {
		t.Fatalf("ExitCode() = %d, want 0 after shutdown then exit", got)
	}
}

func TestServerExitWithoutShutdownReportsNonZeroExitCode(t *testing.T) {
	t.Parallel()

	var in bytes.Buffer
	writeReqFrame(t, &in, Request{JSONRPC: JSONRPCVersion, ID: json.RawMessage(`1`), Method: "initialize", Params: json.RawMessage(`{}`)})
	writeReqFrame(t, &in, Request{JSONRPC: JSONRPCVersion, Method: "exit"})

	var out bytes.Buffer
	s := NewServer()
	if err := s.Run(context.Background(), &in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := s.ExitCode(); got != 1 {
		t.Fatalf("ExitCode() = %d, want 1 for exit without shutdown", got)
	}
}

func TestServerRejectsRequestsBeforeInitialize(t *testing.T) {
	t.Parallel()

	var in bytes.Buffer
	writeReqFrame(t, &in, Request{
		JSONRPC: JSONRPCVersion,
		ID:      json.RawMessage(`1`),
		Method:  "textDocument/hover",
		Params:  mustJSON(t, HoverParams{}),
	})
	var out bytes.Buffer
	if err := NewServer().Run(context.Background(), &in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	resp := readRespFrame(t, bufio.NewReader(bytes.NewReader(out.Bytes())))
	if resp.Error == nil || resp.Error.Code != lspErrorServerNotInitialized {
		t.Fatalf("expected ServerNotInitialized, got %+v", resp)
	}
}

func TestServerUnknownMethodReturnsMethodNotFound(t *testing.T) {
	t.Parallel()

	var in bytes.Buffer
	writeReqFrame(t, &in, Request{JSONRPC: JSONRPCVersion, ID: json.RawMessage(`1`), Method: "initialize"})
	writeReqFrame(t, &in, Request{JSONRPC: JSONRPCVersion, ID: json.RawMessage(`99`), Method: "solidity/unknown"})
	var out bytes.Buffer
	if err := NewServer().Run(context.Background(), &in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	br := bufio.NewReader(bytes.NewReader(out.Bytes()))
	_ = readRespFrame(t, br)
	resp := readRespFrame(t, br)
	if resp.Error == nil || resp.Error.Code != jsonRPCMethodNotFound {
		t.Fatalf("expected method-not-found, got %+v", resp)
	}
}

func TestServerRunPublishesDiagnosticsOnOpenAndChange(t *testing.T) {
	t.Parallel()

	var in bytes.Buffer
	writeReqFrame(t, &in, Request{JSONRPC: JSONRPCVersion, ID: json.RawMessage(`1`), Method: "initialize"})
	writeReqFrame(t, &in, Request{
		JSONRPC: JSONRPCVersion,
		Method:  "textDocument/didOpen",
		Params: mustJSON(t, DidOpenParams{
			TextDocument: TextDocumentItem{
				URI:     "file:///diag.sol",
				Version: 1,
				Text:    "contract C {\n  uint x = @;\n}\n",
			},
		}),
	})
	writeReqFrame(t, &in, Request{
		JSONRPC: JSONRPCVersion,
		Method:  "textDocument/didChange",
		Params: mustJSON(t, DidChangeParams{
			TextDocument: VersionedTextDocumentIdentifier{URI: "file:///diag.sol", Version: 2},
			ContentChanges: []TextDocumentContentChangeEvent{{
				Text: "contract C {\n  uint x = 1;\n}\n",
			}},
		}),
	})

	var out bytes.Buffer
	if err := NewServer().Run(context.Background(), &in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	msgs := readAllFrames(t, out.Bytes())
	notifications := collectMethodMessages(t, msgs, "textDocument/publishDiagnostics")
	if len(notifications) != 2 {
		t.Fatalf("publishDiagnostics count=%d, want 2", len(notifications))
	}

	var openDiag PublishDiagnosticsParams
	marshalRoundtrip(t, notifications[0].Params, &openDiag)
	if openDiag.Version == nil || *openDiag.Version != 1 {
		t.Fatalf("open diagnostics version=%v, want 1", openDiag.Version)
	}
	if len(openDiag.Diagnostics) == 0 {
		t.Fatal("expected diagnostics for the malformed open document")
	}

	var changeDiag PublishDiagnosticsParams
	marshalRoundtrip(t, notifications[1].Params, &changeDiag)
	if changeDiag.Version == nil || *changeDiag.Version != 2 {
		t.Fatalf("change diagnostics version=%v, want 2", changeDiag.Version)
	}
	if len(changeDiag.Diagnostics) != 0 {
		t.Fatalf("expected diagnostics cleared after valid change, got %d", len(changeDiag.Diagnostics))
	}
}

func TestServerRunDefinitionAndHover(t *testing.T) {
	t.Parallel()

	src := "contract C {\n  uint total;\n\n  function bump() public {\n    total = total + 1;\n  }\n}\n"
	var in bytes.Buffer
	writeReqFrame(t, &in, Request{JSONRPC: JSONRPCVersion, ID: json.RawMessage(`1`), Method: "initialize"})
	writeReqFrame(t, &in, Request{
		JSONRPC: JSONRPCVersion,
		Method:  "textDocument/didOpen",
		Params: mustJSON(t, DidOpenParams{
			TextDocument: TextDocumentItem{URI: "file:///c.sol", Version: 1, Text: src},
		}),
	})
	writeReqFrame(t, &in, Request{
		JSONRPC: JSONRPCVersion,
		ID:      json.RawMessage(`2`),
		Method:  "textDocument/definition",
		Params: mustJSON(t, DefinitionParams{TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: "file:///c.sol"},
			Position:     Position{Line: 4, Character: 4}, // first "total" on the assignment line (the assignment target)
		}}),
	})
	writeReqFrame(t, &in, Request{
		JSONRPC: JSONRPCVersion,
		ID:      json.RawMessage(`3`),
		Method:  "textDocument/hover",
		Params: mustJSON(t, HoverParams{TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: "file:///c.sol"},
			Position:     Position{Line: 4, Character: 4},
		}}),
	})

	var out bytes.Buffer
	if err := NewServer().Run(context.Background(), &in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	msgs := readAllFrames(t, out.Bytes())
	defResp := responseByID(t, msgs, "2")
	if defResp.Error != nil {
		t.Fatalf("definition error: %+v", defResp.Error)
	}
	var locs []Location
	marshalRoundtrip(t, defResp.Result, &locs)
	if len(locs) != 1 || locs[0].Range.Start.Line != 1 {
		t.Fatalf("definition locations = %+v, want one pointing at line 1", locs)
	}

	hoverResp := responseByID(t, msgs, "3")
	if hoverResp.Error != nil {
		t.Fatalf("hover error: %+v", hoverResp.Error)
	}
	var h Hover
	marshalRoundtrip(t, hoverResp.Result, &h)
	if h.Contents.Kind != "markdown" || h.Contents.Value == "" {
		t.Fatalf("hover contents = %+v, want non-empty markdown", h.Contents)
	}
}

func TestDispatchRecoversFromHandlerPanicAndKeepsRunning(t *testing.T) {
	t.Parallel()

	var logged []string
	s := NewServerWithLogger(func(msg string) { logged = append(logged, msg) })
	s.state = stateRunning
	s.comp = nil // forces a nil-pointer panic inside the hover handler

	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	req := Request{
		JSONRPC: JSONRPCVersion,
		ID:      json.RawMessage(`1`),
		Method:  "textDocument/hover",
		Params:  mustJSON(t, HoverParams{}),
	}
	if err := s.dispatch(context.Background(), w, req); err != nil {
		t.Fatalf("dispatch after recovered panic returned error: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	resp := readRespFrame(t, bufio.NewReader(bytes.NewReader(out.Bytes())))
	if resp.Error == nil || resp.Error.Code != jsonRPCInternalError {
		t.Fatalf("expected an internal-error response after a recovered panic, got %+v", resp)
	}

	found := false
	for _, line := range logged {
		if strings.Contains(line, "textDocument/hover") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the recovered panic to be logged, got %v", logged)
	}

	// The server itself must still be usable afterwards.
	s.comp = compiler.New(s.vfs)
	req2 := Request{JSONRPC: JSONRPCVersion, ID: json.RawMessage(`2`), Method: "$/cancelRequest"}
	if err := s.dispatch(context.Background(), w, req2); err != nil {
		t.Fatalf("dispatch after recovery: %v", err)
	}
}

func writeReqFrame(t *testing.T, w *bytes.Buffer, req Request) {
	t.Helper()
	b, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if err := writeFramedMessage(w, b); err != nil {
		t.Fatalf("writeFramedMessage: %v", err)
	}
}

func readRespFrame(t *testing.T, r *bufio.Reader) Response {
	t.Helper()
	b, err := readFramedMessage(r)
	if err != nil {
		t.Fatalf("readFramedMessage: %v", err)
	}
	var resp Response
	if err := json.Unmarshal(b, &resp); err != nil {
		t.Fatalf("json.Unmarshal response: %v", err)
	}
	return resp
}

func marshalRoundtrip(t *testing.T, in any, out any) {
	t.Helper()
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("json.Marshal roundtrip: %v", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		t.Fatalf("json.Unmarshal roundtrip: %v", err)
	}
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal params: %v", err)
	}
	return json.RawMessage(b)
}

type testFrame struct {
	body []byte
	msg  Request
}

func readAllFrames(t *testing.T, raw []byte) []testFrame {
	t.Helper()
	br := bufio.NewReader(bytes.NewReader(raw))
	var out []testFrame
	for {
		body, err := readFramedMessage(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("readFramedMessage: %v", err)
		}
		var msg Request
		if err := json.Unmarshal(body, &msg); err != nil {
			t.Fatalf("json.Unmarshal frame: %v", err)
		}
		out = append(out, testFrame{body: body, msg: msg})
	}
	return out
}

func collectMethodMessages(t *testing.T, msgs []testFrame, method string) []Request {
	t.Helper()
	out := make([]Request, 0, len(msgs))
	for _, msg := range msgs {
		if msg.msg.Method == method {
			out = append(out, msg.msg)
		}
	}
	return out
}

func responseByID(t *testing.T, msgs []testFrame, id string) Response {
	t.Helper()
	for _, msg := range msgs {
		if string(msg.msg.ID) != id {
			continue
		}
		var resp Response
		if err := json.Unmarshal(msg.body, &resp); err != nil {
			t.Fatalf("json.Unmarshal response: %v", err)
		}
		return resp
	}
	t.Fatalf("no response found for id %q", id)
	return Response{}
}
