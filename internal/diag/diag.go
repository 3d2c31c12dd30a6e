// Package diag implements the Diagnostic Publisher: it turns a compiled
// tree's Diagnostics into the wire shape behind a
// textDocument/publishDiagnostics notification. It has no knowledge of
// JSON-RPC framing or the rest of the protocol — the lsp package wraps
// its result into the actual notification envelope.
package diag

import (
	"github.com/w84us/solidity/internal/syntax"
	"github.com/w84us/solidity/internal/text"
)

// RelatedInfo points a Diagnostic at a secondary location.
type RelatedInfo struct {
	URI     string
	Range   text.PositionRange
	Message string
}

// Diagnostic is one wire-ready diagnostic entry.
type Diagnostic struct {
	Range    text.PositionRange
	Severity int
	Code     string
	Source   string
	Message  string
	Related  []RelatedInfo
}

// Params is the full publishDiagnostics payload for one document.
type Params struct {
	URI         string
	Version     *int32
	Diagnostics []Diagnostic
}

// Publish builds the publishDiagnostics payload for tree. uri is the
// document URI to report under (the tree's own URI, normally), version
// is the document version to echo back, or nil if the document has no
// tracked version (e.g. a unit never opened directly by the client).
func Publish(tree *syntax.Tree, uri string, version *int32) Params {
	params := Params{URI: uri, Version: version}
	if tree == nil {
		return params
	}
	params.Diagnostics = make([]Diagnostic, 0, len(tree.Diagnostics))
	for _, d := range tree.Diagnostics {
		params.Diagnostics = append(params.Diagnostics, convert(tree, d))
	}
	return params
}

func convert(tree *syntax.Tree, d syntax.Diagnostic) Diagnostic {
	out := Diagnostic{
		Range:    spanToPositionRange(tree, d.Span),
		Severity: int(d.Severity),
		Code:     string(d.Code),
		Source:   "solidity",
		Message:  d.Message,
	}
	for _, r := range d.Related {
		out.Related = append(out.Related, RelatedInfo{
			URI:     tree.URI,
			Range:   spanToPositionRange(tree, r.Span),
			Message: r.Message,
		})
	}
	return out
}

func spanToPositionRange(tree *syntax.Tree, sp text.Span) text.PositionRange {
	if tree.LineIndex == nil {
		return text.PositionRange{}
	}
	start, err := tree.LineIndex.OffsetToPosition(sp.Start)
	if err != nil {
		start = text.Position{}
	}
	end, err := tree.LineIndex.OffsetToPosition(sp.End)
	if err != nil {
		end = start
	}
	return text.PositionRange{Start: start, End: end}.Clamp()
}
