// Package query implements the Semantic Query Engine: go-to-definition,
// go-to-implementation, references, document highlight and hover, all
// dispatching on the AST-node variant under the cursor.
package query

import (
	"sort"
	"strings"

	"github.com/w84us/solidity/internal/compiler"
	"github.com/w84us/solidity/internal/lexer"
	"github.com/w84us/solidity/internal/locate"
	"github.com/w84us/solidity/internal/refs"
	"github.com/w84us/solidity/internal/syntax"
	"github.com/w84us/solidity/internal/text"
	"github.com/w84us/solidity/internal/vfs"
)

// Location is a source range in some source unit, identified by the
// URI the client opened it under (or synthesized from its canonical
// name for a unit the client never opened).
type Location struct {
	URI  string
	Span text.Span
}

// Highlight pairs a span with the best-effort read/write classification
// the Reference Collector assigns it.
type Highlight struct {
	Span text.Span
	Kind refs.HighlightKind
}

// Hover is the result of a hover query: Markdown content plus the span
// it applies to.
type Hover struct {
	Markdown string
	Span     text.Span
}

// Engine answers queries against a Compile Gate's current façade.
type Engine struct {
	comp *compiler.Compiler
	vfs  *vfs.VFS
}

// New creates an Engine reading from comp's most recent compile and v's
// document set (used to gate import navigation).
func New(comp *compiler.Compiler, v *vfs.VFS) *Engine {
	return &Engine{comp: comp, vfs: v}
}

func (e *Engine) treeAndNode(sourceUnitName string, offset text.ByteOffset) (*syntax.Tree, *syntax.Node) {
	tree, ok := e.comp.AST(sourceUnitName)
	if !ok {
		return nil, nil
	}
	id := locate.Locate(tree, offset)
	if id == syntax.NoNode {
		return tree, nil
	}
	return tree, tree.NodeByID(id)
}

// Definition answers textDocument/definition and textDocument/implementation
// — the core spec gives them the same handler.
func (e *Engine) Definition(sourceUnitName string, offset text.ByteOffset) []Location {
	tree, node := e.treeAndNode(sourceUnitName, offset)
	if tree == nil || node == nil {
		return nil
	}

	switch node.Kind {
	case syntax.NodeIdentifier, syntax.NodeEnumValueDecl:
		ann := tree.AnnotationByID(node.ID)
		if ann == nil {
			return nil
		}
		ids := candidateSet(ann)
		return e.locationsForDeclarations(tree, ids)
	case syntax.NodeIdentifierPath:
		ann := tree.AnnotationByID(node.ID)
		if ann == nil || ann.ReferencedDeclaration == syntax.NoNode {
			return nil
		}
		return e.locationsForDeclarations(tree, []syntax.NodeID{ann.ReferencedDeclaration})
	case syntax.NodeMemberAccess:
		ann := tree.AnnotationByID(node.ID)
		if ann == nil || ann.ReferencedDeclaration == syntax.NoNode {
			return nil
		}
		return e.locationsForDeclarations(tree, []syntax.NodeID{ann.ReferencedDeclaration})
	case syntax.NodeImportDirective:
		ann := tree.AnnotationByID(node.ID)
		if ann == nil || ann.ImportResolvedPath == "" {
			return nil
		}
		if _, ok := e.vfs.GetSourceByName(ann.ImportResolvedPath); !ok {
			return nil // NotReady: the client never opened the imported file.
		}
		return []Location{{URI: uriFromName(ann.ImportResolvedPath), Span: text.Span{}}}
	default:
		return nil
	}
}

func candidateSet(ann *syntax.Annotation) []syntax.NodeID {
	if ann.ReferencedDeclaration != syntax.NoNode {
		return []syntax.NodeID{ann.ReferencedDeclaration}
	}
	return ann.CandidateDeclarations
}

func (e *Engine) locationsForDeclarations(tree *syntax.Tree, ids []syntax.NodeID) []Location {
	var out []Location
	for _, id := range ids {
		decl := tree.DeclarationByID(id)
		if decl == nil {
			continue
		}
		out = append(out, Location{URI: tree.URI, Span: decl.NameLocation()})
	}
	return out
}

// References answers textDocument/references: the union of Reference
// Collector output for every (declaration, name) pair the node under
// the cursor denotes, restricted to the current source unit.
// includeDeclaration controls whether the declaring name itself is
// part of the result; occurrences are filtered by matching each
// target declaration's NameLocation(), not by source position, since
// hoisted declarations routinely sort after a use that precedes them
// in the source.
func (e *Engine) References(sourceUnitName string, offset text.ByteOffset, includeDeclaration bool) []Location {
	tree, node := e.treeAndNode(sourceUnitName, offset)
	if tree == nil || node == nil {
		return nil
	}
	targets := referenceTargets(tree, node)
	if targets == nil {
		return nil
	}

	declSpans := map[text.Span]bool{}
	if !includeDeclaration {
		for _, t := range targets {
			if decl := tree.DeclarationByID(t.id); decl != nil {
				declSpans[decl.NameLocation()] = true
			}
		}
	}

	out := make([]Location, 0, len(targets))
	for _, h := range collectHighlights(tree, targets) {
		if declSpans[h.Span] {
			continue
		}
		out = append(out, Location{URI: tree.URI, Span: h.Span})
	}
	return out
}

// DocumentHighlight answers textDocument/documentHighlight: same target
// set as References, but keeps the HighlightKind the client uses to
// render read/write differently.
func (e *Engine) DocumentHighlight(sourceUnitName string, offset text.ByteOffset) []Highlight {
	tree, node := e.treeAndNode(sourceUnitName, offset)
	if tree == nil || node == nil {
		return nil
	}
	targets := referenceTargets(tree, node)
	if targets == nil {
		return nil
	}
	return collectHighlights(tree, targets)
}

// referenceTargets resolves the (declaration, name) pairs that node
// under the cursor denotes, the shared target set References and
// DocumentHighlight both collect occurrences for.
func referenceTargets(tree *syntax.Tree, node *syntax.Node) []declNamePair {
	var targets []declNamePair
	switch node.Kind {
	case syntax.NodeIdentifier, syntax.NodeEnumValueDecl:
		ann := tree.AnnotationByID(node.ID)
		if ann == nil {
			return nil
		}
		for _, id := range candidateSet(ann) {
			targets = append(targets, declNamePair{id: id, name: node.Text})
		}
	case syntax.NodeIdentifierPath:
		ann := tree.AnnotationByID(node.ID)
		if ann == nil || ann.ReferencedDeclaration == syntax.NoNode {
			return nil
		}
		targets = append(targets, declNamePair{id: ann.ReferencedDeclaration, name: lastPathSegment(node.Text)})
	case syntax.NodeMemberAccess:
		ann := tree.AnnotationByID(node.ID)
		if ann == nil || ann.ReferencedDeclaration == syntax.NoNode {
			return nil
		}
		targets = append(targets, declNamePair{id: ann.ReferencedDeclaration, name: node.Text})
	default:
		return nil
	}
	return targets
}

func collectHighlights(tree *syntax.Tree, targets []declNamePair) []Highlight {
	seen := map[text.Span]bool{}
	var out []Highlight
	for _, target := range targets {
		for _, occ := range refs.Collect(tree, target.id, target.name) {
			if seen[occ.Span] {
				continue
			}
			seen[occ.Span] = true
			out = append(out, Highlight{Span: occ.Span, Kind: occ.Kind})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Span.Start < out[j].Span.Start })
	return out
}

type declNamePair struct {
	id   syntax.NodeID
	name string
}

func lastPathSegment(dotted string) string {
	if i := strings.LastIndexByte(dotted, '.'); i >= 0 {
		return dotted[i+1:]
	}
	return dotted
}

// Hover answers textDocument/hover: a declaration's own doc comment if
// it has one, else its resolved type rendered as "## <display>\n",
// else no result.
func (e *Engine) Hover(sourceUnitName string, offset text.ByteOffset) (Hover, bool) {
	tree, node := e.treeAndNode(sourceUnitName, offset)
	if tree == nil || node == nil {
		return Hover{}, false
	}

	ann := tree.AnnotationByID(node.ID)
	var resolvedType *syntax.Type
	var declID syntax.NodeID
	if ann != nil {
		resolvedType = ann.ResolvedType
		declID = ann.ReferencedDeclaration
	}
	if declID != syntax.NoNode {
		if doc := docComment(tree, declID); doc != "" {
			return Hover{Markdown: doc, Span: node.Span}, true
		}
	}
	if resolvedType == nil {
		return Hover{}, false
	}
	return Hover{Markdown: "## " + resolvedType.Display + "\n", Span: node.Span}, true
}

// docComment returns the text of the doc comment immediately preceding
// a declaration's first token, stripped of comment delimiters, or "" if
// it has none.
func docComment(tree *syntax.Tree, declID syntax.NodeID) string {
	decl := tree.DeclarationByID(declID)
	if decl == nil {
		return ""
	}
	idx := tokenIndexAtOffset(tree.Tokens, decl.WholeSpan.Start)
	if idx < 0 {
		return ""
	}
	for _, tr := range tree.Tokens[idx].Leading {
		if tr.Kind == lexer.TriviaDocComment {
			return strings.TrimSpace(stripCommentDelimiters(string(tr.Bytes(tree.Source))))
		}
	}
	return ""
}

func tokenIndexAtOffset(tokens []lexer.Token, off text.ByteOffset) int {
	lo, hi := 0, len(tokens)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case tokens[mid].Span.Start == off:
			return mid
		case tokens[mid].Span.Start < off:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return -1
}

func stripCommentDelimiters(s string) string {
	s = strings.TrimPrefix(s, "///")
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimSuffix(s, "*/")
	return s
}

// uriFromName turns a canonicalized source-unit name back into a
// file:// URI for Locations that point into files the client may or
// may not have opened under that exact URI form.
func uriFromName(name string) string {
	if strings.HasPrefix(name, "/") {
		return "file://" + name
	}
	return name
}
