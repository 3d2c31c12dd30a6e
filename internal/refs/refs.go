// Package refs implements the Reference Collector: given a target
// declaration, it finds every occurrence of that declaration in a
// source unit via AST annotations rather than textual search.
package refs

import (
	"sort"

	"github.com/w84us/solidity/internal/syntax"
	"github.com/w84us/solidity/internal/text"
)

// HighlightKind classifies how a collected occurrence relates to its
// declaration, best-effort.
type HighlightKind uint8

const (
	HighlightUnspecified HighlightKind = iota
	HighlightRead
	HighlightWrite
	HighlightText
)

// Occurrence is one located reference to a declaration.
type Occurrence struct {
	Span text.Span
	Kind HighlightKind
}

// Collect finds every occurrence of declID in tree: the declaration's
// own name location (HighlightText), plus every Identifier,
// IdentifierPath and MemberAccess node whose resolved reference or
// overload candidate points at it, or that is a MemberAccess with no
// resolved declaration whose member name equals name. name is used only
// for that member-name match — it is never used for plain textual
// search. Results are in source order with duplicate spans suppressed;
// where a reference shares the declaration's name span, the
// HighlightText entry is the one kept.
func Collect(tree *syntax.Tree, declID syntax.NodeID, name string) []Occurrence {
	if tree == nil || declID == syntax.NoNode {
		return nil
	}
	decl := tree.DeclarationByID(declID)
	if decl == nil {
		return nil
	}

	var out []Occurrence
	out = append(out, Occurrence{Span: decl.NameLocation(), Kind: HighlightText})

	for id, ann := range tree.Annotations {
		if !referencesDeclaration(ann, declID, name) {
			continue
		}
		node := tree.NodeByID(id)
		if node == nil {
			continue
		}
		kind := HighlightRead
		if ann.IsWrite {
			kind = HighlightWrite
		}
		out = append(out, Occurrence{Span: occurrenceSpan(node), Kind: kind})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Span.Start != out[j].Span.Start {
			return out[i].Span.Start < out[j].Span.Start
		}
		return out[i].Span.End < out[j].Span.End
	})
	return dedupe(out)
}

// referencesDeclaration reports whether ann points at declID, either
// unambiguously via ReferencedDeclaration, among its
// CandidateDeclarations, or — for a MemberAccess annotation that
// carries no resolved declaration at all — by member-name match
// against name (the enum/struct-member-over-a-type-name case).
func referencesDeclaration(ann *syntax.Annotation, declID syntax.NodeID, name string) bool {
	if ann == nil {
		return false
	}
	if ann.ReferencedDeclaration == declID {
		return true
	}
	for _, c := range ann.CandidateDeclarations {
		if c == declID {
			return true
		}
	}
	return ann.ReferencedDeclaration == syntax.NoNode && ann.MemberName != "" && ann.MemberName == name
}

// occurrenceSpan returns the span to report for a reference node: a
// MemberAccess reports just its member-name span (the whole node's
// span starts at the base expression), everything else reports the
// node's own span.
func occurrenceSpan(node *syntax.Node) text.Span {
	if node.Kind == syntax.NodeMemberAccess {
		return text.Span{Start: node.Span.End - text.ByteOffset(len(node.Text)), End: node.Span.End}
	}
	return node.Span
}

func dedupe(in []Occurrence) []Occurrence {
	out := in[:0]
	var prev text.Span
	havePrev := false
	for _, occ := range in {
		if havePrev && occ.Span == prev {
			continue
		}
		out = append(out, occ)
		prev = occ.Span
		havePrev = true
	}
	return out
}
