// Package locate implements the AST Locator: given a byte offset and a
// parsed tree, find the deepest node whose span contains it.
package locate

import (
	"github.com/w84us/solidity/internal/syntax"
	"github.com/w84us/solidity/internal/text"
)

// Locate returns the deepest node in tree whose span contains offset.
// It returns syntax.NoNode if no node's span contains offset.
//
// Every node in the arena participates — there is no "named vs
// anonymous" distinction to filter on, since the parser only ever
// creates nodes for meaningful grammar productions. Ties (identical
// spans) resolve in favor of a non-empty span over a zero-length one,
// then the smallest span, then the most recently parsed node — which,
// because this parser builds nodes bottom-up, is whichever sibling or
// ancestor has the larger NodeID.
func Locate(tree *syntax.Tree, offset text.ByteOffset) syntax.NodeID {
	if tree == nil {
		return syntax.NoNode
	}

	best := syntax.NoNode
	bestEmpty := true
	var bestLen text.ByteOffset

	for i := 1; i < len(tree.Nodes); i++ {
		n := &tree.Nodes[i]
		if !containsOffset(n.Span, offset) {
			continue
		}
		empty := n.Span.IsEmpty()
		length := n.Span.Len()

		switch {
		case best == syntax.NoNode:
			best, bestEmpty, bestLen = n.ID, empty, length
		case bestEmpty && !empty:
			best, bestEmpty, bestLen = n.ID, empty, length
		case !bestEmpty && empty:
			// current non-empty winner stands
		case length < bestLen:
			best, bestEmpty, bestLen = n.ID, empty, length
		case length == bestLen && n.ID > best:
			best, bestEmpty, bestLen = n.ID, empty, length
		}
	}
	return best
}

// containsOffset treats a zero-length span as containing exactly the
// offset it sits at, and a non-empty span as containing offset under
// the ordinary half-open rule.
func containsOffset(sp text.Span, off text.ByteOffset) bool {
	if !sp.IsValid() || !off.IsValid() {
		return false
	}
	if sp.IsEmpty() {
		return sp.Start == off
	}
	return sp.Contains(off)
}
