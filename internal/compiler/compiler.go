// Package compiler is the Compile Gate: it turns the current VFS
// contents into a fresh, name-resolved set of syntax trees on every
// Compile call. Nothing here is incremental — correctness before
// performance, matching the rule a compile reflects VFS state at the
// moment it runs, not whatever state a prior compile saw.
package compiler

import (
	"path"
	"strings"

	"github.com/w84us/solidity/internal/syntax"
	"github.com/w84us/solidity/internal/vfs"
)

// State is the compiler façade's lifecycle state for the most recent
// Compile call.
type State uint8

const (
	// StateEmpty means Compile has not yet succeeded, or its target
	// URI was not present in the VFS.
	StateEmpty State = iota
	// StateAnalysisPerformed means every source unit in the VFS has
	// been parsed and name-resolved (no code generation — this core
	// never generates code).
	StateAnalysisPerformed
)

// Compiler is the Compile Gate. It is re-entrant only in the sense that
// Compile fully replaces its internal state; concurrent calls are the
// dispatcher's responsibility to serialize (see the server package).
type Compiler struct {
	vfs   *vfs.VFS
	state State

	mainName string
	trees    map[string]*syntax.Tree // keyed by source-unit name
}

// New creates a Compiler reading from v. v is not copied; the Compiler
// re-reads it on every Compile call.
func New(v *vfs.VFS) *Compiler {
	return &Compiler{vfs: v, trees: map[string]*syntax.Tree{}}
}

// Compile discards whatever the previous Compile call produced,
// reparses and re-resolves every document currently in the VFS, and
// resolves every ImportDirective's target path against the VFS. It
// returns false, leaving the façade in StateEmpty, if uri itself is not
// in the VFS.
func (c *Compiler) Compile(uri string) bool {
	name := c.vfs.PathToSourceUnitName(uri)
	if _, ok := c.vfs.GetSource(uri); !ok {
		c.state = StateEmpty
		c.mainName = ""
		c.trees = map[string]*syntax.Tree{}
		return false
	}

	entries := c.vfs.Iter()
	trees := make(map[string]*syntax.Tree, len(entries))
	for _, e := range entries {
		tree := syntax.Parse(e.URI, e.Version, e.Text)
		syntax.Resolve(tree)
		trees[e.Name] = tree
	}
	for _, tree := range trees {
		resolveImports(tree, c.vfs)
	}

	c.trees = trees
	c.mainName = name
	c.state = StateAnalysisPerformed
	return true
}

// AST returns the resolved tree for a source-unit name, as produced by
// the most recent Compile call.
func (c *Compiler) AST(sourceUnitName string) (*syntax.Tree, bool) {
	t, ok := c.trees[sourceUnitName]
	return t, ok
}

// CharStream returns the raw source bytes backing a source-unit name's
// tree, as produced by the most recent Compile call.
func (c *Compiler) CharStream(sourceUnitName string) ([]byte, bool) {
	t, ok := c.trees[sourceUnitName]
	if !ok {
		return nil, false
	}
	return t.Source, true
}

// Errors returns the diagnostics belonging to the most recently
// compiled URI's own tree — not the trees of any units it imports.
// The Diagnostic Publisher publishes exactly this slice.
func (c *Compiler) Errors() []syntax.Diagnostic {
	t, ok := c.trees[c.mainName]
	if !ok {
		return nil
	}
	return t.Diagnostics
}

// State returns the façade's current lifecycle state.
func (c *Compiler) State() State { return c.state }

// MainSourceUnitName returns the source-unit name of the most recently
// compiled URI.
func (c *Compiler) MainSourceUnitName() string { return c.mainName }

// resolveImports fills in ImportResolvedPath on every ImportDirective
// node in tree, joining the import's literal path against tree's own
// directory. It does not require the target to exist in v — the
// Semantic Query Engine gates navigation on VFS membership itself, so
// an import of a file the client never opened still gets a resolved
// path, just one that later query fails to navigate to.
func resolveImports(tree *syntax.Tree, v *vfs.VFS) {
	root := tree.RootNode()
	if root == nil {
		return
	}
	dir := path.Dir(v.PathToSourceUnitName(tree.URI))
	for _, childID := range root.Children {
		child := tree.NodeByID(childID)
		if child == nil || child.Kind != syntax.NodeImportDirective {
			continue
		}
		literal := unquoteImportPath(child.Text)
		resolved := v.PathToSourceUnitName(path.Join(dir, literal))

		ann := tree.Annotations[childID]
		if ann == nil {
			ann = &syntax.Annotation{}
			tree.Annotations[childID] = ann
		}
		ann.ImportResolvedPath = resolved
	}
}

// unquoteImportPath strips the surrounding quotes a string-literal
// import path token carries; the lexer's token text is the raw
// source spelling, quotes included.
func unquoteImportPath(lit string) string {
	return strings.Trim(lit, `"'`)
}
