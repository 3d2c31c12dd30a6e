package compiler

import (
	"testing"

	"github.com/w84us/solidity/internal/syntax"
	"github.com/w84us/solidity/internal/vfs"
)

func TestCompileReturnsFalseWhenURINotInVFS(t *testing.T) {
	t.Parallel()

	c := New(vfs.New(vfs.DefaultNameCanonicalizer))
	if c.Compile("file:///missing.sol") {
		t.Fatal("Compile() = true for a URI never added to the VFS")
	}
	if c.State() != StateEmpty {
		t.Fatalf("State() = %v, want StateEmpty", c.State())
	}
}

func TestCompileProducesAnalysisPerformedAndExposesAST(t *testing.T) {
	t.Parallel()

	v := vfs.New(vfs.DefaultNameCanonicalizer)
	uri := "file:///a.sol"
	if err := v.SetSource(uri, 1, []byte("contract A { uint total; }")); err != nil {
		t.Fatalf("SetSource() error = %v", err)
	}

	c := New(v)
	if !c.Compile(uri) {
		t.Fatal("Compile() = false for a URI present in the VFS")
	}
	if c.State() != StateAnalysisPerformed {
		t.Fatalf("State() = %v, want StateAnalysisPerformed", c.State())
	}

	name := v.PathToSourceUnitName(uri)
	tree, ok := c.AST(name)
	if !ok || tree == nil {
		t.Fatalf("AST(%q) = (%v, %v)", name, tree, ok)
	}
	if tree.RootNode() == nil || tree.RootNode().Kind != syntax.NodeSourceUnit {
		t.Fatalf("AST(%q) root = %+v", name, tree.RootNode())
	}

	src, ok := c.CharStream(name)
	if !ok || string(src) != "contract A { uint total; }" {
		t.Fatalf("CharStream(%q) = (%q, %v)", name, src, ok)
	}
}

func TestCompileReplacesPreviousFacadeEntirely(t *testing.T) {
	t.Parallel()

	v := vfs.New(vfs.DefaultNameCanonicalizer)
	uriA := "file:///a.sol"
	uriB := "file:///b.sol"
	if err := v.SetSource(uriA, 1, []byte("contract A {}")); err != nil {
		t.Fatalf("SetSource(a) error = %v", err)
	}

	c := New(v)
	if !c.Compile(uriA) {
		t.Fatal("Compile(a) = false")
	}
	nameA := v.PathToSourceUnitName(uriA)
	if _, ok := c.AST(nameA); !ok {
		t.Fatal("expected a.sol's AST to be present after compiling a.sol")
	}

	if err := v.SetSource(uriB, 1, []byte("contract B {}")); err != nil {
		t.Fatalf("SetSource(b) error = %v", err)
	}
	if !c.Compile(uriB) {
		t.Fatal("Compile(b) = false")
	}
	nameB := v.PathToSourceUnitName(uriB)
	if _, ok := c.AST(nameB); !ok {
		t.Fatal("expected b.sol's AST to be present after compiling b.sol")
	}
	if c.MainSourceUnitName() != nameB {
		t.Fatalf("MainSourceUnitName() = %q, want %q", c.MainSourceUnitName(), nameB)
	}
}

func TestCompileResolvesImportPathsAgainstImportingDocumentDirectory(t *testing.T) {
	t.Parallel()

	v := vfs.New(vfs.DefaultNameCanonicalizer)
	mainURI := "file:///src/main.sol"
	libURI := "file:///src/lib/math.sol"
	if err := v.SetSource(mainURI, 1, []byte(`import "lib/math.sol" as Math;
contract Main {}
`)); err != nil {
		t.Fatalf("SetSource(main) error = %v", err)
	}
	if err := v.SetSource(libURI, 1, []byte("library Math {}")); err != nil {
		t.Fatalf("SetSource(lib) error = %v", err)
	}

	c := New(v)
	if !c.Compile(mainURI) {
		t.Fatal("Compile(main) = false")
	}
	mainTree, ok := c.AST(v.PathToSourceUnitName(mainURI))
	if !ok {
		t.Fatal("expected main.sol's AST to be present")
	}

	root := mainTree.RootNode()
	var importID syntax.NodeID
	for _, ch := range root.Children {
		if mainTree.NodeByID(ch).Kind == syntax.NodeImportDirective {
			importID = ch
		}
	}
	if importID == syntax.NoNode {
		t.Fatal("expected an ImportDirective node in main.sol")
	}
	ann := mainTree.AnnotationByID(importID)
	if ann == nil {
		t.Fatal("expected an Annotation on the ImportDirective node")
	}
	want := v.PathToSourceUnitName(libURI)
	if ann.ImportResolvedPath != want {
		t.Fatalf("ImportResolvedPath = %q, want %q", ann.ImportResolvedPath, want)
	}
	if _, ok := c.AST(ann.ImportResolvedPath); !ok {
		t.Fatal("expected the resolved import path to have its own AST in the façade")
	}
}

func TestErrorsReturnsOnlyMainUnitDiagnostics(t *testing.T) {
	t.Parallel()

	v := vfs.New(vfs.DefaultNameCanonicalizer)
	mainURI := "file:///main.sol"
	libURI := "file:///broken.sol"
	if err := v.SetSource(mainURI, 1, []byte("contract Main {}")); err != nil {
		t.Fatalf("SetSource(main) error = %v", err)
	}
	if err := v.SetSource(libURI, 1, []byte("contract @@@ {}")); err != nil {
		t.Fatalf("SetSource(broken) error = %v", err)
	}

	c := New(v)
	if !c.Compile(mainURI) {
		t.Fatal("Compile(main) = false")
	}
	if errs := c.Errors(); len(errs) != 0 {
		t.Fatalf("Errors() = %v, want none for a clean main unit", errs)
	}
}
