package query

import (
	"strings"
	"testing"

	"github.com/w84us/solidity/internal/compiler"
	"github.com/w84us/solidity/internal/refs"
	"github.com/w84us/solidity/internal/text"
	"github.com/w84us/solidity/internal/vfs"
)

func setup(t *testing.T, src string) (*Engine, string) {
	t.Helper()
	v := vfs.New(vfs.DefaultNameCanonicalizer)
	uri := "file:///c.sol"
	if err := v.SetSource(uri, 1, []byte(src)); err != nil {
		t.Fatalf("SetSource: %v", err)
	}
	comp := compiler.New(v)
	if !comp.Compile(uri) {
		t.Fatal("Compile() = false")
	}
	return New(comp, v), comp.MainSourceUnitName()
}

func TestDefinitionFromIdentifierResolvesToStateVariable(t *testing.T) {
	t.Parallel()

	src := `contract C {
  uint total;

  function bump() public {
    total = total + 1;
  }
}
`
	e, name := setup(t, src)
	offset := text.ByteOffset(strings.Index(src, "total + 1"))
	locs := e.Definition(name, offset)
	if len(locs) != 1 {
		t.Fatalf("Definition() = %+v, want one location", locs)
	}
	want := text.ByteOffset(strings.Index(src, "total;"))
	if locs[0].Span.Start != want {
		t.Fatalf("Definition() span start = %d, want %d", locs[0].Span.Start, want)
	}
}

func TestReferencesIncludesDeclarationAndEveryUse(t *testing.T) {
	t.Parallel()

	src := `contract C {
  uint total;

  function bump() public {
    total = total + 1;
  }
}
`
	e, name := setup(t, src)
	offset := text.ByteOffset(strings.Index(src, "total;"))
	locs := e.References(name, offset, true)
	if len(locs) != 3 {
		t.Fatalf("References() = %+v, want 3 (decl + write + read)", locs)
	}
}

func TestReferencesExcludesDeclarationEvenWhenUseComesFirstInSource(t *testing.T) {
	t.Parallel()

	// total is used before it is declared; the resolver still sees the
	// declaration via hoisting. includeDeclaration=false must drop the
	// declaration itself, not whichever occurrence happens to sort
	// first by source position.
	src := `contract C {
  function bump() public {
    total = total + 1;
  }

  uint total;
}
`
	e, name := setup(t, src)
	declOffset := text.ByteOffset(strings.Index(src, "total;"))
	useOffset := text.ByteOffset(strings.Index(src, "total = total"))

	locs := e.References(name, useOffset, false)
	if len(locs) != 2 {
		t.Fatalf("References(includeDeclaration=false) = %+v, want 2 (write + read)", locs)
	}
	for _, l := range locs {
		if l.Span.Start == declOffset {
			t.Fatalf("References(includeDeclaration=false) = %+v, declaration at %d must be excluded", locs, declOffset)
		}
	}
}

func TestDocumentHighlightClassifiesReadAndWrite(t *testing.T) {
	t.Parallel()

	src := `contract C {
  uint total;

  function bump() public {
    total = total + 1;
  }
}
`
	e, name := setup(t, src)
	offset := text.ByteOffset(strings.Index(src, "total;"))
	hs := e.DocumentHighlight(name, offset)

	var haveWrite, haveRead, haveText bool
	for _, h := range hs {
		switch h.Kind {
		case refs.HighlightWrite:
			haveWrite = true
		case refs.HighlightRead:
			haveRead = true
		case refs.HighlightText:
			haveText = true
		}
	}
	if !haveWrite || !haveRead || !haveText {
		t.Fatalf("DocumentHighlight() = %+v, want write, read and text kinds present", hs)
	}
}

func TestHoverOnStateVariableShowsResolvedType(t *testing.T) {
	t.Parallel()

	src := `contract C {
  uint total;

  function bump() public {
    total = total + 1;
  }
}
`
	e, name := setup(t, src)
	offset := text.ByteOffset(strings.Index(src, "total + 1"))
	h, ok := e.Hover(name, offset)
	if !ok {
		t.Fatal("Hover() ok = false, want a result for a typed identifier")
	}
	if !strings.HasPrefix(h.Markdown, "## ") {
		t.Fatalf("Hover().Markdown = %q, want it to start with \"## \"", h.Markdown)
	}
}

func TestDefinitionOnImportWithoutOpenTargetReturnsNothing(t *testing.T) {
	t.Parallel()

	src := `import "lib.sol";

contract C {}
`
	e, name := setup(t, src)
	offset := text.ByteOffset(strings.Index(src, "lib.sol"))
	locs := e.Definition(name, offset)
	if locs != nil {
		t.Fatalf("Definition() = %+v, want nil when the imported file was never opened", locs)
	}
}
