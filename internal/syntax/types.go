// Package syntax builds the arena-allocated syntax/semantic tree for one
// compiled source unit: a tagged-sum AST with stable NodeID handles, plus
// the declaration and reference-annotation layer the semantic query
// engine reads from.
package syntax

import (
	"fmt"

	"github.com/w84us/solidity/internal/lexer"
	"github.com/w84us/solidity/internal/text"
)

// NodeKind is the tag of the AST's discriminated union. Every query
// against a Node switches exhaustively on Kind rather than performing a
// runtime type assertion.
type NodeKind uint16

const (
	NodeInvalid NodeKind = iota

	NodeSourceUnit
	NodePragmaDirective
	NodeImportDirective

	NodeContractDecl
	NodeInterfaceDecl
	NodeLibraryDecl
	NodeFunctionDecl
	NodeConstructorDecl
	NodeModifierDecl
	NodeEventDecl
	NodeStructDecl
	NodeEnumDecl
	NodeEnumValueDecl
	NodeStateVariableDecl
	NodeParameterDecl
	NodeLocalVariableDecl

	NodeBlockStmt
	NodeIfStmt
	NodeForStmt
	NodeWhileStmt
	NodeReturnStmt
	NodeEmitStmt
	NodeExprStmt
	NodeVarDeclStmt

	NodeIdentifier
	NodeIdentifierPath
	NodeMemberAccess
	NodeCallExpr
	NodeIndexExpr
	NodeLiteral
	NodeBinaryExpr
	NodeUnaryExpr
	NodeAssignExpr
	NodeNewExpr
	NodeTypeName

	NodeErrorNode
)

func (k NodeKind) String() string { return kindName(k) }

// NodeID is a stable arena index. Nodes reference each other (and
// declarations reference their defining node) by NodeID rather than by
// pointer, so the whole tree — and every annotation keyed off it — is
// invalidated in one step simply by discarding the Tree on recompile;
// nothing holds a dangling pointer into a freed arena.
type NodeID uint32

// NoNode is the sentinel for "no node" (e.g. an unresolved reference).
const NoNode NodeID = 0

// NodeFlags carry parser recovery/error metadata.
type NodeFlags uint8

const (
	NodeFlagError NodeFlags = 1 << iota
	NodeFlagMissing
	NodeFlagRecovered
)

func (f NodeFlags) Has(mask NodeFlags) bool { return f&mask == mask }

// Node is one entry in the arena. Children are stored as NodeIDs into
// the same Tree.Nodes slice.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Span     text.Span
	Parent   NodeID
	Children []NodeID
	Flags    NodeFlags

	// Text is the node's defining token text for leaf-ish nodes
	// (identifier name, literal spelling, operator). Populated for
	// NodeIdentifier, NodeLiteral, NodeMemberAccess (member name) and
	// NodeTypeName (builtin/type name).
	Text string
}

func (n Node) String() string {
	return fmt.Sprintf("Node{id=%d kind=%s span=%s text=%q}", n.ID, n.Kind, n.Span, n.Text)
}

// DeclKind classifies the kind of name a Declaration introduces.
type DeclKind uint8

const (
	DeclContract DeclKind = iota
	DeclInterface
	DeclLibrary
	DeclFunction
	DeclConstructor
	DeclModifier
	DeclEvent
	DeclStruct
	DeclEnum
	DeclEnumValue
	DeclStateVariable
	DeclParameter
	DeclLocalVariable
	DeclImport
)

// Declaration is anything that introduces a name. It exposes the three
// operations the Semantic Query Engine's Identifier/Declaration cases
// need: Name, Location (the whole declaration span) and NameLocation
// (just the name token, when the declaration has a separate one).
type Declaration struct {
	Node         NodeID
	Kind         DeclKind
	Name         string
	NameSpan     text.Span // zero-value Span (0,0) when there is no separate name token
	HasNameSpan  bool
	WholeSpan    text.Span
	ResolvedType *Type // the declaration's own type, e.g. a state variable's value type

	// Parent is the enclosing contract/interface/library declaration's
	// NodeID, or NoNode for top-level declarations.
	Parent NodeID

	// Members holds, for DeclContract/DeclInterface/DeclLibrary, the
	// NodeIDs of directly declared members (functions, state vars,
	// structs, enums, events, modifiers) in source order; for DeclEnum,
	// the NodeIDs of its DeclEnumValue members; for DeclStruct, the
	// NodeIDs of its DeclStateVariable-shaped fields.
	Members []NodeID

	// Bases holds, for DeclContract/DeclInterface, the resolved NodeIDs
	// of contracts named in its "is" list (unresolved entries omitted).
	Bases []NodeID
}

// NameLocation returns the name token's span, falling back to the
// declaration's whole span when there is no separate name token —
// the rule behind go-to-definition's "nameLocation() if valid, else
// location()".
func (d *Declaration) NameLocation() text.Span {
	if d.HasNameSpan {
		return d.NameSpan
	}
	return d.WholeSpan
}

// TypeKind classifies a resolved Type.
type TypeKind uint8

const (
	TypeElementary TypeKind = iota
	TypeContract
	TypeInterface
	TypeLibrary
	TypeStruct
	TypeEnum
	TypeMapping
	TypeArray
	TypeFunction
	TypeUnknown
)

// Type is the minimal resolved-type model the hover and member-lookup
// logic needs: a display string plus, for user-defined types, the
// NodeID of the declaring Declaration so member access can look up
// fields/enum values by name.
type Type struct {
	Kind    TypeKind
	Display string
	Decl    NodeID // DeclStruct/DeclEnum/DeclContract/DeclInterface/DeclLibrary node, or NoNode
}

func (t *Type) display() string {
	if t == nil {
		return "<unknown>"
	}
	return t.Display
}

// Annotation is the per-node semantic metadata the resolver attaches
// once name resolution runs. Identifier/IdentifierPath/MemberAccess
// nodes carry one, and so do NodeEnumValueDecl nodes (a self-reference)
// and NodeImportDirective nodes (ImportResolvedPath).
type Annotation struct {
	// ReferencedDeclaration is the single resolved declaration, or
	// NoNode if unresolved. Identifier populates this when resolution
	// is unambiguous; IdentifierPath and MemberAccess always resolve to
	// at most one declaration.
	ReferencedDeclaration NodeID

	// CandidateDeclarations holds overload candidates for an
	// Identifier that resolution could not narrow to one declaration
	// (e.g. an unresolved call to an overloaded function name).
	CandidateDeclarations []NodeID

	// MemberName is the member name text for a MemberAccess node. The
	// Reference Collector matches it against a declaration's name when
	// ReferencedDeclaration is unset.
	MemberName string

	// ResolvedType is the node's own resolved type (for hover).
	ResolvedType *Type

	// ImportResolvedPath is set on NodeImportDirective: the absolute
	// path of the imported source unit, as resolved by the VFS's
	// path-to-source-unit-name rule.
	ImportResolvedPath string

	// IsWrite marks an Identifier/MemberAccess appearing on the left
	// side of an assignment, for best-effort highlight classification.
	IsWrite bool
}

// Diagnostic severities, matching the LSP wire values directly
// (Error=1, Warning=2) so the publisher does no remapping.
type Severity uint8

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

// DiagnosticCode identifies a diagnostic's category.
type DiagnosticCode string

const (
	DiagnosticLexError        DiagnosticCode = "LEX_ERROR"
	DiagnosticSyntaxError     DiagnosticCode = "SYNTAX_ERROR"
	DiagnosticDeclarationError DiagnosticCode = "DECLARATION_ERROR"
	DiagnosticTypeError       DiagnosticCode = "TYPE_ERROR"
	DiagnosticUnusedWarning   DiagnosticCode = "UNUSED_WARNING"
)

// RelatedDiagnostic adds a secondary source reference to a Diagnostic.
type RelatedDiagnostic struct {
	Message string
	Span    text.Span
}

// Diagnostic is a compiler message with source position, ready for the
// Diagnostic Publisher to translate into a protocol Diagnostic.
type Diagnostic struct {
	Code     DiagnosticCode
	Message  string
	Severity Severity
	Span     text.Span
	Related  []RelatedDiagnostic
}

// Tree is the immutable result of parsing and resolving one source
// unit: the arena of Nodes, the Declarations introduced in it, the
// Annotations resolution attached to reference nodes, and the
// Diagnostics raised along the way.
type Tree struct {
	URI     string
	Version int32
	Source  []byte
	Tokens  []lexer.Token

	Nodes []Node // index 0 is the NoNode sentinel; real IDs start at 1
	Root  NodeID

	Declarations map[NodeID]*Declaration
	Annotations  map[NodeID]*Annotation

	Diagnostics []Diagnostic
	LineIndex   *text.LineIndex
}

// NodeByID returns the node for id or nil if not present.
func (t *Tree) NodeByID(id NodeID) *Node {
	if t == nil || id == NoNode {
		return nil
	}
	idx := int(id)
	if idx < 0 || idx >= len(t.Nodes) {
		return nil
	}
	return &t.Nodes[idx]
}

// RootNode returns the root SourceUnit node, or nil.
func (t *Tree) RootNode() *Node {
	return t.NodeByID(t.Root)
}

// DeclarationByID returns the Declaration attached to a node, or nil.
func (t *Tree) DeclarationByID(id NodeID) *Declaration {
	if t == nil {
		return nil
	}
	return t.Declarations[id]
}

// AnnotationByID returns the Annotation attached to a node, or nil.
func (t *Tree) AnnotationByID(id NodeID) *Annotation {
	if t == nil {
		return nil
	}
	return t.Annotations[id]
}
