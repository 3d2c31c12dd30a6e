package syntax

// Resolve walks a freshly parsed Tree and fills in Declarations and
// Annotations: every contract/interface/library/struct/enum/function/
// event/modifier/variable/parameter becomes a Declaration, and every
// Identifier/IdentifierPath/MemberAccess that names one of them gets an
// Annotation pointing back at it.
//
// Resolution runs in two passes so sibling declarations can see each
// other regardless of source order: pass one declares every name in
// the file, pass two resolves type references, base lists and function
// bodies against the now-complete symbol tables.
func Resolve(tree *Tree) {
	r := &resolver{
		tree:         tree,
		global:       newScope(nil),
		memberScopes: map[NodeID]*scope{},
	}
	r.declarePass()
	r.resolvePass()
}

type scope struct {
	parent *scope
	names  map[string]NodeID
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: map[string]NodeID{}}
}

func (s *scope) define(name string, id NodeID) {
	if name == "" {
		return
	}
	if _, exists := s.names[name]; !exists {
		s.names[name] = id
	}
}

func (s *scope) lookup(name string) (NodeID, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if id, ok := sc.names[name]; ok {
			return id, true
		}
	}
	return NoNode, false
}

type resolver struct {
	tree         *Tree
	global       *scope
	memberScopes map[NodeID]*scope
}

// ---- pass 1: declare every name ----

func (r *resolver) declarePass() {
	root := r.tree.RootNode()
	if root == nil {
		return
	}
	for _, childID := range root.Children {
		child := r.tree.NodeByID(childID)
		if child == nil {
			continue
		}
		switch child.Kind {
		case NodeContractDecl, NodeInterfaceDecl, NodeLibraryDecl:
			r.declareContractLike(childID)
		case NodeImportDirective:
			r.declareImport(childID)
		}
	}
}

func (r *resolver) declareContractLike(id NodeID) {
	node := r.tree.NodeByID(id)
	kind := declKindForContainer(node.Kind)

	var nameNode *Node
	if len(node.Children) > 0 {
		nameNode = r.tree.NodeByID(node.Children[0])
	}
	name := ""
	if nameNode != nil {
		name = nameNode.Text
	}

	decl := &Declaration{
		Node:      id,
		Kind:      kind,
		Name:      name,
		WholeSpan: node.Span,
	}
	if nameNode != nil {
		decl.NameSpan = nameNode.Span
		decl.HasNameSpan = true
	}
	r.tree.Declarations[id] = decl
	r.global.define(name, id)

	memberScope := newScope(nil)
	r.memberScopes[id] = memberScope

	for i, c := range node.Children {
		if i == 0 {
			continue
		}
		cn := r.tree.NodeByID(c)
		if cn == nil {
			continue
		}
		if cn.Kind == NodeIdentifier {
			// Base-list entry; resolved in pass two once every
			// top-level declaration exists.
			continue
		}
		r.declareMember(id, decl, memberScope, c)
	}

	if nameNode != nil {
		r.tree.Annotations[nameNode.ID] = &Annotation{
			ReferencedDeclaration: id,
			ResolvedType:          typeOfDeclaration(decl),
		}
	}
}

func (r *resolver) declareMember(containerID NodeID, container *Declaration, scope *scope, memberID NodeID) {
	node := r.tree.NodeByID(memberID)
	switch node.Kind {
	case NodeStructDecl:
		r.declareStruct(containerID, container, scope, memberID)
	case NodeEnumDecl:
		r.declareEnum(containerID, container, scope, memberID)
	case NodeEventDecl:
		r.declareNamedMember(containerID, container, scope, memberID, DeclEvent)
	case NodeModifierDecl:
		r.declareNamedMember(containerID, container, scope, memberID, DeclModifier)
	case NodeFunctionDecl:
		r.declareNamedMember(containerID, container, scope, memberID, DeclFunction)
	case NodeConstructorDecl:
		decl := &Declaration{Node: memberID, Kind: DeclConstructor, Name: "constructor", WholeSpan: node.Span, Parent: containerID}
		r.tree.Declarations[memberID] = decl
		container.Members = append(container.Members, memberID)
		r.declareParametersAndLocals(memberID, node, true)
	case NodeStateVariableDecl:
		r.declareNamedMember(containerID, container, scope, memberID, DeclStateVariable)
	}
}

// declareNamedMember handles every member shape that carries its own
// name: NodeFunctionDecl/NodeModifierDecl/NodeEventDecl have it at
// children[0]; NodeStateVariableDecl has it at children[1], right
// after the type node (which itself may be a NodeIdentifier for a
// user-defined type, so it cannot be found by kind alone).
func (r *resolver) declareNamedMember(containerID NodeID, container *Declaration, scope *scope, memberID NodeID, kind DeclKind) {
	node := r.tree.NodeByID(memberID)
	var nameNode *Node
	if kind == DeclStateVariable {
		nameNode = r.childNode(node, 1)
	} else {
		nameNode = r.childNode(node, 0)
	}
	name := ""
	hasName := nameNode != nil
	if hasName {
		name = nameNode.Text
	}

	decl := &Declaration{
		Node:        memberID,
		Kind:        kind,
		Name:        name,
		WholeSpan:   node.Span,
		HasNameSpan: hasName,
		Parent:      containerID,
	}
	if hasName {
		decl.NameSpan = nameNode.Span
	}
	if kind == DeclStateVariable && len(node.Children) > 0 {
		decl.ResolvedType = r.typeFromRef(node.Children[0])
	}
	r.tree.Declarations[memberID] = decl
	container.Members = append(container.Members, memberID)
	scope.define(name, memberID)

	if hasName {
		r.tree.Annotations[nameNode.ID] = &Annotation{
			ReferencedDeclaration: memberID,
			ResolvedType:          typeOfDeclaration(decl),
		}
	}

	if kind == DeclStateVariable {
		r.declareParametersAndLocals(memberID, node, false)
	}
	if kind == DeclFunction || kind == DeclModifier {
		r.declareParametersAndLocals(memberID, node, true)
	}
}

// childNode returns node's i-th direct child, or nil if out of range.
func (r *resolver) childNode(node *Node, i int) *Node {
	if node == nil || i < 0 || i >= len(node.Children) {
		return nil
	}
	return r.tree.NodeByID(node.Children[i])
}

// paramName returns a NodeParameterDecl's name node: children are
// [typeNode, nameNode?], and typeNode may itself be a NodeIdentifier
// for a user-defined type, so the name must be found positionally.
func (r *resolver) paramName(paramNode *Node) *Node {
	return r.childNode(paramNode, 1)
}

// declareParametersAndLocals pre-registers a function/modifier/state
// variable's own NodeParameterDecl children in its member scope (used
// by later calls against the same member, via the bodyScope built in
// pass two — this just records the Declarations themselves).
func (r *resolver) declareParametersAndLocals(memberID NodeID, node *Node, _ bool) {
	for _, c := range node.Children {
		cn := r.tree.NodeByID(c)
		if cn == nil || cn.Kind != NodeParameterDecl {
			continue
		}
		nameNode := r.paramName(cn)
		if nameNode == nil {
			continue
		}
		decl := &Declaration{
			Node:        c,
			Kind:        DeclParameter,
			Name:        nameNode.Text,
			NameSpan:    nameNode.Span,
			HasNameSpan: true,
			WholeSpan:   cn.Span,
			Parent:      memberID,
		}
		decl.ResolvedType = r.typeFromRef(cn.Children[0])
		r.tree.Declarations[c] = decl
	}
}

func (r *resolver) declareStruct(containerID NodeID, container *Declaration, scope *scope, structID NodeID) {
	node := r.tree.NodeByID(structID)
	nameNode := r.childNode(node, 0)
	name := ""
	if nameNode != nil {
		name = nameNode.Text
	}
	decl := &Declaration{
		Node:      structID,
		Kind:      DeclStruct,
		Name:      name,
		WholeSpan: node.Span,
		Parent:    containerID,
	}
	if nameNode != nil {
		decl.NameSpan = nameNode.Span
		decl.HasNameSpan = true
	}
	r.tree.Declarations[structID] = decl
	container.Members = append(container.Members, structID)
	scope.define(name, structID)

	if nameNode != nil {
		r.tree.Annotations[nameNode.ID] = &Annotation{
			ReferencedDeclaration: structID,
			ResolvedType:          typeOfDeclaration(decl),
		}
	}

	for _, c := range node.Children {
		cn := r.tree.NodeByID(c)
		if cn == nil || cn.Kind != NodeStateVariableDecl {
			continue
		}
		fieldNameNode := r.childNode(cn, 1)
		if fieldNameNode == nil {
			continue
		}
		field := &Declaration{
			Node:        c,
			Kind:        DeclStateVariable,
			Name:        fieldNameNode.Text,
			NameSpan:    fieldNameNode.Span,
			HasNameSpan: true,
			WholeSpan:   cn.Span,
			Parent:      structID,
		}
		r.tree.Declarations[c] = field
		decl.Members = append(decl.Members, c)
		r.tree.Annotations[fieldNameNode.ID] = &Annotation{
			ReferencedDeclaration: c,
			ResolvedType:          typeOfDeclaration(field),
		}
	}
}

func (r *resolver) declareEnum(containerID NodeID, container *Declaration, scope *scope, enumID NodeID) {
	node := r.tree.NodeByID(enumID)
	nameNode := r.childNode(node, 0)
	name := ""
	if nameNode != nil {
		name = nameNode.Text
	}
	decl := &Declaration{
		Node:      enumID,
		Kind:      DeclEnum,
		Name:      name,
		WholeSpan: node.Span,
		Parent:    containerID,
	}
	if nameNode != nil {
		decl.NameSpan = nameNode.Span
		decl.HasNameSpan = true
	}
	r.tree.Declarations[enumID] = decl
	container.Members = append(container.Members, enumID)
	scope.define(name, enumID)

	enumType := &Type{Kind: TypeEnum, Display: name, Decl: enumID}
	decl.ResolvedType = enumType
	if nameNode != nil {
		r.tree.Annotations[nameNode.ID] = &Annotation{
			ReferencedDeclaration: enumID,
			ResolvedType:          enumType,
		}
	}

	for _, c := range node.Children {
		cn := r.tree.NodeByID(c)
		if cn == nil || cn.Kind != NodeEnumValueDecl {
			continue
		}
		value := &Declaration{
			Node:         c,
			Kind:         DeclEnumValue,
			Name:         cn.Text,
			NameSpan:     cn.Span,
			HasNameSpan:  true,
			WholeSpan:    cn.Span,
			Parent:       enumID,
			ResolvedType: enumType,
		}
		r.tree.Declarations[c] = value
		decl.Members = append(decl.Members, c)
		r.tree.Annotations[c] = &Annotation{
			ReferencedDeclaration: c,
			ResolvedType:          enumType,
		}
	}
}

func (r *resolver) declareImport(id NodeID) {
	node := r.tree.NodeByID(id)
	name := node.Text // import path string literal text, including quotes
	decl := &Declaration{
		Node:      id,
		Kind:      DeclImport,
		Name:      name,
		WholeSpan: node.Span,
	}
	r.tree.Declarations[id] = decl
	if len(node.Children) > 0 {
		alias := r.tree.NodeByID(node.Children[0])
		if alias != nil {
			r.global.define(alias.Text, id)
		}
	}
}

// ---- pass 2: resolve references ----

func (r *resolver) resolvePass() {
	root := r.tree.RootNode()
	if root == nil {
		return
	}
	for _, childID := range root.Children {
		child := r.tree.NodeByID(childID)
		if child == nil {
			continue
		}
		switch child.Kind {
		case NodeContractDecl, NodeInterfaceDecl, NodeLibraryDecl:
			r.resolveContractLike(childID)
		}
	}
}

func (r *resolver) resolveContractLike(id NodeID) {
	node := r.tree.NodeByID(id)
	decl := r.tree.Declarations[id]
	memberScope := r.memberScopes[id]
	contractScope := newScope(r.global)

	for i, c := range node.Children {
		if i == 0 {
			continue
		}
		cn := r.tree.NodeByID(c)
		if cn != nil && cn.Kind == NodeIdentifier {
			r.resolveIdentifierAgainst(c, r.global)
			if ann := r.tree.Annotations[c]; ann != nil && ann.ReferencedDeclaration != NoNode {
				decl.Bases = append(decl.Bases, ann.ReferencedDeclaration)
				if baseScope, ok := r.memberScopes[ann.ReferencedDeclaration]; ok {
					for name, declID := range baseScope.names {
						contractScope.define(name, declID)
					}
				}
			}
		}
	}
	for name, declID := range memberScope.names {
		contractScope.define(name, declID)
	}

	for _, memberID := range decl.Members {
		r.resolveMember(memberID, contractScope)
	}
}

func (r *resolver) resolveMember(memberID NodeID, contractScope *scope) {
	node := r.tree.NodeByID(memberID)
	switch node.Kind {
	case NodeStructDecl:
		for _, c := range node.Children {
			cn := r.tree.NodeByID(c)
			if cn != nil && cn.Kind == NodeStateVariableDecl {
				r.resolveTypeRef(cn.Children[0], contractScope)
			}
		}
	case NodeEnumDecl:
		// Enum values carry no further references.
	case NodeEventDecl:
		for _, c := range node.Children {
			cn := r.tree.NodeByID(c)
			if cn != nil && cn.Kind == NodeParameterDecl {
				r.resolveTypeRef(cn.Children[0], contractScope)
			}
		}
	case NodeStateVariableDecl:
		r.resolveTypeRef(node.Children[0], contractScope)
		if len(node.Children) > 2 {
			r.resolveExpr(node.Children[2], newScope(contractScope))
		}
	case NodeModifierDecl, NodeFunctionDecl, NodeConstructorDecl:
		r.resolveCallable(memberID, node, contractScope)
	}
}

func (r *resolver) resolveCallable(memberID NodeID, node *Node, contractScope *scope) {
	bodyScope := newScope(contractScope)
	var bodyID NodeID

	children := node.Children
	if node.Kind != NodeConstructorDecl && len(children) > 0 {
		// children[0] is the callable's own name, already declared —
		// give it a self-referencing annotation for hover/definition
		// on the name token, then resolve the rest normally.
		r.tree.Annotations[children[0]] = &Annotation{ReferencedDeclaration: memberID, ResolvedType: typeOfDeclaration(r.tree.Declarations[memberID])}
		children = children[1:]
	}

	for _, c := range children {
		cn := r.tree.NodeByID(c)
		if cn == nil {
			continue
		}
		switch cn.Kind {
		case NodeParameterDecl:
			r.resolveTypeRef(cn.Children[0], contractScope)
			if nameNode := r.paramName(cn); nameNode != nil {
				bodyScope.define(nameNode.Text, c)
				r.tree.Annotations[nameNode.ID] = &Annotation{ReferencedDeclaration: c, ResolvedType: typeOfDeclaration(r.tree.Declarations[c])}
			}
		case NodeBlockStmt:
			bodyID = c
		case NodeIdentifier, NodeCallExpr:
			// modifier invocation in the function's modifier list
			r.resolveExpr(c, contractScope)
		}
	}
	if bodyID != NoNode {
		r.resolveStmt(bodyID, bodyScope)
	}
}

func (r *resolver) resolveStmt(id NodeID, scope *scope) {
	node := r.tree.NodeByID(id)
	if node == nil {
		return
	}
	switch node.Kind {
	case NodeBlockStmt:
		inner := newScope(scope)
		for _, c := range node.Children {
			r.resolveStmt(c, inner)
		}
	case NodeVarDeclStmt:
		r.resolveTypeRef(node.Children[0], scope)
		nameNode := r.tree.NodeByID(node.Children[1])
		localDecl := &Declaration{
			Node:        node.Children[1],
			Kind:        DeclLocalVariable,
			Name:        nameNode.Text,
			NameSpan:    nameNode.Span,
			HasNameSpan: true,
			WholeSpan:   node.Span,
			ResolvedType: r.typeFromRef(node.Children[0]),
		}
		r.tree.Declarations[node.Children[1]] = localDecl
		scope.define(nameNode.Text, node.Children[1])
		r.tree.Annotations[nameNode.ID] = &Annotation{ReferencedDeclaration: node.Children[1], ResolvedType: localDecl.ResolvedType}
		if len(node.Children) > 2 {
			r.resolveExpr(node.Children[2], scope)
		}
	case NodeIfStmt:
		r.resolveExpr(node.Children[0], scope)
		r.resolveStmt(node.Children[1], scope)
		if len(node.Children) > 2 {
			r.resolveStmt(node.Children[2], scope)
		}
	case NodeForStmt:
		inner := newScope(scope)
		for _, c := range node.Children[:len(node.Children)-1] {
			cn := r.tree.NodeByID(c)
			if cn == nil {
				continue
			}
			if cn.Kind == NodeVarDeclStmt || cn.Kind == NodeExprStmt {
				r.resolveStmt(c, inner)
			} else {
				r.resolveExpr(c, inner)
			}
		}
		r.resolveStmt(node.Children[len(node.Children)-1], inner)
	case NodeWhileStmt:
		r.resolveExpr(node.Children[0], scope)
		r.resolveStmt(node.Children[1], scope)
	case NodeReturnStmt:
		if len(node.Children) > 0 {
			r.resolveExpr(node.Children[0], scope)
		}
	case NodeEmitStmt:
		r.resolveExpr(node.Children[0], scope)
	case NodeExprStmt:
		r.resolveExpr(node.Children[0], scope)
	}
}

// childAt returns node's i-th child, or NoNode if the parser produced
// fewer children than this node kind normally has (error-recovery
// output for a malformed document).
func childAt(node *Node, i int) NodeID {
	if i < 0 || i >= len(node.Children) {
		return NoNode
	}
	return node.Children[i]
}

// childrenFrom returns node's children from index i on, or nil if i is
// out of range.
func childrenFrom(node *Node, i int) []NodeID {
	if i < 0 || i >= len(node.Children) {
		return nil
	}
	return node.Children[i:]
}

// resolveExpr resolves an expression subtree, attaching Annotations to
// every Identifier/IdentifierPath/MemberAccess it visits.
func (r *resolver) resolveExpr(id NodeID, scope *scope) *Type {
	node := r.tree.NodeByID(id)
	if node == nil {
		return nil
	}
	switch node.Kind {
	case NodeIdentifier:
		return r.resolveIdentifierAgainst(id, scope)
	case NodeIdentifierPath:
		return r.resolveIdentifierAgainst(id, scope)
	case NodeMemberAccess:
		return r.resolveMemberAccess(id, scope)
	case NodeCallExpr:
		calleeType := r.resolveExpr(childAt(node, 0), scope)
		for _, arg := range childrenFrom(node, 1) {
			r.resolveExpr(arg, scope)
		}
		return calleeType
	case NodeIndexExpr:
		r.resolveExpr(childAt(node, 0), scope)
		r.resolveExpr(childAt(node, 1), scope)
		return nil
	case NodeBinaryExpr:
		r.resolveExpr(childAt(node, 0), scope)
		r.resolveExpr(childAt(node, 1), scope)
		return &Type{Kind: TypeElementary, Display: "bool"}
	case NodeUnaryExpr:
		return r.resolveExpr(childAt(node, 0), scope)
	case NodeAssignExpr:
		r.resolveLValue(childAt(node, 0), scope)
		r.resolveExpr(childAt(node, 1), scope)
		return nil
	case NodeNewExpr:
		r.resolveTypeRef(childAt(node, 0), scope)
		for _, arg := range childrenFrom(node, 1) {
			r.resolveExpr(arg, scope)
		}
		return r.typeFromRef(childAt(node, 0))
	case NodeLiteral:
		return &Type{Kind: TypeElementary, Display: "literal"}
	}
	return nil
}

// resolveLValue resolves the left side of an assignment and marks it
// as a write for the highlight classifier.
func (r *resolver) resolveLValue(id NodeID, scope *scope) {
	node := r.tree.NodeByID(id)
	if node == nil {
		return
	}
	switch node.Kind {
	case NodeIdentifier:
		r.resolveIdentifierAgainst(id, scope)
	case NodeMemberAccess:
		r.resolveMemberAccess(id, scope)
	default:
		r.resolveExpr(id, scope)
		return
	}
	ann, ok := r.tree.Annotations[id]
	if !ok {
		ann = &Annotation{}
		r.tree.Annotations[id] = ann
	}
	ann.IsWrite = true
}

func (r *resolver) resolveIdentifierAgainst(id NodeID, scope *scope) *Type {
	node := r.tree.NodeByID(id)
	declID, ok := scope.lookup(node.Text)
	if !ok {
		return nil
	}
	decl := r.tree.Declarations[declID]
	t := typeOfDeclaration(decl)
	r.tree.Annotations[id] = &Annotation{ReferencedDeclaration: declID, ResolvedType: t}
	return t
}

// resolveMemberAccess resolves `base.memberName`. Enum-member access
// (`Status.Active`) and member access on a name that directly denotes
// a contract, interface or library (`Lib.helper`) are resolved against
// that declaration's Members; access through a value of contract type
// (`token.balanceOf`) is left unresolved. Struct-field access intentionally stays
// unresolved here — TODO: look up the field among base's struct type
// Members once field shadowing across nested structs is sorted out.
func (r *resolver) resolveMemberAccess(id NodeID, scope *scope) *Type {
	node := r.tree.NodeByID(id)
	if node == nil {
		return nil
	}
	baseType := r.resolveExpr(childAt(node, 0), scope)

	ann := &Annotation{MemberName: node.Text}
	r.tree.Annotations[id] = ann

	baseDeclID := r.declarationOfExpr(childAt(node, 0))
	var containerDecl *Declaration
	if baseDeclID != NoNode {
		d := r.tree.Declarations[baseDeclID]
		if d != nil && (d.Kind == DeclEnum || d.Kind == DeclContract || d.Kind == DeclLibrary || d.Kind == DeclInterface) {
			containerDecl = d
		}
	}
	if containerDecl == nil && baseType != nil && baseType.Decl != NoNode {
		if d := r.tree.Declarations[baseType.Decl]; d != nil && d.Kind == DeclEnum {
			containerDecl = d
		}
	}
	if containerDecl != nil {
		for _, m := range containerDecl.Members {
			md := r.tree.Declarations[m]
			if md != nil && md.Name == node.Text {
				ann.ReferencedDeclaration = m
				ann.ResolvedType = typeOfDeclaration(md)
				return ann.ResolvedType
			}
		}
	}
	return nil
}

// declarationOfExpr reports the Declaration an already-resolved
// Identifier/IdentifierPath node points at, or NoNode.
func (r *resolver) declarationOfExpr(id NodeID) NodeID {
	ann, ok := r.tree.Annotations[id]
	if !ok {
		return NoNode
	}
	return ann.ReferencedDeclaration
}

// resolveTypeRef resolves a type-name node produced by parseTypeName:
// either a builtin NodeTypeName leaf (nothing to resolve) or an
// Identifier/IdentifierPath referring to a struct/enum/contract.
func (r *resolver) resolveTypeRef(id NodeID, scope *scope) {
	node := r.tree.NodeByID(id)
	if node == nil || node.Kind == NodeTypeName {
		return
	}
	r.resolveIdentifierAgainst(id, scope)
}

// typeFromRef returns the Type a (possibly just-resolved) type-name
// node denotes, for use as a declaration's own ResolvedType.
func (r *resolver) typeFromRef(id NodeID) *Type {
	node := r.tree.NodeByID(id)
	if node == nil {
		return nil
	}
	if node.Kind == NodeTypeName {
		return &Type{Kind: TypeElementary, Display: node.Text}
	}
	if ann, ok := r.tree.Annotations[id]; ok && ann.ResolvedType != nil {
		return ann.ResolvedType
	}
	return &Type{Kind: TypeUnknown, Display: node.Text}
}

func declKindForContainer(k NodeKind) DeclKind {
	switch k {
	case NodeInterfaceDecl:
		return DeclInterface
	case NodeLibraryDecl:
		return DeclLibrary
	default:
		return DeclContract
	}
}

func typeOfDeclaration(decl *Declaration) *Type {
	if decl == nil {
		return nil
	}
	if decl.ResolvedType != nil {
		return decl.ResolvedType
	}
	switch decl.Kind {
	case DeclContract:
		return &Type{Kind: TypeContract, Display: decl.Name, Decl: decl.Node}
	case DeclInterface:
		return &Type{Kind: TypeInterface, Display: decl.Name, Decl: decl.Node}
	case DeclLibrary:
		return &Type{Kind: TypeLibrary, Display: decl.Name, Decl: decl.Node}
	case DeclStruct:
		return &Type{Kind: TypeStruct, Display: decl.Name, Decl: decl.Node}
	case DeclEnum:
		return &Type{Kind: TypeEnum, Display: decl.Name, Decl: decl.Node}
	case DeclFunction, DeclModifier, DeclConstructor, DeclEvent:
		return &Type{Kind: TypeFunction, Display: decl.Name}
	default:
		return nil
	}
}
