package syntax

import (
	"fmt"

	"github.com/w84us/solidity/internal/lexer"
	"github.com/w84us/solidity/internal/text"
)

// Parse lexes and parses src into an arena Tree. The returned Tree has
// no Declarations or Annotations yet — those are filled in by Resolve,
// a separate pass the Compile Gate runs immediately after Parse so
// every Tree it hands out is already name-resolved.
func Parse(uri string, version int32, src []byte) *Tree {
	lexResult := lexer.Lex(src)

	p := &parser{
		src:  src,
		toks: lexResult.Tokens,
	}
	for _, d := range lexResult.Diagnostics {
		p.diags = append(p.diags, Diagnostic{
			Code:     DiagnosticLexError,
			Message:  d.Message,
			Severity: SeverityError,
			Span:     d.Span,
		})
	}

	p.newNode(NodeInvalid, text.Span{}, "") // index 0: NoNode sentinel

	root := p.parseSourceUnit()

	return &Tree{
		URI:          uri,
		Version:      version,
		Source:       src,
		Tokens:       lexResult.Tokens,
		Nodes:        p.nodes,
		Root:         root,
		Declarations: map[NodeID]*Declaration{},
		Annotations:  map[NodeID]*Annotation{},
		Diagnostics:  p.diags,
		LineIndex:    text.NewLineIndex(src),
	}
}

type parser struct {
	src   []byte
	toks  []lexer.Token
	pos   int
	nodes []Node
	diags []Diagnostic
}

func (p *parser) newNode(kind NodeKind, span text.Span, txt string, children ...NodeID) NodeID {
	id := NodeID(len(p.nodes))
	p.nodes = append(p.nodes, Node{
		ID:       id,
		Kind:     kind,
		Span:     span,
		Text:     txt,
		Children: children,
	})
	for _, c := range children {
		if c != NoNode {
			p.nodes[c].Parent = id
		}
	}
	return id
}

func (p *parser) node(id NodeID) *Node { return &p.nodes[id] }

func (p *parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *parser) check(k lexer.TokenKind) bool { return p.cur().Kind == k }

func (p *parser) atEOF() bool { return p.cur().Kind == lexer.TokenEOF }

func (p *parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) tokenText(tok lexer.Token) string { return string(tok.Bytes(p.src)) }

// lastConsumed returns the span of the most recently consumed token,
// used after a helper like parseArgs leaves p.pos one past the token
// that should end the enclosing node's span.
func (p *parser) lastConsumed() text.Span {
	idx := p.pos - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p.toks) {
		idx = len(p.toks) - 1
	}
	return p.toks[idx].Span
}

// expect consumes a token of kind k, or records a diagnostic and
// returns the current token unconsumed.
func (p *parser) expect(k lexer.TokenKind) (lexer.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	p.errorf(p.cur().Span, "expected %s, found %s", k, p.cur().Kind)
	return p.cur(), false
}

func (p *parser) errorf(span text.Span, format string, args ...any) {
	p.diags = append(p.diags, Diagnostic{
		Code:     DiagnosticSyntaxError,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
		Span:     span,
	})
}

// synchronize skips tokens until one of the given kinds, or EOF. Used
// for lightweight error recovery between top-level declarations so one
// malformed declaration doesn't swallow the rest of the file.
func (p *parser) synchronize(until ...lexer.TokenKind) {
	for !p.atEOF() {
		for _, k := range until {
			if p.check(k) {
				return
			}
		}
		p.advance()
	}
}

// ---- source unit ----

func (p *parser) parseSourceUnit() NodeID {
	start := p.cur().Span
	var children []NodeID

	for !p.atEOF() {
		switch p.cur().Kind {
		case lexer.TokenKwPragma:
			children = append(children, p.parsePragma())
		case lexer.TokenKwImport:
			children = append(children, p.parseImport())
		case lexer.TokenKwContract, lexer.TokenKwInterface, lexer.TokenKwLibrary:
			children = append(children, p.parseContractLike())
		default:
			p.errorf(p.cur().Span, "expected pragma, import, contract, interface or library, found %s", p.cur().Kind)
			p.synchronize(lexer.TokenKwPragma, lexer.TokenKwImport, lexer.TokenKwContract, lexer.TokenKwInterface, lexer.TokenKwLibrary)
		}
	}

	end := p.cur().Span
	return p.newNode(NodeSourceUnit, text.Span{Start: start.Start, End: end.End}, "", children...)
}

func (p *parser) parsePragma() NodeID {
	start := p.advance().Span // 'pragma'
	for !p.check(lexer.TokenSemi) && !p.atEOF() {
		p.advance()
	}
	end := p.cur().Span
	if p.check(lexer.TokenSemi) {
		p.advance()
	}
	return p.newNode(NodePragmaDirective, text.Span{Start: start.Start, End: end.End}, "")
}

func (p *parser) parseImport() NodeID {
	start := p.advance().Span // 'import'
	pathTok, _ := p.expect(lexer.TokenStringLiteral)
	pathText := p.tokenText(pathTok)

	var aliasNode NodeID
	if p.check(lexer.TokenKwAs) {
		p.advance()
		nameTok, ok := p.expect(lexer.TokenIdentifier)
		if ok {
			aliasNode = p.newNode(NodeIdentifier, nameTok.Span, p.tokenText(nameTok))
		}
	}

	end := p.cur().Span
	if p.check(lexer.TokenSemi) {
		p.advance()
	}

	var children []NodeID
	if aliasNode != NoNode {
		children = append(children, aliasNode)
	}
	return p.newNode(NodeImportDirective, text.Span{Start: start.Start, End: end.End}, pathText, children...)
}

// ---- contract / interface / library ----

func (p *parser) parseContractLike() NodeID {
	kwTok := p.advance()
	kind := NodeContractDecl
	switch kwTok.Kind {
	case lexer.TokenKwInterface:
		kind = NodeInterfaceDecl
	case lexer.TokenKwLibrary:
		kind = NodeLibraryDecl
	}

	nameTok, _ := p.expect(lexer.TokenIdentifier)
	nameNode := p.newNode(NodeIdentifier, nameTok.Span, p.tokenText(nameTok))

	var bases []NodeID
	if p.check(lexer.TokenKwIs) {
		p.advance()
		for {
			baseTok, ok := p.expect(lexer.TokenIdentifier)
			if ok {
				bases = append(bases, p.newNode(NodeIdentifier, baseTok.Span, p.tokenText(baseTok)))
			}
			if p.check(lexer.TokenComma) {
				p.advance()
				continue
			}
			break
		}
	}

	p.expect(lexer.TokenLBrace)
	var members []NodeID
	for !p.check(lexer.TokenRBrace) && !p.atEOF() {
		members = append(members, p.parseMember())
	}
	endTok := p.cur()
	if p.check(lexer.TokenRBrace) {
		p.advance()
	}

	children := append([]NodeID{nameNode}, bases...)
	children = append(children, members...)
	return p.newNode(kind, text.Span{Start: kwTok.Span.Start, End: endTok.Span.End}, "", children...)
}

func (p *parser) parseMember() NodeID {
	switch p.cur().Kind {
	case lexer.TokenKwStruct:
		return p.parseStruct()
	case lexer.TokenKwEnum:
		return p.parseEnum()
	case lexer.TokenKwEvent:
		return p.parseEvent()
	case lexer.TokenKwModifier:
		return p.parseModifier()
	case lexer.TokenKwConstructor:
		return p.parseConstructor()
	case lexer.TokenKwFunction:
		return p.parseFunction()
	default:
		if p.looksLikeTypeStart() {
			return p.parseStateVariable()
		}
		p.errorf(p.cur().Span, "unexpected token %s in contract body", p.cur().Kind)
		start := p.cur().Span
		p.advance()
		return p.newNode(NodeErrorNode, start, "")
	}
}

func (p *parser) looksLikeTypeStart() bool {
	return p.cur().Kind.IsBuiltinType() || p.cur().Kind == lexer.TokenKwMapping || p.check(lexer.TokenIdentifier)
}

func (p *parser) parseStruct() NodeID {
	start := p.advance().Span // 'struct'
	nameTok, _ := p.expect(lexer.TokenIdentifier)
	nameNode := p.newNode(NodeIdentifier, nameTok.Span, p.tokenText(nameTok))

	p.expect(lexer.TokenLBrace)
	var fields []NodeID
	for !p.check(lexer.TokenRBrace) && !p.atEOF() {
		fields = append(fields, p.parseFieldDecl())
	}
	end := p.cur().Span
	if p.check(lexer.TokenRBrace) {
		p.advance()
	}

	children := append([]NodeID{nameNode}, fields...)
	return p.newNode(NodeStructDecl, text.Span{Start: start.Start, End: end.End}, "", children...)
}

func (p *parser) parseFieldDecl() NodeID {
	typeNode, typeText := p.parseTypeName()
	nameTok, _ := p.expect(lexer.TokenIdentifier)
	nameNode := p.newNode(NodeIdentifier, nameTok.Span, p.tokenText(nameTok))
	end := p.cur().Span
	if p.check(lexer.TokenSemi) {
		p.advance()
	}
	start := p.node(typeNode).Span
	return p.newNode(NodeStateVariableDecl, text.Span{Start: start.Start, End: end.End}, typeText, typeNode, nameNode)
}

func (p *parser) parseEnum() NodeID {
	start := p.advance().Span // 'enum'
	nameTok, _ := p.expect(lexer.TokenIdentifier)
	nameNode := p.newNode(NodeIdentifier, nameTok.Span, p.tokenText(nameTok))

	p.expect(lexer.TokenLBrace)
	var values []NodeID
	for !p.check(lexer.TokenRBrace) && !p.atEOF() {
		valTok, ok := p.expect(lexer.TokenIdentifier)
		if ok {
			values = append(values, p.newNode(NodeEnumValueDecl, valTok.Span, p.tokenText(valTok)))
		}
		if p.check(lexer.TokenComma) {
			p.advance()
			continue
		}
		break
	}
	end := p.cur().Span
	if p.check(lexer.TokenRBrace) {
		p.advance()
	}

	children := append([]NodeID{nameNode}, values...)
	return p.newNode(NodeEnumDecl, text.Span{Start: start.Start, End: end.End}, "", children...)
}

func (p *parser) parseStateVariable() NodeID {
	typeNode, typeText := p.parseTypeName()
	// Optional visibility/mutability keywords between type and name.
	for p.isStateVarModifierKeyword(p.cur().Kind) {
		p.advance()
	}
	nameTok, _ := p.expect(lexer.TokenIdentifier)
	nameNode := p.newNode(NodeIdentifier, nameTok.Span, p.tokenText(nameTok))

	var initExpr NodeID
	if p.check(lexer.TokenEqual) {
		p.advance()
		initExpr = p.parseExpr()
	}

	end := p.cur().Span
	if p.check(lexer.TokenSemi) {
		p.advance()
	}

	start := p.node(typeNode).Span
	children := []NodeID{typeNode, nameNode}
	if initExpr != NoNode {
		children = append(children, initExpr)
	}
	return p.newNode(NodeStateVariableDecl, text.Span{Start: start.Start, End: end.End}, typeText, children...)
}

func (p *parser) isStateVarModifierKeyword(k lexer.TokenKind) bool {
	switch k {
	case lexer.TokenKwPublic, lexer.TokenKwPrivate, lexer.TokenKwInternal, lexer.TokenKwExternal,
		lexer.TokenKwConstant, lexer.TokenKwImmutable:
		return true
	default:
		return false
	}
}

func (p *parser) parseEvent() NodeID {
	start := p.advance().Span // 'event'
	nameTok, _ := p.expect(lexer.TokenIdentifier)
	nameNode := p.newNode(NodeIdentifier, nameTok.Span, p.tokenText(nameTok))

	params := p.parseParameterList(true)

	end := p.cur().Span
	if p.check(lexer.TokenSemi) {
		p.advance()
	}

	children := append([]NodeID{nameNode}, params...)
	return p.newNode(NodeEventDecl, text.Span{Start: start.Start, End: end.End}, "", children...)
}

func (p *parser) parseModifier() NodeID {
	start := p.advance().Span // 'modifier'
	nameTok, _ := p.expect(lexer.TokenIdentifier)
	nameNode := p.newNode(NodeIdentifier, nameTok.Span, p.tokenText(nameTok))

	var params []NodeID
	if p.check(lexer.TokenLParen) {
		params = p.parseParameterList(false)
	}

	body := p.parseBlock()
	children := append([]NodeID{nameNode}, params...)
	children = append(children, body)
	return p.newNode(NodeModifierDecl, text.Span{Start: start.Start, End: p.node(body).Span.End}, "", children...)
}

func (p *parser) parseConstructor() NodeID {
	start := p.advance().Span // 'constructor'
	params := p.parseParameterList(false)
	modifiers := p.parseFunctionModifierList()
	body := p.parseBlock()

	children := append(append([]NodeID{}, params...), modifiers...)
	children = append(children, body)
	return p.newNode(NodeConstructorDecl, text.Span{Start: start.Start, End: p.node(body).Span.End}, "", children...)
}

func (p *parser) parseFunction() NodeID {
	start := p.advance().Span // 'function'
	nameTok, _ := p.expect(lexer.TokenIdentifier)
	nameNode := p.newNode(NodeIdentifier, nameTok.Span, p.tokenText(nameTok))

	params := p.parseParameterList(false)
	modifiers := p.parseFunctionModifierList()

	var returns []NodeID
	if p.check(lexer.TokenKwReturns) {
		p.advance()
		returns = p.parseParameterList(true)
	}

	var body NodeID
	end := p.cur().Span
	if p.check(lexer.TokenLBrace) {
		body = p.parseBlock()
		end = p.node(body).Span
	} else if p.check(lexer.TokenSemi) {
		end = p.cur().Span
		p.advance()
	}

	children := []NodeID{nameNode}
	children = append(children, params...)
	children = append(children, modifiers...)
	children = append(children, returns...)
	if body != NoNode {
		children = append(children, body)
	}
	return p.newNode(NodeFunctionDecl, text.Span{Start: start.Start, End: end.End}, "", children...)
}

// parseFunctionModifierList consumes visibility/mutability keywords and
// modifier-invocation identifiers between a parameter list and the
// function's `returns` clause or body.
func (p *parser) parseFunctionModifierList() []NodeID {
	var out []NodeID
	for {
		switch p.cur().Kind {
		case lexer.TokenKwPublic, lexer.TokenKwPrivate, lexer.TokenKwInternal, lexer.TokenKwExternal,
			lexer.TokenKwView, lexer.TokenKwPure, lexer.TokenKwPayable,
			lexer.TokenKwVirtual, lexer.TokenKwOverride:
			p.advance()
		case lexer.TokenIdentifier:
			tok := p.advance()
			ref := p.newNode(NodeIdentifier, tok.Span, p.tokenText(tok))
			out = append(out, p.parsePostfix(ref))
		default:
			return out
		}
	}
}

// parseParameterList parses a parenthesized, comma-separated list of
// `TypeName [dataLocation] [name]`. When namesOptional is false, a
// missing name is a diagnostic but parsing still recovers.
func (p *parser) parseParameterList(namesOptional bool) []NodeID {
	p.expect(lexer.TokenLParen)
	var params []NodeID
	for !p.check(lexer.TokenRParen) && !p.atEOF() {
		typeNode, typeText := p.parseTypeName()
		if p.isDataLocationKeyword(p.cur().Kind) {
			p.advance()
		}

		var nameNode NodeID
		start := p.node(typeNode).Span
		end := start
		if p.check(lexer.TokenIdentifier) || p.check(lexer.TokenKwFrom) {
			nameTok := p.advance()
			nameNode = p.newNode(NodeIdentifier, nameTok.Span, p.tokenText(nameTok))
			end = nameTok.Span
		} else if !namesOptional {
			p.errorf(p.cur().Span, "expected parameter name")
		}

		children := []NodeID{typeNode}
		if nameNode != NoNode {
			children = append(children, nameNode)
		}
		params = append(params, p.newNode(NodeParameterDecl, text.Span{Start: start.Start, End: end.End}, typeText, children...))

		if p.check(lexer.TokenComma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.TokenRParen)
	return params
}

func (p *parser) isDataLocationKeyword(k lexer.TokenKind) bool {
	switch k {
	case lexer.TokenKwMemory, lexer.TokenKwStorage, lexer.TokenKwCalldata:
		return true
	default:
		return false
	}
}

// parseTypeName parses a builtin elementary type or a user-defined type
// reference. A user-defined reference is represented directly as an
// Identifier (or IdentifierPath, if dotted) node: it is annotated during
// Resolve exactly like any other name reference, so hovering or
// go-to-definition on a type name works without a separate wrapper
// variant.
func (p *parser) parseTypeName() (NodeID, string) {
	if p.cur().Kind == lexer.TokenKwMapping {
		return p.parseMappingType()
	}
	if p.cur().Kind.IsBuiltinType() || p.isSizedBuiltinIdentifier() {
		tok := p.advance()
		txt := p.tokenText(tok)
		span := tok.Span
		for p.check(lexer.TokenLBracket) {
			p.advance()
			p.expect(lexer.TokenRBracket)
			txt += "[]"
			span.End = p.lastConsumed().End
		}
		return p.newNode(NodeTypeName, span, txt), txt
	}
	if p.check(lexer.TokenIdentifier) {
		node := p.parseIdentifierPathOrIdentifier()
		txt := p.node(node).Text
		for p.check(lexer.TokenLBracket) {
			p.advance()
			p.expect(lexer.TokenRBracket)
			txt += "[]"
		}
		return node, txt
	}
	p.errorf(p.cur().Span, "expected a type name, found %s", p.cur().Kind)
	span := p.cur().Span
	return p.newNode(NodeErrorNode, span, ""), "<error>"
}

// isSizedBuiltinIdentifier reports whether the current token is an
// identifier spelling a sized elementary type this lexer tokenizes as a
// plain identifier (uint256, bytes32, int8, ...) because the keyword
// table only recognizes the bare type-family names.
func (p *parser) isSizedBuiltinIdentifier() bool {
	if !p.check(lexer.TokenIdentifier) {
		return false
	}
	name := p.tokenText(p.cur())
	for _, prefix := range []string{"uint", "int", "bytes"} {
		if len(name) > len(prefix) && name[:len(prefix)] == prefix && isAllDigits(name[len(prefix):]) {
			return true
		}
	}
	return false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (p *parser) parseMappingType() (NodeID, string) {
	start := p.advance().Span // 'mapping'
	p.expect(lexer.TokenLParen)
	depth := 1
	for depth > 0 && !p.atEOF() {
		switch p.cur().Kind {
		case lexer.TokenLParen:
			depth++
		case lexer.TokenRParen:
			depth--
		}
		if depth == 0 {
			break
		}
		p.advance()
	}
	end := p.cur().Span
	p.expect(lexer.TokenRParen)
	return p.newNode(NodeTypeName, text.Span{Start: start.Start, End: end.End}, "mapping"), "mapping"
}

// parseIdentifierPathOrIdentifier reads a dotted name. A single segment
// yields a plain Identifier node; two or more segments yield an
// IdentifierPath node whose Text is the full dotted spelling.
func (p *parser) parseIdentifierPathOrIdentifier() NodeID {
	first, _ := p.expect(lexer.TokenIdentifier)
	if !p.check(lexer.TokenDot) {
		return p.newNode(NodeIdentifier, first.Span, p.tokenText(first))
	}

	full := p.tokenText(first)
	end := first.Span
	for p.check(lexer.TokenDot) {
		p.advance()
		seg, ok := p.expect(lexer.TokenIdentifier)
		if !ok {
			break
		}
		full += "." + p.tokenText(seg)
		end = seg.Span
	}
	return p.newNode(NodeIdentifierPath, text.Span{Start: first.Span.Start, End: end.End}, full)
}

// ---- statements ----

func (p *parser) parseBlock() NodeID {
	start := p.cur().Span
	p.expect(lexer.TokenLBrace)
	var stmts []NodeID
	for !p.check(lexer.TokenRBrace) && !p.atEOF() {
		stmts = append(stmts, p.parseStmt())
	}
	end := p.cur().Span
	if p.check(lexer.TokenRBrace) {
		p.advance()
	}
	return p.newNode(NodeBlockStmt, text.Span{Start: start.Start, End: end.End}, "", stmts...)
}

func (p *parser) parseStmt() NodeID {
	switch p.cur().Kind {
	case lexer.TokenLBrace:
		return p.parseBlock()
	case lexer.TokenKwIf:
		return p.parseIfStmt()
	case lexer.TokenKwFor:
		return p.parseForStmt()
	case lexer.TokenKwWhile:
		return p.parseWhileStmt()
	case lexer.TokenKwReturn:
		return p.parseReturnStmt()
	case lexer.TokenKwEmit:
		return p.parseEmitStmt()
	default:
		if p.looksLikeLocalVarDecl() {
			return p.parseVarDeclStmt()
		}
		return p.parseExprStmt()
	}
}

// looksLikeLocalVarDecl reports whether the upcoming tokens spell a
// local variable declaration (`TypeName [dataLocation] name ...`)
// rather than an expression statement. A builtin type keyword is
// unambiguous; a bare identifier is a declaration only when followed
// by a data-location keyword or a second identifier (the variable's
// name) before any operator.
func (p *parser) looksLikeLocalVarDecl() bool {
	if p.cur().Kind.IsBuiltinType() || p.cur().Kind == lexer.TokenKwMapping || p.isSizedBuiltinIdentifier() {
		return true
	}
	if !p.check(lexer.TokenIdentifier) {
		return false
	}
	next := p.peekKind(1)
	return next == lexer.TokenIdentifier || p.isDataLocationKeyword(next)
}

func (p *parser) peekKind(delta int) lexer.TokenKind {
	idx := p.pos + delta
	if idx >= len(p.toks) {
		return lexer.TokenEOF
	}
	return p.toks[idx].Kind
}

func (p *parser) parseVarDeclStmt() NodeID {
	typeNode, typeText := p.parseTypeName()
	if p.isDataLocationKeyword(p.cur().Kind) {
		p.advance()
	}
	nameTok, _ := p.expect(lexer.TokenIdentifier)
	nameNode := p.newNode(NodeIdentifier, nameTok.Span, p.tokenText(nameTok))

	var initExpr NodeID
	if p.check(lexer.TokenEqual) {
		p.advance()
		initExpr = p.parseExpr()
	}

	end := p.cur().Span
	if p.check(lexer.TokenSemi) {
		p.advance()
	}
	start := p.node(typeNode).Span
	children := []NodeID{typeNode, nameNode}
	if initExpr != NoNode {
		children = append(children, initExpr)
	}
	return p.newNode(NodeVarDeclStmt, text.Span{Start: start.Start, End: end.End}, typeText, children...)
}

func (p *parser) parseExprStmt() NodeID {
	start := p.cur().Span
	expr := p.parseExpr()
	end := p.node(expr).Span
	if p.check(lexer.TokenSemi) {
		end = p.cur().Span
		p.advance()
	}
	return p.newNode(NodeExprStmt, text.Span{Start: start.Start, End: end.End}, "", expr)
}

func (p *parser) parseIfStmt() NodeID {
	start := p.advance().Span // 'if'
	p.expect(lexer.TokenLParen)
	cond := p.parseExpr()
	p.expect(lexer.TokenRParen)
	then := p.parseStmt()

	children := []NodeID{cond, then}
	end := p.node(then).Span
	if p.check(lexer.TokenKwElse) {
		p.advance()
		elseStmt := p.parseStmt()
		children = append(children, elseStmt)
		end = p.node(elseStmt).Span
	}
	return p.newNode(NodeIfStmt, text.Span{Start: start.Start, End: end.End}, "", children...)
}

func (p *parser) parseForStmt() NodeID {
	start := p.advance().Span // 'for'
	p.expect(lexer.TokenLParen)

	var children []NodeID
	if !p.check(lexer.TokenSemi) {
		if p.looksLikeLocalVarDecl() {
			children = append(children, p.parseVarDeclStmt())
		} else {
			children = append(children, p.parseExprStmt())
		}
	} else {
		p.advance()
	}

	if !p.check(lexer.TokenSemi) {
		children = append(children, p.parseExpr())
	}
	if p.check(lexer.TokenSemi) {
		p.advance()
	}

	if !p.check(lexer.TokenRParen) {
		children = append(children, p.parseExpr())
	}
	p.expect(lexer.TokenRParen)

	body := p.parseStmt()
	children = append(children, body)
	return p.newNode(NodeForStmt, text.Span{Start: start.Start, End: p.node(body).Span.End}, "", children...)
}

func (p *parser) parseWhileStmt() NodeID {
	start := p.advance().Span // 'while'
	p.expect(lexer.TokenLParen)
	cond := p.parseExpr()
	p.expect(lexer.TokenRParen)
	body := p.parseStmt()
	return p.newNode(NodeWhileStmt, text.Span{Start: start.Start, End: p.node(body).Span.End}, "", cond, body)
}

func (p *parser) parseReturnStmt() NodeID {
	start := p.advance().Span // 'return'
	var children []NodeID
	end := start
	if !p.check(lexer.TokenSemi) {
		expr := p.parseExpr()
		children = append(children, expr)
		end = p.node(expr).Span
	}
	if p.check(lexer.TokenSemi) {
		end = p.cur().Span
		p.advance()
	}
	return p.newNode(NodeReturnStmt, text.Span{Start: start.Start, End: end.End}, "", children...)
}

func (p *parser) parseEmitStmt() NodeID {
	start := p.advance().Span // 'emit'
	expr := p.parseExpr()
	end := p.node(expr).Span
	if p.check(lexer.TokenSemi) {
		end = p.cur().Span
		p.advance()
	}
	return p.newNode(NodeEmitStmt, text.Span{Start: start.Start, End: end.End}, "", expr)
}

// ---- expressions ----

func (p *parser) parseExpr() NodeID { return p.parseAssignment() }

func (p *parser) parseAssignment() NodeID {
	left := p.parseLogicalOr()
	if p.check(lexer.TokenEqual) {
		p.advance()
		right := p.parseAssignment()
		span := text.Span{Start: p.node(left).Span.Start, End: p.node(right).Span.End}
		return p.newNode(NodeAssignExpr, span, "=", left, right)
	}
	return left
}

func (p *parser) parseLogicalOr() NodeID {
	left := p.parseLogicalAnd()
	for p.check(lexer.TokenPipePipe) {
		op := p.advance()
		right := p.parseLogicalAnd()
		left = p.newBinary(left, right, p.tokenText(op))
	}
	return left
}

func (p *parser) parseLogicalAnd() NodeID {
	left := p.parseEquality()
	for p.check(lexer.TokenAmpAmp) {
		op := p.advance()
		right := p.parseEquality()
		left = p.newBinary(left, right, p.tokenText(op))
	}
	return left
}

func (p *parser) parseEquality() NodeID {
	left := p.parseAdditive()
	for p.check(lexer.TokenEqualEqual) || p.check(lexer.TokenBangEqual) || p.check(lexer.TokenLAngle) || p.check(lexer.TokenRAngle) {
		op := p.advance()
		right := p.parseAdditive()
		left = p.newBinary(left, right, p.tokenText(op))
	}
	return left
}

func (p *parser) parseAdditive() NodeID {
	left := p.parseMultiplicative()
	for p.check(lexer.TokenPlus) || p.check(lexer.TokenMinus) {
		op := p.advance()
		right := p.parseMultiplicative()
		left = p.newBinary(left, right, p.tokenText(op))
	}
	return left
}

func (p *parser) parseMultiplicative() NodeID {
	left := p.parseUnary()
	for p.check(lexer.TokenStar) || p.check(lexer.TokenSlash) || p.check(lexer.TokenPercent) {
		op := p.advance()
		right := p.parseUnary()
		left = p.newBinary(left, right, p.tokenText(op))
	}
	return left
}

func (p *parser) newBinary(left, right NodeID, op string) NodeID {
	span := text.Span{Start: p.node(left).Span.Start, End: p.node(right).Span.End}
	return p.newNode(NodeBinaryExpr, span, op, left, right)
}

func (p *parser) parseUnary() NodeID {
	if p.check(lexer.TokenBang) || p.check(lexer.TokenMinus) {
		op := p.advance()
		operand := p.parseUnary()
		span := text.Span{Start: op.Span.Start, End: p.node(operand).Span.End}
		return p.newNode(NodeUnaryExpr, span, p.tokenText(op), operand)
	}
	return p.parsePostfix(p.parsePrimary())
}

// parsePostfix wraps base in zero or more call/member/index operations,
// so it can be reused both for ordinary expressions and for modifier
// invocations (which start from an already-built Identifier node).
func (p *parser) parsePostfix(base NodeID) NodeID {
	for {
		switch p.cur().Kind {
		case lexer.TokenDot:
			p.advance()
			memberTok, _ := p.expect(lexer.TokenIdentifier)
			span := text.Span{Start: p.node(base).Span.Start, End: memberTok.Span.End}
			base = p.newNode(NodeMemberAccess, span, p.tokenText(memberTok), base)
		case lexer.TokenLParen:
			args := p.parseArgs()
			end := p.lastConsumed().End
			children := append([]NodeID{base}, args...)
			base = p.newNode(NodeCallExpr, text.Span{Start: p.node(base).Span.Start, End: end}, "", children...)
		case lexer.TokenLBracket:
			p.advance()
			idx := p.parseExpr()
			end := p.cur().Span
			p.expect(lexer.TokenRBracket)
			base = p.newNode(NodeIndexExpr, text.Span{Start: p.node(base).Span.Start, End: end.End}, "", base, idx)
		default:
			return base
		}
	}
}

func (p *parser) parseArgs() []NodeID {
	p.expect(lexer.TokenLParen)
	var args []NodeID
	for !p.check(lexer.TokenRParen) && !p.atEOF() {
		args = append(args, p.parseExpr())
		if p.check(lexer.TokenComma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.TokenRParen)
	return args
}

func (p *parser) parsePrimary() NodeID {
	tok := p.cur()
	switch tok.Kind {
	case lexer.TokenIdentifier:
		p.advance()
		return p.newNode(NodeIdentifier, tok.Span, p.tokenText(tok))
	case lexer.TokenIntLiteral, lexer.TokenFloatLiteral, lexer.TokenHexLiteral, lexer.TokenStringLiteral,
		lexer.TokenKwTrue, lexer.TokenKwFalse:
		p.advance()
		return p.newNode(NodeLiteral, tok.Span, p.tokenText(tok))
	case lexer.TokenLParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(lexer.TokenRParen)
		return inner
	case lexer.TokenKwNew:
		p.advance()
		typeNode, typeText := p.parseTypeName()
		args := p.parseArgs()
		end := p.lastConsumed().End
		children := append([]NodeID{typeNode}, args...)
		return p.newNode(NodeNewExpr, text.Span{Start: tok.Span.Start, End: end}, typeText, children...)
	default:
		p.errorf(tok.Span, "expected expression, found %s", tok.Kind)
		p.advance()
		return p.newNode(NodeErrorNode, tok.Span, "")
	}
}
