package syntax

import "fmt"

func kindName(k NodeKind) string {
	switch k {
	case NodeInvalid:
		return "Invalid"
	case NodeSourceUnit:
		return "SourceUnit"
	case NodePragmaDirective:
		return "PragmaDirective"
	case NodeImportDirective:
		return "ImportDirective"
	case NodeContractDecl:
		return "ContractDecl"
	case NodeInterfaceDecl:
		return "InterfaceDecl"
	case NodeLibraryDecl:
		return "LibraryDecl"
	case NodeFunctionDecl:
		return "FunctionDecl"
	case NodeConstructorDecl:
		return "ConstructorDecl"
	case NodeModifierDecl:
		return "ModifierDecl"
	case NodeEventDecl:
		return "EventDecl"
	case NodeStructDecl:
		return "StructDecl"
	case NodeEnumDecl:
		return "EnumDecl"
	case NodeEnumValueDecl:
		return "EnumValueDecl"
	case NodeStateVariableDecl:
		return "StateVariableDecl"
	case NodeParameterDecl:
		return "ParameterDecl"
	case NodeLocalVariableDecl:
		return "LocalVariableDecl"
	case NodeBlockStmt:
		return "BlockStmt"
	case NodeIfStmt:
		return "IfStmt"
	case NodeForStmt:
		return "ForStmt"
	case NodeWhileStmt:
		return "WhileStmt"
	case NodeReturnStmt:
		return "ReturnStmt"
	case NodeEmitStmt:
		return "EmitStmt"
	case NodeExprStmt:
		return "ExprStmt"
	case NodeVarDeclStmt:
		return "VarDeclStmt"
	case NodeIdentifier:
		return "Identifier"
	case NodeIdentifierPath:
		return "IdentifierPath"
	case NodeMemberAccess:
		return "MemberAccess"
	case NodeCallExpr:
		return "CallExpr"
	case NodeIndexExpr:
		return "IndexExpr"
	case NodeLiteral:
		return "Literal"
	case NodeBinaryExpr:
		return "BinaryExpr"
	case NodeUnaryExpr:
		return "UnaryExpr"
	case NodeAssignExpr:
		return "AssignExpr"
	case NodeNewExpr:
		return "NewExpr"
	case NodeTypeName:
		return "TypeName"
	case NodeErrorNode:
		return "ErrorNode"
	default:
		return fmt.Sprintf("NodeKind(%d)", uint16(k))
	}
}
