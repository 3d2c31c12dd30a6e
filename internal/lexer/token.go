// Package lexer provides a lossless token/trivia lexer for the contract
// language's source text.
package lexer

import (
	"fmt"

	"github.com/w84us/solidity/internal/text"
)

// TokenKind identifies the syntactic category of a token.
type TokenKind uint16

// TokenKind values used by the contract-language lexer.
const (
	TokenError TokenKind = iota
	TokenEOF
	TokenIdentifier
	TokenIntLiteral
	TokenFloatLiteral
	TokenHexLiteral
	TokenStringLiteral

	TokenKwPragma
	TokenKwImport
	TokenKwAs
	TokenKwFrom
	TokenKwContract
	TokenKwInterface
	TokenKwLibrary
	TokenKwIs
	TokenKwFunction
	TokenKwConstructor
	TokenKwModifier
	TokenKwEvent
	TokenKwStruct
	TokenKwEnum
	TokenKwMapping
	TokenKwReturns
	TokenKwReturn
	TokenKwIf
	TokenKwElse
	TokenKwFor
	TokenKwWhile
	TokenKwDo
	TokenKwBreak
	TokenKwContinue
	TokenKwNew
	TokenKwEmit
	TokenKwPublic
	TokenKwPrivate
	TokenKwInternal
	TokenKwExternal
	TokenKwView
	TokenKwPure
	TokenKwPayable
	TokenKwMemory
	TokenKwStorage
	TokenKwCalldata
	TokenKwIndexed
	TokenKwConstant
	TokenKwImmutable
	TokenKwOverride
	TokenKwVirtual
	TokenKwTrue
	TokenKwFalse

	TokenKwUint
	TokenKwInt
	TokenKwBool
	TokenKwAddress
	TokenKwString
	TokenKwBytes

	TokenLBrace
	TokenRBrace
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLAngle
	TokenRAngle
	TokenComma
	TokenSemi
	TokenColon
	TokenEqual
	TokenEqualEqual
	TokenBangEqual
	TokenDot
	TokenArrow
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenAmpAmp
	TokenPipePipe
	TokenBang
)

func (k TokenKind) String() string {
	switch k {
	case TokenError:
		return "Error"
	case TokenEOF:
		return "EOF"
	case TokenIdentifier:
		return "Identifier"
	case TokenIntLiteral:
		return "IntLiteral"
	case TokenFloatLiteral:
		return "FloatLiteral"
	case TokenHexLiteral:
		return "HexLiteral"
	case TokenStringLiteral:
		return "StringLiteral"
	case TokenKwPragma:
		return "KwPragma"
	case TokenKwImport:
		return "KwImport"
	case TokenKwAs:
		return "KwAs"
	case TokenKwFrom:
		return "KwFrom"
	case TokenKwContract:
		return "KwContract"
	case TokenKwInterface:
		return "KwInterface"
	case TokenKwLibrary:
		return "KwLibrary"
	case TokenKwIs:
		return "KwIs"
	case TokenKwFunction:
		return "KwFunction"
	case TokenKwConstructor:
		return "KwConstructor"
	case TokenKwModifier:
		return "KwModifier"
	case TokenKwEvent:
		return "KwEvent"
	case TokenKwStruct:
		return "KwStruct"
	case TokenKwEnum:
		return "KwEnum"
	case TokenKwMapping:
		return "KwMapping"
	case TokenKwReturns:
		return "KwReturns"
	case TokenKwReturn:
		return "KwReturn"
	case TokenKwIf:
		return "KwIf"
	case TokenKwElse:
		return "KwElse"
	case TokenKwFor:
		return "KwFor"
	case TokenKwWhile:
		return "KwWhile"
	case TokenKwDo:
		return "KwDo"
	case TokenKwBreak:
		return "KwBreak"
	case TokenKwContinue:
		return "KwContinue"
	case TokenKwNew:
		return "KwNew"
	case TokenKwEmit:
		return "KwEmit"
	case TokenKwPublic:
		return "KwPublic"
	case TokenKwPrivate:
		return "KwPrivate"
	case TokenKwInternal:
		return "KwInternal"
	case TokenKwExternal:
		return "KwExternal"
	case TokenKwView:
		return "KwView"
	case TokenKwPure:
		return "KwPure"
	case TokenKwPayable:
		return "KwPayable"
	case TokenKwMemory:
		return "KwMemory"
	case TokenKwStorage:
		return "KwStorage"
	case TokenKwCalldata:
		return "KwCalldata"
	case TokenKwIndexed:
		return "KwIndexed"
	case TokenKwConstant:
		return "KwConstant"
	case TokenKwImmutable:
		return "KwImmutable"
	case TokenKwOverride:
		return "KwOverride"
	case TokenKwVirtual:
		return "KwVirtual"
	case TokenKwTrue:
		return "KwTrue"
	case TokenKwFalse:
		return "KwFalse"
	case TokenKwUint:
		return "KwUint"
	case TokenKwInt:
		return "KwInt"
	case TokenKwBool:
		return "KwBool"
	case TokenKwAddress:
		return "KwAddress"
	case TokenKwString:
		return "KwString"
	case TokenKwBytes:
		return "KwBytes"
	case TokenLBrace:
		return "LBrace"
	case TokenRBrace:
		return "RBrace"
	case TokenLParen:
		return "LParen"
	case TokenRParen:
		return "RParen"
	case TokenLBracket:
		return "LBracket"
	case TokenRBracket:
		return "RBracket"
	case TokenLAngle:
		return "LAngle"
	case TokenRAngle:
		return "RAngle"
	case TokenComma:
		return "Comma"
	case TokenSemi:
		return "Semi"
	case TokenColon:
		return "Colon"
	case TokenEqual:
		return "Equal"
	case TokenEqualEqual:
		return "EqualEqual"
	case TokenBangEqual:
		return "BangEqual"
	case TokenDot:
		return "Dot"
	case TokenArrow:
		return "Arrow"
	case TokenPlus:
		return "Plus"
	case TokenMinus:
		return "Minus"
	case TokenStar:
		return "Star"
	case TokenSlash:
		return "Slash"
	case TokenPercent:
		return "Percent"
	case TokenAmpAmp:
		return "AmpAmp"
	case TokenPipePipe:
		return "PipePipe"
	case TokenBang:
		return "Bang"
	default:
		return fmt.Sprintf("TokenKind(%d)", k)
	}
}

// TokenFlags carry metadata about the token source or origin.
type TokenFlags uint8

// TokenFlags values describe token provenance or recovery state.
const (
	TokenFlagMalformed TokenFlags = 1 << iota
	TokenFlagSynthesized
	TokenFlagRecovered
)

// Has reports whether all bits in mask are set.
func (f TokenFlags) Has(mask TokenFlags) bool {
	return f&mask == mask
}

// Token is a lexed token with a source span and leading trivia.
type Token struct {
	Kind    TokenKind
	Span    text.Span
	Leading []Trivia
	Flags   TokenFlags
}

// Bytes returns the token bytes referenced by Span or nil if Span is invalid for src.
func (t Token) Bytes(src []byte) []byte {
	return bytesForSpan(src, t.Span)
}

// IsBuiltinType reports whether k names one of the language's primitive
// value types (uint/int/bool/address/string/bytes).
func (k TokenKind) IsBuiltinType() bool {
	switch k {
	case TokenKwUint, TokenKwInt, TokenKwBool, TokenKwAddress, TokenKwString, TokenKwBytes:
		return true
	default:
		return false
	}
}

var keywordKinds = map[string]TokenKind{
	"pragma":      TokenKwPragma,
	"import":      TokenKwImport,
	"as":          TokenKwAs,
	"from":        TokenKwFrom,
	"contract":    TokenKwContract,
	"interface":   TokenKwInterface,
	"library":     TokenKwLibrary,
	"is":          TokenKwIs,
	"function":    TokenKwFunction,
	"constructor": TokenKwConstructor,
	"modifier":    TokenKwModifier,
	"event":       TokenKwEvent,
	"struct":      TokenKwStruct,
	"enum":        TokenKwEnum,
	"mapping":     TokenKwMapping,
	"returns":     TokenKwReturns,
	"return":      TokenKwReturn,
	"if":          TokenKwIf,
	"else":        TokenKwElse,
	"for":         TokenKwFor,
	"while":       TokenKwWhile,
	"do":          TokenKwDo,
	"break":       TokenKwBreak,
	"continue":    TokenKwContinue,
	"new":         TokenKwNew,
	"emit":        TokenKwEmit,
	"public":      TokenKwPublic,
	"private":     TokenKwPrivate,
	"internal":    TokenKwInternal,
	"external":    TokenKwExternal,
	"view":        TokenKwView,
	"pure":        TokenKwPure,
	"payable":     TokenKwPayable,
	"memory":      TokenKwMemory,
	"storage":     TokenKwStorage,
	"calldata":    TokenKwCalldata,
	"indexed":     TokenKwIndexed,
	"constant":    TokenKwConstant,
	"immutable":   TokenKwImmutable,
	"override":    TokenKwOverride,
	"virtual":     TokenKwVirtual,
	"true":        TokenKwTrue,
	"false":       TokenKwFalse,
	"uint":        TokenKwUint,
	"int":         TokenKwInt,
	"bool":        TokenKwBool,
	"address":     TokenKwAddress,
	"string":      TokenKwString,
	"bytes":       TokenKwBytes,
}

func bytesForSpan(src []byte, sp text.Span) []byte {
	if !sp.IsValid() {
		return nil
	}
	if sp.End > text.ByteOffset(len(src)) {
		return nil
	}
	return src[sp.Start:sp.End]
}
