package lang

import (
	"strconv"
)

// TokenKind classifies a token.
type TokenKind int

const (
	TokenTerminator   TokenKind = iota // ;
	TokenSeparator                     // ,
	TokenFunc                          // func
	TokenReturn                        // ret
	TokenIf                            // if
	TokenElse                          // else
	TokenFor                           // for
	TokenWhile                         // while
	TokenConst                         // const
	TokenLet                           // let
	TokenLeftParen                     // (
	TokenRightParen                    // )
	TokenLeftBrace                     // {
	TokenRightBrace                    // }
	TokenLeftBracket                   // [
	TokenRightBracket                  // ]
	TokenOperator                      // arithmetic operator
	TokenAssign                        // =
	TokenComparator                    // comparator
	TokenNumber                        // number literal
	TokenString                        // string literal
	TokenIdentifier                    // identifier
)

// String returns a string representation of the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenTerminator:
		return ";"
	case TokenSeparator:
		return ","
	case TokenFunc:
		return "func"
	case TokenReturn:
		return "ret"
	case TokenIf:
		return "if"
	case TokenElse:
		return "else"
	case TokenFor:
		return "for"
	case TokenWhile:
		return "while"
	case TokenConst:
		return "const"
	case TokenLet:
		return "let"
	case TokenLeftParen:
		return "("
	case TokenRightParen:
		return ")"
	case TokenLeftBrace:
		return "{"
	case TokenRightBrace:
		return "}"
	case TokenLeftBracket:
		return "["
	case TokenRightBracket:
		return "]"
	case TokenOperator:
		return "operator"
	case TokenAssign:
		return "="
	case TokenComparator:
		return "comparator"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenIdentifier:
		return "identifier"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// IsKeyword reports whether k is one of the reserved words.
func (k TokenKind) IsKeyword() bool {
	return k >= TokenFunc && k <= TokenLet
}

// keywords maps each reserved word to its token kind.
var keywords = map[string]TokenKind{
	"func":  TokenFunc,
	"ret":   TokenReturn,
	"if":    TokenIf,
	"else":  TokenElse,
	"for":   TokenFor,
	"while": TokenWhile,
	"const": TokenConst,
	"let":   TokenLet,
}

// Keywords returns the reserved words of the language.
func Keywords() []string {
	return sortedKeys(keywords)
}

// Position identifies a location in source text.
// Line and Column are 1-based; Offset is a 0-based byte offset.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a classified slice of source text.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Position
}

// String returns the token text.
func (t Token) String() string { return t.Text }
