package lang

import (
	"errors"
	"log/slog"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Base is the notation of a numeric literal.
type Base int

const (
	// BaseDecimal is a decimal integer or float literal.
	BaseDecimal Base = iota

	// BaseHex is a 0x-prefixed hexadecimal literal.
	BaseHex

	// BaseBinary is a 0b-prefixed binary literal.
	BaseBinary
)

// String returns a string representation of the base.
func (b Base) String() string {
	switch b {
	case BaseDecimal:
		return "decimal"
	case BaseHex:
		return "hex"
	case BaseBinary:
		return "binary"
	default:
		return "Base(" + strconv.Itoa(int(b)) + ")"
	}
}

// Modifier is the mutability of a binding.
type Modifier int

const (
	// ModLet bindings may be redeclared.
	ModLet Modifier = iota

	// ModConst bindings reject redeclaration in the same scope.
	ModConst
)

// String returns the keyword that introduces the modifier.
func (m Modifier) String() string {
	switch m {
	case ModLet:
		return "let"
	case ModConst:
		return "const"
	default:
		return "Modifier(" + strconv.Itoa(int(m)) + ")"
	}
}

// Program is a sequence of statements, run as the body of a function with
// no parameters.
type Program struct {
	Statements []Statement
}

// Statement is one of [*FunctionDecl], [*VariableDecl],
// [*ExpressionStatement], or [*Return].
type Statement interface {
	statement()
}

// Expression is one of [*TermExpr] or [*BinaryExpr].
type Expression interface {
	expression()
}

// Term is one of [*FactorTerm] or [*BinaryTerm].
type Term interface {
	term()
}

// Factor is one of [*Group], [*Variable], [*Call], or [*Numeric].
type Factor interface {
	factor()
}

// Identifier is a name and where it appeared.
type Identifier struct {
	Name string
	Pos  Position
}

// Numeric is a number literal with an optional sign.
// The text is converted only when evaluated.
type Numeric struct {
	Sign string // "", "+", or "-"
	Text string
	Base Base
	Pos  Position
}

// Group is a parenthesized expression.
type Group struct {
	Inner Expression
}

// Variable is a reference to a number binding.
type Variable struct {
	Name *Identifier
}

// Call is a function call.
type Call struct {
	Name *Identifier
	Args []Expression
}

// FactorTerm is a term consisting of a single factor.
type FactorTerm struct {
	Factor Factor
}

// BinaryTerm applies a multiplicative operator (*, /, %).
type BinaryTerm struct {
	Op    string
	Left  Term
	Right Term
}

// TermExpr is an expression consisting of a single term.
type TermExpr struct {
	Term Term
}

// BinaryExpr applies an additive operator (+, -).
type BinaryExpr struct {
	Op    string
	Left  Expression
	Right Expression
}

// Equation is "name = expression".
type Equation struct {
	Name  *Identifier
	Value Expression
}

// Condition is "expression comparator expression".
// No statement or expression produces it.
type Condition struct {
	Left       Expression
	Comparator string
	Right      Expression
}

// VariableDecl is a let or const declaration.
type VariableDecl struct {
	Modifier Modifier
	Equation *Equation
}

// FunctionDecl declares a named function.
type FunctionDecl struct {
	Name   *Identifier
	Params []*Identifier
	Body   []Statement
}

// ExpressionStatement is an expression evaluated for its side effects.
type ExpressionStatement struct {
	Expr Expression
}

// Return ends the enclosing function with a value.
type Return struct {
	Value Expression
}

func (*FunctionDecl) statement()        {}
func (*VariableDecl) statement()        {}
func (*ExpressionStatement) statement() {}
func (*Return) statement()              {}

func (*TermExpr) expression()   {}
func (*BinaryExpr) expression() {}

func (*FactorTerm) term() {}
func (*BinaryTerm) term() {}

func (*Group) factor()    {}
func (*Variable) factor() {}
func (*Call) factor()     {}
func (*Numeric) factor()  {}

// literalBase classifies the text of a number token.
func literalBase(text string) Base {
	switch {
	case strings.HasPrefix(text, "0x"):
		return BaseHex
	case strings.HasPrefix(text, "0b"):
		return BaseBinary
	default:
		return BaseDecimal
	}
}

// Float converts the literal to a number, applying its sign.
func (n *Numeric) Float() (float64, error) {
	var (
		f   float64
		err error
	)

	switch n.Base {
	case BaseHex:
		f, err = parseInteger(strings.TrimPrefix(n.Text, "0x"), 16)

	case BaseBinary:
		f, err = parseInteger(strings.TrimPrefix(n.Text, "0b"), 2)

	default:
		f, err = strconv.ParseFloat(decimalPrefix(n.Text), 64)
	}

	if err != nil && !isRangeError(err) {
		return math.NaN(), ErrInvalidNumber.Wrap(err).
			WithPosition(n.Pos).
			With(slog.String("value", n.Sign+n.Text))
	}

	if n.Sign == "-" {
		return -f, nil
	}

	return f, nil
}

// String returns the literal as written.
func (n *Numeric) String() string { return n.Sign + n.Text }

// parseInteger converts digits of any length to the nearest float64.
func parseInteger(digits string, base int) (float64, error) {
	i, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return math.NaN(), &strconv.NumError{
			Func: "parseInteger",
			Num:  digits,
			Err:  strconv.ErrSyntax,
		}
	}

	f, _ := new(big.Float).SetInt(i).Float64()

	return f, nil
}

// decimalPrefix truncates text before its second '.', leaving the longest
// prefix that can be a float: "1.2.3" is read as 1.2.
func decimalPrefix(text string) string {
	i := strings.IndexByte(text, '.')
	if i < 0 {
		return text
	}

	if j := strings.IndexByte(text[i+1:], '.'); j >= 0 {
		return text[:i+1+j]
	}

	return text
}

func isRangeError(err error) bool {
	var ne *strconv.NumError

	return errors.As(err, &ne) && ne.Err == strconv.ErrRange
}
