package lang

// Rule parses a T at the cursor. On failure it reports false and leaves
// the cursor position unchanged.
type Rule[T any] func(*Cursor) (T, bool)

// attempt runs body between a save and a commit, rewinding the cursor if
// body fails.
func attempt[T any](c *Cursor, body func() (T, bool)) (T, bool) {
	c.Save()

	v, ok := body()
	if !ok {
		c.Restore()

		var zero T

		return zero, false
	}

	c.Discard()

	return v, true
}

// Alternate tries each rule in order and returns the first success.
func Alternate[T any](rules ...Rule[T]) Rule[T] {
	return func(c *Cursor) (T, bool) {
		for _, rule := range rules {
			if v, ok := rule(c); ok {
				return v, true
			}
		}

		var zero T

		return zero, false
	}
}

// List applies inner repeatedly with a sep token between applications.
// It always succeeds: a failed first application yields an empty list, and
// a failed application after a separator gives back that separator.
func List[T any](inner Rule[T], sep TokenKind) Rule[[]T] {
	return func(c *Cursor) ([]T, bool) {
		first, ok := inner(c)
		if !ok {
			return []T{}, true
		}

		items := []T{first}

		for {
			next, ok := attempt(c, func() (T, bool) {
				if _, ok := c.match(sep); !ok {
					var zero T

					return zero, false
				}

				return inner(c)
			})
			if !ok {
				return items, true
			}

			items = append(items, next)
		}
	}
}

// Many applies inner until it fails and returns every result.
func Many[T any](inner Rule[T]) Rule[[]T] {
	return func(c *Cursor) ([]T, bool) {
		items := []T{}

		for {
			v, ok := inner(c)
			if !ok {
				return items, true
			}

			items = append(items, v)
		}
	}
}

// Parenthesized matches "(", exactly one application of inner, and ")".
func Parenthesized[T any](inner Rule[T]) Rule[T] {
	return func(c *Cursor) (T, bool) {
		return attempt(c, func() (T, bool) {
			var zero T

			if _, ok := c.match(TokenLeftParen); !ok {
				return zero, false
			}

			v, ok := inner(c)
			if !ok {
				return zero, false
			}

			if _, ok := c.match(TokenRightParen); !ok {
				return zero, false
			}

			return v, true
		})
	}
}

// Terminated matches inner followed by a ";" token.
func Terminated[T any](inner Rule[T]) Rule[T] {
	return func(c *Cursor) (T, bool) {
		return attempt(c, func() (T, bool) {
			v, ok := inner(c)
			if !ok {
				return v, false
			}

			if _, ok := c.match(TokenTerminator); !ok {
				return v, false
			}

			return v, true
		})
	}
}

// Map converts the result of a successful rule.
func Map[T, U any](rule Rule[T], fn func(T) U) Rule[U] {
	return func(c *Cursor) (U, bool) {
		v, ok := rule(c)
		if !ok {
			var zero U

			return zero, false
		}

		return fn(v), true
	}
}

// Grammar is the table of rules for the language.
//
// Each field may be replaced to change how the rules that refer to it
// behave; rules look each other up through the table at parse time.
type Grammar struct {
	Numeric      Rule[*Numeric]
	Ident        Rule[*Identifier]
	Idents       Rule[[]*Identifier]
	DynamicValue Rule[Factor]
	Factor       Rule[Factor]
	Expressions  Rule[[]Expression]
	Term         Rule[Term]
	Expression   Rule[Expression]
	Equation     Rule[*Equation]
	Condition    Rule[*Condition]
	VariableDecl Rule[*VariableDecl]
	Return       Rule[*Return]
	Statement    Rule[Statement]
	Body         Rule[[]Statement]
	FunctionDecl Rule[*FunctionDecl]
	Program      Rule[*Program]
}

// NewGrammar returns the standard rule table.
func NewGrammar() *Grammar {
	g := new(Grammar)

	g.Numeric = g.numeric
	g.Ident = g.ident
	g.Idents = func(c *Cursor) ([]*Identifier, bool) {
		return List[*Identifier](g.Ident, TokenSeparator)(c)
	}
	g.DynamicValue = func(c *Cursor) (Factor, bool) {
		return Alternate[Factor](g.call, g.variable)(c)
	}
	g.Factor = func(c *Cursor) (Factor, bool) {
		return Alternate[Factor](g.group, g.DynamicValue, asFactor(g.Numeric))(c)
	}
	g.Expressions = func(c *Cursor) ([]Expression, bool) {
		return List(g.Expression, TokenSeparator)(c)
	}
	g.Term = g.term
	g.Expression = g.expression
	g.Equation = g.equation
	g.Condition = g.condition
	g.VariableDecl = g.variableDecl
	g.Return = g.ret
	g.Statement = func(c *Cursor) (Statement, bool) {
		return Alternate(
			asStatement(g.FunctionDecl),
			Map(Terminated(g.Expression), func(e Expression) Statement {
				return &ExpressionStatement{Expr: e}
			}),
			asStatement(Terminated(g.VariableDecl)),
			asStatement(Terminated(g.Return)),
		)(c)
	}
	g.Body = func(c *Cursor) ([]Statement, bool) {
		return Many(g.Statement)(c)
	}
	g.FunctionDecl = g.functionDecl
	g.Program = func(c *Cursor) (*Program, bool) {
		body, ok := g.Body(c)
		if !ok {
			return nil, false
		}

		return &Program{Statements: body}, true
	}

	return g
}

func asFactor[T Factor](rule Rule[T]) Rule[Factor] {
	return Map(rule, func(v T) Factor { return v })
}

func asStatement[T Statement](rule Rule[T]) Rule[Statement] {
	return Map(rule, func(v T) Statement { return v })
}

func (g *Grammar) numeric(c *Cursor) (*Numeric, bool) {
	return attempt(c, func() (*Numeric, bool) {
		var sign string

		if tok, ok := c.Peek(0); ok && tok.Kind == TokenOperator &&
			(tok.Text == "+" || tok.Text == "-") {
			sign = tok.Text

			c.Advance(1)
		}

		tok, ok := c.match(TokenNumber)
		if !ok {
			return nil, false
		}

		return &Numeric{
			Sign: sign,
			Text: tok.Text,
			Base: literalBase(tok.Text),
			Pos:  tok.Pos,
		}, true
	})
}

func (g *Grammar) ident(c *Cursor) (*Identifier, bool) {
	tok, ok := c.match(TokenIdentifier)
	if !ok {
		return nil, false
	}

	return &Identifier{Name: tok.Text, Pos: tok.Pos}, true
}

func (g *Grammar) call(c *Cursor) (Factor, bool) {
	return attempt(c, func() (Factor, bool) {
		name, ok := g.Ident(c)
		if !ok {
			return nil, false
		}

		args, ok := Parenthesized(g.Expressions)(c)
		if !ok {
			return nil, false
		}

		return &Call{Name: name, Args: args}, true
	})
}

func (g *Grammar) variable(c *Cursor) (Factor, bool) {
	name, ok := g.Ident(c)
	if !ok {
		return nil, false
	}

	return &Variable{Name: name}, true
}

func (g *Grammar) group(c *Cursor) (Factor, bool) {
	inner, ok := Parenthesized(g.Expression)(c)
	if !ok {
		return nil, false
	}

	return &Group{Inner: inner}, true
}

// term parses Factor [op Term]. Recursing on the right makes the
// multiplicative operators right-associative.
func (g *Grammar) term(c *Cursor) (Term, bool) {
	if !c.enter() {
		return nil, false
	}
	defer c.leave()

	return attempt(c, func() (Term, bool) {
		f, ok := g.Factor(c)
		if !ok {
			return nil, false
		}

		left := &FactorTerm{Factor: f}

		op, ok := g.operator(c, "*", "/", "%")
		if !ok {
			return left, true
		}

		right, ok := g.Term(c)
		if !ok {
			return nil, false
		}

		return &BinaryTerm{Op: op, Left: left, Right: right}, true
	})
}

// expression parses Term [op Expression], right-associative like term.
func (g *Grammar) expression(c *Cursor) (Expression, bool) {
	if !c.enter() {
		return nil, false
	}
	defer c.leave()

	return attempt(c, func() (Expression, bool) {
		t, ok := g.Term(c)
		if !ok {
			return nil, false
		}

		left := &TermExpr{Term: t}

		op, ok := g.operator(c, "+", "-")
		if !ok {
			return left, true
		}

		right, ok := g.Expression(c)
		if !ok {
			return nil, false
		}

		return &BinaryExpr{Op: op, Left: left, Right: right}, true
	})
}

// operator consumes the next token if it is one of the given operators.
func (g *Grammar) operator(c *Cursor, ops ...string) (string, bool) {
	for _, op := range ops {
		if tok, ok := c.matchText(TokenOperator, op); ok {
			return tok.Text, true
		}
	}

	return "", false
}

func (g *Grammar) equation(c *Cursor) (*Equation, bool) {
	return attempt(c, func() (*Equation, bool) {
		name, ok := g.Ident(c)
		if !ok {
			return nil, false
		}

		if _, ok := c.match(TokenAssign); !ok {
			return nil, false
		}

		value, ok := g.Expression(c)
		if !ok {
			return nil, false
		}

		return &Equation{Name: name, Value: value}, true
	})
}

// condition accepts any token between its operands as the comparator.
func (g *Grammar) condition(c *Cursor) (*Condition, bool) {
	return attempt(c, func() (*Condition, bool) {
		left, ok := g.Expression(c)
		if !ok {
			return nil, false
		}

		cmp, ok := c.Advance(1)
		if !ok {
			c.fail(TokenComparator.String())

			return nil, false
		}

		right, ok := g.Expression(c)
		if !ok {
			return nil, false
		}

		return &Condition{Left: left, Comparator: cmp.Text, Right: right}, true
	})
}

func (g *Grammar) variableDecl(c *Cursor) (*VariableDecl, bool) {
	return attempt(c, func() (*VariableDecl, bool) {
		var mod Modifier

		if _, ok := c.match(TokenLet); ok {
			mod = ModLet
		} else if _, ok := c.match(TokenConst); ok {
			mod = ModConst
		} else {
			return nil, false
		}

		eq, ok := g.Equation(c)
		if !ok {
			return nil, false
		}

		return &VariableDecl{Modifier: mod, Equation: eq}, true
	})
}

func (g *Grammar) ret(c *Cursor) (*Return, bool) {
	return attempt(c, func() (*Return, bool) {
		if _, ok := c.match(TokenReturn); !ok {
			return nil, false
		}

		value, ok := g.Expression(c)
		if !ok {
			return nil, false
		}

		return &Return{Value: value}, true
	})
}

func (g *Grammar) functionDecl(c *Cursor) (*FunctionDecl, bool) {
	if !c.enter() {
		return nil, false
	}
	defer c.leave()

	return attempt(c, func() (*FunctionDecl, bool) {
		if _, ok := c.match(TokenFunc); !ok {
			return nil, false
		}

		name, ok := g.Ident(c)
		if !ok {
			return nil, false
		}

		params, ok := Parenthesized(g.Idents)(c)
		if !ok {
			return nil, false
		}

		if _, ok := c.match(TokenLeftBrace); !ok {
			return nil, false
		}

		body, ok := g.Body(c)
		if !ok {
			return nil, false
		}

		if _, ok := c.match(TokenRightBrace); !ok {
			return nil, false
		}

		return &FunctionDecl{Name: name, Params: params, Body: body}, true
	})
}
