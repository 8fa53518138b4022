package lang

import (
	"context"
	"log/slog"
	"math"
)

// Evaluator walks a program against a scope.
// An Evaluator tracks nesting depth and must not be shared between
// goroutines.
type Evaluator struct {
	opts  options
	depth int
}

// NewEvaluator returns an Evaluator configured by opts.
func NewEvaluator(opts ...Option) *Evaluator {
	return &Evaluator{opts: makeOptions(opts...)}
}

// Run runs prog as the body of a function with no parameters called from
// root. Declarations land in a new child scope of root; a nil root is
// replaced with an empty scope. The result is nil if no return statement
// was reached.
func (ev *Evaluator) Run(ctx context.Context, prog *Program, root *Scope) (Value, error) {
	if root == nil {
		root = NewScope(nil)
	}

	entry := NewDeclared(&FunctionDecl{
		Name: &Identifier{Name: "main"},
		Body: prog.Statements,
	})

	ev.opts.logger.TraceContext(ctx, "run start",
		slog.Int("statement_count", len(prog.Statements)))

	result, err := entry.Invoke(ctx, ev, root, nil)
	if err != nil {
		return nil, err
	}

	ev.opts.logger.TraceContext(ctx, "run complete",
		slog.String("type", resultTypeName(result)))

	return result, nil
}

// Exec runs the statements of prog directly in scope, so declarations
// remain visible to later calls with the same scope.
func (ev *Evaluator) Exec(ctx context.Context, prog *Program, scope *Scope) (Value, error) {
	return ev.execBody(ctx, prog.Statements, scope)
}

// EvalExpression evaluates e in scope.
func (ev *Evaluator) EvalExpression(
	ctx context.Context,
	e Expression,
	scope *Scope,
) (Number, error) {
	f, err := ev.evalExpression(ctx, e, scope)

	return Number(f), err
}

// EvalValue evaluates e in scope like [Evaluator.EvalExpression], except
// that if e is a bare call, the function result is returned as is. A bare
// call to a function that produces no value yields a nil Value.
func (ev *Evaluator) EvalValue(ctx context.Context, e Expression, scope *Scope) (Value, error) {
	if call, ok := bareCall(e); ok {
		return ev.invoke(ctx, call, scope)
	}

	n, err := ev.EvalExpression(ctx, e, scope)
	if err != nil {
		return nil, err
	}

	return n, nil
}

// execBody runs statements in order until one returns.
func (ev *Evaluator) execBody(
	ctx context.Context,
	body []Statement,
	scope *Scope,
) (Value, error) {
	for _, stmt := range body {
		result, done, err := ev.execStatement(ctx, stmt, scope)
		if err != nil {
			return nil, err
		}

		if done {
			return result, nil
		}
	}

	return nil, nil
}

func (ev *Evaluator) execStatement(
	ctx context.Context,
	stmt Statement,
	scope *Scope,
) (Value, bool, error) {
	switch s := stmt.(type) {
	case *Return:
		f, err := ev.evalExpression(ctx, s.Value, scope)
		if err != nil {
			return nil, false, err
		}

		return Number(f), true, nil

	case *ExpressionStatement:
		// A bare call may produce no value.
		if call, ok := bareCall(s.Expr); ok {
			_, err := ev.invoke(ctx, call, scope)

			return nil, false, err
		}

		_, err := ev.evalExpression(ctx, s.Expr, scope)

		return nil, false, err

	case *VariableDecl:
		f, err := ev.evalExpression(ctx, s.Equation.Value, scope)
		if err != nil {
			return nil, false, err
		}

		b := Binding{Modifier: s.Modifier, Value: Number(f)}
		if err := scope.Declare(s.Equation.Name.Name, b); err != nil {
			return nil, false, positioned(err, s.Equation.Name.Pos)
		}

		ev.opts.logger.TraceContext(ctx, "declare",
			slog.String("name", s.Equation.Name.Name),
			slog.String("modifier", s.Modifier.String()),
			slog.Float64("value", f),
		)

		return nil, false, nil

	case *FunctionDecl:
		if err := scope.Declare(s.Name.Name, Const(NewDeclared(s))); err != nil {
			return nil, false, positioned(err, s.Name.Pos)
		}

		return nil, false, nil

	default:
		return nil, false, ErrTypeMismatch.With(
			slog.String("statement", resultTypeName(stmt)))
	}
}

func (ev *Evaluator) evalExpression(
	ctx context.Context,
	e Expression,
	scope *Scope,
) (float64, error) {
	if err := ev.enter(Position{}); err != nil {
		return 0, err
	}
	defer ev.leave()

	switch e := e.(type) {
	case *TermExpr:
		return ev.evalTerm(ctx, e.Term, scope)

	case *BinaryExpr:
		left, err := ev.evalExpression(ctx, e.Left, scope)
		if err != nil {
			return 0, err
		}

		right, err := ev.evalExpression(ctx, e.Right, scope)
		if err != nil {
			return 0, err
		}

		switch e.Op {
		case "+":
			return left + right, nil
		case "-":
			return left - right, nil
		}

		return 0, ErrInvalidOperator.With(slog.String("operator", e.Op))

	default:
		return 0, ErrTypeMismatch.With(
			slog.String("expression", resultTypeName(e)))
	}
}

func (ev *Evaluator) evalTerm(ctx context.Context, t Term, scope *Scope) (float64, error) {
	switch t := t.(type) {
	case *FactorTerm:
		return ev.evalFactor(ctx, t.Factor, scope)

	case *BinaryTerm:
		if err := ev.enter(Position{}); err != nil {
			return 0, err
		}
		defer ev.leave()

		left, err := ev.evalTerm(ctx, t.Left, scope)
		if err != nil {
			return 0, err
		}

		right, err := ev.evalTerm(ctx, t.Right, scope)
		if err != nil {
			return 0, err
		}

		switch t.Op {
		case "*":
			return left * right, nil
		case "/":
			return left / right, nil
		case "%":
			return math.Mod(left, right), nil
		}

		return 0, ErrInvalidOperator.With(slog.String("operator", t.Op))

	default:
		return 0, ErrTypeMismatch.With(slog.String("term", resultTypeName(t)))
	}
}

func (ev *Evaluator) evalFactor(ctx context.Context, f Factor, scope *Scope) (float64, error) {
	switch f := f.(type) {
	case *Group:
		return ev.evalExpression(ctx, f.Inner, scope)

	case *Numeric:
		return f.Float()

	case *Variable:
		b, ok := scope.Lookup(f.Name.Name)
		if !ok {
			return 0, ErrUndefinedVariable.
				With(slog.String("name", f.Name.Name)).
				WithPosition(f.Name.Pos)
		}

		n, ok := b.Value.(Number)
		if !ok {
			return 0, ErrTypeMismatch.
				With(
					slog.String("name", f.Name.Name),
					slog.String("want", "number"),
					slog.String("got", typeName(b.Value)),
				).
				WithPosition(f.Name.Pos)
		}

		return float64(n), nil

	case *Call:
		result, err := ev.invoke(ctx, f, scope)
		if err != nil {
			return 0, err
		}

		if result == nil {
			return 0, ErrVoidResult.
				With(slog.String("name", f.Name.Name)).
				WithPosition(f.Name.Pos)
		}

		n, ok := result.(Number)
		if !ok {
			return 0, ErrTypeMismatch.
				With(
					slog.String("name", f.Name.Name),
					slog.String("want", "number"),
					slog.String("got", typeName(result)),
				).
				WithPosition(f.Name.Pos)
		}

		return float64(n), nil

	default:
		return 0, ErrTypeMismatch.With(slog.String("factor", resultTypeName(f)))
	}
}

// invoke resolves and calls the function named by call from scope.
func (ev *Evaluator) invoke(ctx context.Context, call *Call, scope *Scope) (Value, error) {
	name := call.Name.Name

	b, ok := scope.Lookup(name)
	if !ok {
		return nil, ErrUndefinedVariable.
			With(slog.String("name", name)).
			WithPosition(call.Name.Pos)
	}

	fn, ok := b.Value.(Function)
	if !ok {
		return nil, ErrTypeMismatch.
			With(
				slog.String("name", name),
				slog.String("want", "function"),
				slog.String("got", typeName(b.Value)),
			).
			WithPosition(call.Name.Pos)
	}

	args := make([]Value, len(call.Args))

	for i, arg := range call.Args {
		f, err := ev.evalExpression(ctx, arg, scope)
		if err != nil {
			return nil, err
		}

		args[i] = Number(f)
	}

	ev.opts.logger.TraceContext(ctx, "call",
		slog.String("function", fn.Describe()),
		slog.Int("arg_count", len(args)),
		slog.Int("depth", ev.depth),
	)

	return fn.Invoke(ctx, ev, scope, args)
}

// enter counts one level of nesting against the depth limit.
func (ev *Evaluator) enter(pos Position) error {
	if ev.opts.maxDepth > 0 && ev.depth >= ev.opts.maxDepth {
		err := ErrMaxDepthExceeded.With(slog.Int("max_depth", ev.opts.maxDepth))
		if pos.Line > 0 {
			err = err.WithPosition(pos)
		}

		return err
	}

	ev.depth++

	return nil
}

func (ev *Evaluator) leave() { ev.depth-- }

// bareCall reports whether e is nothing but a function call.
func bareCall(e Expression) (*Call, bool) {
	te, ok := e.(*TermExpr)
	if !ok {
		return nil, false
	}

	ft, ok := te.Term.(*FactorTerm)
	if !ok {
		return nil, false
	}

	call, ok := ft.Factor.(*Call)

	return call, ok
}

// typeName names the variant of v for error messages.
func typeName(v Value) string {
	switch v.(type) {
	case Number:
		return "number"
	case Text:
		return "string"
	case Function:
		return "function"
	default:
		return "none"
	}
}

// positioned attaches pos to err if it is an [*Error].
func positioned(err error, pos Position) error {
	if e, ok := err.(*Error); ok {
		return e.WithPosition(pos)
	}

	return err
}
