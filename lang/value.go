package lang

import (
	"context"
	"strconv"
	"strings"
)

// Value is a runtime value: a [Number], a [Text], or a [Function].
type Value interface {
	String() string
	value()
}

// Number is a floating-point value.
type Number float64

// Text is a string value. No expression produces one, but hosts may bind
// them.
type Text string

// Function is a callable value.
type Function interface {
	Value

	// Invoke calls the function from the caller scope with evaluated
	// arguments. A nil Value means the function produced no value.
	Invoke(ctx context.Context, ev *Evaluator, caller *Scope, args []Value) (Value, error)

	// Describe returns a human-readable descriptor.
	Describe() string
}

func (Number) value() {}
func (Text) value()   {}

// String formats the number in the shortest form that round-trips.
func (n Number) String() string { return formatNumber(float64(n)) }

// String returns the text quoted.
func (t Text) String() string { return strconv.Quote(string(t)) }

// Declared is a function declared in source.
type Declared struct {
	Decl *FunctionDecl
}

// NewDeclared returns the function value for decl.
func NewDeclared(decl *FunctionDecl) *Declared {
	return &Declared{Decl: decl}
}

func (*Declared) value() {}

// Describe returns "func <name>".
func (d *Declared) Describe() string { return "func " + d.Decl.Name.Name }

// String returns the function signature.
func (d *Declared) String() string {
	params := make([]string, len(d.Decl.Params))
	for i, p := range d.Decl.Params {
		params[i] = p.Name
	}

	return d.Describe() + "(" + strings.Join(params, ", ") + ")"
}

// Invoke binds args to parameters in a new scope whose parent is caller and
// runs the body. Missing arguments leave their parameters undeclared; extra
// arguments are ignored.
func (d *Declared) Invoke(
	ctx context.Context,
	ev *Evaluator,
	caller *Scope,
	args []Value,
) (Value, error) {
	if err := ev.enter(d.Decl.Name.Pos); err != nil {
		return nil, err
	}
	defer ev.leave()

	scope := NewScope(caller)

	for i, param := range d.Decl.Params {
		if i >= len(args) {
			break
		}

		if err := scope.Declare(param.Name, Binding{Modifier: ModLet, Value: args[i]}); err != nil {
			return nil, err
		}
	}

	return ev.execBody(ctx, d.Decl.Body, scope)
}

// NativeFunc is the host callback behind a [Native] function.
type NativeFunc func(ctx context.Context, caller *Scope, args []Value) (Value, error)

// Native is a function implemented by the host.
type Native struct {
	Name string
	Fn   NativeFunc
}

// NewNative returns a native function value.
func NewNative(name string, fn NativeFunc) *Native {
	return &Native{Name: name, Fn: fn}
}

func (*Native) value() {}

// Describe returns "[native <name>]".
func (n *Native) Describe() string { return "[native " + n.Name + "]" }

// String returns the descriptor.
func (n *Native) String() string { return n.Describe() }

// Invoke calls the host callback.
func (n *Native) Invoke(
	ctx context.Context,
	ev *Evaluator,
	caller *Scope,
	args []Value,
) (Value, error) {
	if err := ev.enter(Position{}); err != nil {
		return nil, err
	}
	defer ev.leave()

	return n.Fn(ctx, caller, args)
}

// Binding is a value and its mutability.
type Binding struct {
	Modifier Modifier
	Value    Value
}

// Let returns a mutable binding.
func Let(v Value) Binding { return Binding{Modifier: ModLet, Value: v} }

// Const returns a constant binding.
func Const(v Value) Binding { return Binding{Modifier: ModConst, Value: v} }
