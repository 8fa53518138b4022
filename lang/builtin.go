package lang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
)

// unary returns a native function of one number.
func unary(name string, fn func(float64) float64) *Native {
	return NewNative(name, func(_ context.Context, _ *Scope, args []Value) (Value, error) {
		x, err := numbers(name, args, 1, 1)
		if err != nil {
			return nil, err
		}

		return Number(fn(x[0])), nil
	})
}

// binary returns a native function of two numbers.
func binary(name string, fn func(float64, float64) float64) *Native {
	return NewNative(name, func(_ context.Context, _ *Scope, args []Value) (Value, error) {
		x, err := numbers(name, args, 2, 2)
		if err != nil {
			return nil, err
		}

		return Number(fn(x[0], x[1])), nil
	})
}

// fold returns a native function reducing one or more numbers.
func fold(name string, fn func(float64, float64) float64) *Native {
	return NewNative(name, func(_ context.Context, _ *Scope, args []Value) (Value, error) {
		x, err := numbers(name, args, 1, -1)
		if err != nil {
			return nil, err
		}

		acc := x[0]
		for _, v := range x[1:] {
			acc = fn(acc, v)
		}

		return Number(acc), nil
	})
}

// Builtins returns the standard native functions, keyed by name.
// print writes its arguments to w separated by spaces.
func Builtins(w io.Writer) map[string]*Native {
	natives := []*Native{
		unary("sqrt", math.Sqrt),
		unary("abs", math.Abs),
		unary("floor", math.Floor),
		unary("ceil", math.Ceil),
		unary("round", math.Round),
		binary("pow", math.Pow),
		binary("hypot", math.Hypot),
		fold("min", math.Min),
		fold("max", math.Max),
		NewNative("print", func(_ context.Context, _ *Scope, args []Value) (Value, error) {
			s := make([]string, len(args))
			for i, arg := range args {
				s[i] = arg.String()
			}

			_, err := fmt.Fprintln(w, strings.Join(s, " "))

			return nil, err
		}),
	}

	m := make(map[string]*Native, len(natives))
	for _, n := range natives {
		m[n.Name] = n
	}

	return m
}

// DeclareBuiltins binds every builtin as a const in scope.
func DeclareBuiltins(scope *Scope, w io.Writer) error {
	builtins := Builtins(w)

	for _, name := range sortedKeys(builtins) {
		if err := scope.Declare(name, Const(builtins[name])); err != nil {
			return err
		}
	}

	return nil
}

// numbers checks that args holds between lo and hi numbers (hi < 0 means
// no upper bound) and returns them.
func numbers(name string, args []Value, lo, hi int) ([]float64, error) {
	if len(args) < lo || (hi >= 0 && len(args) > hi) {
		return nil, ErrArgumentCount.With(
			slog.String("name", name),
			slog.Int("min", lo),
			slog.Int("max", hi),
			slog.Int("got", len(args)),
		)
	}

	x := make([]float64, len(args))

	for i, arg := range args {
		n, ok := arg.(Number)
		if !ok {
			return nil, ErrTypeMismatch.With(
				slog.String("name", name),
				slog.Int("arg", i),
				slog.String("want", "number"),
				slog.String("got", typeName(arg)),
			)
		}

		x[i] = float64(n)
	}

	return x, nil
}
