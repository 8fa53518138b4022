package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/acs/lang"
)

// Run executes programs from source files or stdin.
type Run struct {
	Define     []string `help:"Declare a constant NAME from an expr-lang expression." placeholder:"NAME=EXPR" short:"D"`
	NoBuiltins bool     `help:"Do not declare the native function library."`

	Sources []string `arg:"" help:"Source file(s), or '-' for stdin." name:"source" optional:""`
}

// Run parses every source and then executes them in order against a shared
// scope, so functions and variables declared by one source are visible to
// the sources after it. The value returned by each source is printed.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env := envFrom(ctx)

	root, err := r.rootScope(ctx, env)
	if err != nil {
		return err
	}

	progs, err := env.parseSources(ctx, r.Sources)
	if err != nil {
		return err
	}

	session := lang.NewScope(root)
	ev := lang.NewEvaluator(env.options()...)

	for i, prog := range progs {
		result, err := ev.Exec(ctx, prog, session)
		if err != nil {
			return withSuggestions(err, session)
		}

		env.Logger.DebugContext(ctx, "program complete",
			slog.Int("index", i),
			slog.Bool("result", result != nil),
		)

		if result != nil {
			fmt.Fprintln(env.Stdout, result)
		}
	}

	return nil
}

// rootScope builds the scope holding builtins and command-line defines.
func (r *Run) rootScope(ctx context.Context, env *Env) (*lang.Scope, error) {
	return newRootScope(ctx, env.Stdout, r.Define, r.NoBuiltins)
}

// newRootScope declares the builtins, printing to w, and then each define.
func newRootScope(
	ctx context.Context,
	w io.Writer,
	defines []string,
	noBuiltins bool,
) (*lang.Scope, error) {
	root := lang.NewScope(nil)

	if !noBuiltins {
		if err := lang.DeclareBuiltins(root, w); err != nil {
			return nil, err
		}
	}

	if err := declareDefines(ctx, root, defines); err != nil {
		return nil, err
	}

	return root, nil
}
