package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/ardnew/acs/lang"
)

// declareDefines declares each "name=expression" definition as a const
// number in scope. Expressions use the expr-lang syntax and may refer to
// names defined earlier in defs.
func declareDefines(ctx context.Context, scope *lang.Scope, defs []string) error {
	env := make(map[string]any, len(defs))

	for _, def := range defs {
		name, value, err := evalDefine(ctx, def, env)
		if err != nil {
			return err
		}

		if err := scope.Declare(name, lang.Const(lang.Number(value))); err != nil {
			return ErrDefine.With(slog.String("define", def)).Wrap(err)
		}

		env[name] = value
	}

	return nil
}

// evalDefine splits def at the first '=' and evaluates the right-hand side
// as a numeric expr-lang expression over env.
func evalDefine(ctx context.Context, def string, env map[string]any) (string, float64, error) {
	name, src, ok := strings.Cut(def, "=")
	name = strings.TrimSpace(name)

	if !ok || strings.TrimSpace(src) == "" {
		return "", 0, ErrDefine.
			With(slog.String("define", def)).
			Wrap(ErrDefineSyntax)
	}

	if !isIdentifier(ctx, name) {
		return "", 0, ErrDefine.
			With(slog.String("define", def), slog.String("name", name)).
			Wrap(ErrDefineName)
	}

	program, err := expr.Compile(src, expr.Env(env), expr.AsFloat64())
	if err != nil {
		return "", 0, ErrDefine.With(slog.String("define", def)).Wrap(err)
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return "", 0, ErrDefine.With(slog.String("define", def)).Wrap(err)
	}

	value, ok := out.(float64)
	if !ok {
		return "", 0, ErrDefine.
			With(slog.String("define", def), slog.String("type", typeOf(out))).
			Wrap(ErrDefineType)
	}

	return name, value, nil
}

// isIdentifier reports whether name lexes as exactly one identifier.
func isIdentifier(ctx context.Context, name string) bool {
	tokens, err := lang.Lex(ctx, name)

	return err == nil && len(tokens) == 1 && tokens[0].Kind == lang.TokenIdentifier
}
