package repl

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/acs/lang"
	"github.com/ardnew/acs/log"
)

// Session evaluates REPL input against a persistent scope.
//
// Declarations made by one input remain visible to later inputs. Inputs that
// executed successfully are kept in order, so the session can be written out
// as a program and rebuilt from edited source.
type Session struct {
	root   *lang.Scope
	scope  *lang.Scope
	ev     *lang.Evaluator
	opts   []lang.Option
	logger log.Logger
	inputs []string
}

// NewSession returns a Session whose scope is a child of root.
// A nil root is replaced with an empty scope.
func NewSession(root *lang.Scope, logger log.Logger, opts ...lang.Option) *Session {
	if root == nil {
		root = lang.NewScope(nil)
	}

	// Session input bypasses the program cache.
	opts = append(slices.Clip(opts), lang.WithLogger(logger), lang.WithCache(false))

	return &Session{
		root:   root,
		scope:  lang.NewScope(root),
		ev:     lang.NewEvaluator(opts...),
		opts:   opts,
		logger: logger,
	}
}

// Scope returns the session scope.
func (s *Session) Scope() *lang.Scope { return s.scope }

// Names returns every name visible from the session scope.
func (s *Session) Names() []string { return s.scope.Names() }

// Lookup resolves name from the session scope.
func (s *Session) Lookup(name string) (lang.Binding, bool) { return s.scope.Lookup(name) }

// Source returns the inputs that executed successfully, one per line.
func (s *Session) Source() string {
	if len(s.inputs) == 0 {
		return ""
	}

	return strings.Join(s.inputs, "\n") + "\n"
}

// Eval evaluates one line of input and returns the rendered result, which is
// empty when the input produced no value.
//
// Input is first tried as a single expression. Otherwise it is run as a
// program and its declarations are added to the session scope; a missing
// final terminator is supplied. A failing line leaves the session unchanged.
func (s *Session) Eval(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}

	if expr, err := lang.ParseExpression(ctx, input, s.opts...); err == nil {
		s.logger.TraceContext(ctx, "session eval expression", slog.String("input", input))

		v, err := s.ev.EvalValue(ctx, expr, s.scope)
		if err != nil {
			return "", err
		}

		s.inputs = append(s.inputs, terminate(input))

		return render(v), nil
	}

	prog, err := s.parseProgram(ctx, input)
	if err != nil {
		return "", err
	}

	s.logger.TraceContext(ctx, "session exec program",
		slog.Int("statement_count", len(prog.Statements)))

	// Declarations take effect only if the whole line succeeds.
	scratch := lang.NewScope(s.scope)

	v, err := s.ev.Exec(ctx, prog, scratch)
	if err != nil {
		return "", err
	}

	if err := s.scope.Merge(scratch); err != nil {
		return "", err
	}

	s.inputs = append(s.inputs, terminate(input))

	return render(v), nil
}

// Load runs prog in the session scope and records its statements as
// session source.
func (s *Session) Load(ctx context.Context, prog *lang.Program) (lang.Value, error) {
	v, err := s.ev.Exec(ctx, prog, s.scope)
	if err != nil {
		return nil, err
	}

	for _, stmt := range prog.Statements {
		p := &lang.Program{Statements: []lang.Statement{stmt}}

		var b strings.Builder
		if err := p.Format(ctx, &b, 0); err == nil {
			s.inputs = append(s.inputs, strings.TrimSpace(b.String()))
		}
	}

	return v, nil
}

// Reset replaces the session scope with a fresh one populated by running
// src. On failure the session is left unchanged.
func (s *Session) Reset(ctx context.Context, src string) error {
	prog, err := lang.ParseString(ctx, src, s.opts...)
	if err != nil {
		return err
	}

	scope, inputs := s.scope, s.inputs
	s.scope, s.inputs = lang.NewScope(s.root), nil

	if _, err := s.Load(ctx, prog); err != nil {
		s.scope, s.inputs = scope, inputs

		return err
	}

	return nil
}

// parseProgram parses input as a program, retrying with a final terminator
// appended. The error of the first attempt is reported if both fail.
func (s *Session) parseProgram(ctx context.Context, input string) (*lang.Program, error) {
	prog, err := lang.ParseString(ctx, input, s.opts...)
	if err == nil {
		return prog, nil
	}

	if strings.HasSuffix(input, ";") || strings.HasSuffix(input, "}") {
		return nil, err
	}

	if retry, rerr := lang.ParseString(ctx, input+";", s.opts...); rerr == nil {
		return retry, nil
	}

	return nil, err
}

func terminate(input string) string {
	if strings.HasSuffix(input, ";") || strings.HasSuffix(input, "}") {
		return input
	}

	return input + ";"
}

func render(v lang.Value) string {
	if v == nil {
		return ""
	}

	return v.String()
}
