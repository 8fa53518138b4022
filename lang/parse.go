package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"

	"github.com/klauspost/readahead"
)

// ParseReader reads all of r and parses it as a program.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	// Pre-fetch input while earlier chunks are consumed.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseString tokenizes and parses src as a program.
// Parse errors carry src for rendering source snippets.
// Results are cached, so parsing the same source again with the same
// options returns the same *Program.
func ParseString(ctx context.Context, src string, opts ...Option) (*Program, error) {
	return parseStringCached(ctx, src, opts...)
}

func parseString(ctx context.Context, src string, o options) (*Program, error) {
	o.logger.TraceContext(ctx, "parse start", slog.Int("source_length", len(src)))

	tokens, err := NewLexer().WithLogger(o.logger).Lex(ctx, src)
	if err != nil {
		return nil, err
	}

	prog, err := parseTokens(ctx, tokens, o)

	return prog, withSource(err, src)
}

// Parse parses a token sequence as a program. Every token must be consumed.
func Parse(ctx context.Context, tokens []Token, opts ...Option) (*Program, error) {
	return parseTokens(ctx, tokens, makeOptions(opts...))
}

func parseTokens(ctx context.Context, tokens []Token, o options) (*Program, error) {
	c := NewCursor(tokens)
	c.maxDepth = o.maxDepth

	prog, _ := NewGrammar().Program(c)
	if err := c.err(); err != nil {
		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(tokens)),
		slog.Int("statement_count", len(prog.Statements)),
	)

	return prog, nil
}

// ParseExpression tokenizes and parses src as a single expression.
func ParseExpression(
	ctx context.Context,
	src string,
	opts ...Option,
) (Expression, error) {
	o := makeOptions(opts...)

	tokens, err := NewLexer().WithLogger(o.logger).Lex(ctx, src)
	if err != nil {
		return nil, err
	}

	c := NewCursor(tokens)
	c.maxDepth = o.maxDepth

	expr, ok := NewGrammar().Expression(c)
	if err := c.err(); err != nil {
		return nil, withSource(err, src)
	}

	if !ok {
		// Nothing at all matched; report the first token.
		return nil, withSource(c.errorAt(0, ErrUnexpectedToken), src)
	}

	o.logger.TraceContext(ctx, "parse expression complete",
		slog.Int("token_count", len(tokens)),
		slog.String("type", resultTypeName(expr)),
	)

	return expr, nil
}

// err classifies the state of the cursor after a top-level rule returns.
// It returns nil if every token was consumed.
func (c *Cursor) err() error {
	if c.fatal != nil {
		return c.fatal
	}

	stop := c.pos
	if stop >= len(c.tokens) {
		return nil
	}

	if c.failPos > stop {
		kind := ErrUnexpectedToken
		if slices.ContainsFunc(c.expected, isClosing) {
			kind = ErrUnterminatedConstruct
		}

		return c.errorAt(c.failPos, kind)
	}

	return c.errorAt(stop, ErrUnconsumedInput)
}

func (c *Cursor) errorAt(i int, kind *Error) *ParseError {
	pe := &ParseError{
		Kind: kind,
		Pos:  c.position(i),
	}

	if i < len(c.tokens) {
		pe.Found = c.tokens[i].Text
	}

	if i == c.failPos {
		pe.Expected = slices.Clone(c.expected)
	}

	return pe
}

func isClosing(item string) bool {
	return item == TokenRightParen.String() || item == TokenRightBrace.String()
}

// withSource attaches src to a parse error for snippet rendering.
func withSource(err error, src string) error {
	pe := &ParseError{}
	if errors.As(err, &pe) {
		pe.Source = src
	}

	return err
}
