package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/ardnew/acs/lang"
)

// Lex writes the tokens of each source, one per line.
type Lex struct {
	Sources []string `arg:"" help:"Source file(s), or '-' for stdin." name:"source" optional:""`
}

// Run executes the lex command.
func (l *Lex) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env := envFrom(ctx)

	srcs, err := env.openSources(ctx, l.Sources)
	if err != nil {
		return err
	}

	defer closeSources(srcs)

	lexer := lang.NewLexer().WithLogger(env.Logger)

	for _, s := range srcs {
		data, err := io.ReadAll(s.r)
		if err != nil {
			return ErrOpenSource.With(slog.String("source", s.name)).Wrap(err)
		}

		tokens, err := lexer.Lex(ctx, string(data))
		if err != nil {
			return ErrParseSource.With(slog.String("source", s.name)).Wrap(err)
		}

		for _, tok := range tokens {
			fmt.Fprintf(env.Stdout, "%-8s %-11s %s\n",
				tok.Pos, tok.Kind, strconv.Quote(tok.Text))
		}
	}

	return nil
}
