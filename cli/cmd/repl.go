package cmd

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/ardnew/acs/cli/cmd/repl"
)

// Repl starts an interactive session.
type Repl struct {
	Define     []string `help:"Declare a constant NAME from an expr-lang expression." placeholder:"NAME=EXPR" short:"D"`
	NoBuiltins bool     `help:"Do not declare the native function library."`

	Sources []string `arg:"" help:"Source file(s) to load before prompting." name:"source" optional:""`
}

// Run loads each source into the session and then reads input from the
// terminal until the user quits.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env := envFrom(ctx)

	var out bytes.Buffer

	root, err := newRootScope(ctx, &out, r.Define, r.NoBuiltins)
	if err != nil {
		return err
	}

	session := repl.NewSession(root, env.Logger, env.options()...)

	if len(r.Sources) > 0 {
		progs, err := env.parseSources(ctx, r.Sources)
		if err != nil {
			return err
		}

		for _, prog := range progs {
			if _, err := session.Load(ctx, prog); err != nil {
				return withSuggestions(err, session.Scope())
			}
		}

		env.Logger.DebugContext(ctx, "repl sources loaded",
			slog.Int("source_count", len(progs)),
			slog.Int("binding_count", len(session.Names())),
		)
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, session, &out, cacheDir, env.Logger)
}
