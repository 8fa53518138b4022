package cmd

import (
	"context"
	"log/slog"
)

// Fmt parses programs and writes them in the chosen representation.
type Fmt struct {
	Format string `default:"native" enum:"native,tree,json,yaml" help:"Output format (${enum})." short:"f"`
	Indent int    `default:"2"                                    help:"Indent width; 0 writes compact output." short:"i"`

	Sources []string `arg:"" help:"Source file(s), or '-' for stdin." name:"source" optional:""`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env := envFrom(ctx)

	progs, err := env.parseSources(ctx, f.Sources)
	if err != nil {
		return err
	}

	for _, prog := range progs {
		switch f.Format {
		case "native":
			err = prog.Format(ctx, env.Stdout, f.Indent)
		case "tree":
			err = prog.Print(env.Stdout)
		case "json":
			err = prog.FormatJSON(ctx, env.Stdout, f.Indent)
		case "yaml":
			err = prog.FormatYAML(ctx, env.Stdout, f.Indent)
		default:
			err = ErrInvalidFormat.With(slog.String("format", f.Format))
		}

		if err != nil {
			return err
		}
	}

	return nil
}
