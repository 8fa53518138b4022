package cli

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/acs/log"
)

// logLevel configures the default logger level as a side effect of
// parsing, so messages logged while kong is still parsing already honor it.
type logLevel log.Level

func (l *logLevel) UnmarshalText(text []byte) error {
	level, err := log.ParseLevel(string(text))
	if err != nil {
		return err
	}

	*l = logLevel(level)
	log.Config(log.WithLevel(level))

	return nil
}

func (l logLevel) MarshalText() ([]byte, error) { return log.Level(l).MarshalText() }

// logFormat configures the default logger format as a side effect of
// parsing.
type logFormat log.Format

func (f *logFormat) UnmarshalText(text []byte) error {
	format, err := log.ParseFormat(string(text))
	if err != nil {
		return err
	}

	*f = logFormat(format)
	log.Config(log.WithFormat(format))

	return nil
}

func (f logFormat) MarshalText() ([]byte, error) { return log.Format(f).MarshalText() }

type logConfig struct {
	Level      logLevel  `default:"info"    help:"Set log level (${logLevels})."   placeholder:"LEVEL"`
	Format     logFormat `default:"text"    help:"Set log format (${logFormats})." placeholder:"FORMAT"`
	TimeLayout string    `default:"RFC3339" help:"Set timestamp layout by name or Go layout; 'none' omits it."`
	Caller     bool      `default:"false"   help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"    help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevels":  strings.Join(log.Levels(), ","),
		"logFormats": strings.Join(log.Formats(), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies every parsed setting to the default logger and returns it.
func (f *logConfig) start(ctx context.Context) log.Logger {
	log.Config(
		log.WithLevel(log.Level(f.Level)),
		log.WithFormat(log.Format(f.Format)),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	logger := log.Default()

	logger.DebugContext(ctx, "logger initialized",
		slog.String("level", log.Level(f.Level).String()),
		slog.String("format", log.Format(f.Format).String()),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return logger
}

// scan applies logger flags found in args before kong parses them, so the
// logger is configured regardless of flag position. Boolean flags are not
// seen by the unmarshalers above.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		name, value, assigned := strings.Cut(args[i], "=")

		negated := strings.HasPrefix(name, "--no-log-")
		if !negated && !strings.HasPrefix(name, "--log-") {
			continue
		}

		next := func() string {
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return value
		}

		flag := func() (bool, bool) {
			v := true
			if assigned {
				b, err := strconv.ParseBool(value)
				if err != nil {
					return false, false
				}

				v = b
			}

			return v != negated, true
		}

		switch strings.TrimPrefix(strings.TrimPrefix(name, "--"), "no-") {
		case "log-level":
			_ = f.Level.UnmarshalText([]byte(next()))

		case "log-format":
			_ = f.Format.UnmarshalText([]byte(next()))

		case "log-pretty":
			if v, ok := flag(); ok {
				f.Pretty = v
				log.Config(log.WithPretty(v))
			}

		case "log-caller":
			if v, ok := flag(); ok {
				f.Caller = v
				log.Config(log.WithCaller(v))
			}
		}
	}
}
