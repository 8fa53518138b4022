package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/acs/log"
	"github.com/ardnew/acs/profile"
)

// defaultConfigIndent is the YAML indent width of generated configuration.
const defaultConfigIndent = 2

// Init writes a configuration file containing the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalWithOptions(
		configValues(ktx),
		yaml.Indent(defaultConfigIndent),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if err := os.WriteFile(confPath, data, 0o600); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath))

	return nil
}

// configValues returns the current value of every global flag, grouped by
// flag prefix: "log-level" is stored as log.level. Hidden flags, help,
// version, profiling flags, and empty values are skipped.
func configValues(ktx *kong.Context) yaml.MapSlice {
	ignore := []string{"help", "version", profile.Tag}

	var (
		root   yaml.MapSlice
		groups = map[string]int{}
	)

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := ktx.FlagValue(flag)
		if isEmpty(val) {
			continue
		}

		group, key, nested := strings.Cut(flag.Name, "-")
		if !nested || flag.Group == nil {
			root = append(root, yaml.MapItem{Key: flag.Name, Value: val})

			continue
		}

		idx, ok := groups[group]
		if !ok {
			idx = len(root)
			groups[group] = idx
			root = append(root, yaml.MapItem{Key: group, Value: yaml.MapSlice{}})
		}

		items, _ := root[idx].Value.(yaml.MapSlice)
		root[idx].Value = append(items, yaml.MapItem{Key: key, Value: val})
	}

	return root
}

func isEmpty(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	default:
		return false
	}
}
