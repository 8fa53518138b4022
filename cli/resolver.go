package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/acs/log"
)

// loadYAML is a [kong.ConfigurationLoader] for YAML configuration files
// such as the one written by the init command.
//
// Nested mappings are joined to flag names with hyphens, so
//
//	log:
//	  level: debug
//	max-depth: 200
//
// sets --log-level=debug and --max-depth=200. Keys may also be written with
// underscores in place of hyphens. Flags given on the command line take
// precedence. A file that cannot be decoded is ignored with a warning.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	err := yaml.NewDecoder(r).Decode(&doc)
	if err != nil && !errors.Is(err, io.EOF) {
		log.Warn("ignoring invalid configuration", slog.Any("error", err))

		return config{}, nil
	}

	cfg := config{}
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over flattened flag names.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "-" + k
		}

		switch v := v.(type) {
		case map[string]any:
			c.flatten(key, v)

		case map[any]any:
			sub := make(map[string]any, len(v))
			for sk, sv := range v {
				sub[fmt.Sprint(sk)] = sv
			}

			c.flatten(key, sub)

		default:
			c[key] = flagValue(v)
		}
	}
}

// flagValue converts a decoded YAML value to a form kong can map onto any
// flag type: booleans pass through, sequences are joined with commas, and
// other scalars become strings.
func flagValue(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case bool, string:
		return v
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = fmt.Sprint(item)
		}

		return strings.Join(items, ",")
	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	if v, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return v, nil
	}

	return nil, nil
}
