//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/acs/log"
	"github.com/ardnew/acs/pkg"
	"github.com/ardnew/acs/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModes}" help:"Enable profiling (${pprofModes})." placeholder:"MODE"`
	Dir  string `default:"${pprofDir}"                       help:"Profile output directory."          type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModes": strings.Join(profile.Modes(), ","),
		"pprofDir":   filepath.Join(pkg.CacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling (pprof)"}
}

// start begins profiling if a mode was selected.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	log.DebugContext(ctx, "pprof start",
		slog.String("mode", f.Mode),
		slog.String("dir", f.Dir),
	)

	p := profile.Profiler{Mode: f.Mode, Path: f.Dir, Quiet: true}.Start()

	return func() {
		p.Stop()

		log.DebugContext(ctx, "pprof stop", slog.String("mode", f.Mode))
	}
}
