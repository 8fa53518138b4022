package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/acs/cli/cmd"
	"github.com/ardnew/acs/lang"
	"github.com/ardnew/acs/pkg"
)

// CLI is the top-level command-line interface for acs.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Path     []string `help:"Directory searched for relative source names; also read from ${pathEnv}." placeholder:"DIR" short:"I"`
	MaxDepth int      `default:"${maxDepth}"                                                            help:"Limit on parse nesting and call depth."`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Run  cmd.Run  `cmd:"" default:"withargs" help:"Execute programs"`
	Fmt  cmd.Fmt  `cmd:""                   help:"Format programs"`
	Lex  cmd.Lex  `cmd:""                   help:"Print the tokens of programs"`
	Repl cmd.Repl `cmd:""                   help:"Start an interactive session"`
	Init cmd.Init `cmd:""                   help:"Initialize configuration file"`
}

// Run executes the acs CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	confPath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		cmd.ConfigIdentifier: confPath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Version(),
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
		"pathEnv":            pkg.EnvVar("path"),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.About()),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(loadYAML, confPath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	env := cmd.DefaultEnv()
	env.Logger = cli.Log.start(ctx)
	env.SearchPath = searchPath(cli.Path)
	env.MaxDepth = cli.MaxDepth

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithEnv(ctx, env)

	// No-op unless built with the pprof tag and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
