package cli

import (
	"context"
	"maps"

	"github.com/alecthomas/kong"

	"github.com/ardnew/stache/cli/cmd"
	"github.com/ardnew/stache/pkg"
)

// Configuration file names in the configuration directory.
const (
	configFile     = "config.yaml"
	configFileJSON = "config.json"
)

// CLI is the top-level command-line interface for stache.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Render cmd.Render `cmd:"" default:"withargs" help:"Render a template (default)"`
	Fmt    cmd.Fmt    `cmd:""                    help:"Print the parsed node tree of a template"`
	Init   cmd.Init   `cmd:""                    help:"Write a configuration file with the current flag values"`
	Repl   cmd.Repl   `cmd:""                    help:"Render template lines interactively"`
}

// Run executes the stache CLI with the given context and arguments.
// The exit function is called by kong for --help, --version and usage
// errors.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := pkg.MkdirAll(); err != nil {
		return err
	}

	configPath := pkg.ConfigPath(configFile)

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configPath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}
	maps.Copy(vars, cmd.Vars())
	maps.Copy(vars, cli.Log.vars())
	maps.Copy(vars, cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before parsing, so parse errors are logged as
	// requested wherever the flags appear.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
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
		kong.Configuration(kong.JSON, pkg.ConfigPath(configFileJSON)),
		kong.Configuration(resolve(ctx, cmd.ConfigIdentifier), configPath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	// No-op unless built with the pprof tag and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run()
}
