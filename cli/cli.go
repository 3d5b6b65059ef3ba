package cli

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/scene/cli/cmd"
	"github.com/ardnew/scene/log"
	"github.com/ardnew/scene/pkg"
)

// CLI is the top-level command-line interface for scene.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Lib     []string `help:"Template library name or file (repeatable)" name:"lib"      placeholder:"NAME|FILE" short:"l"`
	LibPath []string `help:"Directory searched for template libraries"  name:"lib-path" placeholder:"DIR"       short:"L" type:"path"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Init    cmd.Init    `cmd:"" help:"Initialize configuration file"`
	Check   cmd.Check   `cmd:"" help:"Compile a scene and report errors"`
	Eval    cmd.Eval    `cmd:"" help:"Evaluate one property of one element"`
	Dump    cmd.Dump    `cmd:"" help:"Print the compiled element tree"`
	Render  cmd.Render  `cmd:"" help:"Render frames as SVG"`
	Watch   cmd.Watch   `cmd:"" help:"Re-render a frame whenever its sources change"`
	Inspect cmd.Inspect `cmd:"" help:"Browse elements and properties interactively"`
	Fmt     cmd.Fmt     `cmd:"" help:"Format scene source"`
}

// Run executes the scene CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	yamlPath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		cmd.ConfigIdentifier: yamlPath,
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Name + " " + strings.TrimSpace(pkg.Version),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags are applied before parsing so that diagnostics emitted
	// while parsing honor them regardless of flag position.
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
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve, yamlPath),
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
	ctx = cmd.WithLoader(ctx, &cmd.Loader{
		Libs:   cli.Lib,
		Path:   searchPath(cli.LibPath...),
		Logger: log.Default(),
	})

	defer cli.Log.start(ctx)()

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
