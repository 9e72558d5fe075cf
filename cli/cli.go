package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/dynfmt/cli/cmd"
	"github.com/ardnew/dynfmt/pkg"
)

// CLI is the top-level command-line interface for dynfmt.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	cmd.Values `embed:""`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Init  cmd.Init  `cmd:"" help:"Initialize configuration file"`
	Check cmd.Check `cmd:"" help:"Compile a template and print its tokens"`
	Repl  cmd.Repl  `cmd:"" help:"Edit and render templates interactively"`

	Render cmd.Render `cmd:"" default:"withargs" help:"Render a template"`
}

// configFile returns the path of the YAML configuration file.
func configFile() string {
	return pkg.ConfigPath(pkg.ConfigBase + ".yaml")
}

// Run executes the dynfmt CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := pkg.MkdirAll()
	if err != nil {
		return err
	}

	configFilePath := configFile()

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	groups := []kong.Group{cli.Log.group()}
	if g := cli.Pprof.group(); g.Key != "" {
		groups = append(groups, g)
	}

	// Parse command line
	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(groups),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, pkg.ConfigPath(pkg.ConfigBase+".json")),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithValues(ctx, &cli.Values)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
