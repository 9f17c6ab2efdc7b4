// Command tzinfo inspects TZif files and resolves instants and local
// times against them.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ngrash/go-tzif/internal/config"
	"github.com/ngrash/go-tzif/internal/logging"
	"github.com/ngrash/go-tzif/tz"
	"github.com/ngrash/go-tzif/tzdb/bundle"
)

// CLI defines the command-line interface of tzinfo.
type CLI struct {
	Config    string `short:"c" help:"YAML configuration file" type:"path" env:"TZINFO_CONFIG"`
	Source    string `help:"Zoneinfo directory or tar archive, overrides the configured source"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Log format (text, json)"`

	Dump        DumpCmd        `cmd:"" help:"Print the header, data blocks and footer of a TZif file"`
	Lookup      LookupCmd      `cmd:"" help:"Print the offset in effect at an instant"`
	Local       LocalCmd       `cmd:"" help:"Resolve a local date and time"`
	Transitions TransitionsCmd `cmd:"" help:"List offset changes between two years"`
	Rule        RuleCmd        `cmd:"" help:"Parse a TZ rule string and print its transitions"`
	List        ListCmd        `cmd:"" help:"List the zones of the source"`
	Check       CheckCmd       `cmd:"" help:"Parse every zone of the source"`
}

// env is passed to every command.
type env struct {
	out    io.Writer
	cfg    config.Config
	logger *slog.Logger
}

func newEnv(cli *CLI, out, logOut io.Writer) (*env, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	if cli.Source != "" {
		cfg.Source = cli.Source
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.Log.Format = cli.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := logging.ParseLevel(cfg.Log.Level)
	format, _ := logging.ParseFormat(cfg.Log.Format)
	return &env{
		out:    out,
		cfg:    cfg,
		logger: logging.Init(logOut, level, format),
	}, nil
}

func (e *env) registry() (*bundle.Registry, error) {
	r, err := bundle.Open(e.cfg.Source)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("source_opened", "source", e.cfg.Source, "version", r.Version(), "zones", r.Len())
	return r, nil
}

// zone loads name from a file if one exists, and from the source otherwise.
func (e *env) zone(name string) (*tz.Zone, error) {
	var z *tz.Zone
	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		if z, err = tz.ParseWithOptions(name, data, e.cfg.ZoneOptions()); err != nil {
			return nil, err
		}
	} else {
		r, err := e.registry()
		if err != nil {
			return nil, err
		}
		if z, err = r.ParseWithOptions(name, e.cfg.ZoneOptions()); err != nil {
			return nil, err
		}
	}
	if err := z.RuleError(); err != nil {
		logging.ZoneWarning(e.logger, z.Name(), err, "footer", z.Footer())
	}
	return z, nil
}

func run(args []string, out, logOut io.Writer, options ...kong.Option) error {
	var cli CLI
	options = append([]kong.Option{
		kong.Name("tzinfo"),
		kong.Description("Inspect TZif time zone files."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Writers(out, logOut),
	}, options...)
	parser, err := kong.New(&cli, options...)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	e, err := newEnv(&cli, out, logOut)
	if err != nil {
		return err
	}
	return kctx.Run(e)
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "tzinfo:", err)
		os.Exit(1)
	}
}
