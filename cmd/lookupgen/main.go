// Command lookupgen generates format.Lookup implementations for struct
// types, resolving placeholder names to fields without reflection.
//
// Usage:
//
//	lookupgen --type T[,U...] [--output FILE] [DIR]
//
// For each type it writes a Lookup method switching over the field names and
// a Names method listing them. Fields of string, bool, integer, or float
// type (including named types of those) are included; other fields are
// skipped. A typical use is a go:generate directive:
//
//	//go:generate go run github.com/ardnew/dynfmt/cmd/lookupgen --type Record
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"golang.org/x/tools/go/packages"

	"github.com/ardnew/dynfmt/log"
)

var logger = log.Default()

var errLoad = errors.New("load package")

type cli struct {
	Type   []string `help:"Struct type names"                                      required:"" short:"t"`
	Output string   `help:"Output file (default DIR/<first type>_lookup.go)" short:"o" type:"path"`
	Dir    string   `arg:"" default:"."                                            help:"Package directory" optional:"" type:"existingdir"`

	LogLevel string `default:"info" enum:"trace,debug,info,warn,error" help:"Set log level (${enum})."`
}

func main() {
	var c cli

	kong.Parse(&c,
		kong.Name("lookupgen"),
		kong.Description("Generate format.Lookup methods for struct types."),
		kong.UsageOnError(),
	)

	logger = logger.Wrap(log.WithLevel(log.ParseLevel(c.LogLevel)), log.WithFormat(log.FormatText))

	if err := c.run(); err != nil {
		logger.Error("generate failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func (c *cli) run() error {
	pkg, err := load(c.Dir)
	if err != nil {
		return err
	}

	command := "lookupgen --type " + strings.Join(c.Type, ",")

	src, err := generate(pkg.Types, c.Type, command)
	if err != nil {
		return err
	}

	output := c.Output
	if output == "" {
		output = filepath.Join(c.Dir, strings.ToLower(c.Type[0])+"_lookup.go")
	}

	if err := os.WriteFile(output, src, 0o644); err != nil {
		return err
	}

	logger.Debug("wrote lookup methods",
		slog.String("package", pkg.PkgPath),
		slog.String("file", output),
		slog.Int("type_count", len(c.Type)),
	)

	return nil
}

// load type-checks the package in dir.
func load(dir string) (*packages.Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes,
		Dir:  dir,
	}

	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errLoad, err)
	}

	if len(pkgs) != 1 {
		return nil, fmt.Errorf("%w: %d packages found in %s", errLoad, len(pkgs), dir)
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("%w: %v", errLoad, pkg.Errors[0])
	}

	return pkg, nil
}
