package cmd

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/dynfmt/log"
	"github.com/ardnew/dynfmt/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file"                        short:"F"`
	Print bool `help:"Write the configuration to standard output instead of the file"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	if i.Print {
		return i.write(ktx, outputFrom(ctx))
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	if err := i.write(ktx, file); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// write encodes the current flag values as a YAML document.
func (i *Init) write(ktx *kong.Context, w io.Writer) error {
	doc := i.settings(ktx)

	data, err := yaml.MarshalWithOptions(doc, yaml.Indent(defaultConfigIndent))
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// settings collects every configurable flag that has a value, in the order
// the flags are declared.
func (i *Init) settings(ktx *kong.Context) yaml.MapSlice {
	prefixIgnore := []string{"help", "version", profile.Tag}

	var doc yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val, ok := flagValue(ktx.FlagValue(flag)); ok {
			doc = append(doc, yaml.MapItem{Key: flag.Name, Value: val})
		}
	}

	return doc
}

// flagValue returns the YAML representation of a flag value. Empty strings,
// slices, and maps report false.
func flagValue(val any) (any, bool) {
	switch v := val.(type) {
	case nil:
		return nil, false

	case []string:
		return v, len(v) > 0

	case map[string]string:
		if len(v) == 0 {
			return nil, false
		}

		out := make(yaml.MapSlice, 0, len(v))
		for _, k := range slices.Sorted(maps.Keys(v)) {
			out = append(out, yaml.MapItem{Key: k, Value: v[k]})
		}

		return out, true
	}

	// Named types such as the log level enums resolve by kind.
	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), rv.Len() > 0
	case reflect.Bool:
		return rv.Bool(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return nil, false
	}
}
