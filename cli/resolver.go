package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/dynfmt/log"
)

// resolve is a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// The document is a single mapping from flag name to value:
//   - Flag names with hyphens (e.g., "log-level") may also be written with
//     underscores (e.g., "log_level")
//   - Sequences set repeatable flags such as values
//   - Mappings set NAME=VALUE flags such as set and expr
//
// Example config file:
//
//	log-level: debug
//	log_format: text
//	values:
//	  - ~/.config/dynfmt/common.yaml
//	set:
//	  region: us-east-1
//
// Command-line flags override config file values. A file that is not a
// mapping is ignored with a warning.
func resolve(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	err := yaml.NewDecoder(r).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return config{}, nil
	}

	if err != nil {
		log.Warn("ignoring unreadable configuration", slog.Any("error", err))

		return config{}, nil
	}

	result := make(config, len(doc))
	for key, val := range doc {
		result[key] = flagArg(val, false)
	}

	return result, nil
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but config keys may use
	// underscores. Try both forms.
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flagArg converts a decoded YAML value into a form kong can parse.
// Kong requires numbers as strings. Inside sequences and mappings every
// scalar becomes a string, matching the element types of the target flags.
func flagArg(val any, nested bool) any {
	switch v := val.(type) {
	case nil:
		if nested {
			return ""
		}

		return nil

	case string:
		return v

	case bool:
		if nested {
			return strconv.FormatBool(v)
		}

		return v

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = flagArg(e, true)
		}

		return out

	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = flagArg(e, true)
		}

		return out

	default:
		return fmt.Sprint(v)
	}
}
