package cmd

import (
	"context"
	"os"

	"golang.org/x/term"

	"github.com/ardnew/dynfmt/cli/cmd/repl"
	"github.com/ardnew/dynfmt/log"
)

// Repl starts an interactive session for editing and rendering templates.
type Repl struct {
	Template string `arg:"" help:"Initial template source" name:"template" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return repl.ErrNotTerminal
	}

	lookup, err := valuesFrom(ctx).Lookup(ctx)
	if err != nil {
		return err
	}

	return repl.Run(ctx, lookup, r.Template, cacheDirFrom(ctx), log.Default())
}

// cacheDirFrom returns the cache directory recorded in the kong variables,
// or "" when there is none.
func cacheDirFrom(ctx context.Context) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[CacheIdentifier]
}
