package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/dynfmt/format"
	"github.com/ardnew/dynfmt/log"
)

const defaultEditor = "vi"

// editTemplateCommand implements [tea.ExecCommand] for the template
// edit-compile-retry loop. It writes the current template to a temp file,
// opens the user's editor, and compiles the result. On compile error the
// user is prompted to re-edit; declining exits the program.
type editTemplateCommand struct {
	source  string
	ctxFunc func() context.Context
	tmpl    *format.Template
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editTemplateCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editTemplateCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editTemplateCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-compile-retry loop. If the user declines to re-edit,
// it returns [ErrEditDeclined].
func (c *editTemplateCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp(os.TempDir(), "dynfmt-repl-*.tmpl")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	content := c.source

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		// Editors terminate the last line; the template does not include it.
		source := strings.TrimSuffix(strings.TrimSuffix(data, "\n"), "\r")
		if source == "" {
			return nil
		}

		tmpl, compileErr := format.CompileCached(source)
		c.logger.TraceContext(
			ctx,
			"editor compile attempt",
			slog.Int("content_length", len(source)),
			slog.Bool("success", compileErr == nil),
		)

		if compileErr == nil {
			c.tmpl = tmpl

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", compileErr)

		if snippet := snippetOf(compileErr); snippet != "" {
			fmt.Fprint(c.stderr, snippet)
		}

		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = data
	}
}

func snippetOf(err error) string {
	var ce *format.CompileError
	if errors.As(err, &ce) {
		return ce.Snippet()
	}

	return ""
}

// runEditor launches the user's editor on the given file path and returns
// the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) (string, error) {
	args := strings.Fields(os.Getenv("EDITOR"))
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
