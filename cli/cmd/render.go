package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/dynfmt/log"
)

// debounceDelay coalesces bursts of file events into one render.
const debounceDelay = 100 * time.Millisecond

// Render renders a template against the configured values.
type Render struct {
	Template string `arg:"" help:"Template source" name:"template" optional:""`

	File    string `help:"Read the template from a file or '-' for stdin"      placeholder:"FILE" short:"F"`
	Newline bool   `default:"true"                                             help:"Terminate output with a newline" negatable:""`
	Watch   bool   `help:"Render again whenever the template or values change" short:"w"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if r.Watch {
		return r.watch(ctx)
	}

	return r.render(ctx, outputFrom(ctx))
}

// render compiles and renders once. Output is written only if rendering
// succeeds.
func (r *Render) render(ctx context.Context, w io.Writer) error {
	tmpl, err := compileTemplate(ctx, r.Template, r.File)
	if err != nil {
		return err
	}

	lookup, err := valuesFrom(ctx).Lookup(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	if err := tmpl.Render(&buf, lookup); err != nil {
		return explain(err, lookup)
	}

	if r.Newline {
		buf.WriteByte('\n')
	}

	log.DebugContext(ctx, "rendered template",
		slog.Int("placeholder_count", len(tmpl.Names())),
		slog.Int("bytes", buf.Len()),
	)

	if _, err := buf.WriteTo(w); err != nil {
		return ErrRender.Wrap(err)
	}

	return nil
}

// watch renders once, then again after every change to the template file or
// a values file, until ctx is done. Failed renders are logged and do not
// stop watching.
func (r *Render) watch(ctx context.Context) error {
	paths, err := valuesFrom(ctx).paths()
	if err != nil {
		return err
	}

	if r.File != "" && r.File != stdinSource {
		paths = append(paths, r.File)
	}

	if len(paths) == 0 {
		return ErrWatch.Wrap(errors.New("no template or values file to watch"))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer watcher.Close()

	// Watch directories rather than files so that editors replacing a file
	// by rename keep triggering events.
	files := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{})

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return ErrWatch.Wrap(err).With(slog.String("file", path))
		}

		files[abs] = struct{}{}
		dir := filepath.Dir(abs)

		if _, ok := dirs[dir]; ok {
			continue
		}

		if err := watcher.Add(dir); err != nil {
			return ErrWatch.Wrap(err).With(slog.String("dir", dir))
		}

		dirs[dir] = struct{}{}
	}

	out := outputFrom(ctx)
	renderLogged := func() {
		if err := r.render(ctx, out); err != nil {
			log.ErrorContext(ctx, "render failed", slog.Any("error", err))
		}
	}

	renderLogged()

	log.DebugContext(ctx, "watching for changes", slog.Int("file_count", len(files)))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}

			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if _, ok := files[event.Name]; !ok {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(debounceDelay)
			} else {
				timer.Reset(debounceDelay)
			}

			fire = timer.C

		case <-fire:
			fire = nil

			renderLogged()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "file watcher error", slog.Any("error", err))
		}
	}
}
