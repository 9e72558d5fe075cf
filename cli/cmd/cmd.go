package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	outputKey struct{}
	inputKey  struct{}
	valuesKey struct{}
)

// WithOutput returns a new context.Context whose commands write their
// results to w instead of os.Stdout.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// WithInput returns a new context.Context whose commands read "-" sources
// from r instead of os.Stdin.
func WithInput(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, inputKey{}, r)
}

func inputFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(inputKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// WithValues returns a new context.Context containing the value sources
// shared by all commands.
func WithValues(ctx context.Context, v *Values) context.Context {
	return context.WithValue(ctx, valuesKey{}, v)
}

func valuesFrom(ctx context.Context) *Values {
	if v, ok := ctx.Value(valuesKey{}).(*Values); ok && v != nil {
		return v
	}

	return &Values{}
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is one opened input.
type source struct {
	name string
	io.ReadCloser
}

// openSources opens each path once, in order. Paths resolving to the same
// file through symlinks or relative paths are opened only at their first
// occurrence. All occurrences of "-" collapse into a single read of in,
// placed last so it reads after all regular files.
//
// On error, every source opened so far is closed.
func openSources(paths []string, in io.Reader) (srcs []source, err error) {
	defer func() {
		if err != nil {
			closeSources(srcs)
			srcs = nil
		}
	}()

	seen := make(map[fileKey]struct{})
	hasStdin := false

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		file, dup, err := openUniqueFile(path, seen)
		if err != nil {
			return srcs, ErrReadValues.Wrap(err)
		}

		if !dup {
			srcs = append(srcs, source{name: path, ReadCloser: file})
		}
	}

	if hasStdin {
		srcs = append(srcs, source{name: stdinSource, ReadCloser: io.NopCloser(in)})
	}

	return srcs, nil
}

func closeSources(srcs []source) {
	for _, src := range srcs {
		_ = src.Close()
	}
}

// openUniqueFile opens the file at path unless it has been seen before.
// It resolves symlinks and uses device/inode to detect duplicates, in which
// case dup is true and no file is opened.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (file *os.File, dup bool, err error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, true, nil
		}

		seen[key] = struct{}{}
	}

	file, err = os.Open(resolved)
	if err != nil {
		return nil, false, err
	}

	return file, false, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
