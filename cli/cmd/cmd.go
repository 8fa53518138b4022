package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/acs/lang"
	"github.com/ardnew/acs/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
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

// Env holds the streams and global settings shared by all commands.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// SearchPath lists directories searched for relative source names
	// after the working directory.
	SearchPath []string

	// MaxDepth limits parse nesting, expression nesting, and call depth.
	MaxDepth int

	Logger log.Logger
}

// DefaultEnv returns an Env using the process's standard streams.
func DefaultEnv() *Env {
	return &Env{
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		MaxDepth: lang.DefaultMaxDepth,
	}
}

type envKey struct{}

// WithEnv returns a new context.Context containing env.
func WithEnv(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

// envFrom returns the Env stored in ctx, or [DefaultEnv] if there is none.
func envFrom(ctx context.Context) *Env {
	if env, ok := ctx.Value(envKey{}).(*Env); ok && env != nil {
		return env
	}

	return DefaultEnv()
}

// options returns the language options implied by the Env.
func (e *Env) options() []lang.Option {
	return []lang.Option{
		lang.WithMaxDepth(e.MaxDepth),
		lang.WithLogger(e.Logger),
	}
}

// stdinSource is the special source name for reading from stdin.
const stdinSource = "-"

// source is one opened program input.
type source struct {
	name string
	r    io.Reader
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens each named source in order. Relative names that do not
// exist in the working directory are searched for in env.SearchPath.
// A file named more than once, by any path, is opened only once. The caller
// must close the returned sources.
func (e *Env) openSources(ctx context.Context, names []string) ([]source, error) {
	if len(names) == 0 {
		names = []string{stdinSource}
	}

	srcs := make([]source, 0, len(names))
	seen := make(map[fileKey]struct{})
	stdin := false

	for _, name := range names {
		if name == stdinSource {
			if !stdin {
				srcs = append(srcs, source{name: name, r: e.Stdin})
				stdin = true
			}

			continue
		}

		path, err := e.resolve(name)
		if err != nil {
			closeSources(srcs)

			return nil, ErrOpenSource.With(slog.String("source", name)).Wrap(err)
		}

		f, ok, err := openUnique(path, seen)
		if err != nil {
			closeSources(srcs)

			return nil, ErrOpenSource.With(slog.String("source", name)).Wrap(err)
		}

		if !ok {
			e.Logger.DebugContext(ctx, "skip duplicate source", slog.String("path", path))

			continue
		}

		srcs = append(srcs, source{name: path, r: f})
	}

	return srcs, nil
}

// resolve locates name in the working directory or the search path.
func (e *Env) resolve(name string) (string, error) {
	_, err := os.Stat(name)
	if err == nil || filepath.IsAbs(name) {
		return name, err
	}

	for _, dir := range e.SearchPath {
		path := filepath.Join(dir, name)
		if _, serr := os.Stat(path); serr == nil {
			return path, nil
		}
	}

	return name, err
}

// openUnique opens the file at path unless a file with the same device and
// inode was already seen.
func openUnique(path string, seen map[fileKey]struct{}) (*os.File, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()

		return nil, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, dup := seen[key]; dup {
			f.Close()

			return nil, false, nil
		}

		seen[key] = struct{}{}
	}

	return f, true, nil
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

func closeSources(srcs []source) {
	for _, s := range srcs {
		if c, ok := s.r.(io.Closer); ok && s.name != stdinSource {
			c.Close()
		}
	}
}

// parseSources parses each named source as a separate program.
func (e *Env) parseSources(ctx context.Context, names []string) ([]*lang.Program, error) {
	srcs, err := e.openSources(ctx, names)
	if err != nil {
		return nil, err
	}

	defer closeSources(srcs)

	progs := make([]*lang.Program, 0, len(srcs))

	for _, s := range srcs {
		prog, err := lang.ParseReader(ctx, s.r, e.options()...)
		if err != nil {
			return nil, ErrParseSource.With(slog.String("source", s.name)).Wrap(err)
		}

		progs = append(progs, prog)
	}

	return progs, nil
}
