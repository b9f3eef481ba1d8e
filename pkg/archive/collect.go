package archive

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/oneconcern/nr/pkg/errors"
	"github.com/oneconcern/nr/pkg/gitignore"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Entry is a file or directory to store in the archive
type Entry struct {
	// Name in the archive, slash-separated
	Name string
	// Source path on the filesystem
	Source string
	Info   os.FileInfo
}

// Collect walks the sources and lists the entries to archive, sorted by name.
//
// Each source is stored under its base name, below opts.Prefix. Sources are
// walked concurrently.
func (a *Archiver) Collect(ctx context.Context, sources []string, opts Options) ([]Entry, error) {
	if len(sources) == 0 {
		return nil, ErrNoSource
	}
	for _, pattern := range opts.Excludes {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Newf("invalid exclude pattern %q", pattern)
		}
	}

	results := make([][]Entry, len(sources))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(a.concurrency)
	for i, source := range sources {
		i, source := i, source
		group.Go(func() error {
			entries, err := a.collectOne(gctx, source, opts)
			if err != nil {
				return errors.New(source).Wrap(err)
			}
			results[i] = entries
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]string)
	var all []Entry
	for _, entries := range results {
		for _, e := range entries {
			if other, ok := seen[e.Name]; ok {
				if e.Info.IsDir() {
					continue
				}
				return nil, errors.Newf("%s and %s are both archived as %s", other, e.Source, e.Name)
			}
			seen[e.Name] = e.Source
			all = append(all, e)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (a *Archiver) collectOne(ctx context.Context, source string, opts Options) ([]Entry, error) {
	root, err := a.paths.Canonical(source, "")
	if err != nil {
		return nil, err
	}
	info, err := a.fs.Stat(root)
	if err != nil {
		return nil, err
	}

	base := path.Join(opts.Prefix, filepath.Base(root))
	if !info.IsDir() {
		if excluded(opts.Excludes, base) {
			return nil, nil
		}
		return []Entry{{Name: base, Source: root, Info: info}}, nil
	}

	var ignores *gitignore.Stack
	if opts.Gitignore {
		if ignores, err = gitignore.LoadTree(a.fs, root); err != nil {
			return nil, err
		}
		a.logger.Debug("loaded ignore files", zap.String("source", root), zap.Int("files", ignores.Len()))
	}

	var entries []Entry
	err = afero.Walk(a.fs, root, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		name := path.Join(base, filepath.ToSlash(rel))

		if p != root {
			skip := excluded(opts.Excludes, name) ||
				(ignores != nil && (fi.Name() == ".git" || ignores.Ignored(p, fi.IsDir())))
			if skip {
				a.logger.Debug("skipped", zap.String("path", p))
				if fi.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if !fi.Mode().IsRegular() && !fi.IsDir() {
			a.logger.Warn("skipping special file", zap.String("path", p), zap.Stringer("mode", fi.Mode()))
			return nil
		}
		entries = append(entries, Entry{Name: name, Source: p, Info: fi})
		return nil
	})
	return entries, err
}

// excluded tells if an archive name matches an exclude pattern. Patterns
// without a slash are matched against the base name.
func excluded(patterns []string, name string) bool {
	for _, pattern := range patterns {
		subject := name
		if !strings.Contains(pattern, "/") {
			subject = path.Base(name)
		}
		if ok, _ := doublestar.Match(pattern, subject); ok {
			return true
		}
	}
	return false
}
