// Copyright © 2018 One Concern

// Package versionupgrade finds the version of a project and rewrites it in
// all the files where it appears.
package versionupgrade

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oneconcern/nr/pkg/errors"
	"github.com/oneconcern/nr/pkg/fs"
	"github.com/oneconcern/nr/pkg/version"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Upgrader updates the version of a project rooted in a directory
type Upgrader struct {
	fs     afero.Fs
	paths  *fs.Paths
	dir    string
	logger *zap.Logger
}

// Option configures an Upgrader
type Option func(*Upgrader)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(u *Upgrader) {
		if l != nil {
			u.logger = l
		}
	}
}

// WithPaths sets how paths are resolved
func WithPaths(p *fs.Paths) Option {
	return func(u *Upgrader) {
		u.paths = p
	}
}

// New upgrader for the project in dir
func New(afs afero.Fs, dir string, opts ...Option) *Upgrader {
	u := &Upgrader{
		fs:     afs,
		dir:    dir,
		logger: zap.NewNop(),
	}
	for _, apply := range opts {
		apply(u)
	}
	if u.paths == nil {
		u.paths = fs.New(afs)
	}
	return u
}

// Dir is the project directory
func (u *Upgrader) Dir() string {
	return u.dir
}

// Target computes the new version: arg is either a part to bump (major,
// minor, patch, pre) or an explicit version.
func Target(current version.Version, arg string) (version.Version, error) {
	if part, err := version.ParsePart(arg); err == nil {
		return current.Bump(part)
	}
	v, err := version.ParseTolerant(arg)
	if err != nil {
		return version.Version{}, errors.Newf("%q is neither a version part nor a version", arg).Wrap(err)
	}
	return v, nil
}

// Change of the version in a file
type Change struct {
	Path string
	Line int
	// Before and After are the full lines affected by the change
	Before string
	After  string

	content []byte
}

// Plan computes the changes replacing from with to, according to the rules.
//
// Only occurrences of the current version are replaced. They may be written
// in a short or prefixed form, such as "1.0" or "v1.0.0". A rule that does not
// match anything is an error.
func (u *Upgrader) Plan(rules []Rule, from, to version.Version) ([]Change, error) {
	pending := make(map[string][]byte)
	var (
		changes []Change
		order   []string
	)
	for _, rule := range rules {
		re, err := parseRule(rule.Pattern)
		if err != nil {
			return nil, err
		}
		file := rule.Path
		if !filepath.IsAbs(file) {
			file = filepath.Join(u.dir, filepath.FromSlash(file))
		}
		content, ok := pending[file]
		if !ok {
			if content, err = afero.ReadFile(u.fs, file); err != nil {
				return nil, err
			}
			order = append(order, file)
		}

		group := versionGroup(re)
		old := from.String()
		var (
			out     strings.Builder
			last    int
			matched bool
		)
		text := string(content)
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[2*group], loc[2*group+1]
			if start < 0 || !sameVersion(text[start:end], from) {
				continue
			}
			matched = true
			out.WriteString(text[last:start])
			if strings.HasPrefix(text[start:end], "v") {
				out.WriteByte('v')
			}
			out.WriteString(to.String())
			last = end

			changes = append(changes, Change{
				Path:   file,
				Line:   strings.Count(text[:start], "\n") + 1,
				Before: lineAt(text, start),
			})
		}
		if !matched {
			return nil, errors.Newf("%s: pattern %q does not match version %s", rule.Path, rule.Pattern, old)
		}
		out.WriteString(text[last:])
		pending[file] = []byte(out.String())
	}

	for i := range changes {
		c := &changes[i]
		c.content = pending[c.Path]
		c.After = lineNumber(string(c.content), c.Line)
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return indexOf(order, changes[i].Path) < indexOf(order, changes[j].Path)
	})
	return changes, nil
}

// Apply writes the planned changes
func (u *Upgrader) Apply(changes []Change) error {
	written := make(map[string]bool)
	var errs []error
	for _, c := range changes {
		if written[c.Path] {
			continue
		}
		written[c.Path] = true
		perm := filePerm(u.fs, c.Path)
		if err := u.paths.WriteFileAtomic(c.Path, c.content, perm); err != nil {
			errs = append(errs, errors.New(c.Path).Wrap(err))
			continue
		}
		u.logger.Info("version updated", zap.String("file", c.Path))
	}
	return errors.Combine(errs...)
}

func sameVersion(text string, v version.Version) bool {
	if text == v.String() {
		return true
	}
	parsed, err := version.ParseTolerant(text)
	return err == nil && parsed.Compare(v) == 0
}

func filePerm(afs afero.Fs, file string) os.FileMode {
	info, err := afs.Stat(file)
	if err != nil {
		return 0o644
	}
	return info.Mode().Perm()
}

func lineAt(text string, offset int) string {
	start := strings.LastIndexByte(text[:offset], '\n') + 1
	end := strings.IndexByte(text[offset:], '\n')
	if end < 0 {
		return text[start:]
	}
	return text[start : offset+end]
}

func lineNumber(text string, n int) string {
	lines := strings.SplitN(text, "\n", n+1)
	if n-1 < len(lines) {
		return lines[n-1]
	}
	return ""
}

func indexOf(list []string, item string) int {
	for i, s := range list {
		if s == item {
			return i
		}
	}
	return -1
}
