// Copyright © 2018 One Concern

package fs

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/oneconcern/nr/pkg/errors"
	"github.com/spf13/afero"
)

type errString string

func (e errString) Error() string { return string(e) }

const (
	// ErrInvalidChmod is returned when a chmod string cannot be parsed
	ErrInvalidChmod errString = "invalid chmod string"
	// ErrFalseExclude is returned when an exclude pattern in Glob did not remove anything
	ErrFalseExclude errString = "exclude did not match any globbed path"
	// ErrAtomicFileDone is returned when committing an atomic file which is already committed or discarded
	ErrAtomicFileDone errString = "atomic file already committed or discarded"

	defaultListingCacheSize = 256
)

const (
	curdir = "."
	pardir = ".."
)

// Paths knows how to resolve, compare and fix paths on some filesystem.
type Paths struct {
	fs            afero.Fs
	caseSensitive bool
	getwd         func() (string, error)
	listings      *lru.Cache
}

// Option configures a Paths
type Option func(*Paths)

// CaseSensitive overrides the detection of case sensitivity of the filesystem.
//
// By default, only windows filesystems are considered case-insensitive.
func CaseSensitive(enabled bool) Option {
	return func(p *Paths) {
		p.caseSensitive = enabled
	}
}

// WorkingDir sets the function used to resolve the current working directory.
// Defaults to os.Getwd.
func WorkingDir(getwd func() (string, error)) Option {
	return func(p *Paths) {
		p.getwd = getwd
	}
}

// ListingCacheSize sets the number of directory listings kept in cache by FixCase.
// A size of 0 disables the cache.
func ListingCacheSize(size int) Option {
	return func(p *Paths) {
		if size <= 0 {
			p.listings = nil
			return
		}
		p.listings, _ = lru.New(size)
	}
}

// New Paths resolver for the given afero filesystem. A nil fs stands for the host filesystem.
func New(fs afero.Fs, opts ...Option) *Paths {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	p := &Paths{
		fs:            fs,
		caseSensitive: runtime.GOOS != "windows",
		getwd:         os.Getwd,
	}
	p.listings, _ = lru.New(defaultListingCacheSize)
	for _, apply := range opts {
		apply(p)
	}
	return p
}

// OS returns a Paths resolver for the host filesystem
func OS(opts ...Option) *Paths {
	return New(afero.NewOsFs(), opts...)
}

// Fs returns the underlying afero filesystem
func (p *Paths) Fs() afero.Fs {
	return p.fs
}

// IsCaseSensitive tells if this filesystem is considered case-sensitive
func (p *Paths) IsCaseSensitive() bool {
	return p.caseSensitive
}

// Cwd yields the current working directory
func (p *Paths) Cwd() (string, error) {
	return p.getwd()
}

// Abs joins a relative path with parent. When parent is empty, the current working directory is used.
func (p *Paths) Abs(path, parent string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	if parent == "" {
		cwd, err := p.getwd()
		if err != nil {
			return "", errors.New("cannot resolve working directory").Wrap(err)
		}
		parent = cwd
	}
	return filepath.Join(parent, path), nil
}

// Canonical returns the common and fully normalized representation of a path.
//
// On case-insensitive filesystems, this also corrects the case of the existing
// elements of the path.
func (p *Paths) Canonical(path, parent string) (string, error) {
	abs, err := p.Abs(path, parent)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)
	if !p.caseSensitive {
		abs = p.FixCase(abs)
	}
	return abs, nil
}

// Rel computes the path relative to parent (or the current working directory).
//
// If par is true, a relative path is always returned. Otherwise the absolute
// path is returned whenever path does not live inside parent.
func (p *Paths) Rel(path, parent string, par bool) (string, error) {
	absParent, err := p.Abs(parent, "")
	if err != nil {
		return "", err
	}
	absPath, err := p.Abs(path, "")
	if err != nil {
		return "", err
	}
	res, err := filepath.Rel(absParent, absPath)
	if err != nil {
		// e.g. on windows, with differing volumes
		if !par {
			return absPath, nil
		}
		return "", err
	}
	if !par && !IsSub(res, true) {
		return absPath, nil
	}
	return res, nil
}

// IsRel tells if a path is relative
func IsRel(path string) bool {
	return !filepath.IsAbs(path)
}

// IsSub returns true if path is a relative path that does not point outside of its
// parent directory.
//
// A path equal to the parent directory (e.g. ".") yields atCurr.
func IsSub(path string, atCurr bool) bool {
	if filepath.IsAbs(path) {
		return false
	}
	path = filepath.Clean(path)
	if path == pardir || strings.HasPrefix(path, pardir+string(filepath.Separator)) {
		return false
	}
	if path == curdir {
		return atCurr
	}
	return true
}

// IsGlob checks if a path is a glob pattern
func IsGlob(path string) bool {
	return strings.ContainsAny(path, "*?[")
}

// MakeDirs creates a directory and all its parents.
//
// When existOK is false, an existing directory yields an error.
func (p *Paths) MakeDirs(path string, existOK bool) error {
	if !existOK {
		exists, err := afero.DirExists(p.fs, path)
		if err != nil {
			return err
		}
		if exists {
			return errors.New(path).Wrap(os.ErrExist)
		}
	}
	return p.fs.MkdirAll(path, 0o755)
}

// ListDir returns the sorted names of the entries of a directory.
//
// When doRaise is false, a missing or unreadable directory yields an empty list.
func (p *Paths) ListDir(path string, doRaise bool) ([]string, error) {
	infos, err := afero.ReadDir(p.fs, path)
	if err != nil {
		if !doRaise && (os.IsNotExist(err) || os.IsPermission(err)) {
			return []string{}, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, nil
}
