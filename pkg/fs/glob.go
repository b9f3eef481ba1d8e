package fs

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/oneconcern/nr/pkg/errors"
	"github.com/spf13/afero"
)

// GlobOptions tune the behavior of Glob
type GlobOptions struct {
	// Parent directory for relative patterns. Defaults to the current working directory.
	Parent string

	// Excludes lists glob patterns or file names to be removed from the result.
	//
	// Every file listed in Excludes only removes one match from the result: to exclude
	// files with a pattern except for a specific file that would also match that pattern,
	// list that file another time in the patterns.
	Excludes []string

	// IncludeDotfiles allows "*" and "**" to capture names starting with a dot,
	// in patterns and excludes alike
	IncludeDotfiles bool

	// IgnoreFalseExcludes silences errors about excludes that did not remove any path
	IgnoreFalseExcludes bool
}

// Glob matches an arbitrary number of patterns, with support for "**".
//
// Results are canonical paths, in the order of the patterns.
func (p *Paths) Glob(patterns []string, opts GlobOptions) ([]string, error) {
	var result []string
	for _, pattern := range patterns {
		matches, err := p.globOne(pattern, opts)
		if err != nil {
			return nil, err
		}
		result = append(result, matches...)
	}

	var falseExcludes error
	for _, exclude := range opts.Excludes {
		pattern, err := p.Canonical(exclude, opts.Parent)
		if err != nil {
			return nil, err
		}

		var candidates []string
		if IsGlob(pattern) {
			candidates, err = p.globOne(pattern, GlobOptions{Parent: opts.Parent, IncludeDotfiles: opts.IncludeDotfiles})
			if err != nil {
				return nil, err
			}
		} else {
			candidates = []string{pattern}
		}

		for _, candidate := range candidates {
			var removed bool
			result, removed = removeOne(result, candidate)
			if !removed && !opts.IgnoreFalseExcludes {
				falseExcludes = errors.Combine(falseExcludes,
					errors.New(candidate+" (exclude "+exclude+")").Wrap(ErrFalseExclude))
			}
		}
	}
	if falseExcludes != nil {
		return nil, falseExcludes
	}

	return result, nil
}

func (p *Paths) globOne(pattern string, opts GlobOptions) ([]string, error) {
	canonical, err := p.Canonical(pattern, opts.Parent)
	if err != nil {
		return nil, err
	}

	base, rest := doublestar.SplitPattern(filepath.ToSlash(canonical))
	if rest == "" {
		return nil, nil
	}
	fsys := afero.NewIOFS(afero.NewBasePathFs(p.fs, filepath.FromSlash(base)))
	matches, err := doublestar.Glob(fsys, rest)
	if err != nil {
		return nil, errors.New("glob " + pattern).Wrap(err)
	}

	allowDots := opts.IncludeDotfiles || strings.HasPrefix(rest, ".") || strings.Contains(rest, "/.")
	result := make([]string, 0, len(matches))
	for _, match := range matches {
		if !allowDots && hasDotElement(match) {
			continue
		}
		result = append(result, filepath.FromSlash(path.Join(base, match)))
	}
	return result, nil
}

func hasDotElement(slashed string) bool {
	for _, element := range strings.Split(slashed, "/") {
		if strings.HasPrefix(element, ".") && element != curdir && element != pardir {
			return true
		}
	}
	return false
}

func removeOne(list []string, item string) ([]string, bool) {
	for i, candidate := range list {
		if candidate == item {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}
