// Copyright © 2018 One Concern

package gitignore

import (
	"bufio"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/oneconcern/nr/pkg/errors"
	"github.com/spf13/afero"
)

// Result of matching a path against ignore patterns
type Result int

const (
	// NoMatch means no pattern applies to the path
	NoMatch Result = iota
	// Ignored means the last matching pattern excludes the path
	Ignored
	// Included means the last matching pattern is a negation
	Included
)

func (r Result) String() string {
	switch r {
	case Ignored:
		return "ignored"
	case Included:
		return "included"
	default:
		return "no match"
	}
}

// FileName is the conventional name of ignore files
const FileName = ".gitignore"

// Matcher holds the patterns of one ignore file, relative to its base directory
type Matcher struct {
	base     string
	patterns []Pattern
}

// Parse reads patterns from r. Patterns are relative to base, which may be empty
// when matched paths are always relative.
func Parse(r io.Reader, base string) (*Matcher, error) {
	m := &Matcher{base: normalizeBase(base)}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		p, ok, err := parsePattern(scanner.Text(), line)
		if err != nil {
			return nil, errors.Newf("invalid pattern at line %d: %q", line, scanner.Text()).Wrap(err)
		}
		if ok {
			m.patterns = append(m.patterns, p)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Compile builds a matcher from in-memory lines
func Compile(base string, lines ...string) (*Matcher, error) {
	return Parse(strings.NewReader(strings.Join(lines, "\n")), base)
}

// ParseFile reads an ignore file. Its patterns are relative to the directory of the file.
func ParseFile(fs afero.Fs, file string) (*Matcher, error) {
	f, err := fs.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Parse(f, filepath.Dir(file))
	if err != nil {
		return nil, errors.New(file).Wrap(err)
	}
	return m, nil
}

// Base directory of the patterns
func (m *Matcher) Base() string {
	return m.base
}

// Patterns compiled in this matcher, in file order
func (m *Matcher) Patterns() []Pattern {
	return m.patterns
}

// Match a path against the patterns.
//
// When the base directory is absolute, relative paths are relative to the base.
// When the base is relative, paths must be given from the same working directory.
// Paths outside of the base directory never match.
func (m *Matcher) Match(p string, isDir bool) Result {
	rel, ok := m.relative(p)
	if !ok {
		return NoMatch
	}
	return matchWithParents(rel, isDir, m.matchRel)
}

// Ignored tells if a path is excluded
func (m *Matcher) Ignored(p string, isDir bool) bool {
	return m.Match(p, isDir) == Ignored
}

func (m *Matcher) matchRel(rel string, isDir bool) Result {
	for i := len(m.patterns) - 1; i >= 0; i-- {
		p := m.patterns[i]
		if p.matches(rel, isDir) {
			if p.Negate {
				return Included
			}
			return Ignored
		}
	}
	return NoMatch
}

func (m *Matcher) relative(p string) (string, bool) {
	p = filepath.ToSlash(p)
	switch {
	case m.base == "" || m.base == "/":
		p = strings.TrimPrefix(p, "/")
	case path.IsAbs(p) == path.IsAbs(m.base):
		// both paths live in the same frame: p must be under the base
		p = path.Clean(p)
		if !strings.HasPrefix(p, m.base+"/") {
			return "", false
		}
		p = p[len(m.base)+1:]
	case path.IsAbs(p):
		return "", false
	}
	p = path.Clean(p)
	if p == "." || p == "" || p == ".." || strings.HasPrefix(p, "../") {
		return "", false
	}
	return strings.TrimPrefix(p, "/"), true
}

// matchWithParents checks the parent directories of rel before rel itself:
// a path inside an excluded directory cannot be included again.
func matchWithParents(rel string, isDir bool, match func(string, bool) Result) Result {
	for i := 0; i < len(rel); i++ {
		if rel[i] != '/' {
			continue
		}
		if match(rel[:i], true) == Ignored {
			return Ignored
		}
	}
	return match(rel, isDir)
}

func normalizeBase(base string) string {
	if base == "" {
		return ""
	}
	base = path.Clean(filepath.ToSlash(base))
	if base == "." {
		return ""
	}
	return base
}
