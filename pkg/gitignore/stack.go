package gitignore

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Stack combines matchers from nested ignore files.
//
// Matchers pushed last take precedence: a pattern from a deeper .gitignore
// overrides the patterns of its parents.
type Stack struct {
	matchers []*Matcher
}

// NewStack builds a stack from matchers, ordered from the least to the most specific
func NewStack(matchers ...*Matcher) *Stack {
	return &Stack{matchers: matchers}
}

// Push a more specific matcher
func (s *Stack) Push(m *Matcher) {
	s.matchers = append(s.matchers, m)
}

// Len is the number of matchers in the stack
func (s *Stack) Len() int {
	return len(s.matchers)
}

// Match a path against all matchers of the stack
func (s *Stack) Match(p string, isDir bool) Result {
	return matchWithParents(filepath.ToSlash(p), isDir, s.matchOne)
}

// Ignored tells if a path is excluded by the stack
func (s *Stack) Ignored(p string, isDir bool) bool {
	return s.Match(p, isDir) == Ignored
}

func (s *Stack) matchOne(p string, isDir bool) Result {
	for i := len(s.matchers) - 1; i >= 0; i-- {
		m := s.matchers[i]
		rel, ok := m.relative(p)
		if !ok {
			continue
		}
		if res := m.matchRel(rel, isDir); res != NoMatch {
			return res
		}
	}
	return NoMatch
}

// LoadTree walks a directory tree and loads every ignore file found.
//
// Directories excluded by the ignore files loaded so far are not visited.
func LoadTree(fs afero.Fs, root string) (*Stack, error) {
	stack := NewStack()
	err := afero.Walk(fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if p != root && stack.Ignored(p, true) {
			return filepath.SkipDir
		}
		ignoreFile := filepath.Join(p, FileName)
		exists, err := afero.Exists(fs, ignoreFile)
		if err != nil || !exists {
			return err
		}
		m, err := ParseFile(fs, ignoreFile)
		if err != nil {
			return err
		}
		stack.Push(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stack, nil
}
