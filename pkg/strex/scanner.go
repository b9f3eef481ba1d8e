package strex

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Cursor is a position in the scanned text. Line and Column start at 1.
type Cursor struct {
	Index  int
	Line   int
	Column int
}

// Scanner reads a string one rune at a time
type Scanner struct {
	text   string
	cursor Cursor
}

// NewScanner builds a scanner positioned at the beginning of text
func NewScanner(text string) *Scanner {
	return &Scanner{text: text, cursor: Cursor{Line: 1, Column: 1}}
}

// Text being scanned
func (s *Scanner) Text() string {
	return s.text
}

// Cursor returns the current position
func (s *Scanner) Cursor() Cursor {
	return s.cursor
}

// Restore moves back (or forward) to a position previously returned by Cursor
func (s *Scanner) Restore(c Cursor) {
	s.cursor = c
}

// Done is true when the whole text has been consumed
func (s *Scanner) Done() bool {
	return s.cursor.Index >= len(s.text)
}

// Char returns the current rune, or 0 at the end of the text
func (s *Scanner) Char() rune {
	if s.Done() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.text[s.cursor.Index:])
	return r
}

// Next consumes the current rune and returns it
func (s *Scanner) Next() rune {
	if s.Done() {
		return 0
	}
	r, size := utf8.DecodeRuneInString(s.text[s.cursor.Index:])
	s.advance(s.text[s.cursor.Index : s.cursor.Index+size])
	return r
}

// Peek returns up to n runes from the current position without consuming them
func (s *Scanner) Peek(n int) string {
	rest := s.text[s.cursor.Index:]
	end := 0
	for i := 0; i < n && end < len(rest); i++ {
		_, size := utf8.DecodeRuneInString(rest[end:])
		end += size
	}
	return rest[:end]
}

// Match tries re at the current position. On success the matched text is
// consumed and the submatches are returned, otherwise nil.
func (s *Scanner) Match(re *regexp.Regexp) []string {
	rest := s.text[s.cursor.Index:]
	loc := re.FindStringSubmatchIndex(rest)
	if loc == nil || loc[0] != 0 {
		return nil
	}
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = rest[loc[2*i]:loc[2*i+1]]
		}
	}
	s.advance(groups[0])
	return groups
}

// Consume prefix if the remaining text starts with it
func (s *Scanner) Consume(prefix string) bool {
	if !strings.HasPrefix(s.text[s.cursor.Index:], prefix) {
		return false
	}
	s.advance(prefix)
	return true
}

// Readline consumes the text up to and including the next newline
func (s *Scanner) Readline() string {
	rest := s.text[s.cursor.Index:]
	line := rest
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		line = rest[:i+1]
	}
	s.advance(line)
	return line
}

func (s *Scanner) advance(consumed string) {
	s.cursor.Index += len(consumed)
	if n := strings.Count(consumed, "\n"); n > 0 {
		s.cursor.Line += n
		consumed = consumed[strings.LastIndexByte(consumed, '\n')+1:]
		s.cursor.Column = 1
	}
	s.cursor.Column += utf8.RuneCountInString(consumed)
}
