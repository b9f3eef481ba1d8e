package strex

import (
	"fmt"
	"regexp"
	"strings"
)

// Token produced by a Lexer
type Token struct {
	Kind   string
	Value  string
	Groups []string
	Cursor Cursor
}

// EOF is the kind of the token returned at the end of the input
const EOF = "eof"

// SyntaxError is returned when no rule matches the input
type SyntaxError struct {
	Cursor Cursor
	Near   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d near %q", e.Cursor.Line, e.Cursor.Column, e.Near)
}

// Rule extracts one token from the scanner, or returns false
type Rule interface {
	Kind() string
	extract(*Scanner) (string, []string, bool)
}

type regexRule struct {
	kind string
	re   *regexp.Regexp
}

// Regex builds a rule matching a regular expression at the current position
func Regex(kind, pattern string) Rule {
	return regexRule{kind: kind, re: regexp.MustCompile(`^(?:` + pattern + `)`)}
}

func (r regexRule) Kind() string { return r.kind }

func (r regexRule) extract(s *Scanner) (string, []string, bool) {
	groups := s.Match(r.re)
	if groups == nil || groups[0] == "" {
		return "", nil, false
	}
	return groups[0], groups, true
}

type charsetRule struct {
	kind  string
	chars string
}

// Charset builds a rule consuming the longest run of characters from chars
func Charset(kind, chars string) Rule {
	return charsetRule{kind: kind, chars: chars}
}

func (r charsetRule) Kind() string { return r.kind }

func (r charsetRule) extract(s *Scanner) (string, []string, bool) {
	var b strings.Builder
	for !s.Done() && strings.ContainsRune(r.chars, s.Char()) {
		b.WriteRune(s.Next())
	}
	if b.Len() == 0 {
		return "", nil, false
	}
	return b.String(), nil, true
}

type keywordRule struct {
	kind string
	word string
}

// Keyword builds a rule matching a literal string
func Keyword(kind, word string) Rule {
	return keywordRule{kind: kind, word: word}
}

func (r keywordRule) Kind() string { return r.kind }

func (r keywordRule) extract(s *Scanner) (string, []string, bool) {
	if r.word == "" || !s.Consume(r.word) {
		return "", nil, false
	}
	return r.word, nil, true
}

// Lexer turns a string into tokens, trying rules in order
type Lexer struct {
	scanner *Scanner
	rules   []Rule
	skip    map[string]bool
	token   *Token
}

// NewLexer builds a lexer over text
func NewLexer(text string, rules ...Rule) *Lexer {
	return &Lexer{
		scanner: NewScanner(text),
		rules:   rules,
		skip:    make(map[string]bool),
	}
}

// Skip hides tokens of the given kinds from Next
func (l *Lexer) Skip(kinds ...string) *Lexer {
	for _, k := range kinds {
		l.skip[k] = true
	}
	return l
}

// Scanner used by the lexer
func (l *Lexer) Scanner() *Scanner {
	return l.scanner
}

// Token is the last token returned by Next
func (l *Lexer) Token() *Token {
	return l.token
}

// Next returns the next token that is not skipped.
//
// At the end of the input, a token of kind EOF is returned. When no rule
// matches, a *SyntaxError is returned and the scanner is left untouched.
func (l *Lexer) Next() (Token, error) {
	for {
		tok, err := l.next()
		if err != nil {
			return Token{}, err
		}
		if tok.Kind == EOF || !l.skip[tok.Kind] {
			l.token = &tok
			return tok, nil
		}
	}
}

func (l *Lexer) next() (Token, error) {
	start := l.scanner.Cursor()
	if l.scanner.Done() {
		return Token{Kind: EOF, Cursor: start}, nil
	}
	for _, rule := range l.rules {
		value, groups, ok := rule.extract(l.scanner)
		if ok {
			return Token{Kind: rule.Kind(), Value: value, Groups: groups, Cursor: start}, nil
		}
		l.scanner.Restore(start)
	}
	return Token{}, &SyntaxError{Cursor: start, Near: l.scanner.Peek(10)}
}

// Tokens consumes the whole input
func (l *Lexer) Tokens() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		if tok.Kind == EOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}
