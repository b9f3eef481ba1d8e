package gitignore

import (
	"regexp"
	"strings"
)

// Pattern is a single compiled line of a .gitignore file
type Pattern struct {
	// Raw line, as read from the file
	Raw string
	// Line number in the source, starting at 1
	Line int

	Negate   bool
	DirOnly  bool
	Anchored bool

	re *regexp.Regexp
}

// parsePattern compiles a line. The boolean is false for blank lines and comments.
func parsePattern(raw string, line int) (Pattern, bool, error) {
	text := strings.TrimSuffix(raw, "\r")
	text = trimTrailingSpaces(text)
	if text == "" || strings.HasPrefix(text, "#") {
		return Pattern{}, false, nil
	}

	p := Pattern{Raw: raw, Line: line}
	switch {
	case strings.HasPrefix(text, "!"):
		p.Negate = true
		text = text[1:]
	case strings.HasPrefix(text, `\!`), strings.HasPrefix(text, `\#`):
		text = text[1:]
	}

	if strings.HasSuffix(text, "/") && !strings.HasSuffix(text, `\/`) {
		p.DirOnly = true
		text = strings.TrimRight(text, "/")
	}
	if text == "" {
		return Pattern{}, false, nil
	}

	if strings.Contains(text, "/") {
		p.Anchored = true
		text = strings.TrimPrefix(text, "/")
	}

	var b strings.Builder
	b.WriteString("^")
	if !p.Anchored {
		b.WriteString("(?:.*/)?")
	}
	b.WriteString(translate(text))
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return Pattern{}, false, err
	}
	p.re = re
	return p, true, nil
}

// matches a slash-separated path, relative to the base of the pattern
func (p Pattern) matches(rel string, isDir bool) bool {
	if p.DirOnly && !isDir {
		return false
	}
	return p.re.MatchString(rel)
}

func (p Pattern) String() string {
	return p.Raw
}

func trimTrailingSpaces(text string) string {
	for strings.HasSuffix(text, " ") && !strings.HasSuffix(text, `\ `) {
		text = text[:len(text)-1]
	}
	return text
}

// translate converts a gitignore glob into a regular expression fragment
func translate(glob string) string {
	var b strings.Builder
	parts := strings.Split(glob, "/")
	for i, part := range parts {
		last := i == len(parts)-1
		if part == "**" {
			if last {
				b.WriteString(".*")
			} else {
				b.WriteString("(?:.*/)?")
			}
			continue
		}
		b.WriteString(translateSegment(part))
		if !last {
			b.WriteString("/")
		}
	}
	return b.String()
}

func translateSegment(segment string) string {
	var b strings.Builder
	for i := 0; i < len(segment); i++ {
		c := segment[i]
		switch c {
		case '*':
			for i+1 < len(segment) && segment[i+1] == '*' {
				i++
			}
			b.WriteString("[^/]*")
		case '?':
			b.WriteString("[^/]")
		case '\\':
			if i+1 < len(segment) {
				i++
				b.WriteString(regexp.QuoteMeta(string(segment[i])))
			} else {
				b.WriteString(`\\`)
			}
		case '[':
			end, class := bracketClass(segment, i)
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(class)
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	return b.String()
}

// bracketClass translates the character class starting at segment[start].
// It returns -1 when the class is not terminated.
func bracketClass(segment string, start int) (int, string) {
	j := start + 1
	negate := false
	if j < len(segment) && (segment[j] == '!' || segment[j] == '^') {
		negate = true
		j++
	}
	first := j
	if j < len(segment) && segment[j] == ']' {
		j++
	}
	for j < len(segment) && segment[j] != ']' {
		j++
	}
	if j >= len(segment) {
		return -1, ""
	}

	var b strings.Builder
	b.WriteString("[")
	if negate {
		b.WriteString("^/")
	}
	for k := first; k < j; k++ {
		switch c := segment[k]; c {
		case '\\', '[', ']', '^':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteString("]")
	return j, b.String()
}
