package version

import (
	"strconv"
	"strings"

	"github.com/blang/semver"
	"github.com/oneconcern/nr/pkg/errors"
)

// Selector matches versions against criteria such as ">=1.2, <2 || ^3.1.0".
//
// Criteria separated by commas or spaces must all hold. Alternatives are
// separated by "||". Supported forms are:
//
//	1.2.3 =1.2.3 !=1.2.3 >1.2 >=1.2 <2 <=2.1
//	^1.2.3 (compatible: same major, or same minor below 1.0)
//	~1.2.3 (same minor)
//	1.x 1.2.x 1.2 1 * (wildcards)
type Selector struct {
	raw   string
	expr  string
	match semver.Range
}

// ParseSelector compiles version criteria
func ParseSelector(s string) (*Selector, error) {
	var alternatives []string
	for _, alt := range strings.Split(s, "||") {
		terms, err := selectorTerms(alt)
		if err != nil {
			return nil, invalidSelector(s, err)
		}
		var parts []string
		for _, term := range terms {
			expanded, err := expandTerm(term)
			if err != nil {
				return nil, invalidSelector(s, err)
			}
			parts = append(parts, expanded...)
		}
		alternatives = append(alternatives, strings.Join(parts, " "))
	}

	expr := strings.Join(alternatives, " || ")
	r, err := semver.ParseRange(expr)
	if err != nil {
		return nil, invalidSelector(s, err)
	}
	return &Selector{raw: s, expr: expr, match: r}, nil
}

func invalidSelector(s string, err error) error {
	return errors.New(ErrInvalidSelector.Error()).Wrap(errors.Newf("%q", s).Wrap(err))
}

// MustParseSelector is like ParseSelector but panics on error
func MustParseSelector(s string) *Selector {
	sel, err := ParseSelector(s)
	if err != nil {
		panic(err)
	}
	return sel
}

// Match tells if v satisfies the criteria
func (s *Selector) Match(v Version) bool {
	return s.match(v.Version)
}

func (s *Selector) String() string {
	return s.raw
}

// Expr is the criteria, expanded to plain comparisons
func (s *Selector) Expr() string {
	return s.expr
}

var operators = []string{">=", "<=", "!=", ">", "<", "=", "^", "~"}

// selectorTerms splits an alternative into terms, joining operators
// separated from their version by spaces.
func selectorTerms(alt string) ([]string, error) {
	fields := strings.Fields(strings.ReplaceAll(alt, ",", " "))
	if len(fields) == 0 {
		return nil, errors.New("empty criteria")
	}
	var terms []string
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if isOperator(f) {
			if i+1 >= len(fields) {
				return nil, errors.Newf("dangling operator %q", f)
			}
			i++
			f += fields[i]
		}
		terms = append(terms, f)
	}
	return terms, nil
}

func isOperator(s string) bool {
	for _, op := range operators {
		if s == op {
			return true
		}
	}
	return false
}

func splitOperator(term string) (string, string) {
	for _, op := range operators {
		if strings.HasPrefix(term, op) {
			return op, strings.TrimPrefix(term, op)
		}
	}
	return "", term
}

// partial is a version with possibly missing (or wildcard) components
type partial struct {
	nums []uint64
	pre  string
}

func parsePartial(s string) (partial, error) {
	s = strings.TrimPrefix(s, "v")
	var p partial
	if s == "*" || s == "x" || s == "X" {
		return p, nil
	}
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		p.pre = s[i:]
		s = s[:i]
	}
	for _, c := range strings.Split(s, ".") {
		if c == "x" || c == "X" || c == "*" {
			break
		}
		n, err := strconv.ParseUint(c, 10, 64)
		if err != nil {
			return p, errors.Newf("invalid version %q", s).Wrap(err)
		}
		p.nums = append(p.nums, n)
	}
	if len(p.nums) > 3 {
		return p, errors.Newf("invalid version %q", s)
	}
	if p.pre != "" && len(p.nums) < 3 {
		return p, errors.Newf("prerelease on a partial version %q", s)
	}
	return p, nil
}

func (p partial) complete() bool {
	return len(p.nums) == 3
}

// floor fills missing components with zeros
func (p partial) floor() string {
	nums := [3]uint64{}
	copy(nums[:], p.nums)
	return format(nums) + p.pre
}

// ceil returns the first version above every version matched by p
func (p partial) ceil() string {
	nums := [3]uint64{}
	copy(nums[:], p.nums)
	switch len(p.nums) {
	case 1:
		return format([3]uint64{nums[0] + 1, 0, 0})
	case 2:
		return format([3]uint64{nums[0], nums[1] + 1, 0})
	default:
		return format([3]uint64{nums[0], nums[1], nums[2] + 1})
	}
}

func format(nums [3]uint64) string {
	return strconv.FormatUint(nums[0], 10) + "." + strconv.FormatUint(nums[1], 10) + "." + strconv.FormatUint(nums[2], 10)
}

// expandTerm turns a term into comparisons understood by semver.ParseRange
func expandTerm(term string) ([]string, error) {
	op, rest := splitOperator(term)
	p, err := parsePartial(rest)
	if err != nil {
		return nil, err
	}

	switch op {
	case "", "=":
		if len(p.nums) == 0 {
			return []string{">=0.0.0"}, nil
		}
		if p.complete() {
			return []string{"=" + p.floor()}, nil
		}
		return []string{">=" + p.floor(), "<" + p.ceil()}, nil
	case "!=":
		if !p.complete() {
			return nil, errors.Newf("%q needs a complete version", term)
		}
		return []string{"!=" + p.floor()}, nil
	case ">=", "<":
		return []string{op + p.floor()}, nil
	case ">":
		if p.complete() || len(p.nums) == 0 {
			return []string{">" + p.floor()}, nil
		}
		return []string{">=" + p.ceil()}, nil
	case "<=":
		if p.complete() {
			return []string{"<=" + p.floor()}, nil
		}
		return []string{"<" + p.ceil()}, nil
	case "~":
		if len(p.nums) == 0 {
			return []string{">=0.0.0"}, nil
		}
		upper := partial{nums: p.nums}
		if len(p.nums) > 2 {
			upper.nums = p.nums[:2]
		}
		return []string{">=" + p.floor(), "<" + upper.ceil()}, nil
	case "^":
		if len(p.nums) == 0 {
			return []string{">=0.0.0"}, nil
		}
		upper := partial{nums: p.nums[:1]}
		switch {
		case p.nums[0] > 0 || len(p.nums) == 1:
		case len(p.nums) == 2 || p.nums[1] > 0:
			upper.nums = p.nums[:2]
		default:
			upper.nums = p.nums
		}
		return []string{">=" + p.floor(), "<" + upper.ceil()}, nil
	default:
		return nil, errors.Newf("unknown operator in %q", term)
	}
}
