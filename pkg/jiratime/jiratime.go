// Package jiratime sums work log durations written in JIRA notation, such as
// "1w 2d 3h 30m".
package jiratime

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/oneconcern/nr/pkg/errors"
	"github.com/oneconcern/nr/pkg/strex"
)

// Config sets the length of working days and weeks
type Config struct {
	HoursPerDay float64
	DaysPerWeek float64
}

// DefaultConfig uses 8 hours days and 5 days weeks, like JIRA does
func DefaultConfig() Config {
	return Config{HoursPerDay: 8, DaysPerWeek: 5}
}

// Validate the config
func (c Config) Validate() error {
	if c.HoursPerDay <= 0 || c.DaysPerWeek <= 0 {
		return errors.Newf("invalid work time: %g hours per day, %g days per week", c.HoursPerDay, c.DaysPerWeek)
	}
	return nil
}

// Entry is one line of a work log
type Entry struct {
	Line    int
	Label   string
	Minutes float64
}

// Report sums the entries of a work log
type Report struct {
	Config  Config
	Entries []Entry
	// Labels in order of first appearance
	Labels []string
	Totals map[string]float64
	Total  float64
}

const (
	tokenSpace    = "space"
	tokenDuration = "duration"
	tokenSep      = "separator"
)

func durationLexer(text string) *strex.Lexer {
	return strex.NewLexer(text,
		strex.Charset(tokenSpace, " \t\r"),
		strex.Regex(tokenDuration, `(\d+(?:\.\d+)?)\s*([wdhm])`),
		strex.Charset(tokenSep, ",+"),
	).Skip(tokenSpace, tokenSep)
}

// ParseDuration converts a duration like "1d 4h" into minutes
func (c Config) ParseDuration(s string) (float64, error) {
	tokens, err := durationLexer(s).Tokens()
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, errors.Newf("no duration in %q", s)
	}
	var total float64
	for _, tok := range tokens {
		value, err := strconv.ParseFloat(tok.Groups[1], 64)
		if err != nil {
			return 0, err
		}
		total += value * c.unit(tok.Groups[2])
	}
	return total, nil
}

// unit in minutes
func (c Config) unit(u string) float64 {
	switch u {
	case "w":
		return c.DaysPerWeek * c.HoursPerDay * 60
	case "d":
		return c.HoursPerDay * 60
	case "h":
		return 60
	default:
		return 1
	}
}

// Parse reads a work log.
//
// Each line holds one or more durations, optionally preceded by a label and
// a colon. Text after a "#" is a comment.
func Parse(r io.Reader, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	report := &Report{Config: cfg, Totals: make(map[string]float64)}
	scanner := strex.NewScanner(string(data))
	for lineno := 1; !scanner.Done(); lineno++ {
		line := scanner.Readline()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var label string
		if i := strings.IndexByte(line, ':'); i >= 0 {
			label = strings.TrimSpace(line[:i])
			line = line[i+1:]
		}
		minutes, err := cfg.ParseDuration(line)
		if err != nil {
			return nil, errors.Newf("line %d", lineno).Wrap(err)
		}
		report.add(Entry{Line: lineno, Label: label, Minutes: minutes})
	}
	return report, nil
}

func (r *Report) add(e Entry) {
	r.Entries = append(r.Entries, e)
	if _, ok := r.Totals[e.Label]; !ok {
		r.Labels = append(r.Labels, e.Label)
	}
	r.Totals[e.Label] += e.Minutes
	r.Total += e.Minutes
}

// Format minutes in JIRA notation, e.g. "1w 2d 3h 30m"
func (c Config) Format(minutes float64) string {
	total := int64(math.Round(minutes))
	if total == 0 {
		return "0m"
	}
	var parts []string
	if total < 0 {
		parts = append(parts, "-")
		total = -total
	}
	week := int64(math.Round(c.unit("w")))
	day := int64(math.Round(c.unit("d")))
	for _, u := range []struct {
		size   int64
		suffix string
	}{{week, "w"}, {day, "d"}, {60, "h"}, {1, "m"}} {
		if u.size <= 0 || total < u.size {
			continue
		}
		parts = append(parts, strconv.FormatInt(total/u.size, 10)+u.suffix)
		total %= u.size
	}
	return strings.Replace(strings.Join(parts, " "), "- ", "-", 1)
}

// Hours converts minutes to hours
func Hours(minutes float64) float64 {
	return minutes / 60
}
