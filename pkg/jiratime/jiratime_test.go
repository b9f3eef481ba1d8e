package jiratime

import (
	"strings"
	"testing"

	"github.com/oneconcern/nr/pkg/strex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	cfg := DefaultConfig()
	for input, expected := range map[string]float64{
		"30m":          30,
		"1h 30m":       90,
		"1.5h":         90,
		"1d":           8 * 60,
		"1w":           5 * 8 * 60,
		"1w 2d 3h 30m": (5*8+2*8+3)*60 + 30,
		"2h, 15m":      135,
		"1h+1h":        120,
		"4 h":          240,
	} {
		got, err := cfg.ParseDuration(input)
		require.NoErrorf(t, err, "input %q", input)
		assert.Equalf(t, expected, got, "input %q", input)
	}

	_, err := cfg.ParseDuration("   ")
	assert.Error(t, err)

	_, err = cfg.ParseDuration("3 hours")
	var syntaxErr *strex.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestParseDurationCustomWeek(t *testing.T) {
	cfg := Config{HoursPerDay: 6, DaysPerWeek: 4}
	got, err := cfg.ParseDuration("1w 1d")
	require.NoError(t, err)
	assert.Equal(t, float64((4*6+6)*60), got)
}

func TestFormat(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "0m", cfg.Format(0))
	assert.Equal(t, "45m", cfg.Format(45))
	assert.Equal(t, "1h 30m", cfg.Format(90))
	assert.Equal(t, "1d", cfg.Format(480))
	assert.Equal(t, "1w 2d 3h 30m", cfg.Format((5*8+2*8+3)*60+30))
	assert.Equal(t, "-2h", cfg.Format(-120))
	assert.Equal(t, 1.5, Hours(90))
}

func TestParse(t *testing.T) {
	log := `# sprint 12
review: 1h 30m
PROJ-1: 2d   # design
3h

PROJ-1: 4h
review: 30m
`
	report, err := Parse(strings.NewReader(log), DefaultConfig())
	require.NoError(t, err)

	require.Len(t, report.Entries, 5)
	assert.Equal(t, Entry{Line: 4, Label: "", Minutes: 180}, report.Entries[2])
	assert.Equal(t, []string{"review", "PROJ-1", ""}, report.Labels)
	assert.Equal(t, float64(120), report.Totals["review"])
	assert.Equal(t, float64(20*60), report.Totals["PROJ-1"])
	assert.Equal(t, float64(120+20*60+180), report.Total)
	assert.Equal(t, "3d 1h", report.Config.Format(report.Total))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("ok: 1h\nbad: 1y\n"), DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = Parse(strings.NewReader("1h"), Config{})
	assert.Error(t, err)
}
