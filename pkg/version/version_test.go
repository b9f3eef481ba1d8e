package version

import (
	"testing"

	"github.com/oneconcern/nr/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	v, err := Parse("1.2.3-rc.1+build.7")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v.Major)
	assert.Equal(t, uint64(2), v.Minor)
	assert.Equal(t, uint64(3), v.Patch)
	assert.True(t, v.IsPrerelease())
	assert.Equal(t, "1.2.3-rc.1+build.7", v.String())

	_, err = Parse("v1.2")
	assert.Error(t, err)

	v, err = ParseTolerant("v1.2")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", v.String())

	assert.Panics(t, func() { MustParse("nope") })
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, MustParse("1.0.0-alpha").Compare(MustParse("1.0.0")))
	assert.Equal(t, 1, MustParse("1.10.0").Compare(MustParse("1.9.9")))
	assert.Equal(t, 0, MustParse("1.0.0+a").Compare(MustParse("1.0.0+b")))

	versions := []Version{MustParse("2.0.0"), MustParse("1.0.0-rc.1"), MustParse("1.0.0")}
	Sort(versions)
	assert.Equal(t, "1.0.0-rc.1", versions[0].String())
	assert.Equal(t, "2.0.0", versions[2].String())
}

func TestBump(t *testing.T) {
	for _, toPin := range []struct {
		from     string
		part     Part
		expected string
	}{
		{from: "1.2.3", part: Major, expected: "2.0.0"},
		{from: "1.2.3", part: Minor, expected: "1.3.0"},
		{from: "1.2.3", part: Patch, expected: "1.2.4"},
		{from: "1.2.3+build.1", part: Patch, expected: "1.2.4"},
		{from: "1.0.1-rc.1", part: Patch, expected: "1.0.1"},
		{from: "2.0.0-beta", part: Major, expected: "2.0.0"},
		{from: "2.1.0-beta", part: Major, expected: "3.0.0"},
		{from: "1.3.0-rc.2", part: Minor, expected: "1.3.0"},
		{from: "1.3.1-rc.2", part: Minor, expected: "1.4.0"},
		{from: "1.0.0", part: Pre, expected: "1.0.1-0"},
		{from: "1.0.0-alpha.1", part: Pre, expected: "1.0.0-alpha.2"},
		{from: "1.0.0-alpha", part: Pre, expected: "1.0.0-alpha.1"},
		{from: "1.0.0-0", part: Pre, expected: "1.0.0-1"},
	} {
		fixture := toPin
		t.Run(fixture.from+"/"+string(fixture.part), func(t *testing.T) {
			next, err := MustParse(fixture.from).Bump(fixture.part)
			require.NoError(t, err)
			assert.Equal(t, fixture.expected, next.String())
		})
	}

	_, err := MustParse("1.0.0").Bump(Part("build"))
	assert.True(t, errors.Is(err, ErrInvalidPart))
}

func TestBumpDoesNotAlias(t *testing.T) {
	v := MustParse("1.0.0-alpha.1")
	_, err := v.Bump(Pre)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0-alpha.1", v.String())
}

func TestParsePart(t *testing.T) {
	p, err := ParsePart("MINOR")
	require.NoError(t, err)
	assert.Equal(t, Minor, p)

	_, err = ParsePart("1.2.3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPart))
}
