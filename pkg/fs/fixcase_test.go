package fs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixCase(t *testing.T) {
	p, _ := setupPaths(t, "/work/Src/Main.go", "/work/Src/main.go.bak", "/work/README.md")

	for _, toPin := range []struct {
		name     string
		path     string
		expected string
	}{
		{name: "all lower", path: "/work/src/main.go", expected: "/work/Src/Main.go"},
		{name: "all upper", path: "/WORK/SRC/MAIN.GO", expected: "/work/Src/Main.go"},
		{name: "already correct", path: "/work/README.md", expected: "/work/README.md"},
		{name: "missing leaf", path: "/work/src/other.go", expected: "/work/Src/other.go"},
		{name: "missing dir stops fixing", path: "/work/NOPE/README.md", expected: "/work/NOPE/README.md"},
		{name: "parent reference", path: "/work/src/../readme.md", expected: "/work/README.md"},
		{name: "root", path: "/", expected: "/"},
	} {
		fixture := toPin
		t.Run(fixture.name, func(t *testing.T) {
			assert.Equal(t, fixture.expected, p.FixCase(fixture.path))
		})
	}
}

func TestFixCaseWithoutCache(t *testing.T) {
	p, mem := setupPaths(t, "/work/Data.csv")
	p = New(mem, ListingCacheSize(0))

	assert.Equal(t, "/work/Data.csv", p.FixCase("/work/data.CSV"))
	fakeFile(t, mem, "/work/Late.txt")
	assert.Equal(t, "/work/Late.txt", p.FixCase("/work/late.txt"))
}

func TestForgetListings(t *testing.T) {
	p, mem := setupPaths(t, "/work/Data.csv")

	assert.Equal(t, "/work/Data.csv", p.FixCase("/work/data.csv"))
	fakeFile(t, mem, "/work/Late.txt")
	p.ForgetListings()
	assert.Equal(t, "/work/Late.txt", p.FixCase("/work/late.txt"))
}

func TestIsFileCS(t *testing.T) {
	p, _ := setupPaths(t, "/work/Data.csv")

	assert.True(t, p.IsFileCS("/work/Data.csv"))
	assert.False(t, p.IsFileCS("/work/data.csv"))
	assert.False(t, p.IsFileCS("/work"))
}
