package fs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddToBase(t *testing.T) {
	assert.Equal(t, "dir/lib-debug.so", AddToBase("dir/lib.so", "-debug"))
	assert.Equal(t, "dir/archive.tar-1.gz", AddToBase("dir/archive.tar.gz", "-1"))
	assert.Equal(t, "dir/.bashrc-old", AddToBase("dir/.bashrc", "-old"))
	assert.Equal(t, "dir.d/file-x", AddToBase("dir.d/file", "-x"))
	assert.Equal(t, "dir/lib.so", AddToBase("dir/lib.so", ""))
}

func TestAddPrefix(t *testing.T) {
	assert.Equal(t, "dir/libfoo.a", AddPrefix("dir/foo.a", "lib"))
	assert.Equal(t, "libfoo.a", AddPrefix("foo.a", "lib"))
	assert.Equal(t, `c:\dir\_foo`, AddPrefix(`c:\dir\foo`, "_"))
	assert.Equal(t, "dir/FOO.A", AddPrefixFunc("dir/foo.a", strings.ToUpper))
	assert.Equal(t, "dir/foo.a", AddPrefix("dir/foo.a", ""))
}

func TestSuffixes(t *testing.T) {
	assert.Equal(t, "main.go.bak", AddSuffix("main.go", ".bak", false))
	assert.Equal(t, "main.bak", AddSuffix("main.go", ".bak", true))
	assert.Equal(t, "main", AddSuffix("main.go", "", true))
	assert.Equal(t, "main.go", AddSuffix("main.go", "", false))
	assert.Equal(t, "main.o", SetSuffix("main.c", ".o"))
	assert.Equal(t, "dir.d/main.o", SetSuffix("dir.d/main", ".o"))

	assert.Equal(t, "a/b", RmvSuffix("a/b.txt"))
	assert.Equal(t, "a.d/b", RmvSuffix("a.d/b"))
	assert.Equal(t, `a.d\b`, RmvSuffix(`a.d\b`))

	suffix, ok := GetSuffix("a/b.txt")
	assert.True(t, ok)
	assert.Equal(t, "txt", suffix)

	suffix, ok = GetSuffix("a/b.")
	assert.True(t, ok)
	assert.Equal(t, "", suffix)

	_, ok = GetSuffix("a.d/b")
	assert.False(t, ok)
}
