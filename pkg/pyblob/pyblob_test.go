package pyblob

import (
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloPy = "def hello():\n    return 'hello world'\n"

func TestModuleName(t *testing.T) {
	assert.Equal(t, "hello", ModuleName("src/hello.py"))
	assert.Equal(t, "mypkg", ModuleName("src/mypkg/__init__.py"))
	assert.Equal(t, "script", ModuleName("script"))
}

func TestEncodeDecode(t *testing.T) {
	source := []byte(strings.Repeat(helloPy, 20))
	for _, compress := range []bool{false, true} {
		blob, err := Encode(source, compress)
		require.NoError(t, err)
		decoded, err := Decode(blob, compress)
		require.NoError(t, err)
		assert.Equal(t, source, decoded)
	}

	plain, _ := Encode(source, false)
	compressed, _ := Encode(source, true)
	assert.Less(t, len(compressed), len(plain))
}

func TestLoadSources(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/src/hello.py", []byte(helloPy), 0o644))
	require.NoError(t, afero.WriteFile(mem, "/other/hello.py", []byte(helloPy), 0o644))
	require.NoError(t, afero.WriteFile(mem, "/src/my-mod.py", []byte(helloPy), 0o644))

	sources, err := LoadSources(mem, []string{"/src/hello.py"})
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "hello", sources[0].Module)

	_, err = LoadSources(mem, []string{"/src/hello.py", "/other/hello.py"})
	assert.Error(t, err)
	_, err = LoadSources(mem, []string{"/src/my-mod.py"})
	assert.Error(t, err)
	_, err = LoadSources(mem, []string{"/src/missing.py"})
	assert.Error(t, err)
}

var blobLine = regexp.MustCompile(`(?m)^    b'([A-Za-z0-9+/=]*)'$`)

func TestRender(t *testing.T) {
	sources := []Source{
		{Module: "hello", Path: "src/hello.py", Data: []byte(strings.Repeat(helloPy, 5))},
		{Module: "empty", Path: "src/empty.py"},
	}

	var b strings.Builder
	require.NoError(t, Render(&b, sources, Options{Width: 40}))
	out := b.String()

	assert.Contains(t, out, `("hello", "src/hello.py", (`)
	assert.Contains(t, out, `("empty", "src/empty.py", (`)
	assert.NotContains(t, out, "zlib")

	lines := blobLine.FindAllStringSubmatch(out, -1)
	require.NotEmpty(t, lines)
	var joined strings.Builder
	for _, l := range lines {
		assert.LessOrEqual(t, len(l[1]), 40)
		joined.WriteString(l[1])
	}
	decoded, err := Decode(joined.String(), false)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat(helloPy, 5), string(decoded))
}

func TestRenderCompressedExport(t *testing.T) {
	sources := []Source{{Module: "hello", Path: "hello.py", Data: []byte(helloPy)}}

	var b strings.Builder
	require.NoError(t, Render(&b, sources, Options{Compress: true, ExportSymbol: "hello_mod"}))
	out := b.String()
	assert.Contains(t, out, "import zlib")
	assert.Contains(t, out, "source = zlib.decompress(source)")
	assert.Contains(t, out, "\nhello_mod = _modules[0]\n")

	assert.Error(t, Render(&b, append(sources, sources[0]), Options{ExportSymbol: "x"}))
	assert.Error(t, Render(&b, sources, Options{ExportSymbol: "not valid"}))
	assert.Error(t, Render(&b, nil, Options{}))
}
