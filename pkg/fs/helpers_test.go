package fs

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testCwd = "/work"

func setupPaths(t testing.TB, files ...string) (*Paths, afero.Fs) {
	t.Helper()

	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll(testCwd, 0o755))
	for _, file := range files {
		fakeFile(t, mem, file)
	}
	return New(mem, WorkingDir(func() (string, error) { return testCwd, nil })), mem
}

func fakeFile(t testing.TB, fs afero.Fs, file string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, file, []byte("this is the text"), 0o644))
}

func touch(t testing.TB, fs afero.Fs, file string, mtime time.Time) {
	t.Helper()
	require.NoError(t, fs.Chtimes(file, mtime, mtime))
}
