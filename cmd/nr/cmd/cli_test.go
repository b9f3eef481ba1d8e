package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oneconcern/nr/pkg/fs"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testCwd = "/work"

type ExitMocks struct {
	mock.Mock
	fatalCalls int
	exitCode   int
}

func (m *ExitMocks) Fatalf(format string, v ...interface{}) {
	m.fatalCalls++
}

func (m *ExitMocks) Fatalln(v ...interface{}) {
	m.fatalCalls++
}

func (m *ExitMocks) Exit(code int) {
	m.fatalCalls++
	m.exitCode = code
}

func MakeFatalfMock(m *ExitMocks) func(string, ...interface{}) {
	return func(format string, v ...interface{}) {
		m.Fatalf(format, v...)
	}
}

func MakeFatallnMock(m *ExitMocks) func(...interface{}) {
	return func(v ...interface{}) {
		m.Fatalln(v...)
	}
}

func MakeExitMock(m *ExitMocks) func(int) {
	return func(code int) {
		m.Exit(code)
	}
}

var exitMocks *ExitMocks

type testEnv struct {
	fs  afero.Fs
	out *bytes.Buffer
}

func setupTests(t *testing.T, files map[string]string) testEnv {
	t.Helper()

	exitMocks = new(ExitMocks)
	savedFatalf, savedFatalln, savedExit := logFatalf, logFatalln, osExit
	logFatalf = MakeFatalfMock(exitMocks)
	logFatalln = MakeFatallnMock(exitMocks)
	osExit = MakeExitMock(exitMocks)

	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll(testCwd, 0o755))
	for name, content := range files {
		require.NoError(t, afero.WriteFile(mem, name, []byte(content), 0o644))
	}
	savedFs, savedPaths := appFs, paths
	appFs = mem
	paths = fs.New(mem, fs.WorkingDir(func() (string, error) { return testCwd, nil }))

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetIn(strings.NewReader(""))

	t.Cleanup(func() {
		logFatalf, logFatalln, osExit = savedFatalf, savedFatalln, savedExit
		appFs, paths = savedFs, savedPaths
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	})
	return testEnv{fs: mem, out: out}
}

// resetFlags restores the defaults of all flags, since cobra keeps their
// values from one execution to the next
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
	nrFlags.archive.format = ""
}

func execute(t *testing.T, env testEnv, args ...string) string {
	t.Helper()
	env.out.Reset()
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return env.out.String()
}

func readFile(t testing.TB, afs afero.Fs, name string) string {
	t.Helper()
	b, err := afero.ReadFile(afs, name)
	require.NoError(t, err)
	return string(b)
}

func TestVersion(t *testing.T) {
	env := setupTests(t, nil)

	out := execute(t, env, "version")
	assert.Contains(t, out, "Version: dev")
	assert.Equal(t, 0, exitMocks.fatalCalls)
}

func TestConfigShow(t *testing.T) {
	env := setupTests(t, nil)

	out := execute(t, env, "config", "show")
	assert.Contains(t, out, "loglevel: warn")
	assert.Contains(t, out, "hoursPerDay: 8")
	assert.Contains(t, out, "daysPerWeek: 5")
}

func TestConfigFromEnv(t *testing.T) {
	env := setupTests(t, nil)
	t.Setenv("NR_AUTHOR", "Env Author")
	t.Setenv("NR_EMAIL", "env@example.com")
	t.Setenv("NR_JIRA_HOURSPERDAY", "7")

	out := execute(t, env, "config", "show")
	assert.Contains(t, out, "author: Env Author")
	assert.Contains(t, out, "email: env@example.com")
	assert.Contains(t, out, "hoursPerDay: 7")

	out = execute(t, env, "grablicense", "isc", "--year", "2021")
	assert.Contains(t, out, "Copyright (c) 2021 Env Author <env@example.com>")
	assert.Equal(t, 0, exitMocks.fatalCalls)
}

func TestGrabLicense(t *testing.T) {
	env := setupTests(t, nil)

	out := execute(t, env, "grablicense", "mit", "--author", "Jane Doe", "--year", "2020")
	assert.True(t, strings.HasPrefix(out, "MIT License"))
	assert.Contains(t, out, "Copyright (c) 2020 Jane Doe")

	execute(t, env, "grablicense", "apache", "--author", "Jane Doe", "-o", "LICENSE")
	assert.Contains(t, readFile(t, env.fs, "/work/LICENSE"), "Apache License")
	assert.Contains(t, readFile(t, env.fs, "/work/LICENSE"), "Jane Doe")

	out = execute(t, env, "grablicense", "--list")
	assert.Contains(t, out, "MIT\n")
	assert.Contains(t, out, "Apache-2.0\n")
	assert.Equal(t, 0, exitMocks.fatalCalls)

	execute(t, env, "grablicense", "gpl-9")
	assert.Equal(t, 1, exitMocks.fatalCalls)
}

func TestJiraTime(t *testing.T) {
	env := setupTests(t, map[string]string{
		"/work/worklog.txt": "review: 2h 30m\nreview: 45m # standup\ndev: 1d\n",
	})

	out := execute(t, env, "jiratime", "worklog.txt")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"review", "3h", "15m", "3.25"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"dev", "1d", "8"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"TOTAL", "1d", "3h", "15m", "11.25"}, strings.Fields(lines[3]))

	rootCmd.SetIn(strings.NewReader("3h\n3h\n"))
	out = execute(t, env, "jiratime", "-", "--hours-per-day", "6")
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"TOTAL", "1d", "6"}, strings.Fields(lines[2]))
	assert.Equal(t, 0, exitMocks.fatalCalls)

	execute(t, env, "jiratime", "missing.txt")
	assert.Equal(t, 1, exitMocks.fatalCalls)
}

func TestPyBlob(t *testing.T) {
	env := setupTests(t, map[string]string{
		"/work/lib/helpers.py": "def hello():\n    return 'hello'\n",
	})

	out := execute(t, env, "py.blob", "lib/helpers.py", "--export-symbol", "helpers")
	assert.Contains(t, out, `("helpers", `)
	assert.Contains(t, out, "helpers = _modules[0]")
	assert.NotContains(t, out, "import zlib")

	execute(t, env, "py.blob", "lib/helpers.py", "-c", "-o", "build/bundle.py")
	assert.Contains(t, readFile(t, env.fs, "/work/build/bundle.py"), "import zlib")

	out = execute(t, env, "py.blob", "lib/helpers.py", "--blob-only")
	assert.Equal(t, "ZGVmIGhlbGxvKCk6CiAgICByZXR1cm4gJ2hlbGxvJwo=\n", out)
	assert.Equal(t, 0, exitMocks.fatalCalls)
}

func TestVersionUpgrade(t *testing.T) {
	env := setupTests(t, map[string]string{
		"/work/proj/package.json": `{"name": "proj", "version": "1.2.0"}`,
	})

	out := execute(t, env, "versionupgrade", "-C", "proj")
	assert.Equal(t, "1.2.0\n", out)

	out = execute(t, env, "versionupgrade", "minor", "-C", "proj", "--dry")
	assert.Contains(t, out, "package.json:1")
	assert.Contains(t, out, `+ {"name": "proj", "version": "1.3.0"}`)
	assert.Contains(t, readFile(t, env.fs, "/work/proj/package.json"), `"1.2.0"`)

	out = execute(t, env, "versionupgrade", "minor", "-C", "proj")
	assert.Contains(t, out, "1.2.0 -> 1.3.0")
	assert.Equal(t, `{"name": "proj", "version": "1.3.0"}`, readFile(t, env.fs, "/work/proj/package.json"))
	assert.Equal(t, 0, exitMocks.fatalCalls)

	execute(t, env, "versionupgrade", "-C", "elsewhere")
	assert.Equal(t, 1, exitMocks.fatalCalls)
}

func TestArchive(t *testing.T) {
	env := setupTests(t, map[string]string{
		"/work/src/a.txt":      "aaa",
		"/work/src/b.txt":      "bbb",
		"/work/src/.gitignore": "*.log\n",
		"/work/src/debug.log":  "noise",
	})

	out := execute(t, env, "archive", "src", "-o", "dist/src.zip", "--gitignore", "--checksum")
	assert.Contains(t, out, "dist/src.zip: 3 files")
	exists, err := afero.Exists(env.fs, "/work/dist/src.zip")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.True(t, strings.HasSuffix(readFile(t, env.fs, "/work/dist/src.zip.b2sum"), "  src.zip\n"))

	execute(t, env, "archive", "src", "-o", "dist/src.bin", "--format", "tgz")
	exists, err = afero.Exists(env.fs, "/work/dist/src.bin")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 0, exitMocks.fatalCalls)

	execute(t, env, "archive", "src")
	assert.Equal(t, 1, exitMocks.fatalCalls)

	execute(t, env, "archive", "src", "-o", "dist/src.rar")
	assert.Equal(t, 2, exitMocks.fatalCalls)
}

func TestGitignoreCheck(t *testing.T) {
	env := setupTests(t, map[string]string{
		"/work/.gitignore":    "*.o\nbuild/\n!keep.o\n",
		"/work/main.go":       "package main",
		"/work/build/out.bin": "",
	})

	out := execute(t, env, "gitignore", "check", "main.o", "build", "main.go", "keep.o", "-v")
	assert.Contains(t, out, "ignored  main.o\n")
	assert.Contains(t, out, "ignored  build\n")
	assert.Contains(t, out, "included keep.o\n")
	assert.Contains(t, out, "         main.go\n")
	assert.Equal(t, 0, exitMocks.fatalCalls)

	out = execute(t, env, "gitignore", "check", "main.go")
	assert.Empty(t, out)
	assert.Equal(t, 1, exitMocks.fatalCalls)
	assert.Equal(t, 2, exitMocks.exitCode)
}

func TestFs(t *testing.T) {
	env := setupTests(t, map[string]string{
		"/work/run.sh":          "#!/bin/sh",
		"/work/pkg/a.go":        "package pkg",
		"/work/pkg/a_test.go":   "package pkg",
		"/work/pkg/sub/b.go":    "package sub",
		"/work/gen/schema.json": "{}",
		"/work/gen/schema.go":   "package gen",
	})

	for _, toPin := range []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "canonical", args: []string{"fs", "canonical", "pkg/../run.sh", "/tmp//x"}, expected: "/work/run.sh\n/tmp/x\n"},
		{name: "canonical with parent", args: []string{"fs", "canonical", "b.go", "--parent", "/work/pkg/sub"}, expected: "/work/pkg/sub/b.go\n"},
		{name: "rel", args: []string{"fs", "rel", "/work/pkg/sub", "/elsewhere"}, expected: "pkg/sub\n/elsewhere\n"},
		{name: "rel with par", args: []string{"fs", "rel", "/elsewhere", "--par"}, expected: "../elsewhere\n"},
		{name: "glob", args: []string{"fs", "glob", "pkg/**/*.go", "-e", "pkg/**/*_test.go"}, expected: "/work/pkg/a.go\n/work/pkg/sub/b.go\n"},
		{name: "chmod", args: []string{"fs", "chmod", "u+x", "run.sh"}, expected: "rwxr--r-- run.sh\n"},
		{name: "fixcase", args: []string{"fs", "fixcase", "PKG/Sub/b.go"}, expected: "/work/pkg/sub/b.go\n"},
	} {
		fixture := toPin
		t.Run(fixture.name, func(t *testing.T) {
			out := execute(t, env, fixture.args...)
			assert.Equal(t, fixture.expected, out)
			assert.Equal(t, 0, exitMocks.fatalCalls)
		})
	}
}

func TestFsStale(t *testing.T) {
	env := setupTests(t, map[string]string{
		"/work/schema.json": "{}",
		"/work/schema.go":   "package gen",
	})
	now := time.Now()
	require.NoError(t, env.fs.Chtimes("/work/schema.json", now, now))
	require.NoError(t, env.fs.Chtimes("/work/schema.go", now.Add(time.Minute), now.Add(time.Minute)))

	out := execute(t, env, "fs", "stale", "--src", "schema.json", "--dst", "schema.go")
	assert.Equal(t, "fresh\n", out)
	assert.Equal(t, 1, exitMocks.exitCode)

	out = execute(t, env, "fs", "stale", "--src", "schema.json", "--dst", "schema.go", "--dst", "schema_gen.go")
	assert.Equal(t, "stale\n", out)
	assert.Equal(t, 1, exitMocks.fatalCalls)
}

func TestWatchNeedsCommand(t *testing.T) {
	env := setupTests(t, nil)

	execute(t, env, "watch", "src")
	assert.Equal(t, 1, exitMocks.fatalCalls)
}

func TestUsage(t *testing.T) {
	env := setupTests(t, nil)
	target := t.TempDir()
	require.NoError(t, env.fs.MkdirAll(target, 0o755))

	execute(t, env, "usage", "--target-dir", target)
	require.Equal(t, 0, exitMocks.fatalCalls)

	for _, name := range []string{"nr.md", "nr_archive.md", "nr_fs_glob.md", "nr_gitignore_check.md", "nr_py.blob.md"} {
		_, err := os.Stat(filepath.Join(target, name))
		assert.NoError(t, err, name)
	}
}
