package versionupgrade

import (
	"testing"

	"github.com/oneconcern/nr/pkg/errors"
	"github.com/oneconcern/nr/pkg/fs"
	"github.com/oneconcern/nr/pkg/version"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectDir = "/project"

func setupProject(t testing.TB, files map[string]string) (*Upgrader, afero.Fs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll(projectDir, 0o755))
	for name, content := range files {
		require.NoError(t, afero.WriteFile(mem, projectDir+"/"+name, []byte(content), 0o644))
	}
	paths := fs.New(mem, fs.WorkingDir(func() (string, error) { return projectDir, nil }))
	return New(mem, projectDir, WithPaths(paths)), mem
}

const packageJSON = `{
  "name": "demo",
  "version": "1.2.3",
  "dependencies": {
    "left-pad": "1.2.3"
  }
}
`

const pyproject = `[project]
name = "demo"
version = "0.4.0"

[tool.black]
target-version = "0.4.0"
`

func TestDetect(t *testing.T) {
	for _, toPin := range []struct {
		name     string
		files    map[string]string
		cfg      *Config
		expected string
		source   string
	}{
		{
			name:     "package.json",
			files:    map[string]string{"package.json": packageJSON, "setup.py": "setup(version='9.9.9')"},
			expected: "1.2.3",
			source:   "/project/package.json",
		},
		{
			name:     "pyproject",
			files:    map[string]string{"pyproject.toml": pyproject},
			expected: "0.4.0",
			source:   "/project/pyproject.toml",
		},
		{
			name:     "poetry",
			files:    map[string]string{"pyproject.toml": "[tool.poetry]\nversion = \"2.0.0-rc.1\"\n"},
			expected: "2.0.0-rc.1",
			source:   "/project/pyproject.toml",
		},
		{
			name:     "cargo",
			files:    map[string]string{"Cargo.toml": "[package]\nname = \"demo\"\nversion = \"0.1.0\"\n"},
			expected: "0.1.0",
			source:   "/project/Cargo.toml",
		},
		{
			name:     "setup.cfg",
			files:    map[string]string{"setup.cfg": "[metadata]\nname = demo\nversion = 3.1.4\n"},
			expected: "3.1.4",
			source:   "/project/setup.cfg",
		},
		{
			name:     "setup.py",
			files:    map[string]string{"setup.py": "setup(\n  name='demo',\n  version = '1.0',\n)\n"},
			expected: "1.0.0",
			source:   "/project/setup.py",
		},
		{
			name:     "package init",
			files:    map[string]string{"src/demo/__init__.py": "__version__ = \"0.0.7\"\n"},
			expected: "0.0.7",
			source:   "/project/src/demo/__init__.py",
		},
		{
			name:     "configured",
			files:    map[string]string{"package.json": packageJSON},
			cfg:      &Config{Version: "5.0.0"},
			expected: "5.0.0",
		},
	} {
		fixture := toPin
		t.Run(fixture.name, func(t *testing.T) {
			u, _ := setupProject(t, fixture.files)
			detected, err := u.Detect(fixture.cfg)
			require.NoError(t, err)
			assert.Equal(t, fixture.expected, detected.Version.String())
			assert.Equal(t, fixture.source, detected.Source)
		})
	}
}

func TestDetectNothing(t *testing.T) {
	u, _ := setupProject(t, map[string]string{"README.md": "# demo"})
	_, err := u.Detect(nil)
	assert.True(t, errors.Is(err, ErrNoVersion))
}

func TestTarget(t *testing.T) {
	current := version.MustParse("1.2.3")

	next, err := Target(current, "minor")
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", next.String())

	next, err = Target(current, "v2.0")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", next.String())

	_, err = Target(current, "latest")
	assert.Error(t, err)
}

func TestPlanAndApply(t *testing.T) {
	u, mem := setupProject(t, map[string]string{
		"package.json":       packageJSON,
		"pyproject.toml":     pyproject,
		"demo/__init__.py":   "__version__ = '1.2.3'\n",
		"docs/conf.py":       "release = '1.2.3'\nversion = '1.2'\n",
		"docs/untouched.txt": "1.2.3",
	})

	rules, err := u.Rules(nil)
	require.NoError(t, err)
	assert.Equal(t, []Rule{
		{Path: "package.json", Pattern: manifests[0].pattern},
		{Path: "pyproject.toml", Pattern: manifests[1].pattern},
		{Path: "demo/__init__.py", Pattern: initPattern},
	}, rules)

	rules = append(rules[:1], rules[2], Rule{Path: "docs/conf.py", Pattern: `release = '(.*)'`})
	changes, err := u.Plan(rules, version.MustParse("1.2.3"), version.MustParse("1.3.0"))
	require.NoError(t, err)
	require.Len(t, changes, 3)

	assert.Equal(t, "/project/package.json", changes[0].Path)
	assert.Equal(t, 3, changes[0].Line)
	assert.Equal(t, `  "version": "1.2.3",`, changes[0].Before)
	assert.Equal(t, `  "version": "1.3.0",`, changes[0].After)
	assert.Equal(t, "release = '1.3.0'", changes[2].After)

	before, _ := afero.ReadFile(mem, "/project/package.json")
	assert.Equal(t, packageJSON, string(before), "planning does not write anything")

	require.NoError(t, u.Apply(changes))

	after, err := afero.ReadFile(mem, "/project/package.json")
	require.NoError(t, err)
	assert.Contains(t, string(after), `"version": "1.3.0"`)
	assert.Contains(t, string(after), `"left-pad": "1.2.3"`, "dependencies are left alone")

	init, err := afero.ReadFile(mem, "/project/demo/__init__.py")
	require.NoError(t, err)
	assert.Equal(t, "__version__ = '1.3.0'\n", string(init))

	conf, err := afero.ReadFile(mem, "/project/docs/conf.py")
	require.NoError(t, err)
	assert.Equal(t, "release = '1.3.0'\nversion = '1.2'\n", string(conf))

	untouched, _ := afero.ReadFile(mem, "/project/docs/untouched.txt")
	assert.Equal(t, "1.2.3", string(untouched))
}

func TestUpgradeShortVersion(t *testing.T) {
	for _, toPin := range []struct {
		name     string
		file     string
		content  string
		expected string
	}{
		{name: "short", file: "setup.py", content: "setup(\n  version = '1.0',\n)\n", expected: "setup(\n  version = '1.0.1',\n)\n"},
		{name: "prefixed", file: "demo/__init__.py", content: "__version__ = 'v1.0.0'\n", expected: "__version__ = 'v1.0.1'\n"},
	} {
		fixture := toPin
		t.Run(fixture.name, func(t *testing.T) {
			u, mem := setupProject(t, map[string]string{fixture.file: fixture.content})

			detected, err := u.Detect(nil)
			require.NoError(t, err)
			assert.Equal(t, "1.0.0", detected.Version.String())
			assert.NotEqual(t, detected.Version.String(), detected.Raw)

			target, err := Target(detected.Version, "patch")
			require.NoError(t, err)
			rules, err := u.Rules(nil)
			require.NoError(t, err)
			changes, err := u.Plan(rules, detected.Version, target)
			require.NoError(t, err)
			require.Len(t, changes, 1)
			require.NoError(t, u.Apply(changes))

			after, err := afero.ReadFile(mem, projectDir+"/"+fixture.file)
			require.NoError(t, err)
			assert.Equal(t, fixture.expected, string(after))
		})
	}
}

func TestPlanErrors(t *testing.T) {
	u, _ := setupProject(t, map[string]string{"VERSION": "1.0.0\n"})
	from, to := version.MustParse("1.0.0"), version.MustParse("1.0.1")

	_, err := u.Plan([]Rule{{Path: "VERSION", Pattern: `^{version}$`}}, version.MustParse("2.0.0"), to)
	assert.Error(t, err, "current version not found")

	_, err = u.Plan([]Rule{{Path: "VERSION", Pattern: `\d+`}}, from, to)
	assert.Error(t, err, "no capture group")

	_, err = u.Plan([]Rule{{Path: "MISSING", Pattern: `{version}`}}, from, to)
	assert.Error(t, err)

	changes, err := u.Plan([]Rule{{Path: "VERSION", Pattern: `(?m)^{version}$`}}, from, to)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "1.0.1", changes[0].After)
}

func TestLoadConfig(t *testing.T) {
	mem := afero.NewMemMapFs()

	cfg, err := LoadConfig(mem, "/p/"+ConfigFile)
	require.NoError(t, err)
	assert.Empty(t, cfg.Files)

	require.NoError(t, afero.WriteFile(mem, "/p/"+ConfigFile, []byte(`
version: 1.0.0
files:
  - path: VERSION
    pattern: "{version}"
  - path: README.md
    pattern: 'version-(?P<version>[^-]+)-blue'
`), 0o644))
	cfg, err = LoadConfig(mem, "/p/"+ConfigFile)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", cfg.Version)
	require.Len(t, cfg.Files, 2)
	assert.Equal(t, "README.md", cfg.Files[1].Path)

	require.NoError(t, afero.WriteFile(mem, "/p/bad.yaml", []byte("files:\n  - path: x\n"), 0o644))
	_, err = LoadConfig(mem, "/p/bad.yaml")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(mem, "/p/unknown.yaml", []byte("versions: 1\n"), 0o644))
	_, err = LoadConfig(mem, "/p/unknown.yaml")
	assert.Error(t, err)
}
