package versionupgrade

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-ini/ini"
	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/nr/pkg/errors"
	"github.com/oneconcern/nr/pkg/fs"
	"github.com/oneconcern/nr/pkg/version"
	toml "github.com/pelletier/go-toml"
	"github.com/spf13/afero"
)

// ErrNoVersion is returned when no version could be detected in a project
var ErrNoVersion = errors.New("no version found")

const versionPlaceholder = "{version}"

// manifest knows how to read the version from a project file, and where it
// is written
type manifest struct {
	name    string
	read    func([]byte) (string, error)
	pattern string
}

var manifests = []manifest{
	{
		name: "package.json",
		read: func(data []byte) (string, error) {
			var pkg struct {
				Version string `json:"version"`
			}
			err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &pkg)
			return pkg.Version, err
		},
		pattern: `"version"\s*:\s*"{version}"`,
	},
	{
		name:    "pyproject.toml",
		read:    tomlVersion("project.version", "tool.poetry.version"),
		pattern: `(?m)^version\s*=\s*"{version}"`,
	},
	{
		name:    "Cargo.toml",
		read:    tomlVersion("package.version"),
		pattern: `(?m)^version\s*=\s*"{version}"`,
	},
	{
		name: "setup.cfg",
		read: func(data []byte) (string, error) {
			cfg, err := ini.Load(data)
			if err != nil {
				return "", err
			}
			return cfg.Section("metadata").Key("version").String(), nil
		},
		pattern: `(?m)^version\s*=\s*{version}`,
	},
	{
		name:    "setup.py",
		read:    regexpVersion(`version\s*=\s*['"]{version}['"]`),
		pattern: `version\s*=\s*['"]{version}['"]`,
	},
}

const initPattern = `__version__\s*=\s*['"]{version}['"]`

var initGlobs = []string{"*/__init__.py", "src/*/__init__.py"}

func tomlVersion(keys ...string) func([]byte) (string, error) {
	return func(data []byte) (string, error) {
		tree, err := toml.LoadBytes(data)
		if err != nil {
			return "", err
		}
		for _, key := range keys {
			if v, ok := tree.Get(key).(string); ok && v != "" {
				return v, nil
			}
		}
		return "", nil
	}
}

func regexpVersion(pattern string) func([]byte) (string, error) {
	re := compileRule(pattern)
	return func(data []byte) (string, error) {
		m := re.FindSubmatch(data)
		if m == nil {
			return "", nil
		}
		return string(m[re.SubexpIndex("version")]), nil
	}
}

// compileRule expands the version placeholder of a rule pattern
func compileRule(pattern string) *regexp.Regexp {
	re, err := parseRule(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

func parseRule(pattern string) (*regexp.Regexp, error) {
	expanded := strings.ReplaceAll(pattern, versionPlaceholder, `(?P<version>v?[0-9][0-9A-Za-z.+\-]*)`)
	re, err := regexp.Compile(expanded)
	if err != nil {
		return nil, errors.Newf("invalid pattern %q", pattern).Wrap(err)
	}
	if re.SubexpIndex("version") < 0 && re.NumSubexp() == 0 {
		return nil, errors.Newf("pattern %q does not capture a version", pattern)
	}
	return re, nil
}

// versionGroup is the index of the group capturing the version
func versionGroup(re *regexp.Regexp) int {
	if i := re.SubexpIndex("version"); i >= 0 {
		return i
	}
	return 1
}

// Detection of a version in a project
type Detection struct {
	Version version.Version
	// Raw is the version as written in the source
	Raw string
	// Source is the file the version was read from, or empty when configured
	Source string
}

// Detect the current version of the project.
//
// A version set in the config wins. Otherwise, manifests are looked up in
// this order: package.json, pyproject.toml, Cargo.toml, setup.cfg, setup.py,
// then the __version__ of a Python package.
func (u *Upgrader) Detect(cfg *Config) (Detection, error) {
	if cfg != nil && cfg.Version != "" {
		v, err := version.ParseTolerant(cfg.Version)
		return Detection{Version: v, Raw: cfg.Version}, err
	}

	for _, m := range manifests {
		file := filepath.Join(u.dir, m.name)
		data, err := afero.ReadFile(u.fs, file)
		if err != nil {
			continue
		}
		raw, err := m.read(data)
		if err != nil {
			return Detection{}, errors.New(file).Wrap(err)
		}
		if raw == "" {
			continue
		}
		v, err := version.ParseTolerant(raw)
		if err != nil {
			return Detection{}, errors.New(file).Wrap(err)
		}
		return Detection{Version: v, Raw: raw, Source: file}, nil
	}

	inits, err := u.packageInits()
	if err != nil {
		return Detection{}, err
	}
	read := regexpVersion(initPattern)
	for _, file := range inits {
		data, err := afero.ReadFile(u.fs, file)
		if err != nil {
			return Detection{}, err
		}
		raw, _ := read(data)
		if raw == "" {
			continue
		}
		v, err := version.ParseTolerant(raw)
		if err != nil {
			return Detection{}, errors.New(file).Wrap(err)
		}
		return Detection{Version: v, Raw: raw, Source: file}, nil
	}
	return Detection{}, errors.New(ErrNoVersion.Error()).Wrap(errors.Newf("in %s", u.dir))
}

func (u *Upgrader) packageInits() ([]string, error) {
	return u.paths.Glob(initGlobs, fs.GlobOptions{Parent: u.dir})
}

// Rules lists where the version is written: the rules of the config, or the
// default rules of the manifests found in the project.
func (u *Upgrader) Rules(cfg *Config) ([]Rule, error) {
	if cfg != nil && len(cfg.Files) > 0 {
		return cfg.Files, nil
	}
	var rules []Rule
	for _, m := range manifests {
		if ok, _ := afero.Exists(u.fs, filepath.Join(u.dir, m.name)); ok {
			rules = append(rules, Rule{Path: m.name, Pattern: m.pattern})
		}
	}
	inits, err := u.packageInits()
	if err != nil {
		return nil, err
	}
	for _, file := range inits {
		rel, err := filepath.Rel(u.dir, file)
		if err != nil {
			return nil, err
		}
		rules = append(rules, Rule{Path: filepath.ToSlash(rel), Pattern: initPattern})
	}
	return rules, nil
}
