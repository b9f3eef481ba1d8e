package versionupgrade

import (
	"os"

	"github.com/oneconcern/nr/pkg/errors"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v2"
)

// ConfigFile is the name of the configuration file looked up in the project directory
const ConfigFile = ".versionupgrade.yaml"

// Rule tells where a version is written in a file.
//
// Pattern is a regular expression. The version is either captured by a group
// named "version", or written as the "{version}" placeholder.
type Rule struct {
	Path    string `yaml:"path"`
	Pattern string `yaml:"pattern"`
}

// Config of a project
type Config struct {
	// Version overrides the detection of the current version
	Version string `yaml:"version,omitempty"`
	Files   []Rule `yaml:"files,omitempty"`
}

// LoadConfig reads a configuration file. A missing file yields an empty config.
func LoadConfig(afs afero.Fs, file string) (*Config, error) {
	data, err := afero.ReadFile(afs, file)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err = yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, errors.New("invalid config " + file).Wrap(err)
	}
	for i, rule := range cfg.Files {
		if rule.Path == "" || rule.Pattern == "" {
			return nil, errors.Newf("invalid config %s: rule %d needs a path and a pattern", file, i+1)
		}
	}
	return &cfg, nil
}
