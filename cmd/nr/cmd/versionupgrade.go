package cmd

import (
	"path/filepath"

	"github.com/oneconcern/nr/pkg/versionupgrade"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var versionUpgradeCmd = &cobra.Command{
	Use:   "versionupgrade [PART|VERSION]",
	Short: "Bump the version of a project in all the files where it appears",
	Long: `Bump the version of a project in all the files where it appears.

The current version is read from the configuration file, or detected from
package.json, pyproject.toml, Cargo.toml, setup.cfg, setup.py or the
__version__ of a Python package, in this order.

The argument is either a part to bump (major, minor, patch, pre) or an
explicit new version. Without argument, the current version is printed.

The configuration file (.versionupgrade.yaml) may pin the version and list
the files to rewrite, with a regular expression where {version} stands for
the version:

  version: 1.2.0
  files:
    - path: src/app/__init__.py
      pattern: __version__ = "{version}"`,
	Example: `% nr versionupgrade minor --dry
pyproject.toml:3
- version = "1.2.0"
+ version = "1.3.0"`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir, err := paths.Canonical(nrFlags.upgrade.dir, "")
		if err != nil {
			wrapFatalln("resolve project directory", err)
			return
		}
		configFile := filepath.Join(dir, versionupgrade.ConfigFile)
		if nrFlags.upgrade.config != "" {
			if configFile, err = paths.Canonical(nrFlags.upgrade.config, ""); err != nil {
				wrapFatalln("resolve config file", err)
				return
			}
		}
		cfg, err := versionupgrade.LoadConfig(appFs, configFile)
		if err != nil {
			wrapFatalln("load config", err)
			return
		}

		u := versionupgrade.New(appFs, dir, versionupgrade.WithPaths(paths), versionupgrade.WithLogger(logger))
		current, err := u.Detect(cfg)
		if err != nil {
			wrapFatalln("detect version", err)
			return
		}
		logger.Debug("version detected", zap.Stringer("version", current.Version), zap.String("raw", current.Raw), zap.String("source", current.Source))
		if len(args) == 0 {
			outln(cmd, current.Version)
			return
		}

		target, err := versionupgrade.Target(current.Version, args[0])
		if err != nil {
			wrapFatalln("compute new version", err)
			return
		}
		rules, err := u.Rules(cfg)
		if err != nil {
			wrapFatalln("list version rules", err)
			return
		}
		changes, err := u.Plan(rules, current.Version, target)
		if err != nil {
			wrapFatalln("plan version upgrade", err)
			return
		}

		for _, change := range changes {
			rel, err := paths.Rel(change.Path, dir, false)
			if err != nil {
				rel = change.Path
			}
			printf(cmd, "%s:%d\n", rel, change.Line)
			outln(cmd, colorRemoved.Sprint("- "+change.Before))
			outln(cmd, colorAdded.Sprint("+ "+change.After))
		}
		if nrFlags.upgrade.dry {
			return
		}
		if err := u.Apply(changes); err != nil {
			wrapFatalln("apply version upgrade", err)
			return
		}
		printf(cmd, "%s -> %s\n", current.Version, target)
	},
}

func init() {
	addDryFlag(versionUpgradeCmd)
	addUpgradeConfigFlag(versionUpgradeCmd)
	addProjectDirFlag(versionUpgradeCmd)
	rootCmd.AddCommand(versionUpgradeCmd)
}
