// Copyright © 2018 One Concern

package cmd

import (
	"strings"
	"time"

	"github.com/oneconcern/nr/pkg/archive"
	"github.com/oneconcern/nr/pkg/dlogger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var _ pflag.Value = (*archive.Format)(nil)

type flagsT struct {
	root struct {
		logLevel string
	}
	doc struct {
		docTarget string
	}
	archive struct {
		output    string
		format    archive.Format
		prefix    string
		excludes  []string
		gitignore bool
		checksum  bool
	}
	license struct {
		author string
		year   string
		output string
		list   bool
	}
	jira struct {
		hoursPerDay float64
		daysPerWeek float64
	}
	pyblob struct {
		output       string
		compress     bool
		exportSymbol string
		blobOnly     bool
	}
	upgrade struct {
		dry    bool
		config string
		dir    string
	}
	gitignore struct {
		root    string
		verbose bool
	}
	fs struct {
		parent              string
		par                 bool
		excludes            []string
		dotfiles            bool
		ignoreFalseExcludes bool
		sources             []string
		targets             []string
	}
	watch struct {
		debounce  time.Duration
		gitignore bool
		initial   bool
		restart   bool
	}
}

var nrFlags = flagsT{}

func addLogLevelFlag(cmd *cobra.Command) string {
	logLevel := "loglevel"
	cmd.PersistentFlags().StringVar(&nrFlags.root.logLevel, logLevel, "",
		"The logging level. Levels by increasing order of verbosity: "+strings.Join(dlogger.Levels(), ", ")+". Defaults to the config (warn).")
	return logLevel
}

func addTargetFlag(cmd *cobra.Command) string {
	target := "target-dir"
	cmd.Flags().StringVar(&nrFlags.doc.docTarget, target, ".", "The target directory for the generated documentation")
	return target
}

func addOutputFlag(cmd *cobra.Command, dest *string, usage string) string {
	output := "output"
	cmd.Flags().StringVarP(dest, output, "o", "", usage)
	return output
}

func addArchiveFormatFlag(cmd *cobra.Command) string {
	format := "format"
	cmd.Flags().Var(&nrFlags.archive.format, format, "The archive format, one of tar, tar.gz, tar.zst, zip. Inferred from the output name when omitted")
	return format
}

func addArchivePrefixFlag(cmd *cobra.Command) string {
	prefix := "prefix"
	cmd.Flags().StringVar(&nrFlags.archive.prefix, prefix, "", "A directory prepended to all names in the archive")
	return prefix
}

func addArchiveExcludeFlag(cmd *cobra.Command) string {
	exclude := "exclude"
	cmd.Flags().StringArrayVarP(&nrFlags.archive.excludes, exclude, "e", nil,
		"A glob pattern of names to exclude. Patterns without a slash match base names. May be repeated")
	return exclude
}

func addArchiveGitignoreFlag(cmd *cobra.Command) string {
	gitignore := "gitignore"
	cmd.Flags().BoolVar(&nrFlags.archive.gitignore, gitignore, false, "Exclude the files ignored by .gitignore files, and .git directories")
	return gitignore
}

func addArchiveChecksumFlag(cmd *cobra.Command) string {
	checksum := "checksum"
	cmd.Flags().BoolVar(&nrFlags.archive.checksum, checksum, false, "Write the BLAKE2b checksum of the archive to OUTPUT"+archive.ChecksumSuffix)
	return checksum
}

func addLicenseAuthorFlag(cmd *cobra.Command) string {
	author := "author"
	cmd.Flags().StringVar(&nrFlags.license.author, author, "", "The copyright holder. Defaults to the configured author, then to $USER")
	return author
}

func addLicenseYearFlag(cmd *cobra.Command) string {
	year := "year"
	cmd.Flags().StringVar(&nrFlags.license.year, year, "", "The copyright year. Defaults to the current year")
	return year
}

func addLicenseListFlag(cmd *cobra.Command) string {
	list := "list"
	cmd.Flags().BoolVar(&nrFlags.license.list, list, false, "List the available licenses")
	return list
}

func addHoursPerDayFlag(cmd *cobra.Command) string {
	hours := "hours-per-day"
	cmd.Flags().Float64Var(&nrFlags.jira.hoursPerDay, hours, 0, "Hours in a working day. Defaults to the config (8)")
	return hours
}

func addDaysPerWeekFlag(cmd *cobra.Command) string {
	days := "days-per-week"
	cmd.Flags().Float64Var(&nrFlags.jira.daysPerWeek, days, 0, "Days in a working week. Defaults to the config (5)")
	return days
}

func addCompressFlag(cmd *cobra.Command) string {
	compress := "compress"
	cmd.Flags().BoolVarP(&nrFlags.pyblob.compress, compress, "c", false, "Compress the sources with zlib")
	return compress
}

func addExportSymbolFlag(cmd *cobra.Command) string {
	export := "export-symbol"
	cmd.Flags().StringVar(&nrFlags.pyblob.exportSymbol, export, "", "Bind the loaded module to this name. Requires a single file")
	return export
}

func addBlobOnlyFlag(cmd *cobra.Command) string {
	blobOnly := "blob-only"
	cmd.Flags().BoolVar(&nrFlags.pyblob.blobOnly, blobOnly, false, "Print the encoded blob of each file instead of a script")
	return blobOnly
}

func addDryFlag(cmd *cobra.Command) string {
	dry := "dry"
	cmd.Flags().BoolVarP(&nrFlags.upgrade.dry, dry, "n", false, "Print the changes without writing them")
	return dry
}

func addUpgradeConfigFlag(cmd *cobra.Command) string {
	cfg := "config"
	cmd.Flags().StringVar(&nrFlags.upgrade.config, cfg, "", "The configuration file. Defaults to .versionupgrade.yaml in the project directory")
	return cfg
}

func addProjectDirFlag(cmd *cobra.Command) string {
	dir := "dir"
	cmd.Flags().StringVarP(&nrFlags.upgrade.dir, dir, "C", ".", "The project directory")
	return dir
}

func addGitignoreRootFlag(cmd *cobra.Command) string {
	root := "root"
	cmd.Flags().StringVar(&nrFlags.gitignore.root, root, ".", "The root of the tree holding .gitignore files")
	return root
}

func addVerboseFlag(cmd *cobra.Command) string {
	verbose := "verbose"
	cmd.Flags().BoolVarP(&nrFlags.gitignore.verbose, verbose, "v", false, "Also print paths which are not ignored")
	return verbose
}

func addParentFlag(cmd *cobra.Command) string {
	parent := "parent"
	cmd.Flags().StringVar(&nrFlags.fs.parent, parent, "", "The parent directory. Defaults to the current directory")
	return parent
}

func addParFlag(cmd *cobra.Command) string {
	par := "par"
	cmd.Flags().BoolVar(&nrFlags.fs.par, par, false, "Allow the relative path to go up to parent directories")
	return par
}

func addGlobExcludeFlag(cmd *cobra.Command) string {
	exclude := "exclude"
	cmd.Flags().StringArrayVarP(&nrFlags.fs.excludes, exclude, "e", nil, "A pattern or file to remove from the matches. May be repeated")
	return exclude
}

func addDotfilesFlag(cmd *cobra.Command) string {
	dotfiles := "dotfiles"
	cmd.Flags().BoolVar(&nrFlags.fs.dotfiles, dotfiles, false, "Let wildcards match names starting with a dot")
	return dotfiles
}

func addIgnoreFalseExcludesFlag(cmd *cobra.Command) string {
	ignore := "ignore-false-excludes"
	cmd.Flags().BoolVar(&nrFlags.fs.ignoreFalseExcludes, ignore, false, "Do not fail when an exclude does not match anything")
	return ignore
}

func addSourcesFlag(cmd *cobra.Command) string {
	src := "src"
	cmd.Flags().StringArrayVar(&nrFlags.fs.sources, src, nil, "A source file. May be repeated")
	return src
}

func addTargetsFlag(cmd *cobra.Command) string {
	dst := "dst"
	cmd.Flags().StringArrayVar(&nrFlags.fs.targets, dst, nil, "A file produced from the sources. May be repeated")
	return dst
}

func addDebounceFlag(cmd *cobra.Command) string {
	debounce := "debounce"
	cmd.Flags().DurationVar(&nrFlags.watch.debounce, debounce, 300*time.Millisecond, "Wait for changes to settle for this long before running the command")
	return debounce
}

func addWatchGitignoreFlag(cmd *cobra.Command) string {
	gitignore := "gitignore"
	cmd.Flags().BoolVar(&nrFlags.watch.gitignore, gitignore, true, "Ignore changes to files ignored by .gitignore files")
	return gitignore
}

func addInitialFlag(cmd *cobra.Command) string {
	initial := "initial"
	cmd.Flags().BoolVar(&nrFlags.watch.initial, initial, false, "Run the command once before watching")
	return initial
}

func addRestartFlag(cmd *cobra.Command) string {
	restart := "restart"
	cmd.Flags().BoolVar(&nrFlags.watch.restart, restart, false, "Stop the running command when a new change is detected")
	return restart
}
