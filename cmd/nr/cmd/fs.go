package cmd

import (
	"github.com/oneconcern/nr/pkg/fs"
	"github.com/spf13/cobra"
)

var fsCmd = &cobra.Command{
	Use:   "fs",
	Short: "Commands to resolve, match and compare paths",
}

var canonicalCmd = &cobra.Command{
	Use:   "canonical PATHS...",
	Short: "Print the canonical form of paths",
	Long: `Print the absolute, normalized form of paths. On case-insensitive
filesystems, the case of the existing elements is corrected too.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, arg := range args {
			p, err := paths.Canonical(arg, nrFlags.fs.parent)
			if err != nil {
				wrapFatalln("canonical "+arg, err)
				return
			}
			outln(cmd, p)
		}
	},
}

var relCmd = &cobra.Command{
	Use:   "rel PATHS...",
	Short: "Print paths relative to a parent directory",
	Long: `Print paths relative to the parent directory. Paths outside of the parent
are printed as absolute paths, unless --par is set.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, arg := range args {
			p, err := paths.Rel(arg, nrFlags.fs.parent, nrFlags.fs.par)
			if err != nil {
				wrapFatalln("rel "+arg, err)
				return
			}
			outln(cmd, p)
		}
	},
}

var chmodCmd = &cobra.Command{
	Use:   "chmod MODE FILES...",
	Short: "Apply a symbolic or octal mode to files",
	Long: `Apply a mode to files. The mode is either octal (755) or a list of
symbolic clauses such as "u+x,go-w" or "a=r".`,
	Example: `% nr fs chmod u+x,go-w scripts/build.sh
rwxr-xr-x scripts/build.sh`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		files, err := canonicalAll(args[1:])
		if err != nil {
			wrapFatalln("chmod", err)
			return
		}
		for i, file := range files {
			if err := paths.Chmod(file, args[0]); err != nil {
				wrapFatalln("chmod "+args[i+1], err)
				return
			}
			info, err := appFs.Stat(file)
			if err != nil {
				wrapFatalln("stat "+file, err)
				return
			}
			printf(cmd, "%s %s\n", fs.ChmodRepr(info.Mode().Perm()), args[i+1])
		}
	},
}

var globCmd = &cobra.Command{
	Use:   "glob PATTERNS...",
	Short: "Print the paths matching glob patterns",
	Long: `Print the paths matching glob patterns, with support for "**".

Every exclude removes one match only: to keep a file otherwise excluded by a
pattern, list it among the patterns as well.`,
	Example: `% nr fs glob 'pkg/**/*.go' -e 'pkg/**/*_test.go'`,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		matches, err := paths.Glob(args, fs.GlobOptions{
			Parent:              nrFlags.fs.parent,
			Excludes:            nrFlags.fs.excludes,
			IncludeDotfiles:     nrFlags.fs.dotfiles,
			IgnoreFalseExcludes: nrFlags.fs.ignoreFalseExcludes,
		})
		if err != nil {
			wrapFatalln("glob", err)
			return
		}
		for _, match := range matches {
			outln(cmd, match)
		}
	},
}

var staleCmd = &cobra.Command{
	Use:   "stale --src FILE... --dst FILE...",
	Short: "Tell if generated files are out of date with respect to their sources",
	Long: `Tell if generated files are out of date: when any of them is missing, or
when any source is newer than the oldest of them. Prints "stale" or "fresh",
and exits with status 1 when fresh.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		srcs, err := canonicalAll(nrFlags.fs.sources)
		if err != nil {
			wrapFatalln("resolve sources", err)
			return
		}
		dsts, err := canonicalAll(nrFlags.fs.targets)
		if err != nil {
			wrapFatalln("resolve targets", err)
			return
		}
		stale, err := paths.CompareAllTimestamps(srcs, dsts)
		if err != nil {
			wrapFatalln("compare timestamps", err)
			return
		}
		if stale {
			outln(cmd, colorAdded.Sprint("stale"))
			return
		}
		outln(cmd, "fresh")
		osExit(1)
	},
}

var fixCaseCmd = &cobra.Command{
	Use:   "fixcase PATHS...",
	Short: "Print paths with the case of their existing elements fixed",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, arg := range args {
			p, err := paths.Abs(arg, nrFlags.fs.parent)
			if err != nil {
				wrapFatalln("fixcase "+arg, err)
				return
			}
			outln(cmd, paths.FixCase(p))
		}
	},
}

func init() {
	for _, c := range []*cobra.Command{canonicalCmd, relCmd, globCmd, fixCaseCmd} {
		addParentFlag(c)
	}
	addParFlag(relCmd)
	addGlobExcludeFlag(globCmd)
	addDotfilesFlag(globCmd)
	addIgnoreFalseExcludesFlag(globCmd)
	addSourcesFlag(staleCmd)
	addTargetsFlag(staleCmd)

	fsCmd.AddCommand(canonicalCmd, relCmd, chmodCmd, globCmd, staleCmd, fixCaseCmd)
	rootCmd.AddCommand(fsCmd)
}
