package cmd

import (
	"os"

	"github.com/oneconcern/nr/pkg/gitignore"
	"github.com/spf13/cobra"
)

var gitignoreCmd = &cobra.Command{
	Use:   "gitignore",
	Short: "Commands to evaluate .gitignore files",
}

var gitignoreCheckCmd = &cobra.Command{
	Use:   "check PATHS...",
	Short: "Tell which paths are ignored by the .gitignore files of a tree",
	Long: `Tell which paths are ignored by the .gitignore files found under the root directory.

Ignored paths are printed. With --verbose, paths which are not ignored are
printed too. The command exits with status 2 when none of the paths is ignored.`,
	Example: `% nr gitignore check build/out.o main.go -v
ignored  build/out.o
         main.go`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root, err := paths.Canonical(nrFlags.gitignore.root, "")
		if err != nil {
			wrapFatalln("resolve root", err)
			return
		}
		stack, err := gitignore.LoadTree(appFs, root)
		if err != nil {
			wrapFatalln("load .gitignore files", err)
			return
		}
		logger.Debug("gitignore files loaded")

		var ignored int
		for _, arg := range args {
			p, err := paths.Canonical(arg, "")
			if err != nil {
				wrapFatalln("resolve "+arg, err)
				return
			}
			isDir, _ := isDirectory(p)
			switch stack.Match(p, isDir) {
			case gitignore.Ignored:
				ignored++
				printf(cmd, "%s  %s\n", colorIgnored.Sprint("ignored"), arg)
			case gitignore.Included:
				if nrFlags.gitignore.verbose {
					printf(cmd, "%s %s\n", colorIncluded.Sprint("included"), arg)
				}
			default:
				if nrFlags.gitignore.verbose {
					printf(cmd, "         %s\n", arg)
				}
			}
		}
		if ignored == 0 {
			wrapFatalWithCodef(2, "none of the %d paths is ignored", len(args))
		}
	},
}

func isDirectory(p string) (bool, error) {
	info, err := appFs.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

func init() {
	addGitignoreRootFlag(gitignoreCheckCmd)
	addVerboseFlag(gitignoreCheckCmd)
	gitignoreCmd.AddCommand(gitignoreCheckCmd)
	rootCmd.AddCommand(gitignoreCmd)
}
